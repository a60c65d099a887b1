package models

import (
	"github.com/go-playground/validator/v10"
)

type Teacher struct {
	ID            int64   `db:"id_enseignant" json:"id_enseignant"`
	Matricule     string  `db:"matricule" json:"matricule"`
	Nom           string  `db:"nom" json:"nom" validate:"required,max=255"`
	Prenom        string  `db:"prenom" json:"prenom" validate:"required,max=255"`
	Email         string  `db:"email" json:"email" validate:"required,email"`
	Specialite    string  `db:"specialite" json:"specialite"`
	DateNaissance *string `db:"date_naissance" json:"date_naissance" validate:"omitempty,datetime=2006-01-02"`
}

func (t *Teacher) Validate() error {
	validate := validator.New()
	return validate.Struct(t)
}
