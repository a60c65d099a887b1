package models

import (
	"github.com/go-playground/validator/v10"
)

// Session of a grade: earned during the normal evaluation period or the
// makeup (rattrapage) period.
const (
	SessionNormale    = "normale"
	SessionRattrapage = "rattrapage"
)

type Student struct {
	ID            int64   `db:"id_etudiant" json:"id_etudiant"`
	Matricule     string  `db:"matricule" json:"matricule"`
	Nom           string  `db:"nom" json:"nom" validate:"required,max=255"`
	Prenom        string  `db:"prenom" json:"prenom" validate:"required,max=255"`
	Email         string  `db:"email" json:"email" validate:"required,email"`
	Filiere       string  `db:"filiere" json:"filiere"`
	Niveau        string  `db:"niveau" json:"niveau"`
	DateNaissance *string `db:"date_naissance" json:"date_naissance" validate:"omitempty,datetime=2006-01-02"`
}

func (s *Student) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}
