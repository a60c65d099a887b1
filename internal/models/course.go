package models

import (
	"github.com/go-playground/validator/v10"
)

type Course struct {
	ID      int64  `db:"id_cours" json:"id_cours"`
	Code    string `db:"code" json:"code" validate:"required,max=16"`
	Titre   string `db:"titre" json:"titre" validate:"required,max=255"`
	Filiere string `db:"filiere" json:"filiere"`
	Niveau  string `db:"niveau" json:"niveau"`
	Credits int    `db:"credits" json:"credits" validate:"min=0"`
}

func (c *Course) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
