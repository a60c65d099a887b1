package models

import (
	"github.com/go-playground/validator/v10"
)

// Grade is one evaluation of a student in a course. Session and EstRattrape
// are derived by the write path, never accepted from clients.
type Grade struct {
	ID             int64   `db:"id_note" json:"id_note"`
	StudentID      int64   `db:"id_etudiant" json:"id_etudiant" validate:"required"`
	CourseID       int64   `db:"id_cours" json:"id_cours" validate:"required"`
	Valeur         float64 `db:"valeur" json:"valeur" validate:"min=0,max=20"`
	Semestre       string  `db:"semestre" json:"semestre" validate:"omitempty,oneof=S1 S2 S3 S4 S5 S6"`
	Session        string  `db:"session" json:"session"`
	EstRattrape    bool    `db:"est_rattrape" json:"est_rattrape"`
	DateEvaluation int64   `db:"date_evaluation" json:"date_evaluation"`
}

func (g *Grade) Validate() error {
	validate := validator.New()
	return validate.Struct(g)
}

// GradeWithCourse is a grade joined to its course, as the eligibility
// computation consumes it. Filiere/Niveau are empty when the course has none.
type GradeWithCourse struct {
	Grade
	CodeCours  string `db:"code_cours" json:"code_cours"`
	TitreCours string `db:"titre_cours" json:"titre_cours"`
	Filiere    string `db:"filiere" json:"filiere"`
	Niveau     string `db:"niveau" json:"niveau"`
}
