package academic

import (
	"errors"

	"github.com/medcampus/medcampus/internal/models"
	"github.com/medcampus/medcampus/internal/store"
)

// RegisterStudent derives a matricule and persists the student. The
// check-then-act window of the matricule search is closed by the storage
// unique constraint: on a duplicate, the derivation runs once more against
// the fresh state before giving up.
func (e *Evaluator) RegisterStudent(student *models.Student) error {
	if err := student.Validate(); err != nil {
		return NewValidationError("invalid student", FieldError{Field: "etudiant", Error: err.Error()})
	}

	for attempt := 0; attempt < 2; attempt++ {
		matricule, err := GenerateMatricule(
			e.store.StudentMatriculeExists,
			student.Nom, student.Prenom, student.Filiere, student.DateNaissance,
		)
		if err != nil {
			return err
		}
		student.Matricule = matricule

		err = e.store.CreateStudent(student)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return err
		}
	}

	return NewConflictError("matricule collision for %s %s", student.Nom, student.Prenom)
}

// RegisterTeacher mirrors RegisterStudent, with the specialty taking the
// program's slot in the matricule.
func (e *Evaluator) RegisterTeacher(teacher *models.Teacher) error {
	if err := teacher.Validate(); err != nil {
		return NewValidationError("invalid teacher", FieldError{Field: "enseignant", Error: err.Error()})
	}

	for attempt := 0; attempt < 2; attempt++ {
		matricule, err := GenerateMatricule(
			e.store.TeacherMatriculeExists,
			teacher.Nom, teacher.Prenom, teacher.Specialite, teacher.DateNaissance,
		)
		if err != nil {
			return err
		}
		teacher.Matricule = matricule

		err = e.store.CreateTeacher(teacher)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return err
		}
	}

	return NewConflictError("matricule collision for %s %s", teacher.Nom, teacher.Prenom)
}

// AddCourse persists a new course after validation.
func (e *Evaluator) AddCourse(course *models.Course) error {
	if err := course.Validate(); err != nil {
		return NewValidationError("invalid course", FieldError{Field: "cours", Error: err.Error()})
	}
	return e.store.CreateCourse(course)
}
