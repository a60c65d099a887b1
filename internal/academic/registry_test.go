package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medcampus/medcampus/internal/models"
	"github.com/medcampus/medcampus/internal/store"
)

func TestEvaluator_RegisterStudent(t *testing.T) {
	newStudent := func() *models.Student {
		return &models.Student{
			Nom:           "Dupont",
			Prenom:        "Jean",
			Email:         "jean.dupont@medcampus.example",
			Filiere:       "Médecine",
			DateNaissance: strPtr("1995-03-15"),
		}
	}

	t.Run("derives the matricule", func(t *testing.T) {
		st := new(MockStore)
		st.On("StudentMatriculeExists", "DUPJEAMED19950315").Return(false, nil).Once()
		st.On("CreateStudent", mock.AnythingOfType("*models.Student")).Return(nil).Once()

		student := newStudent()
		err := NewEvaluator(st).RegisterStudent(student)
		require.NoError(t, err)
		assert.Equal(t, "DUPJEAMED19950315", student.Matricule)
		st.AssertExpectations(t)
	})

	t.Run("losing the insert race regenerates once", func(t *testing.T) {
		st := new(MockStore)
		st.On("StudentMatriculeExists", "DUPJEAMED19950315").Return(false, nil).Once()
		st.On("CreateStudent", mock.AnythingOfType("*models.Student")).Return(store.ErrDuplicate).Once()
		st.On("StudentMatriculeExists", "DUPJEAMED19950315").Return(true, nil).Once()
		st.On("StudentMatriculeExists", "DUPJEAMED199503151").Return(false, nil).Once()
		st.On("CreateStudent", mock.AnythingOfType("*models.Student")).Return(nil).Once()

		student := newStudent()
		err := NewEvaluator(st).RegisterStudent(student)
		require.NoError(t, err)
		assert.Equal(t, "DUPJEAMED199503151", student.Matricule)
		st.AssertExpectations(t)
	})

	t.Run("missing required fields fail validation", func(t *testing.T) {
		st := new(MockStore)
		err := NewEvaluator(st).RegisterStudent(&models.Student{Nom: "Dupont"})
		assert.True(t, IsValidation(err))
	})
}

func TestEvaluator_RegisterTeacher(t *testing.T) {
	st := new(MockStore)
	st.On("TeacherMatriculeExists", "MARCLACAR19800101").Return(false, nil).Once()
	st.On("CreateTeacher", mock.AnythingOfType("*models.Teacher")).Return(nil).Once()

	teacher := &models.Teacher{
		Nom:           "Martin",
		Prenom:        "Claire",
		Email:         "claire.martin@medcampus.example",
		Specialite:    "Cardiologie",
		DateNaissance: strPtr("1980-01-01"),
	}
	err := NewEvaluator(st).RegisterTeacher(teacher)
	require.NoError(t, err)
	assert.Equal(t, "MARCLACAR19800101", teacher.Matricule)
	st.AssertExpectations(t)
}

func TestEvaluator_AddCourse(t *testing.T) {
	t.Run("valid course is persisted", func(t *testing.T) {
		st := new(MockStore)
		st.On("CreateCourse", mock.AnythingOfType("*models.Course")).Return(nil).Once()

		err := NewEvaluator(st).AddCourse(&models.Course{
			Code: "ANAT101", Titre: "Anatomie", Filiere: "Médecine", Niveau: "L1", Credits: 6,
		})
		require.NoError(t, err)
		st.AssertExpectations(t)
	})

	t.Run("missing code fails validation", func(t *testing.T) {
		st := new(MockStore)
		err := NewEvaluator(st).AddCourse(&models.Course{Titre: "Anatomie"})
		assert.True(t, IsValidation(err))
	})
}
