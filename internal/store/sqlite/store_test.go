package sqlite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medcampus/medcampus/internal/models"
	"github.com/medcampus/medcampus/internal/store"
)

func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	s, err := NewSQLiteStore(":memory:", "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

func strPtr(v string) *string { return &v }

func seedStudent(t *testing.T, s *SQLiteStore, matricule string) *models.Student {
	student := &models.Student{
		Matricule:     matricule,
		Nom:           "Dupont",
		Prenom:        "Jean",
		Email:         "jean.dupont@medcampus.example",
		Filiere:       "Médecine",
		Niveau:        "L1",
		DateNaissance: strPtr("1995-03-15"),
	}
	require.NoError(t, s.CreateStudent(student))
	return student
}

func seedCourse(t *testing.T, s *SQLiteStore, code, filiere, niveau string) *models.Course {
	course := &models.Course{
		Code:    code,
		Titre:   "Cours " + code,
		Filiere: filiere,
		Niveau:  niveau,
		Credits: 6,
	}
	require.NoError(t, s.CreateCourse(course))
	return course
}

func TestStudents(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	student := seedStudent(t, s, "DUPJEAMED19950315")
	require.NotZero(t, student.ID)

	t.Run("get by id", func(t *testing.T) {
		got, err := s.GetStudent(student.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Dupont", got.Nom)
		assert.Equal(t, "Médecine", got.Filiere)
		require.NotNil(t, got.DateNaissance)
		assert.Equal(t, "1995-03-15", *got.DateNaissance)
	})

	t.Run("get by matricule", func(t *testing.T) {
		got, err := s.GetStudentByMatricule("DUPJEAMED19950315")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, student.ID, got.ID)
	})

	t.Run("missing student returns nil without error", func(t *testing.T) {
		got, err := s.GetStudent(9999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("matricule existence check", func(t *testing.T) {
		taken, err := s.StudentMatriculeExists("DUPJEAMED19950315")
		require.NoError(t, err)
		assert.True(t, taken)

		free, err := s.StudentMatriculeExists("NOPE")
		require.NoError(t, err)
		assert.False(t, free)
	})

	t.Run("duplicate matricule yields ErrDuplicate", func(t *testing.T) {
		err := s.CreateStudent(&models.Student{
			Matricule: "DUPJEAMED19950315",
			Nom:       "Dupont",
			Prenom:    "Jeanne",
			Email:     "jeanne.dupont@medcampus.example",
		})
		assert.True(t, errors.Is(err, store.ErrDuplicate))
	})
}

func TestTeachers(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	teacher := &models.Teacher{
		Matricule:  "MARCLACAR19800101",
		Nom:        "Martin",
		Prenom:     "Claire",
		Email:      "claire.martin@medcampus.example",
		Specialite: "Cardiologie",
	}
	require.NoError(t, s.CreateTeacher(teacher))
	require.NotZero(t, teacher.ID)

	taken, err := s.TeacherMatriculeExists("MARCLACAR19800101")
	require.NoError(t, err)
	assert.True(t, taken)

	err = s.CreateTeacher(&models.Teacher{
		Matricule: "MARCLACAR19800101",
		Nom:       "Martin",
		Prenom:    "Claire",
		Email:     "claire.martin@medcampus.example",
	})
	assert.True(t, errors.Is(err, store.ErrDuplicate))
}

func TestGrades(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	student := seedStudent(t, s, "DUPJEAMED19950315")
	anat := seedCourse(t, s, "ANAT101", "Médecine", "L1")
	bioc := seedCourse(t, s, "BIOC101", "Médecine", "L1")
	orphan := seedCourse(t, s, "DIV001", "", "")

	grade := &models.Grade{
		StudentID:      student.ID,
		CourseID:       anat.ID,
		Valeur:         12.5,
		Semestre:       "S1",
		Session:        models.SessionNormale,
		DateEvaluation: 1756382400,
	}
	require.NoError(t, s.CreateGrade(grade))
	require.NotZero(t, grade.ID)

	t.Run("get and update round trip", func(t *testing.T) {
		got, err := s.GetGrade(grade.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 12.5, got.Valeur)
		assert.Equal(t, models.SessionNormale, got.Session)
		assert.False(t, got.EstRattrape)

		got.Valeur = 8
		got.Session = models.SessionRattrapage
		require.NoError(t, s.UpdateGrade(got))

		updated, err := s.GetGrade(grade.ID)
		require.NoError(t, err)
		assert.Equal(t, 8.0, updated.Valeur)
		assert.Equal(t, models.SessionRattrapage, updated.Session)
	})

	t.Run("list joins courses and sorts by code", func(t *testing.T) {
		require.NoError(t, s.CreateGrade(&models.Grade{
			StudentID: student.ID, CourseID: bioc.ID, Valeur: 14,
			Session: models.SessionNormale, DateEvaluation: 1756382400,
		}))
		require.NoError(t, s.CreateGrade(&models.Grade{
			StudentID: student.ID, CourseID: orphan.ID, Valeur: 11,
			Session: models.SessionNormale, DateEvaluation: 1756382400,
		}))

		grades, err := s.ListStudentGrades(student.ID)
		require.NoError(t, err)
		require.Len(t, grades, 3)
		assert.Equal(t, "ANAT101", grades[0].CodeCours)
		assert.Equal(t, "BIOC101", grades[1].CodeCours)
		assert.Equal(t, "DIV001", grades[2].CodeCours)
		assert.Equal(t, "Médecine", grades[0].Filiere)
		assert.Equal(t, "", grades[2].Filiere)
	})

	t.Run("group listing filters on filiere and niveau", func(t *testing.T) {
		grades, err := s.ListGroupGrades(student.ID, "Médecine", "L1")
		require.NoError(t, err)
		assert.Len(t, grades, 2)

		orphans, err := s.ListGroupGrades(student.ID, "", "")
		require.NoError(t, err)
		assert.Len(t, orphans, 1)
		assert.Equal(t, "DIV001", orphans[0].CodeCours)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteGrade(grade.ID))
		got, err := s.GetGrade(grade.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestCertificates(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	student := seedStudent(t, s, "DUPJEAMED19950315")

	newCert := func(code string) *models.Certificate {
		return &models.Certificate{
			StudentID:       student.ID,
			Filiere:         "Médecine",
			NiveauValide:    "L1",
			NiveauSuivant:   "L2",
			AnneeAcademique: "2026-2027",
			CoursValides: models.ValidatedCourses{
				{Titre: "Anatomie", Code: "ANAT101", Note: 14, Session: models.SessionNormale},
			},
			MoyenneGenerale:  14,
			Mention:          "Bien",
			CodeVerification: code,
			CreatedAt:        1756382400,
		}
	}

	cert := newCert("CERT-MED-L1-2026-AAAA1111")
	require.NoError(t, s.CreateCertificate(cert))
	require.NotZero(t, cert.ID)

	t.Run("get by triple", func(t *testing.T) {
		got, err := s.GetCertificate(student.ID, "Médecine", "L1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, cert.ID, got.ID)
		require.Len(t, got.CoursValides, 1)
		assert.Equal(t, "ANAT101", got.CoursValides[0].Code)
	})

	t.Run("get by verification code", func(t *testing.T) {
		got, err := s.GetCertificateByCode("CERT-MED-L1-2026-AAAA1111")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, cert.ID, got.ID)

		missing, err := s.GetCertificateByCode("CERT-NOPE")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("duplicate triple yields ErrDuplicate", func(t *testing.T) {
		dup := newCert("CERT-MED-L1-2026-BBBB2222")
		err := s.CreateCertificate(dup)
		assert.True(t, errors.Is(err, store.ErrDuplicate))
	})

	t.Run("duplicate verification code yields ErrDuplicate", func(t *testing.T) {
		dup := newCert("CERT-MED-L1-2026-AAAA1111")
		dup.NiveauValide = "L2"
		dup.NiveauSuivant = "L3"
		err := s.CreateCertificate(dup)
		assert.True(t, errors.Is(err, store.ErrDuplicate))
	})

	t.Run("signing flips est_signe and allows re-signing", func(t *testing.T) {
		sig := strPtr("ZmFrZS1zaWduYXR1cmU=")
		require.NoError(t, s.SignCertificate(cert.ID, "Pr. Martin", "Doyenne", sig))

		got, err := s.GetCertificateByID(cert.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.EstSigne)
		require.NotNil(t, got.NomResponsable)
		assert.Equal(t, "Pr. Martin", *got.NomResponsable)

		require.NoError(t, s.SignCertificate(cert.ID, "Pr. Durand", "Doyen", nil))
		got, err = s.GetCertificateByID(cert.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pr. Durand", *got.NomResponsable)
		assert.Nil(t, got.SignatureBase64)
	})

	t.Run("student listing is newest first", func(t *testing.T) {
		second := newCert("CERT-MED-L2-2027-CCCC3333")
		second.NiveauValide = "L2"
		second.NiveauSuivant = "L3"
		second.CreatedAt = 1756382400 + 3600
		require.NoError(t, s.CreateCertificate(second))

		certs, err := s.ListStudentCertificates(student.ID)
		require.NoError(t, err)
		require.Len(t, certs, 2)
		assert.Equal(t, second.ID, certs[0].ID)

		all, err := s.ListCertificates()
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}
