package postgres

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/medcampus/medcampus/internal/models"
	"github.com/medcampus/medcampus/internal/store"
)

func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	ctx := context.Background()

	postgres, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := postgres.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(dsn, "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		s.Close()
		postgres.Terminate(ctx)
	}

	return s, cleanup
}

func strPtr(v string) *string { return &v }

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		log.Println("Skipping Postgres integration tests. Use -short=false to run them.")
		os.Exit(0)
	}
	log.Println("Starting Postgres store tests...")
	code := m.Run()
	log.Println("Finished Postgres store tests")
	os.Exit(code)
}

func TestStudentLifecycle(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	student := &models.Student{
		Matricule:     "DUPJEAMED19950315",
		Nom:           "Dupont",
		Prenom:        "Jean",
		Email:         "jean.dupont@medcampus.example",
		Filiere:       "Médecine",
		Niveau:        "L1",
		DateNaissance: strPtr("1995-03-15"),
	}

	t.Run("create assigns the generated id", func(t *testing.T) {
		require.NoError(t, s.CreateStudent(student))
		assert.NotZero(t, student.ID)
	})

	t.Run("read back by id and matricule", func(t *testing.T) {
		got, err := s.GetStudent(student.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Médecine", got.Filiere)

		byMatricule, err := s.GetStudentByMatricule("DUPJEAMED19950315")
		require.NoError(t, err)
		require.NotNil(t, byMatricule)
		assert.Equal(t, student.ID, byMatricule.ID)
	})

	t.Run("duplicate matricule is ErrDuplicate", func(t *testing.T) {
		err := s.CreateStudent(&models.Student{
			Matricule: "DUPJEAMED19950315",
			Nom:       "Dupont",
			Prenom:    "Jeanne",
			Email:     "jeanne.dupont@medcampus.example",
		})
		assert.True(t, errors.Is(err, store.ErrDuplicate))
	})
}

func TestGradeLifecycle(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	student := &models.Student{
		Matricule: "DUPJEAMED19950315",
		Nom:       "Dupont",
		Prenom:    "Jean",
		Email:     "jean.dupont@medcampus.example",
	}
	require.NoError(t, s.CreateStudent(student))

	course := &models.Course{Code: "ANAT101", Titre: "Anatomie", Filiere: "Médecine", Niveau: "L1", Credits: 6}
	require.NoError(t, s.CreateCourse(course))

	grade := &models.Grade{
		StudentID:      student.ID,
		CourseID:       course.ID,
		Valeur:         8,
		Session:        models.SessionRattrapage,
		DateEvaluation: time.Now().Unix(),
	}
	require.NoError(t, s.CreateGrade(grade))
	require.NotZero(t, grade.ID)

	t.Run("update persists reconciliation state", func(t *testing.T) {
		grade.Valeur = 13
		grade.Session = models.SessionNormale
		grade.EstRattrape = true
		require.NoError(t, s.UpdateGrade(grade))

		got, err := s.GetGrade(grade.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 13.0, got.Valeur)
		assert.Equal(t, models.SessionNormale, got.Session)
		assert.True(t, got.EstRattrape)
	})

	t.Run("value check constraint rejects out-of-range grades", func(t *testing.T) {
		err := s.CreateGrade(&models.Grade{
			StudentID:      student.ID,
			CourseID:       course.ID,
			Valeur:         25,
			Session:        models.SessionNormale,
			DateEvaluation: time.Now().Unix(),
		})
		assert.Error(t, err)
	})

	t.Run("group listing joins the course", func(t *testing.T) {
		grades, err := s.ListGroupGrades(student.ID, "Médecine", "L1")
		require.NoError(t, err)
		require.Len(t, grades, 1)
		assert.Equal(t, "ANAT101", grades[0].CodeCours)
		assert.True(t, grades[0].EstRattrape)
	})
}

func TestCertificateLifecycle(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	student := &models.Student{
		Matricule: "DUPJEAMED19950315",
		Nom:       "Dupont",
		Prenom:    "Jean",
		Email:     "jean.dupont@medcampus.example",
	}
	require.NoError(t, s.CreateStudent(student))

	cert := &models.Certificate{
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
		CodeVerification: "CERT-MED-L1-2026-AAAA1111",
		CreatedAt:        time.Now().Unix(),
	}
	require.NoError(t, s.CreateCertificate(cert))
	require.NotZero(t, cert.ID)

	t.Run("frozen course list round trips through the json column", func(t *testing.T) {
		got, err := s.GetCertificate(student.ID, "Médecine", "L1")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.CoursValides, 1)
		assert.Equal(t, 14.0, got.CoursValides[0].Note)
	})

	t.Run("triple unique constraint", func(t *testing.T) {
		err := s.CreateCertificate(&models.Certificate{
			StudentID:        student.ID,
			Filiere:          "Médecine",
			NiveauValide:     "L1",
			NiveauSuivant:    "L2",
			AnneeAcademique:  "2026-2027",
			CoursValides:     models.ValidatedCourses{},
			MoyenneGenerale:  12,
			Mention:          "Assez Bien",
			CodeVerification: "CERT-MED-L1-2026-BBBB2222",
			CreatedAt:        time.Now().Unix(),
		})
		assert.True(t, errors.Is(err, store.ErrDuplicate))
	})

	t.Run("verification code unique constraint", func(t *testing.T) {
		err := s.CreateCertificate(&models.Certificate{
			StudentID:        student.ID,
			Filiere:          "Médecine",
			NiveauValide:     "L2",
			NiveauSuivant:    "L3",
			AnneeAcademique:  "2026-2027",
			CoursValides:     models.ValidatedCourses{},
			MoyenneGenerale:  12,
			Mention:          "Assez Bien",
			CodeVerification: "CERT-MED-L1-2026-AAAA1111",
			CreatedAt:        time.Now().Unix(),
		})
		assert.True(t, errors.Is(err, store.ErrDuplicate))
	})

	t.Run("signing", func(t *testing.T) {
		require.NoError(t, s.SignCertificate(cert.ID, "Pr. Martin", "Doyenne", nil))
		got, err := s.GetCertificateByID(cert.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.EstSigne)
	})
}
