package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/medcampus/medcampus/internal/models"
)

// ErrDuplicate wraps unique-constraint violations from either dialect so
// callers can react to matricule, certificate-triple and verification-code
// collisions without knowing the driver.
var ErrDuplicate = errors.New("duplicate record")

type AcademicStore interface {
	Close() error
	ApplyMigrations(dir string) error

	CreateStudent(s *models.Student) error
	GetStudent(id int64) (*models.Student, error)
	GetStudentByMatricule(matricule string) (*models.Student, error)
	StudentMatriculeExists(matricule string) (bool, error)

	CreateTeacher(t *models.Teacher) error
	TeacherMatriculeExists(matricule string) (bool, error)

	CreateCourse(c *models.Course) error
	GetCourse(id int64) (*models.Course, error)

	CreateGrade(g *models.Grade) error
	GetGrade(id int64) (*models.Grade, error)
	UpdateGrade(g *models.Grade) error
	DeleteGrade(id int64) error
	ListStudentGrades(studentID int64) ([]models.GradeWithCourse, error)
	ListGroupGrades(studentID int64, filiere, niveau string) ([]models.GradeWithCourse, error)

	CreateCertificate(c *models.Certificate) error
	GetCertificate(studentID int64, filiere, niveau string) (*models.Certificate, error)
	GetCertificateByID(id int64) (*models.Certificate, error)
	GetCertificateByCode(code string) (*models.Certificate, error)
	ListStudentCertificates(studentID int64) ([]models.Certificate, error)
	ListCertificates() ([]models.Certificate, error)
	SignCertificate(id int64, nomResponsable, titreResponsable string, signatureBase64 *string) error
}

// BaseStore provides the queries shared by the Postgres and SQLite
// implementations. Converter rewrites ? placeholders for the dialect;
// inserts that need the generated id live in the dialect stores.
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating
// dialect if needed.
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) GetStudent(id int64) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT id_etudiant, matricule, nom, prenom, email,
		       COALESCE(filiere, '') AS filiere,
		       COALESCE(niveau, '') AS niveau,
		       date_naissance
		FROM etudiants
		WHERE id_etudiant = ?
	`)

	err := s.DB.Get(&student, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

func (s *BaseStore) GetStudentByMatricule(matricule string) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT id_etudiant, matricule, nom, prenom, email,
		       COALESCE(filiere, '') AS filiere,
		       COALESCE(niveau, '') AS niveau,
		       date_naissance
		FROM etudiants
		WHERE matricule = ?
	`)

	err := s.DB.Get(&student, query, matricule)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student by matricule: %w", err)
	}
	return &student, nil
}

func (s *BaseStore) StudentMatriculeExists(matricule string) (bool, error) {
	var count int
	query := s.Converter(`SELECT COUNT(*) FROM etudiants WHERE matricule = ?`)
	if err := s.DB.Get(&count, query, matricule); err != nil {
		return false, fmt.Errorf("failed to check student matricule: %w", err)
	}
	return count > 0, nil
}

func (s *BaseStore) TeacherMatriculeExists(matricule string) (bool, error) {
	var count int
	query := s.Converter(`SELECT COUNT(*) FROM enseignants WHERE matricule = ?`)
	if err := s.DB.Get(&count, query, matricule); err != nil {
		return false, fmt.Errorf("failed to check teacher matricule: %w", err)
	}
	return count > 0, nil
}

func (s *BaseStore) GetCourse(id int64) (*models.Course, error) {
	var course models.Course
	query := s.Converter(`
		SELECT id_cours, code, titre,
		       COALESCE(filiere, '') AS filiere,
		       COALESCE(niveau, '') AS niveau,
		       credits
		FROM cours
		WHERE id_cours = ?
	`)

	err := s.DB.Get(&course, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &course, nil
}

func (s *BaseStore) GetGrade(id int64) (*models.Grade, error) {
	var grade models.Grade
	query := s.Converter(`
		SELECT id_note, id_etudiant, id_cours, valeur, semestre, session, est_rattrape, date_evaluation
		FROM notes
		WHERE id_note = ?
	`)

	err := s.DB.Get(&grade, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}
	return &grade, nil
}

func (s *BaseStore) UpdateGrade(g *models.Grade) error {
	query := s.Converter(`
		UPDATE notes
		SET valeur = ?, semestre = ?, session = ?, est_rattrape = ?, date_evaluation = ?
		WHERE id_note = ?
	`)
	if _, err := s.DB.Exec(query, g.Valeur, g.Semestre, g.Session, g.EstRattrape, g.DateEvaluation, g.ID); err != nil {
		return fmt.Errorf("failed to update grade: %w", err)
	}
	return nil
}

func (s *BaseStore) DeleteGrade(id int64) error {
	query := s.Converter(`DELETE FROM notes WHERE id_note = ?`)
	if _, err := s.DB.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}
	return nil
}

const gradeWithCourseColumns = `
	n.id_note,
	n.id_etudiant,
	n.id_cours,
	n.valeur,
	n.semestre,
	n.session,
	n.est_rattrape,
	n.date_evaluation,
	c.code AS code_cours,
	c.titre AS titre_cours,
	COALESCE(c.filiere, '') AS filiere,
	COALESCE(c.niveau, '') AS niveau
`

func (s *BaseStore) ListStudentGrades(studentID int64) ([]models.GradeWithCourse, error) {
	var grades []models.GradeWithCourse
	query := s.Converter(`
		SELECT ` + gradeWithCourseColumns + `
		FROM notes n
		JOIN cours c ON c.id_cours = n.id_cours
		WHERE n.id_etudiant = ?
		ORDER BY c.code, n.id_note
	`)

	err := s.DB.Select(&grades, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list student grades: %w", err)
	}
	return grades, nil
}

func (s *BaseStore) ListGroupGrades(studentID int64, filiere, niveau string) ([]models.GradeWithCourse, error) {
	var grades []models.GradeWithCourse
	query := s.Converter(`
		SELECT ` + gradeWithCourseColumns + `
		FROM notes n
		JOIN cours c ON c.id_cours = n.id_cours
		WHERE n.id_etudiant = ?
		AND COALESCE(c.filiere, '') = ?
		AND COALESCE(c.niveau, '') = ?
		ORDER BY c.code, n.id_note
	`)

	err := s.DB.Select(&grades, query, studentID, filiere, niveau)
	if err != nil {
		return nil, fmt.Errorf("failed to list group grades: %w", err)
	}
	return grades, nil
}

const certificateColumns = `
	id_certificat, id_etudiant, filiere, niveau_valide, niveau_suivant,
	annee_academique, cours_valides, moyenne_generale, mention,
	code_verification, nom_responsable, titre_responsable, signature_base64,
	est_signe, created_at
`

func (s *BaseStore) GetCertificate(studentID int64, filiere, niveau string) (*models.Certificate, error) {
	var cert models.Certificate
	query := s.Converter(`
		SELECT ` + certificateColumns + `
		FROM certificats
		WHERE id_etudiant = ? AND filiere = ? AND niveau_valide = ?
	`)

	err := s.DB.Get(&cert, query, studentID, filiere, niveau)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}
	return &cert, nil
}

func (s *BaseStore) GetCertificateByID(id int64) (*models.Certificate, error) {
	var cert models.Certificate
	query := s.Converter(`
		SELECT ` + certificateColumns + `
		FROM certificats
		WHERE id_certificat = ?
	`)

	err := s.DB.Get(&cert, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate by id: %w", err)
	}
	return &cert, nil
}

func (s *BaseStore) GetCertificateByCode(code string) (*models.Certificate, error) {
	var cert models.Certificate
	query := s.Converter(`
		SELECT ` + certificateColumns + `
		FROM certificats
		WHERE code_verification = ?
	`)

	err := s.DB.Get(&cert, query, code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate by code: %w", err)
	}
	return &cert, nil
}

func (s *BaseStore) ListStudentCertificates(studentID int64) ([]models.Certificate, error) {
	var certs []models.Certificate
	query := s.Converter(`
		SELECT ` + certificateColumns + `
		FROM certificats
		WHERE id_etudiant = ?
		ORDER BY created_at DESC
	`)

	err := s.DB.Select(&certs, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list student certificates: %w", err)
	}
	return certs, nil
}

func (s *BaseStore) ListCertificates() ([]models.Certificate, error) {
	var certs []models.Certificate
	err := s.DB.Select(&certs, `
		SELECT `+certificateColumns+`
		FROM certificats
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return certs, nil
}

// SignCertificate sets the responsible-person fields and flips est_signe.
// Re-signing is allowed and overwrites the previous signature.
func (s *BaseStore) SignCertificate(id int64, nomResponsable, titreResponsable string, signatureBase64 *string) error {
	query := s.Converter(`
		UPDATE certificats
		SET nom_responsable = ?, titre_responsable = ?, signature_base64 = ?, est_signe = TRUE
		WHERE id_certificat = ?
	`)
	if _, err := s.DB.Exec(query, nomResponsable, titreResponsable, signatureBase64, id); err != nil {
		return fmt.Errorf("failed to sign certificate: %w", err)
	}
	return nil
}
