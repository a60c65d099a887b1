// internal/store/sqlite/store.go
package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/medcampus/medcampus/internal/models"
	"github.com/medcampus/medcampus/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn, migrationsDir string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
	}}

	if migrationsDir != "" {
		if err := s.ApplyMigrations(migrationsDir); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	return s, nil
}

func (s *SQLiteStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, translateToSQLite)
}

// translateToSQLite converts Postgres SQL to SQLite dialect
func translateToSQLite(sql string) string {
	replacements := map[string]string{
		"BIGSERIAL PRIMARY KEY": "INTEGER PRIMARY KEY AUTOINCREMENT",
		"DOUBLE PRECISION":      "REAL",
		"BIGINT":                "INTEGER",
		"BOOLEAN":               "INTEGER",
		"TRUE":                  "1",
		"FALSE":                 "0",
		"now()":                 "CURRENT_TIMESTAMP",
	}
	result := sql
	for from, to := range replacements {
		result = strings.ReplaceAll(result, from, to)
	}
	return result
}

// wrapDuplicate maps unique-constraint violations onto store.ErrDuplicate.
func wrapDuplicate(err error, what string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%s: %w", what, store.ErrDuplicate)
	}
	return fmt.Errorf("failed to create %s: %w", what, err)
}

func (s *SQLiteStore) insertReturningID(query string, arg interface{}) (int64, error) {
	res, err := s.DB.NamedExec(query, arg)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) CreateStudent(student *models.Student) error {
	id, err := s.insertReturningID(`
		INSERT INTO etudiants (matricule, nom, prenom, email, filiere, niveau, date_naissance)
		VALUES (:matricule, :nom, :prenom, :email, :filiere, :niveau, :date_naissance)
	`, student)
	if err != nil {
		return wrapDuplicate(err, "student")
	}
	student.ID = id
	return nil
}

func (s *SQLiteStore) CreateTeacher(teacher *models.Teacher) error {
	id, err := s.insertReturningID(`
		INSERT INTO enseignants (matricule, nom, prenom, email, specialite, date_naissance)
		VALUES (:matricule, :nom, :prenom, :email, :specialite, :date_naissance)
	`, teacher)
	if err != nil {
		return wrapDuplicate(err, "teacher")
	}
	teacher.ID = id
	return nil
}

func (s *SQLiteStore) CreateCourse(course *models.Course) error {
	id, err := s.insertReturningID(`
		INSERT INTO cours (code, titre, filiere, niveau, credits)
		VALUES (:code, :titre, :filiere, :niveau, :credits)
	`, course)
	if err != nil {
		return wrapDuplicate(err, "course")
	}
	course.ID = id
	return nil
}

func (s *SQLiteStore) CreateGrade(grade *models.Grade) error {
	id, err := s.insertReturningID(`
		INSERT INTO notes (id_etudiant, id_cours, valeur, semestre, session, est_rattrape, date_evaluation)
		VALUES (:id_etudiant, :id_cours, :valeur, :semestre, :session, :est_rattrape, :date_evaluation)
	`, grade)
	if err != nil {
		return wrapDuplicate(err, "grade")
	}
	grade.ID = id
	return nil
}

func (s *SQLiteStore) CreateCertificate(cert *models.Certificate) error {
	id, err := s.insertReturningID(`
		INSERT INTO certificats (
			id_etudiant, filiere, niveau_valide, niveau_suivant, annee_academique,
			cours_valides, moyenne_generale, mention, code_verification,
			nom_responsable, titre_responsable, signature_base64, est_signe, created_at
		)
		VALUES (
			:id_etudiant, :filiere, :niveau_valide, :niveau_suivant, :annee_academique,
			:cours_valides, :moyenne_generale, :mention, :code_verification,
			:nom_responsable, :titre_responsable, :signature_base64, :est_signe, :created_at
		)
	`, cert)
	if err != nil {
		return wrapDuplicate(err, "certificate")
	}
	cert.ID = id
	return nil
}
