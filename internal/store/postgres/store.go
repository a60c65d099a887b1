package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/medcampus/medcampus/internal/models"
	"github.com/medcampus/medcampus/internal/store"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn, migrationsDir string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
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

func (s *PostgresStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, nil)
}

// wrapDuplicate maps unique-constraint violations onto store.ErrDuplicate.
func wrapDuplicate(err error, what string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%s: %w", what, store.ErrDuplicate)
	}
	return fmt.Errorf("failed to create %s: %w", what, err)
}

func (s *PostgresStore) insertReturningID(query string, arg interface{}) (int64, error) {
	rows, err := s.DB.NamedQuery(query, arg)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var id int64
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
	}
	return id, rows.Err()
}

func (s *PostgresStore) CreateStudent(student *models.Student) error {
	id, err := s.insertReturningID(`
		INSERT INTO etudiants (matricule, nom, prenom, email, filiere, niveau, date_naissance)
		VALUES (:matricule, :nom, :prenom, :email, :filiere, :niveau, :date_naissance)
		RETURNING id_etudiant
	`, student)
	if err != nil {
		return wrapDuplicate(err, "student")
	}
	student.ID = id
	return nil
}

func (s *PostgresStore) CreateTeacher(teacher *models.Teacher) error {
	id, err := s.insertReturningID(`
		INSERT INTO enseignants (matricule, nom, prenom, email, specialite, date_naissance)
		VALUES (:matricule, :nom, :prenom, :email, :specialite, :date_naissance)
		RETURNING id_enseignant
	`, teacher)
	if err != nil {
		return wrapDuplicate(err, "teacher")
	}
	teacher.ID = id
	return nil
}

func (s *PostgresStore) CreateCourse(course *models.Course) error {
	id, err := s.insertReturningID(`
		INSERT INTO cours (code, titre, filiere, niveau, credits)
		VALUES (:code, :titre, :filiere, :niveau, :credits)
		RETURNING id_cours
	`, course)
	if err != nil {
		return wrapDuplicate(err, "course")
	}
	course.ID = id
	return nil
}

func (s *PostgresStore) CreateGrade(grade *models.Grade) error {
	id, err := s.insertReturningID(`
		INSERT INTO notes (id_etudiant, id_cours, valeur, semestre, session, est_rattrape, date_evaluation)
		VALUES (:id_etudiant, :id_cours, :valeur, :semestre, :session, :est_rattrape, :date_evaluation)
		RETURNING id_note
	`, grade)
	if err != nil {
		return wrapDuplicate(err, "grade")
	}
	grade.ID = id
	return nil
}

func (s *PostgresStore) CreateCertificate(cert *models.Certificate) error {
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
		RETURNING id_certificat
	`, cert)
	if err != nil {
		return wrapDuplicate(err, "certificate")
	}
	cert.ID = id
	return nil
}
