package academic

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/medcampus/medcampus/internal/models"
	"github.com/medcampus/medcampus/internal/store"
)

// Sentinel group labels for grades whose course carries no program or level.
// Such grades are still grouped and evaluated, never dropped.
const (
	UnknownFiliere = "Unknown program"
	UnknownNiveau  = "Unknown level"
)

// Evaluator owns the grade lifecycle and the certificate eligibility rules.
// It is the explicit write path: session and est_rattrape are always derived
// here, never accepted from callers.
type Evaluator struct {
	store store.AcademicStore
}

func NewEvaluator(s store.AcademicStore) *Evaluator {
	return &Evaluator{store: s}
}

// RecordGrade validates and persists a new grade. The session is derived
// from the value; est_rattrape always starts false.
func (e *Evaluator) RecordGrade(grade *models.Grade) error {
	if err := grade.Validate(); err != nil {
		return NewValidationError("invalid grade", FieldError{Field: "note", Error: err.Error()})
	}

	student, err := e.store.GetStudent(grade.StudentID)
	if err != nil {
		return err
	}
	if student == nil {
		return NewNotFoundError("student %d not found", grade.StudentID)
	}

	course, err := e.store.GetCourse(grade.CourseID)
	if err != nil {
		return err
	}
	if course == nil {
		return NewNotFoundError("course %d not found", grade.CourseID)
	}

	grade.Session = AssignInitialSession(grade.Valeur)
	grade.EstRattrape = false
	if grade.DateEvaluation == 0 {
		grade.DateEvaluation = time.Now().Unix()
	}

	return e.store.CreateGrade(grade)
}

// UpdateGradeValue applies an instructor edit and reconciles the session
// state with the new value.
func (e *Evaluator) UpdateGradeValue(gradeID int64, newValue float64) (*models.Grade, error) {
	if newValue < 0 || newValue > 20 {
		return nil, NewValidationError("invalid grade", FieldError{Field: "valeur", Error: "must be between 0 and 20"})
	}

	grade, err := e.store.GetGrade(gradeID)
	if err != nil {
		return nil, err
	}
	if grade == nil {
		return nil, NewNotFoundError("grade %d not found", gradeID)
	}

	grade.Valeur = newValue
	grade.Session, grade.EstRattrape = ReconcileOnEdit(grade.Session, grade.EstRattrape, newValue)

	if err := e.store.UpdateGrade(grade); err != nil {
		return nil, err
	}
	return grade, nil
}

// DeleteGrade removes a grade. Deletion is an explicit administrative action,
// never automatic.
func (e *Evaluator) DeleteGrade(gradeID int64) error {
	grade, err := e.store.GetGrade(gradeID)
	if err != nil {
		return err
	}
	if grade == nil {
		return NewNotFoundError("grade %d not found", gradeID)
	}
	return e.store.DeleteGrade(gradeID)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func groupLabels(g models.GradeWithCourse) (string, string) {
	filiere, niveau := g.Filiere, g.Niveau
	if filiere == "" {
		filiere = UnknownFiliere
	}
	if niveau == "" {
		niveau = UnknownNiveau
	}
	return filiere, niveau
}

// ListEligibility groups the student's grades by (filiere, niveau) and
// computes one snapshot per group. Results are recomputed on every call and
// sorted by filiere then niveau for deterministic output.
func (e *Evaluator) ListEligibility(studentID int64) ([]models.EligibilityResult, error) {
	student, err := e.store.GetStudent(studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, NewNotFoundError("student %d not found", studentID)
	}

	grades, err := e.store.ListStudentGrades(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grades: %w", err)
	}

	type groupKey struct {
		filiere string
		niveau  string
	}
	groups := make(map[groupKey][]models.GradeWithCourse)
	for _, g := range grades {
		filiere, niveau := groupLabels(g)
		key := groupKey{filiere, niveau}
		groups[key] = append(groups[key], g)
	}

	results := make([]models.EligibilityResult, 0, len(groups))
	for key, groupGrades := range groups {
		var sum float64
		tousValides := true
		nbValides := 0
		lines := make([]models.EligibilityLine, 0, len(groupGrades))

		for _, g := range groupGrades {
			valide := g.Valeur >= PassThreshold
			if valide {
				nbValides++
			} else {
				tousValides = false
			}
			sum += g.Valeur
			lines = append(lines, models.EligibilityLine{
				IDNote:     g.ID,
				IDCours:    g.CourseID,
				TitreCours: g.TitreCours,
				CodeCours:  g.CodeCours,
				Valeur:     g.Valeur,
				Valide:     valide,
				Session:    g.Session,
			})
		}

		moyenne := 0.0
		if len(groupGrades) > 0 {
			moyenne = round2(sum / float64(len(groupGrades)))
		}

		existing, err := e.store.GetCertificate(studentID, key.filiere, key.niveau)
		if err != nil {
			return nil, err
		}

		results = append(results, models.EligibilityResult{
			Filiere:       key.filiere,
			Niveau:        key.niveau,
			NiveauSuivant: NiveauSuivant(key.niveau),
			NbCours:       len(groupGrades),
			NbValides:     nbValides,
			Moyenne:       moyenne,
			Mention:       MentionFor(moyenne),
			TousValides:   tousValides,
			Eligible:      tousValides && moyenne >= PassThreshold,
			DejaGenere:    existing != nil,
			Cours:         lines,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Filiere != results[j].Filiere {
			return results[i].Filiere < results[j].Filiere
		}
		return results[i].Niveau < results[j].Niveau
	})

	return results, nil
}

// IssueCertificate creates the certificate for (student, filiere, niveau),
// or returns the existing one unchanged: duplicate generation is a success,
// not an error. The frozen course list is immutable once written.
func (e *Evaluator) IssueCertificate(studentID int64, filiere, niveau string) (*models.Certificate, bool, error) {
	student, err := e.store.GetStudent(studentID)
	if err != nil {
		return nil, false, err
	}
	if student == nil {
		return nil, false, NewNotFoundError("student %d not found", studentID)
	}

	existing, err := e.store.GetCertificate(studentID, filiere, niveau)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	grades, err := e.store.ListGroupGrades(studentID, storedLabel(filiere, UnknownFiliere), storedLabel(niveau, UnknownNiveau))
	if err != nil {
		return nil, false, err
	}
	if len(grades) == 0 {
		return nil, false, NewNotFoundError("no grades found for %s %s", filiere, niveau)
	}

	var sum float64
	coursValides := make(models.ValidatedCourses, 0, len(grades))
	for _, g := range grades {
		if g.Valeur < PassThreshold {
			return nil, false, NewValidationError("not all courses passed",
				FieldError{Field: "cours", Error: fmt.Sprintf("%s below passing threshold", g.CodeCours)})
		}
		sum += g.Valeur
		coursValides = append(coursValides, models.ValidatedCourse{
			Titre:   g.TitreCours,
			Code:    g.CodeCours,
			Note:    g.Valeur,
			Session: g.Session,
		})
	}
	moyenne := round2(sum / float64(len(grades)))

	now := time.Now()
	cert := &models.Certificate{
		StudentID:       studentID,
		Filiere:         filiere,
		NiveauValide:    niveau,
		NiveauSuivant:   NiveauSuivant(niveau),
		AnneeAcademique: AnneeAcademique(now),
		CoursValides:    coursValides,
		MoyenneGenerale: moyenne,
		Mention:         MentionFor(moyenne),
		EstSigne:        false,
		CreatedAt:       now.Unix(),
	}

	// One regeneration on a verification-code collision; a collision on the
	// (student, filiere, niveau) triple means a concurrent issue won, so the
	// winner's certificate is returned instead.
	for attempt := 0; attempt < 2; attempt++ {
		code, err := GenerateCode(filiere, niveau)
		if err != nil {
			return nil, false, err
		}
		cert.CodeVerification = code

		err = e.store.CreateCertificate(cert)
		if err == nil {
			return cert, true, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, false, err
		}

		winner, getErr := e.store.GetCertificate(studentID, filiere, niveau)
		if getErr != nil {
			return nil, false, getErr
		}
		if winner != nil {
			return winner, false, nil
		}
	}

	return nil, false, NewConflictError("verification code collision for %s %s", filiere, niveau)
}

// storedLabel maps a sentinel group label back to the empty stored value.
func storedLabel(label, sentinel string) string {
	if label == sentinel {
		return ""
	}
	return label
}

// Verify resolves a certificate by its public verification code and projects
// the reduced read-only view.
func (e *Evaluator) Verify(code string) (*models.PublicCertificateView, error) {
	cert, err := e.store.GetCertificateByCode(code)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, NewNotFoundError("certificate not found for code %s", code)
	}

	student, err := e.store.GetStudent(cert.StudentID)
	if err != nil {
		return nil, err
	}

	view := &models.PublicCertificateView{
		Filiere:          cert.Filiere,
		NiveauValide:     cert.NiveauValide,
		NiveauSuivant:    cert.NiveauSuivant,
		AnneeAcademique:  cert.AnneeAcademique,
		MoyenneGenerale:  cert.MoyenneGenerale,
		Mention:          cert.Mention,
		DateEmission:     time.Unix(cert.CreatedAt, 0).Format("02/01/2006"),
		NomResponsable:   cert.NomResponsable,
		TitreResponsable: cert.TitreResponsable,
		EstSigne:         cert.EstSigne,
		CodeVerification: cert.CodeVerification,
	}
	if student != nil {
		view.NomEtudiant = student.Prenom + " " + student.Nom
		view.Matricule = student.Matricule
	}
	return view, nil
}
