package app

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/medcampus/medcampus/internal/academic"
	"github.com/medcampus/medcampus/internal/mailer"
	"github.com/medcampus/medcampus/internal/models"
	"github.com/medcampus/medcampus/internal/store"
)

type Service struct {
	Config    *Config
	Store     store.AcademicStore
	Auth      *Auth
	Evaluator *academic.Evaluator
	Mailer    mailer.Mailer
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := NewStore(config.Database.DSN, "")
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	var m mailer.Mailer
	switch config.Mail.Mode {
	case "sendgrid":
		m = mailer.NewSendgridMailer(config.Mail.SendgridKey, config.Mail.FromName, config.Mail.FromEmail)
	default:
		m = mailer.NewConsoleMailer(config.Mail.FromName)
	}

	return &Service{
		Config:    config,
		Store:     st,
		Auth:      auth,
		Evaluator: academic.NewEvaluator(st),
		Mailer:    m,
	}, nil
}

// Authenticate resolves the caller identity from request headers.
func (s *Service) Authenticate(r *http.Request) (*Identity, error) {
	matricule := r.Header.Get(s.Config.Auth.MatriculeHeader)

	if !s.Config.Server.EnableAuth {
		return &Identity{Matricule: matricule, Role: RoleAdmin}, nil
	}

	authHeader := r.Header.Get(s.Config.Auth.TokenHeader)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, fmt.Errorf("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	return s.Auth.ValidateToken(r.Context(), matricule, token)
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

// SignCertificate records the signature, then notifies the student. The
// notification is fire-and-forget: a delivery failure is logged and the
// signing still succeeds.
func (s *Service) SignCertificate(certID int64, nomResponsable, titreResponsable string, signatureBase64 *string) (*models.Certificate, error) {
	cert, err := s.Store.GetCertificateByID(certID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, academic.NewNotFoundError("certificate %d not found", certID)
	}

	if err := s.Store.SignCertificate(certID, nomResponsable, titreResponsable, signatureBase64); err != nil {
		return nil, err
	}

	cert, err = s.Store.GetCertificateByID(certID)
	if err != nil {
		return nil, err
	}

	s.notifyCertificateSigned(cert)

	return cert, nil
}

func (s *Service) notifyCertificateSigned(cert *models.Certificate) {
	student, err := s.Store.GetStudent(cert.StudentID)
	if err != nil || student == nil {
		logger.Error.Printf("Certificate email not sent, student %d lookup failed: %v", cert.StudentID, err)
		return
	}

	nomResponsable := ""
	if cert.NomResponsable != nil {
		nomResponsable = *cert.NomResponsable
	}

	msg, err := mailer.NewCertificateSignedMessage(
		mail.Address{Name: student.Prenom + " " + student.Nom, Address: student.Email},
		mailer.CertificateSignedData{
			NomEtudiant:      student.Prenom + " " + student.Nom,
			Filiere:          cert.Filiere,
			NiveauValide:     cert.NiveauValide,
			NomResponsable:   nomResponsable,
			CodeVerification: cert.CodeVerification,
		},
	)
	if err != nil {
		logger.Error.Printf("Certificate email not rendered: %v", err)
		return
	}

	if err := s.Mailer.Send(msg); err != nil {
		logger.Error.Printf("Certificate email not sent: %v", err)
	}
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
