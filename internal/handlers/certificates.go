package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/medcampus/medcampus/internal/app"
	"github.com/medcampus/medcampus/internal/metrics"
)

type CertificateHandler struct {
	service  *app.Service
	registry *RegistryHandler
}

func NewCertificateHandler(service *app.Service) *CertificateHandler {
	return &CertificateHandler{
		service:  service,
		registry: NewRegistryHandler(service),
	}
}

func (h *CertificateHandler) lookupStudentMatricule(w http.ResponseWriter, studentID int64) (string, bool) {
	student, err := h.service.Store.GetStudent(studentID)
	if err != nil {
		writeError(w, err)
		return "", false
	}
	if student == nil {
		writeJSON(w, http.StatusNotFound, nil, "Étudiant non trouvé")
		return "", false
	}
	return student.Matricule, true
}

// HandleEligibility recomputes the eligibility snapshot for every
// (filiere, niveau) group of the student.
func (h *CertificateHandler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid student id")
		return
	}

	matricule, ok := h.lookupStudentMatricule(w, id)
	if !ok {
		return
	}
	if h.registry.authorize(w, r, app.ActionRead, app.ResourceEligibility, matricule) == nil {
		return
	}

	results, err := h.service.Evaluator.ListEligibility(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"niveaux": results}, "")
}

// HandleIssueCertificate generates a certificate, or returns the existing
// one for the same (student, filiere, niveau) triple.
func (h *CertificateHandler) HandleIssueCertificate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IDEtudiant int64  `json:"id_etudiant"`
		Filiere    string `json:"filiere"`
		Niveau     string `json:"niveau"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid request body")
		return
	}
	if payload.Filiere == "" || payload.Niveau == "" {
		writeJSON(w, http.StatusBadRequest, nil, "filiere and niveau are required")
		return
	}

	matricule, ok := h.lookupStudentMatricule(w, payload.IDEtudiant)
	if !ok {
		return
	}
	if h.registry.authorize(w, r, app.ActionCreate, app.ResourceCertificate, matricule) == nil {
		return
	}

	cert, created, err := h.service.Evaluator.IssueCertificate(payload.IDEtudiant, payload.Filiere, payload.Niveau)
	if err != nil {
		writeError(w, err)
		return
	}

	if created {
		metrics.CertificatesIssuedTotal.WithLabelValues(cert.Filiere, cert.NiveauValide, cert.Mention).Inc()
		writeJSON(w, http.StatusCreated, cert, "Certificat généré avec succès")
		return
	}
	writeJSON(w, http.StatusOK, cert, "Certificat déjà généré")
}

// HandleListStudentCertificates lists the student's own certificates.
func (h *CertificateHandler) HandleListStudentCertificates(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid student id")
		return
	}

	matricule, ok := h.lookupStudentMatricule(w, id)
	if !ok {
		return
	}
	if h.registry.authorize(w, r, app.ActionRead, app.ResourceCertificate, matricule) == nil {
		return
	}

	certs, err := h.service.Store.ListStudentCertificates(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, certs, "")
}

// HandleListCertificates lists every certificate; admin only via the policy
// table (no other role has certificat:list).
func (h *CertificateHandler) HandleListCertificates(w http.ResponseWriter, r *http.Request) {
	if h.registry.authorize(w, r, app.ActionList, app.ResourceCertificate, "") == nil {
		return
	}

	certs, err := h.service.Store.ListCertificates()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, certs, "")
}

// HandleGetCertificate returns one certificate, for its owner or an admin.
func (h *CertificateHandler) HandleGetCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid certificate id")
		return
	}

	cert, err := h.service.Store.GetCertificateByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if cert == nil {
		writeJSON(w, http.StatusNotFound, nil, "Certificat introuvable")
		return
	}

	matricule, ok := h.lookupStudentMatricule(w, cert.StudentID)
	if !ok {
		return
	}
	if h.registry.authorize(w, r, app.ActionRead, app.ResourceCertificate, matricule) == nil {
		return
	}

	writeJSON(w, http.StatusOK, cert, "")
}

// HandleSignCertificate records the responsible person's signature and
// triggers the best-effort notification email.
func (h *CertificateHandler) HandleSignCertificate(w http.ResponseWriter, r *http.Request) {
	if h.registry.authorize(w, r, app.ActionSign, app.ResourceCertificate, "") == nil {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid certificate id")
		return
	}

	var payload struct {
		NomResponsable   string  `json:"nom_responsable"`
		TitreResponsable string  `json:"titre_responsable"`
		SignatureBase64  *string `json:"signature_base64"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid request body")
		return
	}
	if payload.NomResponsable == "" || payload.TitreResponsable == "" {
		writeJSON(w, http.StatusBadRequest, nil, "nom_responsable and titre_responsable are required")
		return
	}

	cert, err := h.service.SignCertificate(id, payload.NomResponsable, payload.TitreResponsable, payload.SignatureBase64)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cert, "Certificat signé avec succès")
}

// HandleVerifyCertificate is the only endpoint reachable without
// authentication: a public lookup keyed solely by the verification code.
func (h *CertificateHandler) HandleVerifyCertificate(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid verification code")
		return
	}

	view, err := h.service.Evaluator.Verify(code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"valide": true, "certificat": view}, "")
}
