package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ValidatedCourse is one line of the course list frozen into a certificate
// at issuance time.
type ValidatedCourse struct {
	Titre   string  `json:"titre"`
	Code    string  `json:"code"`
	Note    float64 `json:"note"`
	Session string  `json:"session"`
}

// ValidatedCourses is stored as a JSON array column.
type ValidatedCourses []ValidatedCourse

func (v ValidatedCourses) Value() (driver.Value, error) {
	return json.Marshal(v)
}

func (v *ValidatedCourses) Scan(src interface{}) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, v)
	case string:
		return json.Unmarshal([]byte(data), v)
	default:
		return fmt.Errorf("cannot scan %T into ValidatedCourses", src)
	}
}

// Certificate is immutable once issued, except for the signing fields.
type Certificate struct {
	ID               int64            `db:"id_certificat" json:"id_certificat"`
	StudentID        int64            `db:"id_etudiant" json:"id_etudiant"`
	Filiere          string           `db:"filiere" json:"filiere"`
	NiveauValide     string           `db:"niveau_valide" json:"niveau_valide"`
	NiveauSuivant    string           `db:"niveau_suivant" json:"niveau_suivant"`
	AnneeAcademique  string           `db:"annee_academique" json:"annee_academique"`
	CoursValides     ValidatedCourses `db:"cours_valides" json:"cours_valides"`
	MoyenneGenerale  float64          `db:"moyenne_generale" json:"moyenne_generale"`
	Mention          string           `db:"mention" json:"mention"`
	CodeVerification string           `db:"code_verification" json:"code_verification"`
	NomResponsable   *string          `db:"nom_responsable" json:"nom_responsable"`
	TitreResponsable *string          `db:"titre_responsable" json:"titre_responsable"`
	SignatureBase64  *string          `db:"signature_base64" json:"signature_base64,omitempty"`
	EstSigne         bool             `db:"est_signe" json:"est_signe"`
	CreatedAt        int64            `db:"created_at" json:"created_at"`
}

// PublicCertificateView is the reduced projection served by the public
// verification endpoint, keyed solely by the verification code.
type PublicCertificateView struct {
	NomEtudiant      string  `json:"nom_etudiant"`
	Matricule        string  `json:"matricule"`
	Filiere          string  `json:"filiere"`
	NiveauValide     string  `json:"niveau_valide"`
	NiveauSuivant    string  `json:"niveau_suivant"`
	AnneeAcademique  string  `json:"annee_academique"`
	MoyenneGenerale  float64 `json:"moyenne_generale"`
	Mention          string  `json:"mention"`
	DateEmission     string  `json:"date_emission"`
	NomResponsable   *string `json:"nom_responsable"`
	TitreResponsable *string `json:"titre_responsable"`
	EstSigne         bool    `json:"est_signe"`
	CodeVerification string  `json:"code_verification"`
}
