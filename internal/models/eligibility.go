package models

// EligibilityLine is one grade inside an eligibility group.
type EligibilityLine struct {
	IDNote     int64   `json:"id_note"`
	IDCours    int64   `json:"id_cours"`
	TitreCours string  `json:"titre_cours"`
	CodeCours  string  `json:"code_cours"`
	Valeur     float64 `json:"valeur"`
	Valide     bool    `json:"valide"`
	Session    string  `json:"session"`
}

// EligibilityResult is the computed snapshot for one (filiere, niveau) group.
// It is recomputed on every read and never persisted.
type EligibilityResult struct {
	Filiere       string            `json:"filiere"`
	Niveau        string            `json:"niveau"`
	NiveauSuivant string            `json:"niveau_suivant"`
	NbCours       int               `json:"nb_cours"`
	NbValides     int               `json:"nb_valides"`
	Moyenne       float64           `json:"moyenne"`
	Mention       string            `json:"mention"`
	TousValides   bool              `json:"tous_valides"`
	Eligible      bool              `json:"eligible"`
	DejaGenere    bool              `json:"deja_genere"`
	Cours         []EligibilityLine `json:"cours"`
}
