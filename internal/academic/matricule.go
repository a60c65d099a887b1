package academic

import (
	"fmt"
	"time"
)

// maxMatriculeAttempts bounds the collision-suffix loop. The base already
// encodes name, program and birth date, so hitting this many collisions means
// something is wrong with the data, not bad luck.
const maxMatriculeAttempts = 100

// matriculeCode folds a name fragment into exactly three uppercase ASCII
// characters, padding with X when shorter, "XXX" when empty.
func matriculeCode(text string) string {
	if text == "" {
		return "XXX"
	}
	code := asciiFold(text)
	if len(code) > 3 {
		code = code[:3]
	}
	for len(code) < 3 {
		code += "X"
	}
	return code
}

// matriculeDate formats a YYYY-MM-DD birth date as YYYYMMDD, "00000000" when
// absent or unparseable.
func matriculeDate(dateNaissance *string) string {
	if dateNaissance == nil || *dateNaissance == "" {
		return "00000000"
	}
	d, err := time.Parse("2006-01-02", *dateNaissance)
	if err != nil {
		return "00000000"
	}
	return d.Format("20060102")
}

// MatriculeBase derives the deterministic part of a matricule:
// [NOM3][PRENOM3][FILIERE3][YYYYMMDD], e.g. DUPJEAMED19950315.
func MatriculeBase(nom, prenom, filiere string, dateNaissance *string) string {
	return matriculeCode(nom) + matriculeCode(prenom) + matriculeCode(filiere) + matriculeDate(dateNaissance)
}

// GenerateMatricule finds a free matricule by appending an increasing integer
// suffix to the base until the exists check comes back negative. The loop is
// bounded; the store-level unique constraint remains the last line of defense
// against two concurrent creations observing the same free value.
func GenerateMatricule(exists func(matricule string) (bool, error), nom, prenom, filiere string, dateNaissance *string) (string, error) {
	base := MatriculeBase(nom, prenom, filiere, dateNaissance)

	matricule := base
	for i := 1; i <= maxMatriculeAttempts; i++ {
		taken, err := exists(matricule)
		if err != nil {
			return "", fmt.Errorf("failed to check matricule %s: %w", matricule, err)
		}
		if !taken {
			return matricule, nil
		}
		matricule = base + fmt.Sprintf("%d", i)
	}

	return "", NewConflictError("no free matricule after %d attempts for base %s", maxMatriculeAttempts, base)
}
