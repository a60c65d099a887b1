package academic

import (
	"crypto/md5"
	"crypto/rand"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold strips diacritics and uppercases, so "Médecine" becomes
// "MEDECINE". Falls back to the raw input if normalization fails.
func asciiFold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	return strings.ToUpper(folded)
}

// GenerateCode builds a certificate verification code of the form
// CERT-{PROG3}-{LEVEL}-{YEAR}-{RAND8}. PROG3 is the folded first three
// characters of the program name, RAND8 the first eight uppercase hex
// characters of a hash over a fresh random seed. Uniqueness is enforced by
// the store; callers regenerate once on conflict.
func GenerateCode(filiere, niveau string) (string, error) {
	prefix := asciiFold(filiere)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	seed := make([]byte, 16)
	if _, err := rand.Read(seed); err != nil {
		return "", fmt.Errorf("failed to generate random seed: %w", err)
	}
	random := strings.ToUpper(fmt.Sprintf("%x", md5.Sum(seed))[:8])

	return fmt.Sprintf("CERT-%s-%s-%d-%s", prefix, niveau, time.Now().Year(), random), nil
}

// AnneeAcademique returns the academic year label at the given instant,
// e.g. "2026-2027".
func AnneeAcademique(now time.Time) string {
	return fmt.Sprintf("%d-%d", now.Year(), now.Year()+1)
}
