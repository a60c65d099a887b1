package academic

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMatriculeBase(t *testing.T) {
	testCases := []struct {
		name          string
		nom           string
		prenom        string
		filiere       string
		dateNaissance *string
		expected      string
	}{
		{
			name:          "standard student",
			nom:           "Dupont",
			prenom:        "Jean",
			filiere:       "Médecine",
			dateNaissance: strPtr("1995-03-15"),
			expected:      "DUPJEAMED19950315",
		},
		{
			name:          "short names padded with X",
			nom:           "Li",
			prenom:        "Yu",
			filiere:       "Médecine",
			dateNaissance: strPtr("2000-01-01"),
			expected:      "LIXYUXMED20000101",
		},
		{
			name:          "missing birth date",
			nom:           "Dupont",
			prenom:        "Jean",
			filiere:       "Pharmacie",
			dateNaissance: nil,
			expected:      "DUPJEAPHA00000000",
		},
		{
			name:          "unparseable birth date",
			nom:           "Dupont",
			prenom:        "Jean",
			filiere:       "Pharmacie",
			dateNaissance: strPtr("15/03/1995"),
			expected:      "DUPJEAPHA00000000",
		},
		{
			name:          "empty program",
			nom:           "Dupont",
			prenom:        "Jean",
			filiere:       "",
			dateNaissance: strPtr("1995-03-15"),
			expected:      "DUPJEAXXX19950315",
		},
		{
			name:          "accented names folded",
			nom:           "Ménard",
			prenom:        "Éloïse",
			filiere:       "Médecine",
			dateNaissance: strPtr("1998-12-31"),
			expected:      "MENELOMED19981231",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MatriculeBase(tc.nom, tc.prenom, tc.filiere, tc.dateNaissance))
		})
	}
}

func TestGenerateMatricule(t *testing.T) {
	dob := strPtr("1995-03-15")

	t.Run("no collision returns the base", func(t *testing.T) {
		exists := func(string) (bool, error) { return false, nil }
		m, err := GenerateMatricule(exists, "Dupont", "Jean", "Médecine", dob)
		require.NoError(t, err)
		assert.Equal(t, "DUPJEAMED19950315", m)
	})

	t.Run("collisions get an increasing suffix", func(t *testing.T) {
		taken := map[string]bool{
			"DUPJEAMED19950315":  true,
			"DUPJEAMED199503151": true,
			"DUPJEAMED199503152": true,
		}
		exists := func(m string) (bool, error) { return taken[m], nil }
		m, err := GenerateMatricule(exists, "Dupont", "Jean", "Médecine", dob)
		require.NoError(t, err)
		assert.Equal(t, "DUPJEAMED199503153", m)
	})

	t.Run("exhausted attempts return a conflict", func(t *testing.T) {
		exists := func(string) (bool, error) { return true, nil }
		_, err := GenerateMatricule(exists, "Dupont", "Jean", "Médecine", dob)
		require.Error(t, err)
		assert.True(t, IsConflict(err))
	})

	t.Run("store errors propagate", func(t *testing.T) {
		exists := func(string) (bool, error) { return false, fmt.Errorf("connection lost") }
		_, err := GenerateMatricule(exists, "Dupont", "Jean", "Médecine", dob)
		assert.Error(t, err)
	})
}
