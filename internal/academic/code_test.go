package academic

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	codePattern := regexp.MustCompile(`^CERT-MED-L1-\d{4}-[0-9A-F]{8}$`)

	t.Run("accented program folds to ASCII", func(t *testing.T) {
		code, err := GenerateCode("Médecine", "L1")
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
	})

	t.Run("plain ASCII program", func(t *testing.T) {
		code, err := GenerateCode("Medicine", "L1")
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
	})

	t.Run("short program is used as is", func(t *testing.T) {
		code, err := GenerateCode("IB", "M2")
		require.NoError(t, err)
		assert.Regexp(t, `^CERT-IB-M2-\d{4}-[0-9A-F]{8}$`, code)
	})

	t.Run("two generations differ", func(t *testing.T) {
		a, err := GenerateCode("Médecine", "L1")
		require.NoError(t, err)
		b, err := GenerateCode("Médecine", "L1")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestAsciiFold(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Médecine", "MEDECINE"},
		{"Pharmacie", "PHARMACIE"},
		{"Élève", "ELEVE"},
		{"François", "FRANCOIS"},
		{"abc", "ABC"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, asciiFold(tc.input))
	}
}

func TestAnneeAcademique(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-2027", AnneeAcademique(now))
}
