package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNiveauSuivant(t *testing.T) {
	testCases := []struct {
		niveau   string
		expected string
	}{
		{"L1", "L2"},
		{"L2", "L3"},
		{"L3", "M1"},
		{"M1", "M2"},
		{"M2", "M3"},
		{"M3", "D1"},
		{"D1", "D2"},
		{"D2", "D3"},
		{"D3", NiveauDiplome},
		{"S1", "S2"},
		{"S5", "S6"},
		{"S6", NiveauDiplome},
	}

	for _, tc := range testCases {
		t.Run(tc.niveau, func(t *testing.T) {
			assert.Equal(t, tc.expected, NiveauSuivant(tc.niveau))
		})
	}
}

func TestNiveauSuivant_Total(t *testing.T) {
	for _, niveau := range []string{"", "L9", "PhD", "n'importe quoi", "l1"} {
		assert.Equal(t, NiveauFallback, NiveauSuivant(niveau))
	}
}
