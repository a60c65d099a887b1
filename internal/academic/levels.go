package academic

// NiveauDiplome is the terminal level returned once a cursus is complete.
const NiveauDiplome = "Diplômé"

// NiveauFallback is returned for any level missing from the progression map.
const NiveauFallback = "Niveau supérieur"

var niveauxSuivants = map[string]string{
	"L1": "L2", "L2": "L3", "L3": "M1",
	"M1": "M2", "M2": "M3", "M3": "D1",
	"D1": "D2", "D2": "D3", "D3": NiveauDiplome,
	"S1": "S2", "S2": "S3", "S3": "S4",
	"S4": "S5", "S5": "S6", "S6": NiveauDiplome,
}

// NiveauSuivant returns the level following the given one. Total over all
// strings: unmapped input falls back to NiveauFallback rather than failing.
func NiveauSuivant(niveau string) string {
	if next, ok := niveauxSuivants[niveau]; ok {
		return next
	}
	return NiveauFallback
}
