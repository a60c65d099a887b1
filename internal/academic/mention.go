package academic

// Mention labels, from best to worst.
const (
	MentionTresBien    = "Très Bien"
	MentionBien        = "Bien"
	MentionAssezBien   = "Assez Bien"
	MentionPassable    = "Passable"
	MentionInsuffisant = "Insuffisant"
)

// MentionFor maps a mean on the 0-20 scale to its honor band. Boundaries are
// inclusive on the lower bound: a mean of exactly 16 is "Très Bien".
func MentionFor(mean float64) string {
	switch {
	case mean >= 16:
		return MentionTresBien
	case mean >= 14:
		return MentionBien
	case mean >= 12:
		return MentionAssezBien
	case mean >= 10:
		return MentionPassable
	default:
		return MentionInsuffisant
	}
}
