package academic

import (
	"github.com/medcampus/medcampus/internal/models"
)

// PassThreshold is the minimum grade value considered passing, on the 0-20
// scale used across the school.
const PassThreshold = 10.0

// AssignInitialSession derives the session of a freshly recorded grade.
// A passing value lands in the normal session, a failing one goes straight
// to rattrapage.
func AssignInitialSession(value float64) string {
	if value >= PassThreshold {
		return models.SessionNormale
	}
	return models.SessionRattrapage
}

// ReconcileOnEdit recomputes session and est_rattrape after a grade edit.
//
// A rattrapage grade edited to a passing value flips to normale and records
// permanently that the course needed a retake. A normale grade regressing
// below the threshold goes back to rattrapage, unless est_rattrape is already
// set: the flag is never reset, so a makeup-passed grade keeps its session
// even when it re-enters a failing state. That last rule mirrors the
// historical behaviour of the grade records; see DESIGN.md before changing it.
func ReconcileOnEdit(prevSession string, prevEstRattrape bool, newValue float64) (string, bool) {
	if newValue >= PassThreshold && prevSession == models.SessionRattrapage {
		return models.SessionNormale, true
	}
	if newValue < PassThreshold && prevSession == models.SessionNormale && !prevEstRattrape {
		return models.SessionRattrapage, prevEstRattrape
	}
	return prevSession, prevEstRattrape
}
