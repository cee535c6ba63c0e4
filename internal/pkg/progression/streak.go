package progression

import (
	"time"

	"vibeos/internal/models"
)

// daysBetween counts calendar days between two instants in the given
// location, ignoring the time of day.
func daysBetween(from, to time.Time, loc *time.Location) int {
	a := from.In(loc)
	b := to.In(loc)
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, loc)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	return int(bDay.Sub(aDay) / (24 * time.Hour))
}

// CalculateVibeStreak advances a posting streak for a post made at now.
//
// No prior date starts at 1. A post on the same calendar day leaves the
// streak alone, the next day extends it, and any longer gap resets it
// to 1. The last-vibe date always moves to now.
func CalculateVibeStreak(streak models.PostingStreak, now time.Time, loc *time.Location) models.PostingStreak {
	if loc == nil {
		loc = time.UTC
	}

	next := streak
	switch {
	case streak.LastVibeDate == nil:
		next.CurrentStreak = 1
	default:
		switch daysBetween(*streak.LastVibeDate, now, loc) {
		case 0:
			// same calendar day, no double counting
		case 1:
			next.CurrentStreak = streak.CurrentStreak + 1
		default:
			next.CurrentStreak = 1
		}
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	today := now
	next.LastVibeDate = &today
	return next
}

// UpdateEmotionExplorer adds the emotion to the explored set. Re-seen
// emotions change nothing beyond the membership check. The explorer
// level is a step function of the distinct count.
func UpdateEmotionExplorer(explorer models.EmotionExplorer, emotion models.EmotionCategory, step int) models.EmotionExplorer {
	if step <= 0 {
		step = DefaultPolicy().ExplorerStep
	}

	next := explorer
	if !next.Has(emotion) {
		explored := make([]models.EmotionCategory, len(next.EmotionsExplored), len(next.EmotionsExplored)+1)
		copy(explored, next.EmotionsExplored)
		next.EmotionsExplored = append(explored, emotion)
	}
	next.TotalUniqueEmotions = len(next.EmotionsExplored)
	next.ExplorerLevel = 1 + next.TotalUniqueEmotions/step
	return next
}
