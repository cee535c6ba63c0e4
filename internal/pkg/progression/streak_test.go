package progression

import (
	"testing"
	"time"

	"vibeos/internal/models"
)

func day(yearDay int, hour int) time.Time {
	return time.Date(2026, 3, yearDay, hour, 0, 0, 0, time.UTC)
}

func TestCalculateVibeStreak(t *testing.T) {
	last := day(10, 9)

	tests := []struct {
		name        string
		streak      models.PostingStreak
		now         time.Time
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "first post ever",
			streak:      models.PostingStreak{},
			now:         day(10, 9),
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "same day keeps streak",
			streak:      models.PostingStreak{CurrentStreak: 4, LongestStreak: 6, LastVibeDate: &last},
			now:         day(10, 23),
			wantCurrent: 4,
			wantLongest: 6,
		},
		{
			name:        "next day extends",
			streak:      models.PostingStreak{CurrentStreak: 4, LongestStreak: 6, LastVibeDate: &last},
			now:         day(11, 1),
			wantCurrent: 5,
			wantLongest: 6,
		},
		{
			name:        "extension sets new record",
			streak:      models.PostingStreak{CurrentStreak: 6, LongestStreak: 6, LastVibeDate: &last},
			now:         day(11, 9),
			wantCurrent: 7,
			wantLongest: 7,
		},
		{
			name:        "two day gap resets",
			streak:      models.PostingStreak{CurrentStreak: 4, LongestStreak: 6, LastVibeDate: &last},
			now:         day(12, 9),
			wantCurrent: 1,
			wantLongest: 6,
		},
		{
			name:        "long gap resets but keeps record",
			streak:      models.PostingStreak{CurrentStreak: 30, LongestStreak: 30, LastVibeDate: &last},
			now:         day(25, 9),
			wantCurrent: 1,
			wantLongest: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateVibeStreak(tt.streak, tt.now, time.UTC)
			if got.CurrentStreak != tt.wantCurrent {
				t.Errorf("CurrentStreak = %d, want %d", got.CurrentStreak, tt.wantCurrent)
			}
			if got.LongestStreak != tt.wantLongest {
				t.Errorf("LongestStreak = %d, want %d", got.LongestStreak, tt.wantLongest)
			}
			if got.LastVibeDate == nil || !got.LastVibeDate.Equal(tt.now) {
				t.Errorf("LastVibeDate = %v, want %v", got.LastVibeDate, tt.now)
			}
		})
	}
}

func TestCalculateVibeStreakMidnightBoundary(t *testing.T) {
	// 23:59 then 00:01 the next day is an extension, not a same-day post.
	last := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	streak := models.PostingStreak{CurrentStreak: 2, LongestStreak: 2, LastVibeDate: &last}

	got := CalculateVibeStreak(streak, time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC), time.UTC)
	if got.CurrentStreak != 3 {
		t.Fatalf("CurrentStreak = %d, want 3", got.CurrentStreak)
	}
}

func TestUpdateEmotionExplorer(t *testing.T) {
	explorer := models.EmotionExplorer{}

	explorer = UpdateEmotionExplorer(explorer, models.EmotionHappy, 3)
	if explorer.TotalUniqueEmotions != 1 || explorer.ExplorerLevel != 1 {
		t.Fatalf("after first emotion: %+v", explorer)
	}

	// repeat changes nothing
	explorer = UpdateEmotionExplorer(explorer, models.EmotionHappy, 3)
	if explorer.TotalUniqueEmotions != 1 {
		t.Fatalf("repeat counted twice: %+v", explorer)
	}

	explorer = UpdateEmotionExplorer(explorer, models.EmotionSad, 3)
	explorer = UpdateEmotionExplorer(explorer, models.EmotionCalm, 3)
	if explorer.TotalUniqueEmotions != 3 || explorer.ExplorerLevel != 2 {
		t.Fatalf("after three distinct emotions: %+v", explorer)
	}

	explorer = UpdateEmotionExplorer(explorer, models.EmotionTired, 3)
	explorer = UpdateEmotionExplorer(explorer, models.EmotionAngry, 3)
	explorer = UpdateEmotionExplorer(explorer, models.EmotionLonely, 3)
	if explorer.TotalUniqueEmotions != 6 || explorer.ExplorerLevel != 3 {
		t.Fatalf("after six distinct emotions: %+v", explorer)
	}
}

func TestUpdateEmotionExplorerDoesNotMutateInput(t *testing.T) {
	original := models.EmotionExplorer{
		EmotionsExplored:    []models.EmotionCategory{models.EmotionHappy},
		TotalUniqueEmotions: 1,
		ExplorerLevel:       1,
	}

	_ = UpdateEmotionExplorer(original, models.EmotionSad, 3)
	if len(original.EmotionsExplored) != 1 {
		t.Fatalf("input mutated: %+v", original)
	}
}
