package services

import (
	"testing"
	"time"

	"vibeos/internal/models"
)

func TestAwardMilestoneBadgesFirstVibe(t *testing.T) {
	profile := models.NewUserProfile("u1")
	profile.PostingStreak.CurrentStreak = 1

	earned := awardMilestoneBadges(profile, time.Now())
	if len(earned) != 1 || earned[0].ID != "first_vibe" {
		t.Fatalf("earned = %+v", earned)
	}

	// second call earns nothing new
	earned = awardMilestoneBadges(profile, time.Now())
	if len(earned) != 0 {
		t.Fatalf("repeat earned = %+v", earned)
	}
}

func TestAwardMilestoneBadgesStreaks(t *testing.T) {
	profile := models.NewUserProfile("u1")
	profile.Badges = []models.Badge{{ID: "first_vibe"}}

	profile.PostingStreak.CurrentStreak = 7
	earned := awardMilestoneBadges(profile, time.Now())
	if len(earned) != 1 || earned[0].ID != "streak_7" || earned[0].Rarity != "rare" {
		t.Fatalf("earned = %+v", earned)
	}

	profile.PostingStreak.CurrentStreak = 100
	earned = awardMilestoneBadges(profile, time.Now())
	ids := map[string]string{}
	for _, b := range earned {
		ids[b.ID] = b.Rarity
	}
	if ids["streak_30"] != "rare" || ids["streak_100"] != "legendary" {
		t.Fatalf("earned = %+v", earned)
	}
}

func TestAwardMilestoneBadgesExplorer(t *testing.T) {
	profile := models.NewUserProfile("u1")
	profile.Badges = []models.Badge{{ID: "first_vibe"}}
	profile.Explorer.TotalUniqueEmotions = 4

	earned := awardMilestoneBadges(profile, time.Now())
	if len(earned) != 0 {
		t.Fatalf("earned at four emotions = %+v", earned)
	}

	profile.Explorer.TotalUniqueEmotions = 5
	earned = awardMilestoneBadges(profile, time.Now())
	if len(earned) != 1 || earned[0].ID != "emotion_explorer" {
		t.Fatalf("earned = %+v", earned)
	}
}
