package services

import (
	"errors"
	"testing"
	"time"

	"vibeos/internal/models"
	"vibeos/internal/pkg/progression"
)

func newTestProfile() *models.UserProfile {
	profile := models.NewUserProfile("u1")
	profile.Coins = 100
	profile.Gems = 10
	return profile
}

func TestApplyRewardDeltasEarn(t *testing.T) {
	profile := newTestProfile()
	policy := progression.DefaultPolicy()

	row, levels, err := applyRewardDeltas(profile, TransactionRequest{
		Type:       models.TxEarn,
		Action:     "vibe:post",
		XPDelta:    10,
		CoinsDelta: 5,
	}, policy, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if profile.XP != 10 || profile.Coins != 105 {
		t.Fatalf("profile after earn: xp=%d coins=%d", profile.XP, profile.Coins)
	}
	if levels != 0 {
		t.Fatalf("levels = %d, want 0", levels)
	}
	if row.XPChange != 10 || row.CoinsChange != 5 {
		t.Fatalf("row = %+v", row)
	}
	if row.ReviewStatus != models.ReviewApproved {
		t.Fatalf("ReviewStatus = %v", row.ReviewStatus)
	}
}

func TestApplyRewardDeltasLevelUpBonus(t *testing.T) {
	profile := newTestProfile()
	profile.XP = 95
	policy := progression.DefaultPolicy()

	// 95 + 10 crosses the level 2 boundary at 100
	row, levels, err := applyRewardDeltas(profile, TransactionRequest{
		Type:    models.TxEarn,
		Action:  "vibe:post",
		XPDelta: 10,
	}, policy, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if levels != 1 {
		t.Fatalf("levels = %d, want 1", levels)
	}
	if profile.Level != 2 {
		t.Fatalf("Level = %d, want 2", profile.Level)
	}
	if profile.Coins != 100+policy.LevelUpCoinBonus {
		t.Fatalf("Coins = %d, want %d", profile.Coins, 100+policy.LevelUpCoinBonus)
	}
	// the bonus lands in the same ledger row
	if row.CoinsChange != policy.LevelUpCoinBonus {
		t.Fatalf("CoinsChange = %d, want %d", row.CoinsChange, policy.LevelUpCoinBonus)
	}
	if row.Metadata["levels_gained"] != 1 {
		t.Fatalf("Metadata = %v", row.Metadata)
	}
}

func TestApplyRewardDeltasMultiLevelJump(t *testing.T) {
	profile := newTestProfile()
	policy := progression.DefaultPolicy()

	// 0 -> 900 XP jumps from level 1 to level 4
	_, levels, err := applyRewardDeltas(profile, TransactionRequest{
		Type:    models.TxEarn,
		Action:  "event:bonus",
		XPDelta: 900,
	}, policy, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if levels != 3 {
		t.Fatalf("levels = %d, want 3", levels)
	}
	if profile.Coins != 100+3*policy.LevelUpCoinBonus {
		t.Fatalf("Coins = %d", profile.Coins)
	}
}

func TestApplyRewardDeltasSpend(t *testing.T) {
	profile := newTestProfile()
	policy := progression.DefaultPolicy()

	_, _, err := applyRewardDeltas(profile, TransactionRequest{
		Type:       models.TxSpend,
		Action:     "shop:sticker",
		CoinsDelta: -40,
	}, policy, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if profile.Coins != 60 {
		t.Fatalf("Coins = %d, want 60", profile.Coins)
	}
}

func TestApplyRewardDeltasInsufficientFunds(t *testing.T) {
	profile := newTestProfile()
	policy := progression.DefaultPolicy()

	_, _, err := applyRewardDeltas(profile, TransactionRequest{
		Type:       models.TxSpend,
		Action:     "shop:sticker",
		CoinsDelta: -101,
	}, policy, time.Now())
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	// the profile stays untouched on refusal
	if profile.Coins != 100 {
		t.Fatalf("Coins = %d, want 100", profile.Coins)
	}
}

func TestApplyRewardDeltasInvalidSigns(t *testing.T) {
	policy := progression.DefaultPolicy()

	tests := []struct {
		name string
		req  TransactionRequest
	}{
		{"earn with negative coins", TransactionRequest{Type: models.TxEarn, CoinsDelta: -5}},
		{"earn with negative xp", TransactionRequest{Type: models.TxEarn, XPDelta: -5}},
		{"spend with positive coins", TransactionRequest{Type: models.TxSpend, CoinsDelta: 5}},
		{"spend with xp", TransactionRequest{Type: models.TxSpend, XPDelta: 5}},
		{"gift with positive gems", TransactionRequest{Type: models.TxGift, GemsDelta: 5}},
		{"unknown type", TransactionRequest{Type: "transfer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := newTestProfile()
			_, _, err := applyRewardDeltas(profile, tt.req, policy, time.Now())
			if !errors.Is(err, ErrInvalidDelta) {
				t.Fatalf("err = %v, want ErrInvalidDelta", err)
			}
		})
	}
}

func TestApplyRewardDeltasKarmaFloor(t *testing.T) {
	profile := newTestProfile()
	profile.Karma = 5
	policy := progression.DefaultPolicy()

	_, _, err := applyRewardDeltas(profile, TransactionRequest{
		Type:       models.TxEarn,
		Action:     "moderation:penalty",
		KarmaDelta: -50,
	}, policy, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if profile.Karma != 0 {
		t.Fatalf("Karma = %d, want 0", profile.Karma)
	}
}

func TestApplyRewardDeltasSequentialGrantsAccumulate(t *testing.T) {
	profile := newTestProfile()
	policy := progression.DefaultPolicy()

	_, _, err := applyRewardDeltas(profile, TransactionRequest{Type: models.TxEarn, Action: "a", XPDelta: 10}, policy, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = applyRewardDeltas(profile, TransactionRequest{Type: models.TxEarn, Action: "b", XPDelta: 15}, policy, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if profile.XP != 25 {
		t.Fatalf("XP = %d, want 25", profile.XP)
	}
}

func TestEnsureTransactable(t *testing.T) {
	tests := []struct {
		status models.AccountStatus
		frozen bool
	}{
		{models.AccountActive, false},
		{models.AccountUnderReview, false},
		{models.AccountSuspended, true},
		{models.AccountBanned, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			profile := newTestProfile()
			profile.AccountStatus = tt.status

			err := ensureTransactable(profile)
			if tt.frozen && !errors.Is(err, ErrAccountFrozen) {
				t.Fatalf("err = %v, want ErrAccountFrozen", err)
			}
			if !tt.frozen && err != nil {
				t.Fatalf("err = %v, want nil", err)
			}
		})
	}
}
