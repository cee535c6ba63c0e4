package progression

import (
	"math"
	"testing"
)

func TestKarmaTierFor(t *testing.T) {
	tests := []struct {
		name  string
		karma int64
		want  string
	}{
		{"deep negative", -1000, "Limited"},
		{"zero", 0, "Limited"},
		{"top of limited", 24, "Limited"},
		{"bottom of new user", 25, "New User"},
		{"top of new user", 99, "New User"},
		{"bottom of trusted", 100, "Trusted"},
		{"top of trusted", 299, "Trusted"},
		{"bottom of respected", 300, "Respected"},
		{"top of respected", 749, "Respected"},
		{"bottom of leader", 750, "Community Leader"},
		{"huge karma", math.MaxInt64, "Community Leader"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KarmaTierFor(tt.karma); got.Name != tt.want {
				t.Errorf("KarmaTierFor(%d) = %q, want %q", tt.karma, got.Name, tt.want)
			}
		})
	}
}

func TestKarmaTiersPartitionTheLine(t *testing.T) {
	// Every boundary belongs to exactly one tier and the bands touch.
	for i := 1; i < len(karmaTiers); i++ {
		if karmaTiers[i].MinKarma != karmaTiers[i-1].MaxKarma+1 {
			t.Errorf("gap between %q and %q", karmaTiers[i-1].Name, karmaTiers[i].Name)
		}
	}
}

func TestKarmaFeedBoostMonotonic(t *testing.T) {
	for i := 1; i < len(karmaTiers); i++ {
		if karmaTiers[i].FeedBoost <= karmaTiers[i-1].FeedBoost {
			t.Errorf("feed boost not increasing between %q and %q", karmaTiers[i-1].Name, karmaTiers[i].Name)
		}
	}
}

func TestKarmaImpactFor(t *testing.T) {
	impact := KarmaImpactFor(0)
	if len(impact.Restrictions) != 3 {
		t.Fatalf("Limited restrictions = %v", impact.Restrictions)
	}

	impact = KarmaImpactFor(50)
	if len(impact.Restrictions) != 1 || impact.Restrictions[0] != "posting_limit" {
		t.Fatalf("New User restrictions = %v", impact.Restrictions)
	}

	for _, karma := range []int64{100, 300, 750, 5000} {
		impact = KarmaImpactFor(karma)
		if len(impact.Restrictions) != 0 {
			t.Errorf("karma %d should carry no restrictions, got %v", karma, impact.Restrictions)
		}
	}
}
