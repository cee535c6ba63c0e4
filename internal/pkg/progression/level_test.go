package progression

import "testing"

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		name string
		xp   int64
		want int
	}{
		{"zero xp", 0, 1},
		{"negative xp", -50, 1},
		{"just below level 2", 99, 1},
		{"level 2 boundary", 100, 2},
		{"mid level 2", 250, 2},
		{"just below level 3", 399, 2},
		{"level 3 boundary", 400, 3},
		{"level 4 boundary", 900, 4},
		{"level 11 boundary", 10000, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateLevel(tt.xp); got != tt.want {
				t.Errorf("CalculateLevel(%d) = %d, want %d", tt.xp, got, tt.want)
			}
		})
	}
}

func TestCalculateLevelMonotonic(t *testing.T) {
	prev := CalculateLevel(0)
	for xp := int64(1); xp <= 20000; xp++ {
		level := CalculateLevel(xp)
		if level < prev {
			t.Fatalf("level decreased: xp=%d level=%d prev=%d", xp, level, prev)
		}
		prev = level
	}
}

func TestXPForLevelRoundTrips(t *testing.T) {
	for level := 1; level <= 50; level++ {
		floor := XPForLevel(level)
		if got := CalculateLevel(floor); got != level {
			t.Errorf("CalculateLevel(XPForLevel(%d)) = %d", level, got)
		}
		if level > 1 {
			if got := CalculateLevel(floor - 1); got != level-1 {
				t.Errorf("CalculateLevel(%d) = %d, want %d", floor-1, got, level-1)
			}
		}
	}
}

func TestProgressToNextLevel(t *testing.T) {
	tests := []struct {
		name           string
		xp             int64
		wantLevel      int
		wantCurrent    int64
		wantNeeded     int64
		wantPercentage int
	}{
		{"fresh account", 0, 1, 0, 100, 0},
		{"half of level 1", 50, 1, 50, 100, 50},
		{"exact level 2", 100, 2, 0, 300, 0},
		{"inside level 2", 250, 2, 150, 300, 50},
		{"exact level 4", 900, 4, 0, 700, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressToNextLevel(tt.xp)
			if got.Level != tt.wantLevel {
				t.Errorf("Level = %d, want %d", got.Level, tt.wantLevel)
			}
			if got.Current != tt.wantCurrent {
				t.Errorf("Current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.Needed != tt.wantNeeded {
				t.Errorf("Needed = %d, want %d", got.Needed, tt.wantNeeded)
			}
			if got.Percentage != tt.wantPercentage {
				t.Errorf("Percentage = %d, want %d", got.Percentage, tt.wantPercentage)
			}
		})
	}
}
