package fraud

import (
	"testing"

	"vibeos/internal/models"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []int64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []int64{7}, 7},
		{"odd count", []int64{9, 1, 5}, 5},
		{"even count averages middles", []int64{1, 3, 5, 9}, 4},
		{"unsorted input", []int64{100, 2, 50, 2}, 26},
		{"duplicates", []int64{4, 4, 4, 4}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	values := []int64{3, 1, 2}
	_ = Median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Fatalf("input reordered: %v", values)
	}
}

func TestClassifyDailyOutlier(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name   string
		total  int64
		median float64
		want   models.FraudSeverity
	}{
		{"no earnings", 0, 100, models.SeverityNone},
		{"normal earner", 150, 100, models.SeverityNone},
		{"just below low", 299, 100, models.SeverityNone},
		{"low boundary", 300, 100, models.SeverityLow},
		{"medium boundary", 500, 100, models.SeverityMedium},
		{"high boundary", 1000, 100, models.SeverityHigh},
		{"way past high", 50000, 100, models.SeverityHigh},
		{"idle cohort caps at low", 5000, 0, models.SeverityLow},
		{"idle cohort idle user", 0, 0, models.SeverityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := th.ClassifyDailyOutlier(tt.total, tt.median); got != tt.want {
				t.Errorf("ClassifyDailyOutlier(%d, %v) = %v, want %v", tt.total, tt.median, got, tt.want)
			}
		})
	}
}

func TestClassifyVelocity(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		count int
		want  models.FraudSeverity
	}{
		{0, models.SeverityNone},
		{24, models.SeverityNone},
		{25, models.SeverityLow},
		{39, models.SeverityLow},
		{40, models.SeverityMedium},
		{59, models.SeverityMedium},
		{60, models.SeverityHigh},
		{500, models.SeverityHigh},
	}

	for _, tt := range tests {
		if got := th.ClassifyVelocity(tt.count); got != tt.want {
			t.Errorf("ClassifyVelocity(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestClassifyDeviceOverlap(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		accounts int
		want     models.FraudSeverity
	}{
		{0, models.SeverityNone},
		{1, models.SeverityNone},
		{2, models.SeverityLow},
		{3, models.SeverityMedium},
		{4, models.SeverityMedium},
		{5, models.SeverityHigh},
		{20, models.SeverityHigh},
	}

	for _, tt := range tests {
		if got := th.ClassifyDeviceOverlap(tt.accounts); got != tt.want {
			t.Errorf("ClassifyDeviceOverlap(%d) = %v, want %v", tt.accounts, got, tt.want)
		}
	}
}

func TestWorst(t *testing.T) {
	if got := Worst(); got != models.SeverityNone {
		t.Errorf("Worst() = %v", got)
	}
	if got := Worst(models.SeverityLow, models.SeverityHigh, models.SeverityMedium); got != models.SeverityHigh {
		t.Errorf("Worst = %v, want high", got)
	}
	if got := Worst(models.SeverityNone, models.SeverityLow); got != models.SeverityLow {
		t.Errorf("Worst = %v, want low", got)
	}
}

func TestDecideSanction(t *testing.T) {
	tests := []struct {
		name     string
		flags    int
		severity models.FraudSeverity
		want     models.SanctionAction
	}{
		{"high few flags", 1, models.SeverityHigh, models.SanctionReview},
		{"high at review count", 3, models.SeverityHigh, models.SanctionSuspension},
		{"high at high count", 5, models.SeverityHigh, models.SanctionSuspension},
		{"high past high count", 6, models.SeverityHigh, models.SanctionBan},
		{"medium few flags", 2, models.SeverityMedium, models.SanctionNone},
		{"medium at review count", 3, models.SeverityMedium, models.SanctionReview},
		{"medium past high count", 6, models.SeverityMedium, models.SanctionSuspension},
		{"low stays quiet", 5, models.SeverityLow, models.SanctionNone},
		{"low past high count", 6, models.SeverityLow, models.SanctionReview},
		{"none never sanctions", 100, models.SeverityNone, models.SanctionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideSanction(tt.flags, tt.severity); got != tt.want {
				t.Errorf("DecideSanction(%d, %v) = %v, want %v", tt.flags, tt.severity, got, tt.want)
			}
		})
	}
}

func TestDecideSanctionMonotone(t *testing.T) {
	rank := func(a models.SanctionAction) int {
		switch a {
		case models.SanctionReview:
			return 1
		case models.SanctionSuspension:
			return 2
		case models.SanctionBan:
			return 3
		default:
			return 0
		}
	}

	severities := []models.FraudSeverity{models.SeverityNone, models.SeverityLow, models.SeverityMedium, models.SeverityHigh}
	for _, severity := range severities {
		prev := 0
		for flags := 0; flags <= 20; flags++ {
			got := rank(DecideSanction(flags, severity))
			if got < prev {
				t.Fatalf("sanction softened: severity=%v flags=%d", severity, flags)
			}
			prev = got
		}
	}

	for flags := 0; flags <= 20; flags++ {
		prev := 0
		for _, severity := range severities {
			got := rank(DecideSanction(flags, severity))
			if got < prev {
				t.Fatalf("sanction softened across severities: flags=%d severity=%v", flags, severity)
			}
			prev = got
		}
	}
}
