package models

import (
	"math"
	"testing"
	"time"
)

var testWeights = AffinityWeights{
	TrackedView:      1,
	ExplicitInterest: 2,
	MoreLikeThis:     3,
}

func TestApplyEngagementSeedsFirstEvent(t *testing.T) {
	p := NewInterestProfile("u1")
	now := time.Now()

	// the user's very first event seeds at the base weight even when it
	// carries stronger signals
	p.ApplyEngagement(EngagementEvent{Emotion: EmotionHappy, MoreLikeThis: true, Interested: true}, testWeights, now)
	if got := p.EmotionAffinity[EmotionHappy]; got != 1 {
		t.Fatalf("first-event affinity = %v, want 1", got)
	}
	if p.TotalEngagements != 1 {
		t.Fatalf("TotalEngagements = %d, want 1", p.TotalEngagements)
	}
}

func TestApplyEngagementNewEmotionAfterFirst(t *testing.T) {
	p := NewInterestProfile("u1")
	now := time.Now()

	// only the first event is clamped; a later event touching an emotion
	// the profile has never seen still gets the full signal weighting
	p.ApplyEngagement(EngagementEvent{Emotion: EmotionHappy}, testWeights, now)
	p.ApplyEngagement(EngagementEvent{Emotion: EmotionCalm, MoreLikeThis: true, Interested: true}, testWeights, now)

	if got := p.EmotionAffinity[EmotionCalm]; got != 5 {
		t.Fatalf("new-emotion affinity = %v, want 5", got)
	}
	if p.FocusEmotion == nil || *p.FocusEmotion != EmotionCalm {
		t.Fatalf("FocusEmotion = %v, want calm", p.FocusEmotion)
	}
}

func TestApplyEngagementDeltas(t *testing.T) {
	tests := []struct {
		name  string
		event EngagementEvent
		want  float64
	}{
		{"plain view", EngagementEvent{Emotion: EmotionHappy}, 1},
		{"explicit interest", EngagementEvent{Emotion: EmotionHappy, Interested: true}, 3},
		{"more like this", EngagementEvent{Emotion: EmotionHappy, MoreLikeThis: true}, 3},
		{"more like this with interest", EngagementEvent{Emotion: EmotionHappy, MoreLikeThis: true, Interested: true}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewInterestProfile("u1")
			p.EmotionAffinity[EmotionHappy] = 10
			p.TotalEngagements = 1 // past the first-event seed

			p.ApplyEngagement(tt.event, testWeights, time.Now())
			if got := p.EmotionAffinity[EmotionHappy] - 10; got != tt.want {
				t.Errorf("delta = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyEngagementFocusEmotion(t *testing.T) {
	p := NewInterestProfile("u1")
	now := time.Now()

	p.ApplyEngagement(EngagementEvent{Emotion: EmotionCalm}, testWeights, now)
	if p.FocusEmotion != nil {
		t.Fatal("plain view should not set focus emotion")
	}

	p.ApplyEngagement(EngagementEvent{Emotion: EmotionCalm, MoreLikeThis: true}, testWeights, now)
	if p.FocusEmotion == nil || *p.FocusEmotion != EmotionCalm {
		t.Fatalf("FocusEmotion = %v, want calm", p.FocusEmotion)
	}
}

func TestApplyEngagementContentStyle(t *testing.T) {
	p := NewInterestProfile("u1")
	now := time.Now()

	p.ApplyEngagement(EngagementEvent{Emotion: EmotionHappy, TextLength: 10}, testWeights, now)
	p.ApplyEngagement(EngagementEvent{Emotion: EmotionHappy, TextLength: 49}, testWeights, now)
	p.ApplyEngagement(EngagementEvent{Emotion: EmotionHappy, TextLength: 50}, testWeights, now)
	p.ApplyEngagement(EngagementEvent{Emotion: EmotionHappy, TextLength: 199}, testWeights, now)
	p.ApplyEngagement(EngagementEvent{Emotion: EmotionHappy, TextLength: 200}, testWeights, now)

	if p.ContentStyle.ShortText != 2 || p.ContentStyle.MediumText != 2 || p.ContentStyle.LongText != 1 {
		t.Fatalf("ContentStyle = %+v", p.ContentStyle)
	}
}

func TestApplyEngagementListenRate(t *testing.T) {
	p := NewInterestProfile("u1")
	now := time.Now()

	// completed listen counts as 1.0
	p.ApplyEngagement(EngagementEvent{Emotion: EmotionHappy, Completed: true}, testWeights, now)
	if p.AvgListenRate != 1.0 || p.ListenSamples != 1 {
		t.Fatalf("after full listen: rate=%v samples=%d", p.AvgListenRate, p.ListenSamples)
	}

	// half listen drags the mean to 0.75
	p.ApplyEngagement(EngagementEvent{Emotion: EmotionHappy, ListenedMs: 15000}, testWeights, now)
	if math.Abs(p.AvgListenRate-0.75) > 1e-9 {
		t.Fatalf("after half listen: rate=%v", p.AvgListenRate)
	}

	// over-long listen clamps to 1.0
	p.ApplyEngagement(EngagementEvent{Emotion: EmotionHappy, ListenedMs: 90000}, testWeights, now)
	want := (1.0 + 0.5 + 1.0) / 3
	if math.Abs(p.AvgListenRate-want) > 1e-9 {
		t.Fatalf("after clamped listen: rate=%v want=%v", p.AvgListenRate, want)
	}

	// a silent event advances engagements but not the listen mean
	p.ApplyEngagement(EngagementEvent{Emotion: EmotionHappy}, testWeights, now)
	if p.ListenSamples != 3 {
		t.Fatalf("ListenSamples = %d, want 3", p.ListenSamples)
	}
	if p.TotalEngagements != 4 {
		t.Fatalf("TotalEngagements = %d, want 4", p.TotalEngagements)
	}
	if math.Abs(p.AvgListenRate-want) > 1e-9 {
		t.Fatalf("silent event moved the mean: %v", p.AvgListenRate)
	}
}

func TestApplyEngagementWithoutEmotion(t *testing.T) {
	p := NewInterestProfile("u1")

	p.ApplyEngagement(EngagementEvent{TextLength: 20}, testWeights, time.Now())
	if len(p.EmotionAffinity) != 0 {
		t.Fatalf("affinity should stay empty: %v", p.EmotionAffinity)
	}
	if p.TotalEngagements != 1 {
		t.Fatalf("TotalEngagements = %d, want 1", p.TotalEngagements)
	}
}

func TestAddTimeSlot(t *testing.T) {
	p := NewInterestProfile("u1")

	if !p.AddTimeSlot(SlotMorning) {
		t.Fatal("first add should report true")
	}
	if p.AddTimeSlot(SlotMorning) {
		t.Fatal("duplicate add should report false")
	}
	p.AddTimeSlot(SlotNight)
	if len(p.TimePattern) != 2 {
		t.Fatalf("TimePattern = %v", p.TimePattern)
	}
}

func TestTimeSlotForHour(t *testing.T) {
	tests := []struct {
		hour int
		want TimeSlot
	}{
		{0, SlotNight},
		{4, SlotNight},
		{5, SlotMorning},
		{11, SlotMorning},
		{12, SlotAfternoon},
		{16, SlotAfternoon},
		{17, SlotEvening},
		{21, SlotEvening},
		{22, SlotNight},
		{23, SlotNight},
	}

	for _, tt := range tests {
		if got := TimeSlotForHour(tt.hour); got != tt.want {
			t.Errorf("TimeSlotForHour(%d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}
