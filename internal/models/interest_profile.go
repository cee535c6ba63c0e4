package models

import (
	"time"

	"github.com/uptrace/bun"
)

// EngagementEvent is one tracked view of a vibe, already parsed by the
// HTTP layer.
type EngagementEvent struct {
	VibeID       string          `json:"vibe_id"`
	Emotion      EmotionCategory `json:"emotion"`
	TextLength   int             `json:"text_length"`
	ViewDuration int64           `json:"view_duration_ms"`
	ListenedMs   int64           `json:"listened_ms"`
	Completed    bool            `json:"completed"`
	Interested   bool            `json:"interested"`
	MoreLikeThis bool            `json:"more_like_this"`
}

// AffinityWeights are the per-signal increments applied to the emotion
// affinity map. Values come from the reward policy, not from literals at
// the call sites.
type AffinityWeights struct {
	TrackedView      float64
	ExplicitInterest float64
	MoreLikeThis     float64
}

// ContentStyle counts which text lengths a user actually engages with.
type ContentStyle struct {
	ShortText  int64 `json:"short_text"`
	MediumText int64 `json:"medium_text"`
	LongText   int64 `json:"long_text"`
}

// fullListenMs is the duration treated as a complete listen when the
// client reports partial progress without the completed flag.
const fullListenMs = 30000

// InterestProfile is the per-user personalization record fed by
// engagement events. Affinity values are unbounded accumulators; nothing
// here is probability-normalized. ListenSamples is the running-mean
// denominator for AvgListenRate and deliberately tracks only events that
// carried a listen signal, so it can drift below TotalEngagements.
type InterestProfile struct {
	bun.BaseModel    `bun:"table:interest_profile"`
	UserID           string                      `bun:"user_id,pk" json:"user_id"`
	EmotionAffinity  map[EmotionCategory]float64 `bun:"emotion_affinity,type:jsonb" json:"emotion_affinity"`
	ContentStyle     ContentStyle                `bun:"content_style,type:jsonb" json:"content_style"`
	AvgListenRate    float64                     `bun:"avg_listen_rate" json:"avg_listen_rate"`
	ListenSamples    int64                       `bun:"listen_samples" json:"-"`
	TotalEngagements int64                       `bun:"total_engagements" json:"total_engagements"`
	FocusEmotion     *EmotionCategory            `bun:"focus_emotion" json:"focus_emotion"`
	FocusEmotionAt   *time.Time                  `bun:"focus_emotion_at" json:"focus_emotion_at"`
	TimePattern      []TimeSlot                  `bun:"time_pattern,type:jsonb" json:"time_pattern"`
	Version          int64                       `bun:"version" json:"-"`
	CreatedAt        time.Time                   `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time                   `bun:"updated_at" json:"updated_at"`
}

// NewInterestProfile returns an empty profile for the user.
func NewInterestProfile(userID string) *InterestProfile {
	now := time.Now()
	return &InterestProfile{
		UserID:          userID,
		EmotionAffinity: map[EmotionCategory]float64{},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ApplyEngagement folds one tracked event into the profile.
//
// The user's very first event seeds the emotion's affinity at the
// tracked-view weight regardless of signals. Every later event adds the
// more-like-this weight in place of the base when the user asked for
// more, plus the explicit-interest bonus when flagged, even for
// emotions the profile has not touched before. The listen-rate running
// mean only advances when the event carried a listen signal (completion
// or nonzero listened time). TotalEngagements advances by exactly one
// regardless.
func (p *InterestProfile) ApplyEngagement(event EngagementEvent, weights AffinityWeights, now time.Time) {
	if p.EmotionAffinity == nil {
		p.EmotionAffinity = map[EmotionCategory]float64{}
	}

	if event.Emotion != "" {
		delta := weights.TrackedView
		if event.MoreLikeThis {
			delta = weights.MoreLikeThis
		}
		if event.Interested {
			delta += weights.ExplicitInterest
		}
		if p.TotalEngagements == 0 {
			delta = weights.TrackedView
		}
		p.EmotionAffinity[event.Emotion] += delta

		if event.MoreLikeThis {
			emotion := event.Emotion
			at := now
			p.FocusEmotion = &emotion
			p.FocusEmotionAt = &at
		}
	}

	switch {
	case event.TextLength < 50:
		p.ContentStyle.ShortText++
	case event.TextLength < 200:
		p.ContentStyle.MediumText++
	default:
		p.ContentStyle.LongText++
	}

	if event.Completed || event.ListenedMs > 0 {
		sample := 1.0
		if !event.Completed {
			sample = float64(event.ListenedMs) / float64(fullListenMs)
			if sample > 1 {
				sample = 1
			}
		}
		p.ListenSamples++
		n := float64(p.ListenSamples)
		p.AvgListenRate = (p.AvgListenRate*(n-1) + sample) / n
	}

	p.TotalEngagements++
	p.UpdatedAt = now
}

// AddTimeSlot records the slot into the activity pattern; already-present
// slots are a no-op.
func (p *InterestProfile) AddTimeSlot(slot TimeSlot) bool {
	for _, s := range p.TimePattern {
		if s == slot {
			return false
		}
	}
	p.TimePattern = append(p.TimePattern, slot)
	return true
}
