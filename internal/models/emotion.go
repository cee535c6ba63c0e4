package models

// EmotionCategory labels the mood attached to a vibe. The catalog is
// open-ended on purpose: clients may ship new moods without a server
// release, so the type stays a string and the constants below only cover
// the built-in set.
type EmotionCategory string

const (
	EmotionHappy    EmotionCategory = "happy"
	EmotionSad      EmotionCategory = "sad"
	EmotionAngry    EmotionCategory = "angry"
	EmotionAnxious  EmotionCategory = "anxious"
	EmotionCalm     EmotionCategory = "calm"
	EmotionExcited  EmotionCategory = "excited"
	EmotionGrateful EmotionCategory = "grateful"
	EmotionLonely   EmotionCategory = "lonely"
	EmotionHopeful  EmotionCategory = "hopeful"
	EmotionTired    EmotionCategory = "tired"
)

// TimeSlot buckets the local hour a user was active.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"   // 05-11
	SlotAfternoon TimeSlot = "afternoon" // 12-16
	SlotEvening   TimeSlot = "evening"   // 17-21
	SlotNight     TimeSlot = "night"     // 22-04
)

// TimeSlotForHour maps a local hour (0-23) to its slot.
func TimeSlotForHour(hour int) TimeSlot {
	switch {
	case hour >= 5 && hour <= 11:
		return SlotMorning
	case hour >= 12 && hour <= 16:
		return SlotAfternoon
	case hour >= 17 && hour <= 21:
		return SlotEvening
	default:
		return SlotNight
	}
}

// InteractionType is how a user touched a vibe.
type InteractionType string

const (
	InteractionView    InteractionType = "view"
	InteractionReact   InteractionType = "react"
	InteractionComment InteractionType = "comment"
	InteractionPost    InteractionType = "post"
)
