package progression

import "vibeos/internal/models"

// UpdateEmotionWeights returns a copy of the weight map with the
// increment for the interaction type applied. Weights only grow; there
// is no decay and no normalization.
func UpdateEmotionWeights(current map[models.EmotionCategory]float64, emotion models.EmotionCategory, kind models.InteractionType, policy Policy) map[models.EmotionCategory]float64 {
	next := make(map[models.EmotionCategory]float64, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[emotion] += policy.InteractionWeight(kind)
	return next
}
