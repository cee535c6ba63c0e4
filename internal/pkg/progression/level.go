package progression

import "math"

// xpScale fixes the level curve: reaching level N costs 100*(N-1)^2
// cumulative XP, so level 2 at 100, level 3 at 400, level 4 at 900.
const xpScale = 100

// CalculateLevel maps cumulative XP to a level. Level 1 at zero XP,
// non-decreasing in xp. Negative input is treated as zero.
func CalculateLevel(xp int64) int {
	if xp <= 0 {
		return 1
	}
	return 1 + int(math.Sqrt(float64(xp)/xpScale))
}

// XPForLevel returns the cumulative XP needed to reach the level.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	n := int64(level - 1)
	return xpScale * n * n
}

// Progress describes how far into the current level a user is.
type Progress struct {
	Level      int   `json:"level"`
	Current    int64 `json:"current"`
	Needed     int64 `json:"needed"`
	Percentage int   `json:"percentage"`
}

// ProgressToNextLevel reports XP earned inside the current level and the
// span to the next one, on the same curve CalculateLevel uses.
func ProgressToNextLevel(xp int64) Progress {
	if xp < 0 {
		xp = 0
	}
	level := CalculateLevel(xp)
	floor := XPForLevel(level)
	ceil := XPForLevel(level + 1)

	current := xp - floor
	needed := ceil - floor
	percentage := int(current * 100 / needed)
	if percentage > 100 {
		percentage = 100
	}

	return Progress{
		Level:      level,
		Current:    current,
		Needed:     needed,
		Percentage: percentage,
	}
}
