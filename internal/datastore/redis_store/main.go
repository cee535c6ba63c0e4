package redis_store

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	LEADERBOARD_XP        = "xp"
	LEADERBOARD_XP_WEEKLY = "xp_weekly"
)

func dbKeyLeaderboard(name string) string {
	return "leaderboard:" + name
}

// LeaderboardEntry is one ranked row read back from the ZSET.
type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Score  int64  `json:"score"`
	Rank   int64  `json:"rank"`
}

// IncrLeaderboardScore adds the XP delta to both the all-time and the
// weekly boards. Best effort: callers treat failures as soft.
func IncrLeaderboardScore(ctx context.Context, cmd redis.Cmdable, userID string, xpDelta int64) error {
	if xpDelta <= 0 {
		return nil
	}
	if err := cmd.ZIncrBy(ctx, dbKeyLeaderboard(LEADERBOARD_XP), float64(xpDelta), userID).Err(); err != nil {
		return err
	}
	return cmd.ZIncrBy(ctx, dbKeyLeaderboard(LEADERBOARD_XP_WEEKLY), float64(xpDelta), userID).Err()
}

// SetLeaderboardScore overwrites a user's score on one board; used by
// the rebuild job.
func SetLeaderboardScore(ctx context.Context, cmd redis.Cmdable, name string, userID string, score int64) error {
	return cmd.ZAdd(ctx, dbKeyLeaderboard(name), redis.Z{
		Score:  float64(score),
		Member: userID,
	}).Err()
}

// GetLeaderboardTop reads the highest-scored members of a board.
func GetLeaderboardTop(ctx context.Context, cmd redis.Cmdable, name string, num int) ([]*LeaderboardEntry, error) {
	items, err := cmd.ZRevRangeWithScores(ctx, dbKeyLeaderboard(name), 0, int64(num-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(items))
	for i, item := range items {
		member, ok := item.Member.(string)
		if !ok {
			member = strconv.FormatInt(int64(i), 10)
		}
		entries = append(entries, &LeaderboardEntry{
			UserID: member,
			Score:  int64(item.Score),
			Rank:   int64(i + 1),
		})
	}
	return entries, nil
}

// GetLeaderboardRank returns a user's 1-based rank and score, or nil
// when the user is not on the board.
func GetLeaderboardRank(ctx context.Context, cmd redis.Cmdable, name string, userID string) (*LeaderboardEntry, error) {
	rank, err := cmd.ZRevRank(ctx, dbKeyLeaderboard(name), userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	score, err := cmd.ZScore(ctx, dbKeyLeaderboard(name), userID).Result()
	if err != nil {
		return nil, err
	}

	return &LeaderboardEntry{
		UserID: userID,
		Score:  int64(score),
		Rank:   rank + 1,
	}, nil
}

// ClearLeaderboard drops one board entirely; the weekly job calls this
// at the start of each cycle.
func ClearLeaderboard(ctx context.Context, cmd redis.Cmdable, name string) error {
	return cmd.Del(ctx, dbKeyLeaderboard(name)).Err()
}

// RemoveLeaderboardMember drops one user from a board, used when a ban
// lands.
func RemoveLeaderboardMember(ctx context.Context, cmd redis.Cmdable, name string, userID string) error {
	return cmd.ZRem(ctx, dbKeyLeaderboard(name), userID).Err()
}
