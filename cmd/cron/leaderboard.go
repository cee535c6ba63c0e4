package main

import (
	"context"
	"log"
	"time"

	"vibeos/internal/datastore"
	"vibeos/internal/datastore/redis_store"
	"vibeos/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

type LeaderboardJob struct {
	Redis redis.UniversalClient
	Db    *bun.DB
}

func NewLeaderboardJob(redis redis.UniversalClient, db *bun.DB) *LeaderboardJob {
	return &LeaderboardJob{
		Redis: redis,
		Db:    db,
	}
}

func (j *LeaderboardJob) Start(cronRunner *cron.Cron) {
	timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, services.CONFIG_CRONJOB_TIME_LEADERBOARD)
	if err != nil {
		log.Println(err)
		return
	}

	if timeline == nil || timeline.Value == "" {
		log.Println("No leaderboard timeline found")
		return
	}

	_, err = cronRunner.AddFunc(timeline.Value, j.runScheduledTask)
	log.Println("Leaderboard Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", timeline.Value, err)
	j.initLeaderboard()
}

// runScheduledTask resets the weekly board; the all-time board is never
// cleared.
func (j *LeaderboardJob) runScheduledTask() {
	ctx := context.Background()
	log.Println("Start cleaning weekly leaderboard ...")
	err := redis_store.ClearLeaderboard(ctx, j.Redis, redis_store.LEADERBOARD_XP_WEEKLY)
	if err != nil {
		log.Println(err)
		return
	}
	log.Println("Weekly leaderboard cleaned")
}

// initLeaderboard rebuilds the all-time XP board from profiles so a
// fresh redis instance converges without waiting for organic writes.
func (j *LeaderboardJob) initLeaderboard() {
	ctx := context.Background()
	limit := 100
	offset := 0

	log.Println("Start rebuilding xp leaderboard")

	for {
		profiles, err := datastore.GetUserProfilePage(ctx, j.Db, limit, offset)
		offset += limit
		if err != nil {
			log.Println(err)
			continue
		}

		if len(profiles) == 0 {
			log.Println("Finish rebuilding xp leaderboard")
			break
		}

		for _, profile := range profiles {
			err := redis_store.SetLeaderboardScore(ctx, j.Redis, redis_store.LEADERBOARD_XP, profile.ID, profile.XP)
			if err != nil {
				log.Println(err)
			}
		}
	}
}
