package main

import (
	"context"
	"log"
	"time"

	"vibeos/internal/datastore"
	"vibeos/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

type FraudScanJob struct {
	Service *services.ServiceFraud
	Db      *bun.DB
}

func NewFraudScanJob(service *services.ServiceFraud, db *bun.DB) *FraudScanJob {
	return &FraudScanJob{
		Service: service,
		Db:      db,
	}
}

func (j *FraudScanJob) Start(cronRunner *cron.Cron) {
	timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, services.CONFIG_CRONJOB_TIME_FRAUD_SCAN)
	if err != nil {
		log.Println(err)
		return
	}

	if timeline == nil || timeline.Value == "" {
		log.Println("No fraud scan timeline found")
		return
	}

	_, err = cronRunner.AddFunc(timeline.Value, j.runScheduledTask)
	log.Println("Fraud Scan Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", timeline.Value, err)
}

func (j *FraudScanJob) runScheduledTask() {
	ctx := context.Background()
	log.Println("Start fraud scan ...")

	report, err := j.Service.RunScan(ctx)
	if err != nil {
		log.Println("fraud scan failed:", err)
		return
	}

	log.Println("Fraud scan done. scanned:", report.UsersScanned, "flagged:", report.UsersFlagged, "sanctions:", report.Sanctions)
}
