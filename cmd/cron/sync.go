package main

import (
	"context"
	"log"

	"dripn/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
)

// SyncJob reloads the document before each push, since the api binary may
// have changed it since the last run.
type SyncJob struct {
	container *do.Injector
	sync      *services.ServiceSync
}

func NewSyncJob(container *do.Injector, sync *services.ServiceSync) *SyncJob {
	return &SyncJob{container, sync}
}

func (j *SyncJob) Start(cronRunner *cron.Cron, spec string) error {
	_, err := cronRunner.AddFunc(spec, func() {
		j.run(context.Background())
	})
	if err != nil {
		return err
	}
	log.Println("Sync cronjob scheduled:", spec)
	return nil
}

func (j *SyncJob) run(ctx context.Context) {
	state, err := do.Invoke[*services.ServiceState](j.container)
	if err != nil {
		log.Println("sync:", err)
		return
	}
	if err := state.Load(ctx); err != nil {
		log.Println("sync reload:", err)
		return
	}

	if j.sync.Push(ctx) {
		log.Println("sync pushed")
	}
}
