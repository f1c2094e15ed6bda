package notification

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CleanupJob deletes old read notifications on a cron schedule.
type CleanupJob struct {
	svc       *Service
	retention time.Duration
	cron      *cron.Cron
	log       zerolog.Logger
}

func NewCleanupJob(svc *Service, schedule string, retention time.Duration, log zerolog.Logger) (*CleanupJob, error) {
	j := &CleanupJob{
		svc:       svc,
		retention: retention,
		cron:      cron.New(),
		log:       log,
	}
	if _, err := j.cron.AddFunc(schedule, j.Run); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *CleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	deleted, err := j.svc.Cleanup(ctx, j.retention)
	if err != nil {
		j.log.Error().Err(err).Msg("notification cleanup failed")
		return
	}
	j.log.Info().Int64("deleted", deleted).Dur("took", time.Since(start)).Msg("notification cleanup completed")
}

func (j *CleanupJob) Start() { j.cron.Start() }

// Stop waits for a running cleanup to finish or ctx to expire.
func (j *CleanupJob) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}
