package cron

import (
	"context"
	"time"

	"salonbook/services/tasks"
	"salonbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	ChurnScanSpec = "@daily"
	ReconcileSpec = "@hourly"
)

// Worker runs the job server and the periodic scheduler on the queue
// database.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	log       *zap.Logger
	stop      context.CancelFunc
}

func redisOpt() asynq.RedisClientOpt {
	addr, password, db := utils.QueueRedisOptions()
	return asynq.RedisClientOpt{Addr: addr, Password: password, DB: db}
}

// NewWorker wires the handlers and registers the periodic jobs of
// businessID.
func NewWorker(handlers *tasks.Handlers, businessID string, loc *time.Location) (*Worker, error) {
	log := utils.GetLogger().Named("worker")
	opt := redisOpt()

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 4,
		Queues:      map[string]int{"default": 1},
		Logger:      log.Sugar(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error("job failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})
	mux := asynq.NewServeMux()
	handlers.Register(mux)

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: loc,
		Logger:   log.Sugar(),
		EnqueueErrorHandler: func(task *asynq.Task, _ []asynq.Option, err error) {
			log.Warn("could not enqueue periodic job", zap.String("type", task.Type()), zap.Error(err))
		},
	})
	if err := RegisterSchedules(scheduler, businessID); err != nil {
		return nil, err
	}
	return &Worker{server: srv, scheduler: scheduler, mux: mux, log: log}, nil
}

// PeriodicScheduler is the part of asynq.Scheduler the schedules need.
type PeriodicScheduler interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

// RegisterSchedules adds the daily churn scan and the hourly ledger
// reconciliation.
func RegisterSchedules(s PeriodicScheduler, businessID string) error {
	churn, err := tasks.NewChurnScanTask(businessID)
	if err != nil {
		return err
	}
	if _, err := s.Register(ChurnScanSpec, churn); err != nil {
		return err
	}
	reconcile, err := tasks.NewReconcileTask(businessID)
	if err != nil {
		return err
	}
	_, err = s.Register(ReconcileSpec, reconcile)
	return err
}

// Start runs server and scheduler in the background, retrying the server
// start with a growing backoff.
func (w *Worker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.stop = cancel
	go w.monitorRedisConnection(ctx)

	go func() {
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			err := w.server.Start(w.mux)
			if err == nil {
				w.log.Info("job server started")
				return
			}
			w.log.Error("job server failed to start",
				zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempt == maxAttempts {
				w.log.Error("giving up on the job server; background jobs are disabled")
				return
			}
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}()

	go func() {
		if err := w.scheduler.Run(); err != nil {
			w.log.Error("scheduler stopped", zap.Error(err))
		}
	}()
}

// Shutdown drains in-flight jobs and stops the scheduler.
func (w *Worker) Shutdown() {
	if w.stop != nil {
		w.stop()
	}
	w.scheduler.Shutdown()
	w.server.Shutdown()
	w.log.Info("job worker stopped")
}

// monitorRedisConnection pings the queue database so an outage shows up
// in the logs before jobs start failing.
func (w *Worker) monitorRedisConnection(ctx context.Context) {
	addr, password, db := utils.QueueRedisOptions()
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := client.Ping(pingCtx).Err(); err != nil {
				w.log.Warn("queue redis unreachable", zap.Error(err))
			}
			cancel()
		}
	}
}
