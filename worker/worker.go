package worker

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker a long running loop owned by the daemon
type Worker interface {
	Run(ctx context.Context) error
}

// IJob cron driven job
type IJob interface {
	Start() error
	Run()
	Stop() error
}

type OnWork func() error

// BaseJob cron scheduled job with an overlap guard: a tick that fires
// while the previous one still runs is dropped, not queued
type BaseJob struct {
	Cron      *cron.Cron
	IsRunning bool
	OnWork    OnWork
}

func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

func (job *BaseJob) Stop() error {
	job.Cron.Stop()
	return nil
}

func (job *BaseJob) Run() {
	if job.IsRunning {
		return
	}

	job.IsRunning = true
	_ = job.OnWork()
	job.IsRunning = false
}

// TickWorker fixed delay loop; the next tick starts Delay after the
// previous one finished
type TickWorker struct {
	Delay time.Duration
}

// StartTick run onTick until the context is cancelled. Tick errors are
// logged and the loop keeps going; only cancellation stops it.
func (w *TickWorker) StartTick(ctx context.Context, onTick func(ctx context.Context) error) error {
	delay := w.Delay
	if delay <= 0 {
		delay = time.Second
	}

	for {
		if err := onTick(ctx); err != nil {
			logger.FromContext(ctx).Errorln("tick failed:", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
