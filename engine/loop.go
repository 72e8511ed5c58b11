package engine

import (
	"context"
	"sync"
	"time"

	"github.com/robmorgan/lumen/logger"
	"k8s.io/utils/clock"
)

// Ticker is advanced once per frame.
type Ticker interface {
	Tick()
}

// Loop drives a Ticker at a fixed frame interval.
type Loop struct {
	target   Ticker
	clock    clock.WithTicker
	interval time.Duration
}

func NewLoop(target Ticker, cl clock.WithTicker, interval time.Duration) *Loop {
	return &Loop{target: target, clock: cl, interval: interval}
}

// Run ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context, wg *sync.WaitGroup) error {
	defer wg.Done()

	log := logger.GetProjectLogger().WithField("component", "loop")
	log.Infof("Frame loop started, interval=%s", l.interval)

	ticker := l.clock.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Frame loop shutdown")
			return ctx.Err()
		case <-ticker.C():
			l.target.Tick()
		}
	}
}
