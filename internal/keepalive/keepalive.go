// Package keepalive pings a URL on a cron schedule so an idling host keeps
// the service warm. Failures are logged and otherwise ignored.
package keepalive

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

type Job struct {
	cron    *cron.Cron
	url     string
	client  *http.Client
	logger  *zap.SugaredLogger
	started bool
}

// New validates schedule and registers the ping. The job does nothing
// until Start.
func New(schedule, url string, timeout time.Duration, logger *zap.SugaredLogger) (*Job, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	j := &Job{
		cron:   cron.New(),
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger.With("component", "keepalive"),
	}

	if _, err := j.cron.AddFunc(schedule, func() { j.Ping(context.Background()) }); err != nil {
		return nil, fmt.Errorf("keepalive schedule %q: %w", schedule, err)
	}

	return j, nil
}

func (j *Job) Start() {
	if j.started {
		return
	}
	j.started = true

	j.logger.Infow("starting keep-alive", "url", j.url, "entries", len(j.cron.Entries()))
	j.cron.Start()
}

// Stop waits for a running ping to finish or ctx to end.
func (j *Job) Stop(ctx context.Context) {
	if !j.started {
		return
	}

	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
	j.logger.Info("keep-alive stopped")
}

// Ping requests the URL once and logs the outcome. It never fails.
func (j *Job) Ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.url, nil)
	if err != nil {
		j.logger.Errorw("keep-alive request", "error", err)

		return
	}

	resp, err := j.client.Do(req)
	if err != nil {
		j.logger.Errorw("keep-alive ping failed", "url", j.url, "error", err)

		return
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		j.logger.Warnw("keep-alive ping unhealthy", "url", j.url, "status", resp.StatusCode)

		return
	}

	j.logger.Debugw("keep-alive ping ok", "url", j.url)
}
