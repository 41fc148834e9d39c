package keepalive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)

	return zap.New(core).Sugar(), logs
}

func TestNewRejectsBadSchedule(t *testing.T) {
	logger, _ := observed()

	_, err := New("every now and then", "http://localhost", time.Second, logger)
	assert.Error(t, err)
}

func TestPingOutcomes(t *testing.T) {
	var status int32 = http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(atomic.LoadInt32(&status)))
	}))
	defer srv.Close()

	logger, logs := observed()
	job, err := New("*/14 * * * *", srv.URL, time.Second, logger)
	require.NoError(t, err)

	job.Ping(context.Background())
	assert.Equal(t, 1, logs.FilterMessage("keep-alive ping ok").Len())

	atomic.StoreInt32(&status, http.StatusServiceUnavailable)
	job.Ping(context.Background())
	unhealthy := logs.FilterMessage("keep-alive ping unhealthy").All()
	require.Len(t, unhealthy, 1)
	assert.EqualValues(t, http.StatusServiceUnavailable, unhealthy[0].ContextMap()["status"])

	srv.Close()
	job.Ping(context.Background())
	assert.Equal(t, 1, logs.FilterMessage("keep-alive ping failed").Len())
}

func TestStartStop(t *testing.T) {
	logger, logs := observed()
	job, err := New("*/14 * * * *", "http://127.0.0.1:1", time.Second, logger)
	require.NoError(t, err)

	job.Stop(context.Background())
	assert.Zero(t, logs.FilterMessage("keep-alive stopped").Len(), "stop before start is a no-op")

	job.Start()
	job.Start()
	assert.Equal(t, 1, logs.FilterMessage("starting keep-alive").Len())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	job.Stop(ctx)
	assert.Equal(t, 1, logs.FilterMessage("keep-alive stopped").Len())
}
