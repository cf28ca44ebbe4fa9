package scheduler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	xlogger "CryptoBasket/pkg/logger"

	"github.com/peterldowns/testy/assert"
)

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := New(RefreshFunc(func(context.Context) error { return nil }), 0, nil)
	assert.Error(t, s.Register("every minute"))
	assert.NoError(t, s.Register("@every 60s"))
	assert.NoError(t, s.Register("*/5 * * * * *"))
	assert.Equal(t, 2, s.Entries())
}

func TestRunNowLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	s := New(RefreshFunc(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return errors.New("predictor down")
	}), time.Second, xlogger.NewWriter(&buf))

	s.RunNow()
	assert.True(t, strings.Contains(buf.String(), "scheduled refresh failed"))
	assert.True(t, strings.Contains(buf.String(), "predictor down"))
}

func TestScheduledRuns(t *testing.T) {
	var runs atomic.Int32
	s := New(RefreshFunc(func(context.Context) error {
		runs.Add(1)
		return nil
	}), time.Second, nil)
	assert.NoError(t, s.Register("@every 1s"))

	s.Start()
	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	assert.True(t, runs.Load() >= 1)
}
