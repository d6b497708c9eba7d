package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRejectsInvalidSpec(t *testing.T) {
	t.Parallel()

	sched := NewCronScheduler("not a cron spec", time.UTC)
	err := sched.Start(context.Background(), func(time.Time) {})
	assert.Error(t, err)
}

func TestStartFiresImmediately(t *testing.T) {
	t.Parallel()

	sched := NewCronScheduler("0 6 * * *", time.UTC)
	fired := make(chan time.Time, 1)

	err := sched.Start(context.Background(), func(ts time.Time) { fired <- ts })
	require.NoError(t, err)
	defer sched.Stop(context.Background())

	select {
	case <-fired:
	default:
		t.Fatal("job did not fire on start")
	}
}

func TestStopWithoutStart(t *testing.T) {
	t.Parallel()

	sched := NewCronScheduler("0 6 * * *", nil)
	assert.NoError(t, sched.Stop(context.Background()))
}

func TestStartNilJobIsNoop(t *testing.T) {
	t.Parallel()

	sched := NewCronScheduler("0 6 * * *", time.UTC)
	assert.NoError(t, sched.Start(context.Background(), nil))
	assert.NoError(t, sched.Stop(context.Background()))
}
