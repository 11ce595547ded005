package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ganaderia/internal/config"
	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/repository/sheets"
)

type stubDigests struct {
	digest models.DailyDigest
	err    error
	calls  int
	loc    *time.Location
}

func (s *stubDigests) Digest(_ context.Context, loc *time.Location) (models.DailyDigest, error) {
	s.calls++
	s.loc = loc
	return s.digest, s.err
}

type recordingWriter struct {
	ranges []string
	rows   [][]interface{}
	err    error
}

func (w *recordingWriter) WriteRow(_ context.Context, sheetRange string, values []interface{}) error {
	w.ranges = append(w.ranges, sheetRange)
	w.rows = append(w.rows, values)
	return w.err
}

var digestCfg = config.DigestConfig{CronSchedule: "0 20 * * *", Timezone: "America/Bogota"}

func TestRunDigestMirrorsRow(t *testing.T) {
	digests := &stubDigests{digest: models.DailyDigest{Date: "2026-10-19", Overdue: 1}}
	mirror := &recordingWriter{}

	s, err := NewScheduler(digestCfg, digests, mirror, nil)
	require.NoError(t, err)

	require.NoError(t, s.RunDigest(context.Background()))
	assert.Equal(t, 1, digests.calls)
	require.NotNil(t, digests.loc)
	assert.Equal(t, "America/Bogota", digests.loc.String())
	assert.Equal(t, []string{sheets.DigestRange}, mirror.ranges)
	assert.Equal(t, "2026-10-19", mirror.rows[0][0])
}

func TestRunDigestWithoutMirror(t *testing.T) {
	digests := &stubDigests{}
	s, err := NewScheduler(digestCfg, digests, nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.RunDigest(context.Background()))
	assert.Equal(t, 1, digests.calls)
}

func TestRunDigestErrors(t *testing.T) {
	boom := errors.New("store down")
	mirror := &recordingWriter{}
	s, err := NewScheduler(digestCfg, &stubDigests{err: boom}, mirror, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.RunDigest(context.Background()), boom)
	assert.Empty(t, mirror.rows)

	failing := &recordingWriter{err: errors.New("quota")}
	s, err = NewScheduler(digestCfg, &stubDigests{}, failing, nil)
	require.NoError(t, err)
	assert.NoError(t, s.RunDigest(context.Background()))
}

func TestSchedulerLifecycle(t *testing.T) {
	s, err := NewScheduler(digestCfg, &stubDigests{}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	s.Stop()

	bad, err := NewScheduler(config.DigestConfig{CronSchedule: "every day", Timezone: "UTC"}, &stubDigests{}, nil, nil)
	require.NoError(t, err)
	assert.Error(t, bad.Start())

	_, err = NewScheduler(config.DigestConfig{CronSchedule: "0 20 * * *", Timezone: "Mars/Olympus"}, &stubDigests{}, nil, nil)
	assert.Error(t, err)
}
