package scheduler

import (
	"context"
	"edhub/config"
	"edhub/logger"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMaintenance struct {
	calls atomic.Int32
}

func (m *countingMaintenance) ReconcileCourseStats(context.Context) (int, error) {
	m.calls.Add(1)
	return 2, nil
}

func TestNewRegistersStatsJob(t *testing.T) {
	m := &countingMaintenance{}
	c, err := New(&config.Config{StatsCronSpec: "0 3 * * *", CronTimezone: "Asia/Kolkata"}, logger.Nop(), m)
	require.NoError(t, err)
	require.NotNil(t, c)

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Asia/Kolkata", c.Location().String())

	entries[0].Job.Run()
	assert.EqualValues(t, 1, m.calls.Load())
}

func TestNewDisabled(t *testing.T) {
	for _, spec := range []string{"", "off", "OFF"} {
		c, err := New(&config.Config{StatsCronSpec: spec}, logger.Nop(), &countingMaintenance{})
		require.NoError(t, err)
		assert.Nil(t, c, spec)
	}
}

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New(&config.Config{StatsCronSpec: "every day", CronTimezone: "UTC"}, logger.Nop(), &countingMaintenance{})
	assert.Error(t, err)
}

func TestNewFallsBackToUTC(t *testing.T) {
	c, err := New(&config.Config{StatsCronSpec: "@hourly", CronTimezone: "Mars/Olympus"}, logger.Nop(), &countingMaintenance{})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, c.Location())
}
