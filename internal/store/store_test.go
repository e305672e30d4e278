package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outage-resilience/internal/model"
	"outage-resilience/internal/resilience"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := newRepo(t)
	battery := model.BatteryParams{EnergyCapacityKWh: 13.5, PowerCapacityKW: 5, RoundTripEfficiency: 0.829}
	res := resilience.Summarize([]int{4, 0, 2})

	run, err := NewStoredRun("run-1", "home", battery, res)
	require.NoError(t, err)
	require.NoError(t, repo.SaveRun(run))

	got, err := repo.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "home", got.Name)
	assert.Equal(t, 3, got.Hours)
	assert.Equal(t, 2.0, got.AvgHours)
	assert.Equal(t, battery, got.Battery())

	decoded, err := got.Result()
	require.NoError(t, err)
	assert.Equal(t, res.SurvivalHours, decoded.SurvivalHours)
	assert.Equal(t, res.SurvivalProbability, decoded.SurvivalProbability)
	assert.Equal(t, res.ByMonth, decoded.ByMonth)
	assert.Equal(t, res.ByHourOfDay, decoded.ByHourOfDay)
}

func TestRepository_GetUnknown(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.GetRun("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_ListRunsNewestFirst(t *testing.T) {
	repo := newRepo(t)
	battery := model.BatteryParams{RoundTripEfficiency: 1}
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		run, err := NewStoredRun(id, id, battery, resilience.Summarize([]int{i}))
		require.NoError(t, err)
		run.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.SaveRun(run))
	}

	runs, err := repo.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.Empty(t, runs[0].ResultJSON)
}
