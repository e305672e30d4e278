package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outage-resilience/internal/model"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_InlineBatteryWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
battery:
  name: home
  energy_capacity_kwh: 13.5
  power_capacity_kw: 5
simulation:
  workers: 4
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "home", c.Battery.Name)
	assert.Equal(t, model.DefaultRoundTripEfficiency, c.Battery.RoundTripEfficiency)
	assert.Equal(t, 4, c.Simulation.Workers)
	assert.Equal(t, time.Hour, c.Cache.TTL)
	assert.Empty(t, c.Storage.Path)
}

func TestLoad_BatteryFileRelativeToConfigWithOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "batteries/powerwall.yaml", `
battery:
  name: powerwall
  energy_capacity_kwh: 13.5
  power_capacity_kw: 5
  round_trip_efficiency: 0.9
`)
	path := writeFile(t, dir, "config.yaml", `
battery_file: batteries/powerwall.yaml
battery:
  power_capacity_kw: 7.6
storage:
  path: runs.db
cache:
  ttl: 15m
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "powerwall", c.Battery.Name)
	assert.Equal(t, 13.5, c.Battery.EnergyCapacityKWh)
	assert.Equal(t, 7.6, c.Battery.PowerCapacityKW)
	assert.Equal(t, 0.9, c.Battery.RoundTripEfficiency)
	assert.Equal(t, "runs.db", c.Storage.Path)
	assert.Equal(t, 15*time.Minute, c.Cache.TTL)
}

func TestLoad_RejectsInvalidBattery(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
battery:
  energy_capacity_kwh: -1
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "battery config invalid")
}

func TestLoad_MissingBatteryFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "battery_file: nope.yaml\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestMergeBattery(t *testing.T) {
	base := BatteryConfig{Name: "a", EnergyCapacityKWh: 10, PowerCapacityKW: 5, RoundTripEfficiency: 0.9}
	out := MergeBattery(base, BatteryConfig{EnergyCapacityKWh: 20})

	assert.Equal(t, BatteryConfig{Name: "a", EnergyCapacityKWh: 20, PowerCapacityKW: 5, RoundTripEfficiency: 0.9}, out)
}
