package config

import (
	"testing"
	"time"

	"github.com/rgehrsitz/payplan/internal/calculation"
	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRunOptions(t *testing.T) {
	t.Setenv(AsOfEnvVar, "")

	flags := DefaultRunFlags()
	flags.Scenario = "Restart"
	flags.ClassFilter = " Retail "
	flags.AsOf = "2026-03-20"

	opts, err := BuildRunOptions(flags)
	require.NoError(t, err)
	assert.Equal(t, 12, opts.MonthsAhead)
	assert.Equal(t, domain.ScenarioRestart, opts.Scenario)
	assert.Equal(t, "Retail", opts.ClassFilter)
	assert.Equal(t, calculation.DefaultCollectionsLimit, opts.CollectionsLimit)
	assert.Equal(t, time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC), opts.AsOf)
}

func TestBuildRunOptions_EnvFallback(t *testing.T) {
	t.Setenv(AsOfEnvVar, "2025-12-31")

	opts, err := BuildRunOptions(DefaultRunFlags())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), opts.AsOf)

	t.Setenv(AsOfEnvVar, "")
	opts, err = BuildRunOptions(DefaultRunFlags())
	require.NoError(t, err)
	assert.True(t, opts.AsOf.IsZero())

	clock := time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC)
	engine := calculation.NewCalculationEngine()
	engine.Clock = func() time.Time { return clock }
	assert.Equal(t, clock, engine.PinAsOf(opts), "an unpinned run reads the engine clock")
}

func TestBuildRunOptions_Errors(t *testing.T) {
	t.Setenv(AsOfEnvVar, "")

	flags := DefaultRunFlags()
	flags.Scenario = "forgive"
	_, err := BuildRunOptions(flags)
	assert.ErrorIs(t, err, domain.ErrUnknownScenario)

	flags = DefaultRunFlags()
	flags.MonthsAhead = 0
	_, err = BuildRunOptions(flags)
	assert.ErrorIs(t, err, calculation.ErrInvalidMonthsAhead)

	flags = DefaultRunFlags()
	flags.AsOf = "March 20"
	_, err = BuildRunOptions(flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid as-of date")
}
