package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/payplan/internal/calculation"
	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/rgehrsitz/payplan/pkg/dateutil"
)

// AsOfEnvVar pins the reference date when no explicit date is given
const AsOfEnvVar = "PAYPLAN_AS_OF"

// RunFlags are the raw run parameters collected from the CLI or a query string
type RunFlags struct {
	MonthsAhead      int
	Scenario         string
	ClassFilter      string
	AsOf             string
	CollectionsLimit int
}

// DefaultRunFlags mirrors calculation.DefaultOptions
func DefaultRunFlags() RunFlags {
	opts := calculation.DefaultOptions()
	return RunFlags{
		MonthsAhead:      opts.MonthsAhead,
		Scenario:         string(opts.Scenario),
		CollectionsLimit: opts.CollectionsLimit,
	}
}

// BuildRunOptions converts raw flags into validated run options. A blank AsOf
// falls back to PAYPLAN_AS_OF, then to the engine clock at run time.
func BuildRunOptions(flags RunFlags) (domain.RunOptions, error) {
	scenario, err := domain.ParseScenario(flags.Scenario)
	if err != nil {
		return domain.RunOptions{}, err
	}

	opts := domain.RunOptions{
		MonthsAhead:      flags.MonthsAhead,
		Scenario:         scenario,
		ClassFilter:      strings.TrimSpace(flags.ClassFilter),
		CollectionsLimit: flags.CollectionsLimit,
	}

	asOf := strings.TrimSpace(flags.AsOf)
	if asOf == "" {
		asOf = strings.TrimSpace(os.Getenv(AsOfEnvVar))
	}
	if asOf != "" {
		t, err := dateutil.ParseDate(asOf)
		if err != nil {
			return domain.RunOptions{}, fmt.Errorf("invalid as-of date %q: %w", asOf, err)
		}
		opts.AsOf = t
	}

	if err := calculation.ValidateOptions(opts); err != nil {
		return domain.RunOptions{}, err
	}
	return opts, nil
}
