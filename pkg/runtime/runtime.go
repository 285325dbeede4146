// Package runtime configures the Go runtime from command-line flags.
package runtime

import (
	"log/slog"
	"runtime"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	log "github.com/authzed/rpqplan/internal/logging"
)

// Replaces the default Go collector with one that includes scheduler
// metrics.
func init() {
	prometheus.DefaultRegisterer.Unregister(collectors.NewGoCollector())
	prometheus.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsAll),
	))
}

const defaultMemoryLimitRatio = 0.9

// RegisterFlags adds flags for configuring profiling rates and the memory
// limit.
//
// The following flags are added:
// - "pprof-mutex-profile-rate"
// - "pprof-block-profile-rate"
// - "memory-limit-ratio"
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Int("pprof-mutex-profile-rate", 0, "sets the mutex profile sampling rate")
	flags.Int("pprof-block-profile-rate", 0, "sets the block profile sampling rate")
	flags.Float64("memory-limit-ratio", defaultMemoryLimitRatio, "fraction of the cgroup or system memory to set as GOMEMLIMIT; zero leaves it unset")
}

// RunE returns a Cobra RunFunc that configures mutex and block profiles and
// the soft memory limit.
//
// The required flags can be added to a command by using RegisterFlags().
func RunE() cobrautil.CobraRunFunc {
	return func(cmd *cobra.Command, args []string) error {
		if cobrautil.IsBuiltinCommand(cmd) {
			return nil // No-op for builtins
		}

		runtime.SetMutexProfileFraction(cobrautil.MustGetInt(cmd, "pprof-mutex-profile-rate"))
		runtime.SetBlockProfileRate(cobrautil.MustGetInt(cmd, "pprof-block-profile-rate"))

		ratio, err := cmd.Flags().GetFloat64("memory-limit-ratio")
		if err != nil {
			return err
		}
		SetMemoryLimit(ratio)
		return nil
	}
}

// SetMemoryLimit sets GOMEMLIMIT to a fraction of the cgroup memory limit,
// or of system memory outside a cgroup. A GOMEMLIMIT set in the environment
// is left alone.
func SetMemoryLimit(ratio float64) {
	if ratio <= 0 {
		return
	}

	limit, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithRatio(ratio),
		memlimit.WithProvider(memlimit.ApplyFallback(memlimit.FromCgroup, memlimit.FromSystem)),
		memlimit.WithLogger(slog.Default()),
	)
	if err != nil {
		log.Warn().Err(err).Msg("unable to set memory limit")
		return
	}
	log.Debug().Int64("limit", limit).Float64("ratio", ratio).Msg("set memory limit")
}
