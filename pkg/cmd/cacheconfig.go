package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ccoveille/go-safecast/v2"
	"github.com/dustin/go-humanize"
	"github.com/jzelinskie/stringz"
	"github.com/pbnjay/memory"
	"github.com/spf13/pflag"

	log "github.com/authzed/rpqplan/internal/logging"
	"github.com/authzed/rpqplan/pkg/cache"
	"github.com/authzed/rpqplan/pkg/optimizer"
)

// At startup, measure 75% of available free memory.
var freeMemory uint64

func init() {
	freeMemory = memory.FreeMemory() / 100 * 75
}

// PlanCacheConfig defines configuration for the optimized plan cache.
type PlanCacheConfig struct {
	// MaxCost is a byte size ("16MiB") or a percentage of free memory ("10%").
	MaxCost    string
	DefaultTTL time.Duration
	Metrics    bool
	Disabled   bool
}

const defaultPlanCacheMaxCost = "16MiB"

// Complete translates the CLI cache config into a plan cache.
func (cc *PlanCacheConfig) Complete() (cache.Cache[cache.StringKey, optimizer.Result], error) {
	if cc.Disabled || cc.MaxCost == "" {
		return cache.NoopCache[cache.StringKey, optimizer.Result](), nil
	}

	maxCost, err := parseMaxCost(cc.MaxCost, freeMemory)
	if err != nil {
		return nil, err
	}
	if maxCost == 0 {
		return cache.NoopCache[cache.StringKey, optimizer.Result](), nil
	}

	config := &cache.Config{DefaultTTL: cc.DefaultTTL}
	config.MaxCost, err = safecast.Convert[int64](maxCost)
	if err != nil {
		return nil, fmt.Errorf("cache max memory out of range: `%s`: %w", cc.MaxCost, err)
	}

	var plans cache.Cache[cache.StringKey, optimizer.Result]
	if cc.Metrics {
		plans, err = cache.NewTheineCacheWithMetrics[cache.StringKey, optimizer.Result]("plan", config)
	} else {
		plans, err = cache.NewTheineCache[cache.StringKey, optimizer.Result](config)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().EmbedObject(config).Object("cache", plans).Msg("created plan cache")
	return plans, nil
}

func parseMaxCost(str string, freeMem uint64) (uint64, error) {
	if strings.HasSuffix(str, "%") {
		percent, err := parsePercent(str)
		if err != nil {
			return 0, fmt.Errorf("error parsing cache max memory: `%s`: %w", str, err)
		}
		return freeMem / 100 * percent, nil
	}

	maxCost, err := humanize.ParseBytes(str)
	if err != nil {
		return 0, fmt.Errorf("error parsing cache max memory: `%s`: %w", str, err)
	}
	return maxCost, nil
}

func parsePercent(str string) (uint64, error) {
	percent := strings.TrimSuffix(str, "%")
	parsedPercent, err := strconv.ParseUint(percent, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse percentage: %w", err)
	}

	if parsedPercent > 100 {
		return 0, fmt.Errorf("percentage greater than 100")
	}

	return parsedPercent, nil
}

// RegisterPlanCacheFlags registers flags for the plan cache.
func RegisterPlanCacheFlags(flags *pflag.FlagSet, config *PlanCacheConfig, flagPrefix string) {
	flagPrefix = stringz.DefaultEmpty(flagPrefix, "plan-cache")
	flags.StringVar(&config.MaxCost, flagPrefix+"-max-cost", config.MaxCost, "the maximum size of the cache, in bytes or as a percentage of free memory")
	flags.DurationVar(&config.DefaultTTL, flagPrefix+"-ttl", config.DefaultTTL, "how long an optimized plan stays cached; zero keeps plans until evicted")
	flags.BoolVar(&config.Metrics, flagPrefix+"-metrics", config.Metrics, "whether metrics should be maintained for the cache")
	flags.BoolVar(&config.Disabled, flagPrefix+"-disabled", config.Disabled, "if true, fully disables the cache")
}
