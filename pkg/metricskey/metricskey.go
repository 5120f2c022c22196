package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsRuntimeBuilt is base for counter metric for runtimes constructed
	StatsRuntimeBuilt = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_runtime_built",
		Help:         "stats_runtime_built provides total structured generation runtimes constructed",
		RequiredTags: []string{"provider"},
	}

	StatsRuntimeBuildFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_runtime_build_failed",
		Help:         "stats_runtime_build_failed provides total failed runtime constructions",
		RequiredTags: []string{"provider"},
	}

	StatsRuntimeCacheHits = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_runtime_cache_hits",
		Help:         "stats_runtime_cache_hits provides total runtime requests served from cache",
		RequiredTags: []string{"provider"},
	}

	StatsRuntimeRefreshed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_runtime_refreshed",
		Help:         "stats_runtime_refreshed provides total runtime cache invalidations",
		RequiredTags: []string{"reason"},
	}
)

// Perf
var (
	PerfRuntimeBuild = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_runtime_build",
		Help:         "perf_runtime_build provides duration of runtime construction",
		RequiredTags: []string{"provider"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfRuntimeBuild,
	&StatsRuntimeBuildFailed,
	&StatsRuntimeBuilt,
	&StatsRuntimeCacheHits,
	&StatsRuntimeRefreshed,
}
