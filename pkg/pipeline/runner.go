package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/atlantix-eda/aeda/pkg/cache"
	"github.com/atlantix-eda/aeda/pkg/component"
	"github.com/atlantix-eda/aeda/pkg/observability"
	"github.com/atlantix-eda/aeda/pkg/smd"
)

// Runner executes generation runs against a shared cache.
//
// The Runner holds no per-run state. Multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached artifacts.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.ArtifactTTL,
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// artifact is one output file as it moves through the run.
type artifact struct {
	format string
	spec   smd.Spec
	path   string
	key    string
	data   []byte
	cached bool
}

// Execute runs the complete expand → serialize → write pipeline.
//
// Invalid options fail before anything touches the filesystem. Once writing
// starts, a failed file does not stop the others: the result lists what was
// written and what failed, and the returned error joins every IO_FAILURE.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	return r.execute(ctx, opts, func(Event) {})
}

func (r *Runner) execute(ctx context.Context, opts Options, emit func(Event)) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.loggerFor(opts)
	hooks := observability.Pipeline()

	specs := make([]smd.Spec, len(opts.Packages))
	for i, code := range opts.Packages {
		spec, err := smd.Lookup(code)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}

	result := &Result{Stats: Stats{Packages: len(specs)}}
	arts := planArtifacts(NewLayout(opts), specs, opts)
	total := len(arts)

	// Stage 1: Templates
	r.lookup(ctx, arts, opts, &result.CacheInfo)
	emit(Event{Stage: StageTemplates, Total: total})

	// Stage 2: Expand
	var byPkg map[string][]component.Record
	req := opts.Request()
	result.Records = req.Count()
	if needsExpansion(arts) {
		start := time.Now()
		hooks.OnExpandStart(ctx, opts.Series.String(), len(specs))
		records, err := component.Expand(ctx, req)
		result.Stats.ExpandTime = time.Since(start)
		hooks.OnExpandComplete(ctx, len(records), result.Stats.ExpandTime, err)
		if err != nil {
			return nil, err
		}
		result.Records = len(records)
		result.CacheInfo.Expanded = true
		byPkg = make(map[string][]component.Record, len(specs))
		for _, group := range component.Partition(records) {
			byPkg[group[0].Package] = group
		}
		logger.Info("expanded values",
			"series", opts.Series,
			"records", len(records),
			"duration", result.Stats.ExpandTime)
	}
	emit(Event{Stage: StageExpanded, Done: result.Records, Total: req.Count()})

	// Stage 3: Serialize
	serializeStart := time.Now()
	for i, a := range arts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if a.data == nil {
			start := time.Now()
			data, err := Render(a.format, a.spec, byPkg[a.spec.Imperial], opts)
			if err != nil {
				return nil, err
			}
			a.data = data
			hooks.OnSerialize(ctx, a.format, a.spec.Imperial, len(data), time.Since(start))
			r.store(ctx, a, logger)
		}
		emit(Event{Stage: StageSerialized, Format: a.format, Package: a.spec.Imperial, Done: i + 1, Total: total})
	}
	result.Stats.SerializeTime = time.Since(serializeStart)

	logger.Info("serialized outputs",
		"formats", opts.Formats,
		"packages", len(specs),
		"cache_hits", result.CacheInfo.Hits,
		"duration", result.Stats.SerializeTime)

	// Stage 4: Write
	writeStart := time.Now()
	var failures []error
	for i, a := range arts {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		err := WriteFile(a.path, a.data)
		hooks.OnWrite(ctx, a.format, a.path, err)
		if err != nil {
			logger.Error("write failed", "path", a.path, "err", err)
			failures = append(failures, err)
			result.Failed = append(result.Failed, Failure{
				Format: a.format, Package: a.spec.Imperial, Path: a.path,
				Err: err, Message: err.Error(),
			})
		} else {
			logger.Debug("wrote file", "path", a.path, "bytes", len(a.data), "cached", a.cached)
			result.Files = append(result.Files, File{
				Format: a.format, Package: a.spec.Imperial, Path: a.path,
				Size: len(a.data), Cached: a.cached,
			})
		}
		emit(Event{Stage: StageWritten, Format: a.format, Package: a.spec.Imperial, Path: a.path, Done: i + 1, Total: total, Err: err})
	}
	result.Stats.WriteTime = time.Since(writeStart)

	logger.Info("wrote files",
		"written", len(result.Files),
		"failed", len(result.Failed),
		"duration", result.Stats.WriteTime)

	err := errors.Join(failures...)
	emit(Event{Stage: StageDone, Done: len(result.Files), Total: total, Err: err})
	return result, err
}

// planArtifacts lists every output in write order: formats in canonical
// order, packages in request order within each format.
func planArtifacts(layout Layout, specs []smd.Spec, opts Options) []*artifact {
	arts := make([]*artifact, 0, len(specs)*len(opts.Formats))
	for _, format := range opts.Formats {
		for _, spec := range specs {
			arts = append(arts, &artifact{
				format: format,
				spec:   spec,
				path:   layout.Path(format, opts.Series, spec),
			})
		}
	}
	return arts
}

func needsExpansion(arts []*artifact) bool {
	for _, a := range arts {
		if a.data == nil && (a.format == FormatKicadSymbols || a.format == FormatAltium) {
			return true
		}
	}
	return false
}

// lookup fills cached artifacts. Cache errors are logged and treated as
// misses.
func (r *Runner) lookup(ctx context.Context, arts []*artifact, opts Options, info *CacheInfo) {
	hooks := observability.Cache()
	logger := r.loggerFor(opts)
	for _, a := range arts {
		if !cacheable(a.format) {
			continue
		}
		a.key = r.Keyer.ArtifactKey(opts.ArtifactKeyOpts(a.format, a.spec.Imperial))
		if opts.Refresh {
			info.Misses++
			hooks.OnCacheMiss(ctx, a.format)
			continue
		}
		data, ok, err := r.Cache.Get(ctx, a.key)
		if err != nil {
			logger.Warn("cache read failed", "format", a.format, "package", a.spec.Imperial, "err", err)
		}
		if !ok {
			info.Misses++
			hooks.OnCacheMiss(ctx, a.format)
			continue
		}
		a.data = data
		a.cached = true
		info.Hits++
		hooks.OnCacheHit(ctx, a.format)
	}
}

func (r *Runner) store(ctx context.Context, a *artifact, logger *log.Logger) {
	if a.key == "" {
		return
	}
	if err := r.Cache.Set(ctx, a.key, a.data, r.TTL); err != nil {
		logger.Warn("cache write failed", "format", a.format, "package", a.spec.Imperial, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, a.format, len(a.data))
}

func (r *Runner) loggerFor(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
