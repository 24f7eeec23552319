package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hyperstairs/pkg/cache"
	"github.com/matzehuels/hyperstairs/pkg/drawing"
	"github.com/matzehuels/hyperstairs/pkg/observability"
)

const artifactKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the artifact lifetime in the cache; zero means cache.DefaultTTL.
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
	}
}

// Execute draws opts into a fresh document and renders it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	doc := drawing.New(opts.Name, drawing.WithLogger(r.Logger))
	result := &Result{Document: doc}

	drawStart := time.Now()
	ids, err := r.Draw(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}
	result.IDs = ids
	result.Stats.DrawTime = time.Since(drawStart)

	renderStart := time.Now()
	snap, artifacts, info, err := r.render(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Snapshot = snap
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.Entities = len(snap.Entities)
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"entities", result.Stats.Entities,
		"cached", info.Hits,
		"duration", result.Stats.DrawTime+result.Stats.RenderTime)

	return result, nil
}

// Render renders the committed state of doc. Each artifact is looked up in
// the cache under the document hash and the options that affect its bytes;
// only missing formats are rendered and stored.
func (r *Runner) Render(ctx context.Context, doc *drawing.Document, opts Options) (map[string][]byte, CacheInfo, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, CacheInfo{}, err
	}
	_, artifacts, info, err := r.render(ctx, doc, opts)
	return artifacts, info, err
}

func (r *Runner) render(ctx context.Context, doc *drawing.Document, opts Options) (drawing.Snapshot, map[string][]byte, CacheInfo, error) {
	snap := doc.Snapshot()
	hooks := observability.Cache()

	var info CacheInfo
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(snap.Hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		if err == nil && hit {
			hooks.OnCacheHit(ctx, artifactKeyType)
			artifacts[format] = data
			info.Hits++
			continue
		}
		hooks.OnCacheMiss(ctx, artifactKeyType)
		missing = append(missing, format)
		info.Misses++
	}

	if len(missing) == 0 {
		return snap, artifacts, info, nil
	}

	start := time.Now()
	observability.Render().OnRenderStart(ctx, missing)
	rendered, err := RenderSnapshot(ctx, snap, missing, opts)
	observability.Render().OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return snap, nil, info, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(snap.Hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, artifactKeyType, len(data))
	}
	return snap, artifacts, info, nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.DefaultTTL
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
