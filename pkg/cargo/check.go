package cargo

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/matzehuels/crateinfo/pkg/integrations/crates"
)

// Fetcher looks up the latest release of a crate. *crates.Client implements it.
type Fetcher interface {
	LatestVersionOf(ctx context.Context, name string) (crates.Release, bool, error)
}

// Options configures [Check].
type Options struct {
	// Concurrency caps the number of lookups in flight. Defaults to 4.
	Concurrency int
	// RequestsPerSecond paces lookups. Zero or negative disables pacing.
	RequestsPerSecond float64
	// OnProgress, if set, is called after each lookup with the number of
	// finished lookups. Calls are serialized.
	OnProgress func(done, total int)
	Logger     *log.Logger
}

const defaultConcurrency = 4

// Status is the lookup result for one dependency.
type Status struct {
	Dependency Dependency
	// Latest is the newest non-yanked version, empty when none exists.
	Latest string
	// Found is false when the crate does not exist or has no non-yanked
	// version.
	Found bool
	// Err holds a lookup failure for this dependency alone.
	Err error
}

// Outdated reports whether the latest release is newer than the version the
// requirement is anchored at. Unparsable or wildcard requirements are never
// outdated.
func (s Status) Outdated() bool {
	if !s.Found || s.Err != nil {
		return false
	}
	base, ok := baseVersion(s.Dependency.Requirement)
	if !ok {
		return false
	}
	cmp, ok := compareVersions(s.Latest, base)
	return ok && cmp > 0
}

// Check looks up every dependency and returns one Status per dependency, in
// the order given. A failed lookup is recorded in its Status and does not
// stop the others; Check itself only fails when ctx is done.
func Check(ctx context.Context, f Fetcher, deps []Dependency, opts Options) ([]Status, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	results := make([]Status, len(deps))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, dep := range deps {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			rel, found, err := f.LatestVersionOf(gctx, dep.Crate)
			st := Status{Dependency: dep, Found: found, Err: err}
			if found {
				st.Latest = rel.Version.Num
			}
			results[i] = st

			if err != nil {
				logger.Warn("lookup failed", "crate", dep.Crate, "err", err)
			} else {
				logger.Debug("lookup", "crate", dep.Crate, "latest", st.Latest, "found", found)
			}
			if opts.OnProgress != nil {
				mu.Lock()
				done++
				opts.OnProgress(done, len(deps))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
