package pkgclient

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/pkg/logging"
)

// FetchMany fetches every ref in refs concurrently, bounded by
// cfg.MaxConcurrentFetches (default 8), and returns a map keyed by
// ref.String() to its local path. If any fetch fails, FetchMany cancels the
// remaining in-flight fetches and returns the first error.
func (c *Client) FetchMany(ctx context.Context, refs []component.RegistryRef) (map[string]string, error) {
	results := make(map[string]string, len(refs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.maxConcurrentFetches())

	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			path, err := c.Fetch(gctx, ref.Namespace, ref.Package, ref.Version)
			if err != nil {
				return err
			}
			mu.Lock()
			results[ref.String()] = path
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logging.Info("pkgclient", "fetched %d packages", len(results))
	return results, nil
}
