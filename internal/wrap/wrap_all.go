package wrap

import "context"

// ResolveAll runs Resolve over every path in order, returning the resolved
// (as-is or wrapped) pipeline entries in the same order. It stops at the
// first failure.
func (w *Wrapper) ResolveAll(ctx context.Context, paths []string, version string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		resolved, err := w.Resolve(ctx, p, version)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}
