package graphmodel

import (
	"context"
	"errors"
	"log/slog"

	"github.com/quiltcore/bundler/asset"
	"github.com/quiltcore/bundler/internal/trace"
)

// ErrNilVisitor is returned when Walk is called with a nil visitor.
var ErrNilVisitor = errors.New("graphmodel: nil visitor")

// WalkOption configures Walk's behavior.
type WalkOption func(*walkConfig)

type walkConfig struct {
	logger *slog.Logger
}

// WithLogger enables debug logging during traversal.
func WithLogger(logger *slog.Logger) WalkOption {
	return func(cfg *walkConfig) {
		cfg.logger = logger
	}
}

// Walk performs a depth-first traversal of g, starting from its entry
// dependencies, invoking visitor.Enter on descent and visitor.Exit on
// ascent. The context value Enter returns is threaded by return into that
// node's children only — never shared or mutated across siblings.
//
// Traversal order is deterministic and follows the graph's own stable
// order: entries in the order supplied to [asset.NewGraph], a
// dependency's resolved assets in the order its resolve closure returns
// them, and an asset's declared dependencies in the order supplied to
// [asset.NewGraph]. Every asset reachable from an entry dependency is
// visited at least once; an asset reachable via more than one path is
// re-entered once per path — Walk does not deduplicate shared subtrees,
// since callers (the initial bundling pass) rely on this re-entry to
// attach a shared asset's bundles to every bundle-group that reaches it.
//
// A dependency's resolved target that names an asset not present in g
// (an excluded or external module) is not descended into; it is simply
// absent from this traversal. Callers that need to observe external
// targets query asset.Dependency/asset.Graph directly.
//
// Returns on the first error from visitor.Enter or visitor.Exit, or if
// ctx is cancelled between nodes. Panics if ctx is nil. Returns nil
// without visiting anything if g is nil. Returns [ErrNilVisitor] if
// visitor is nil.
func Walk[C any](ctx context.Context, g *asset.Graph, visitor Visitor[C], initial C, opts ...WalkOption) error {
	if ctx == nil {
		panic("graphmodel.Walk: nil context")
	}

	if g == nil {
		return nil
	}

	if visitor == nil {
		return ErrNilVisitor
	}

	cfg := walkConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	op := trace.Begin(ctx, cfg.logger, "bundler.graphmodel.walk",
		slog.Int("asset_count", g.Len()),
	)

	w := &walker[C]{g: g, visitor: visitor, config: cfg}
	err := w.walk(ctx, initial)
	op.End(err)
	return err
}

type walker[C any] struct {
	g       *asset.Graph
	visitor Visitor[C]
	config  walkConfig
}

func (w *walker[C]) walk(ctx context.Context, initial C) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck // context errors pass through unwrapped
	}

	for _, depID := range w.g.Entries() {
		if err := w.walkDependency(ctx, depID, initial); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker[C]) walkDependency(ctx context.Context, id asset.ID, c C) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck // context errors pass through unwrapped
	}

	dep, ok := w.g.Dependency(id)
	if !ok {
		return nil
	}

	node := NewDependencyNode(id)
	next, ctrl, err := w.visitor.Enter(ctx, node, c)
	if err != nil {
		return err //nolint:wrapcheck // visitor errors pass through unwrapped
	}

	trace.Debug(ctx, w.config.logger, "visiting dependency", slog.String("id", string(id)))

	if ctrl != SkipChildren {
		for _, targetID := range dep.Resolve() {
			if _, ok := w.g.Asset(targetID); !ok {
				continue
			}
			if err := w.walkAsset(ctx, targetID, next); err != nil {
				return err
			}
		}
	}

	return w.visitor.Exit(ctx, node, next)
}

func (w *walker[C]) walkAsset(ctx context.Context, id asset.ID, c C) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck // context errors pass through unwrapped
	}

	node := NewAssetNode(id)
	next, ctrl, err := w.visitor.Enter(ctx, node, c)
	if err != nil {
		return err //nolint:wrapcheck // visitor errors pass through unwrapped
	}

	trace.Debug(ctx, w.config.logger, "visiting asset", slog.String("id", string(id)))

	if ctrl != SkipChildren {
		for _, depID := range w.g.DependenciesOf(id) {
			if err := w.walkDependency(ctx, depID, next); err != nil {
				return err
			}
		}
	}

	return w.visitor.Exit(ctx, node, next)
}
