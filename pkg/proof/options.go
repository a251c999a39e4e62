// Package proof runs constructions: it applies steps to a construction
// state, derives the facts each step licenses, expands macros into their
// visible results plus ghost geometry, and keeps a live session consistent
// under undo, rewind and drag.
//
// A live session and a replay apply steps through the same code, so a
// dragged figure is re-proved rather than interpolated.
package proof

import (
	"log/slog"

	"github.com/chazu/elements/pkg/kernel"
	"github.com/chazu/elements/pkg/kernel/sdfx"
	"github.com/chazu/elements/pkg/proposition"
)

// DefaultGhostDepth is the deepest macro nesting whose ghost layers are
// kept when Options.GhostDepth is zero.
const DefaultGhostDepth = 3

// Options configures a Registry.
type Options struct {
	// Kernel solves intersections. Nil uses the sdfx kernel.
	Kernel kernel.Kernel
	// Library resolves macro ids. Nil uses proposition.Builtin.
	Library proposition.Library
	// GhostDepth caps the depth of recorded ghost layers. Deeper macros
	// still run; only their ghost geometry is dropped.
	GhostDepth int
	// Logger receives step and macro diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Kernel == nil {
		o.Kernel = sdfx.New()
	}
	if o.Library == nil {
		o.Library = proposition.Builtin()
	}
	if o.GhostDepth <= 0 {
		o.GhostDepth = DefaultGhostDepth
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
