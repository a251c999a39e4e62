package proof

import (
	"log/slog"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/derive"
	"github.com/chazu/elements/pkg/facts"
	"github.com/chazu/elements/pkg/intersect"
	"github.com/chazu/elements/pkg/proposition"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Snapshot is the session as it stood before one committed step. Facts
// are kept as a list; the store is rebuilt from them on restore.
type Snapshot struct {
	State      construction.State    `json:"-"`
	Candidates []intersect.Candidate `json:"candidates"`
	Facts      []facts.Fact          `json:"facts"`
	Ghosts     []GhostLayer          `json:"ghosts"`
	// Step is the index of the step about to be applied. Indices at or
	// past the proposition's step count refer to free actions.
	Step int `json:"step"`
}

func (f *frame) snapshot(step int) Snapshot {
	return Snapshot{
		State:      f.state,
		Candidates: append([]intersect.Candidate(nil), f.cands...),
		Facts:      f.store.Facts(),
		Ghosts:     append([]GhostLayer(nil), f.ghosts...),
		Step:       step,
	}
}

func restore(s Snapshot) *frame {
	return &frame{
		state:  s.State,
		cands:  append([]intersect.Candidate(nil), s.Candidates...),
		store:  facts.Rebuild(s.Facts),
		ghosts: append([]GhostLayer(nil), s.Ghosts...),
	}
}

// Result is the outcome of a replay.
type Result struct {
	State      construction.State    `json:"-"`
	Candidates []intersect.Candidate `json:"candidates"`
	Facts      []facts.Fact          `json:"facts"`
	Ghosts     []GhostLayer          `json:"ghosts"`
	// StepsCompleted is the number of leading steps that succeeded. Steps
	// after the first failure still run, so labels stay stable, but their
	// results may be missing.
	StepsCompleted int `json:"steps_completed"`
	// Conclusion is derived only when every step succeeded.
	Conclusion *derive.Conclusion `json:"conclusion,omitempty"`
	Snapshots  []Snapshot         `json:"-"`
}

// Complete reports whether every step of a full replay succeeded.
func (res Result) Complete(def *proposition.Def) bool {
	return res.StepsCompleted == len(def.Steps)
}

// Replay rebuilds def from scratch with its given points at positions
// (keyed by point id; missing entries keep their default), then re-applies
// the free actions recorded after completion. Every step is re-run through
// the intersection engine, selector resolution and fact derivation, exactly
// as a live session would run it.
func (r *Registry) Replay(def *proposition.Def, positions map[string]v2.Vec, free []proposition.Action) Result {
	res := r.run(def, len(def.Steps), positions, free, 1)
	r.opts.Logger.Debug("replay finished",
		slog.String("prop", def.ID),
		slog.Int("steps", len(def.Steps)),
		slog.Int("steps_completed", res.StepsCompleted),
		slog.Int("facts", len(res.Facts)),
	)
	return res
}

// Replay is Registry.Replay on a registry built from opts.
func Replay(def *proposition.Def, positions map[string]v2.Vec, free []proposition.Action, opts Options) Result {
	return NewRegistry(opts).Replay(def, positions, free)
}

// run applies the first n steps of def, then free, at macro depth depth.
func (r *Registry) run(def *proposition.Def, n int, positions map[string]v2.Vec, free []proposition.Action, depth int) Result {
	if n > len(def.Steps) {
		n = len(def.Steps)
	}
	f := r.seed(def, positions, def.Extend)
	var snaps []Snapshot
	completed := 0
	failed := false
	for i := 0; i < n; i++ {
		snaps = append(snaps, f.snapshot(i))
		step := def.Steps[i]
		if step.Action == nil {
			failed = true
			continue
		}
		res := r.apply(f, step.Action, i+1, def.Extend, depth)
		if !res.OK {
			if !failed {
				r.opts.Logger.Debug("step failed",
					slog.String("prop", def.ID),
					slog.Int("step", i+1),
					slog.String("action", step.Action.Kind().String()),
				)
			}
			failed = true
			continue
		}
		if !failed {
			completed++
		}
	}

	var conclusion *derive.Conclusion
	if !failed && n == len(def.Steps) && def.ConclusionID != "" {
		if c, ok := derive.Conclude(def.ConclusionID, f.store, f.state, len(def.Steps)); ok {
			conclusion = &c
		}
	}

	for j, a := range free {
		snaps = append(snaps, f.snapshot(n+j))
		r.apply(f, a, len(def.Steps)+1+j, def.Extend, depth)
	}

	return Result{
		State:          f.state,
		Candidates:     f.cands,
		Facts:          f.store.Facts(),
		Ghosts:         f.ghosts,
		StepsCompleted: completed,
		Conclusion:     conclusion,
		Snapshots:      snaps,
	}
}
