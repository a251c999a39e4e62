package proof

import (
	"errors"
	"log/slog"
	"maps"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/derive"
	"github.com/chazu/elements/pkg/facts"
	"github.com/chazu/elements/pkg/intersect"
	"github.com/chazu/elements/pkg/proposition"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/google/uuid"
)

// ErrUnexpectedAction is returned by Commit when the action is not the one
// the next step expects.
var ErrUnexpectedAction = errors.New("action does not match the expected step")

// Session is one student's live construction of one proposition. It owns
// its construction state and its fact store; neither is shared with any
// other session. Calls must be sequential.
type Session struct {
	id        uuid.UUID
	def       *proposition.Def
	reg       *Registry
	logger    *slog.Logger
	positions map[string]v2.Vec

	cur        *frame
	committed  int
	free       []proposition.Action
	snapshots  []Snapshot
	completed  int
	conclusion *derive.Conclusion
}

// NewSession starts a session on def with its givens at their default
// positions.
func NewSession(def *proposition.Def, reg *Registry) *Session {
	s := &Session{
		id:        uuid.New(),
		def:       def,
		reg:       reg,
		logger:    reg.opts.Logger,
		positions: def.Positions(),
	}
	s.cur = reg.seed(def, s.positions, def.Extend)
	s.logger.Info("session started",
		slog.String("session_id", s.id.String()),
		slog.String("prop", def.ID),
	)
	return s
}

// ID identifies the session to downstream consumers.
func (s *Session) ID() uuid.UUID { return s.id }

// Def returns the proposition being constructed.
func (s *Session) Def() *proposition.Def { return s.def }

// State returns the current construction.
func (s *Session) State() construction.State { return s.cur.state }

// Candidates returns the pending intersections.
func (s *Session) Candidates() []intersect.Candidate {
	return append([]intersect.Candidate(nil), s.cur.cands...)
}

// Facts returns the proof so far.
func (s *Session) Facts() []facts.Fact { return s.cur.store.Facts() }

// Store exposes the session's fact store for queries.
func (s *Session) Store() *facts.Store { return s.cur.store }

// Ghosts returns the ghost layers of every macro applied so far.
func (s *Session) Ghosts() []GhostLayer {
	return append([]GhostLayer(nil), s.cur.ghosts...)
}

// Conclusion returns the derived conclusion once every step is done.
func (s *Session) Conclusion() (derive.Conclusion, bool) {
	if s.conclusion == nil {
		return derive.Conclusion{}, false
	}
	return *s.conclusion, true
}

// Committed returns the number of proposition steps committed.
func (s *Session) Committed() int { return s.committed }

// StepsCompleted is the number of leading committed steps that hold in
// the current figure. It drops below Committed when a drag makes a step
// degenerate.
func (s *Session) StepsCompleted() int { return s.completed }

// Done reports whether every step of the proposition has been committed.
func (s *Session) Done() bool { return s.committed == len(s.def.Steps) }

// FreeActions returns the actions recorded after completion.
func (s *Session) FreeActions() []proposition.Action {
	return append([]proposition.Action(nil), s.free...)
}

// Snapshots returns the undo stack, oldest first.
func (s *Session) Snapshots() []Snapshot {
	return append([]Snapshot(nil), s.snapshots...)
}

// Expected returns the next step, if any.
func (s *Session) Expected() (proposition.Step, bool) {
	if s.Done() {
		return proposition.Step{}, false
	}
	return s.def.Steps[s.committed], true
}

// Commit applies a. Before completion a must be the expected step; after
// completion it is recorded as a free action. A failed action (no such
// intersection, degenerate macro input) leaves the session unchanged.
func (s *Session) Commit(a proposition.Action) (StepResult, error) {
	if a == nil {
		return StepResult{}, ErrUnexpectedAction
	}
	index := s.committed + len(s.free)
	atStep := index + 1
	if !s.Done() {
		if !proposition.SameAction(s.def.Steps[s.committed].Action, a) {
			return StepResult{}, ErrUnexpectedAction
		}
	}

	snap := s.cur.snapshot(index)
	res := s.reg.apply(s.cur, a, atStep, s.def.Extend, 1)
	if !res.OK {
		s.cur = restore(snap)
		s.logger.Debug("commit failed",
			slog.String("session_id", s.id.String()),
			slog.Int("step", atStep),
			slog.String("action", a.Kind().String()),
		)
		return res, nil
	}
	s.snapshots = append(s.snapshots, snap)

	if s.Done() {
		s.free = append(s.free, a)
		return res, nil
	}
	s.committed++
	if s.completed == s.committed-1 {
		s.completed = s.committed
	}
	if s.Done() {
		s.conclude()
	}
	return res, nil
}

// CommitNext commits the expected step.
func (s *Session) CommitNext() (StepResult, error) {
	st, ok := s.Expected()
	if !ok {
		return StepResult{}, ErrUnexpectedAction
	}
	return s.Commit(st.Action)
}

func (s *Session) conclude() {
	s.conclusion = nil
	if s.def.ConclusionID == "" || s.completed != len(s.def.Steps) {
		return
	}
	if c, ok := derive.Conclude(s.def.ConclusionID, s.cur.store, s.cur.state, len(s.def.Steps)); ok {
		s.conclusion = &c
		s.logger.Info("proposition concluded",
			slog.String("session_id", s.id.String()),
			slog.String("prop", s.def.ID),
			slog.Bool("holds", c.Holds),
		)
	}
}

// DeleteLastStep undoes the most recent commit. It returns false when
// there is nothing to undo.
func (s *Session) DeleteLastStep() bool {
	if len(s.snapshots) == 0 {
		return false
	}
	return s.RewindToStep(s.snapshots[len(s.snapshots)-1].Step)
}

// RewindToStep restores the session to how it stood before step k (zero
// based, counting free actions after the proposition's steps) and drops
// everything after. The fact store is rebuilt from the retained facts.
func (s *Session) RewindToStep(k int) bool {
	if k < 0 || k >= len(s.snapshots) {
		return false
	}
	snap := s.snapshots[k]
	s.cur = restore(snap)
	s.snapshots = s.snapshots[:k:k]

	steps := len(s.def.Steps)
	if k < steps {
		s.committed = k
		s.free = nil
	} else {
		s.committed = steps
		s.free = s.free[: k-steps : k-steps]
	}
	if s.completed > s.committed {
		s.completed = s.committed
	}
	if !s.Done() {
		s.conclusion = nil
	}
	return true
}

// Drag moves given points (keyed by point id) and re-proves the session
// from scratch: every committed step and free action is replayed against
// the new positions.
func (s *Session) Drag(positions map[string]v2.Vec) Result {
	next := maps.Clone(s.positions)
	for id, p := range positions {
		if _, ok := next[id]; ok {
			next[id] = p
		}
	}
	s.positions = next

	res := s.reg.run(s.def, s.committed, s.positions, s.free, 1)
	s.cur = &frame{
		state:  res.State,
		cands:  res.Candidates,
		store:  facts.Rebuild(res.Facts),
		ghosts: res.Ghosts,
	}
	s.snapshots = res.Snapshots
	s.completed = res.StepsCompleted
	s.conclusion = res.Conclusion
	s.logger.Debug("drag replayed",
		slog.String("session_id", s.id.String()),
		slog.Int("committed", s.committed),
		slog.Int("steps_completed", res.StepsCompleted),
	)
	return res
}

// Positions returns the current given-point positions.
func (s *Session) Positions() map[string]v2.Vec {
	return maps.Clone(s.positions)
}
