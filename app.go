package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/chazu/elements/pkg/config"
	"github.com/chazu/elements/pkg/derive"
	"github.com/chazu/elements/pkg/engine"
	"github.com/chazu/elements/pkg/facts"
	"github.com/chazu/elements/pkg/kernel"
	"github.com/chazu/elements/pkg/kernel/sdfx"
	"github.com/chazu/elements/pkg/proof"
	"github.com/chazu/elements/pkg/proposition"
	"github.com/chazu/elements/pkg/scenario"
	"github.com/chazu/elements/pkg/tessellate"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// App bundles the engine, kernel and proposition library behind the
// commands. Every method returns a frontend-ready result.
type App struct {
	engine   *engine.Engine
	kernel   kernel.Kernel
	library  proposition.Library
	logger   *slog.Logger
	depth    int
	segments int
}

// EvalErrorData is a serializable error or warning.
type EvalErrorData struct {
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Col     int    `json:"col,omitempty" yaml:"col,omitempty"`
	Step    int    `json:"step,omitempty" yaml:"step,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// FactData is one transcript line.
type FactData struct {
	ID            int    `json:"id" yaml:"id"`
	Statement     string `json:"statement" yaml:"statement"`
	Citation      string `json:"citation" yaml:"citation"`
	Justification string `json:"justification,omitempty" yaml:"justification,omitempty"`
	AtStep        int    `json:"at_step" yaml:"at_step"`
}

// ConclusionData is the serializable conclusion.
type ConclusionData struct {
	Statement string     `json:"statement" yaml:"statement"`
	Holds     bool       `json:"holds" yaml:"holds"`
	Added     []FactData `json:"added,omitempty" yaml:"added,omitempty"`
	Chain     []FactData `json:"chain,omitempty" yaml:"chain,omitempty"`
}

// EvalResult is the full result of showing, evaluating or replaying a
// proposition.
type EvalResult struct {
	Proposition    string             `json:"proposition,omitempty" yaml:"proposition,omitempty"`
	Title          string             `json:"title,omitempty" yaml:"title,omitempty"`
	Instructions   []string           `json:"instructions" yaml:"instructions"`
	Facts          []FactData         `json:"facts" yaml:"facts"`
	Conclusion     *ConclusionData    `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
	StepsCompleted int                `json:"steps_completed" yaml:"steps_completed"`
	Steps          int                `json:"steps" yaml:"steps"`
	Moved          []string           `json:"moved,omitempty" yaml:"moved,omitempty"`
	Ghosts         []proof.GhostLayer `json:"ghosts,omitempty" yaml:"ghosts,omitempty"`
	GhostDepth     int                `json:"ghost_depth" yaml:"ghost_depth"`
	Scene          *tessellate.Scene  `json:"scene,omitempty" yaml:"scene,omitempty"`
	Errors         []EvalErrorData    `json:"errors" yaml:"errors"`
	Warnings       []EvalErrorData    `json:"warnings" yaml:"warnings"`
}

// Summary is one row of the proposition list.
type Summary struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Steps int    `json:"steps" yaml:"steps"`
	Macro bool   `json:"macro" yaml:"macro"`
	// Concludes is set when a conclusion rule is registered for the id.
	Concludes bool `json:"concludes" yaml:"concludes"`
}

// NewApp creates an App over the built-in library and the sdfx kernel.
func NewApp(cfg config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	eng := engine.NewEngine()
	if cfg.EvalTimeout > 0 {
		eng.Timeout = cfg.EvalTimeout
	}
	return &App{
		engine:   eng,
		kernel:   sdfx.New(),
		library:  proposition.Builtin(),
		logger:   logger,
		depth:    cfg.GhostDepth,
		segments: cfg.CircleSegments,
	}
}

func (a *App) registry(lib proposition.Library) *proof.Registry {
	return proof.NewRegistry(proof.Options{
		Kernel:     a.kernel,
		Library:    lib,
		GhostDepth: a.depth,
		Logger:     a.logger,
	})
}

func newResult() EvalResult {
	return EvalResult{
		Instructions: []string{},
		Facts:        []FactData{},
		Errors:       []EvalErrorData{},
		Warnings:     []EvalErrorData{},
	}
}

// List returns a summary of every built-in proposition.
func (a *App) List() []Summary {
	var out []Summary
	concluded := derive.IDs()
	for _, id := range a.library.IDs() {
		d, _ := a.library.Lookup(id)
		out = append(out, Summary{
			ID:        d.ID,
			Title:     d.Title,
			Steps:     len(d.Steps),
			Macro:     d.IsMacro(),
			Concludes: slices.Contains(concluded, id),
		})
	}
	return out
}

// Show replays a built-in proposition at its default positions.
func (a *App) Show(id string) (EvalResult, error) {
	return a.Replay(id, nil)
}

// Replay replays a built-in proposition, moved and extended as sc says.
// A nil sc replays the defaults.
func (a *App) Replay(id string, sc *scenario.Scenario) (EvalResult, error) {
	d, err := a.library.Get(id)
	if err != nil {
		return EvalResult{}, fmt.Errorf("%s: %w", id, err)
	}
	var positions map[string]v2.Vec
	var free []proposition.Action
	if sc != nil {
		positions = sc.PositionsByID()
		if free, err = sc.Actions(); err != nil {
			return EvalResult{}, err
		}
	}
	result := a.run(d, a.library, positions, free)
	if sc != nil && len(sc.Positions) > 0 {
		result.Moved = sc.Labels()
	}
	return result, nil
}

// Validate evaluates source and checks the definition without running it.
func (a *App) Validate(source string) EvalResult {
	result := newResult()
	d, lib, ok := a.define(source, &result)
	if !ok {
		return result
	}
	result.Proposition = d.ID
	result.Title = d.Title
	result.Steps = len(d.Steps)
	a.validate(d, lib, &result)
	return result
}

// Evaluate takes proposition source and returns its replayed proof. A
// definition that shares an id with a built-in replaces it, so a student
// can redefine a proposition and apply it as a macro from later ones.
func (a *App) Evaluate(source string) EvalResult {
	result := newResult()
	d, lib, ok := a.define(source, &result)
	if !ok {
		return result
	}
	if !a.validate(d, lib, &result) {
		result.Proposition = d.ID
		return result
	}
	res := a.run(d, lib, nil, nil)
	res.Warnings = append(res.Warnings, result.Warnings...)
	return res
}

// define runs the engine, recording errors in result.
func (a *App) define(source string, result *EvalResult) (*proposition.Def, proposition.Library, bool) {
	d, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.logger.Error("evaluation failed", slog.String("error", err.Error()))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return nil, nil, false
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return nil, nil, false
	}
	return d, a.library.With(d), true
}

// validate records every finding in result and reports whether d can run.
func (a *App) validate(d *proposition.Def, lib proposition.Library, result *EvalResult) bool {
	v := proposition.ValidateAll(d, lib)
	for _, e := range v.Errors {
		result.Errors = append(result.Errors, validationData(e))
	}
	for _, w := range v.Warnings {
		result.Warnings = append(result.Warnings, validationData(w))
	}
	return v.OK()
}

func validationData(e proposition.ValidationError) EvalErrorData {
	step := 0
	if e.Step != proposition.DefinitionLevel {
		step = e.Step + 1
	}
	return EvalErrorData{Step: step, Message: e.Message}
}

func (a *App) run(d *proposition.Def, lib proposition.Library, positions map[string]v2.Vec, free []proposition.Action) EvalResult {
	result := newResult()
	result.Proposition = d.ID
	result.Title = d.Title
	result.Steps = len(d.Steps)
	result.Instructions = proposition.Instructions(d, lib)

	res := a.registry(lib).Replay(d, positions, free)
	result.StepsCompleted = res.StepsCompleted
	result.Facts = factData(res.Facts)
	result.Ghosts = res.Ghosts
	result.GhostDepth = proof.MaxDepth(res.Ghosts)
	if res.Conclusion != nil {
		result.Conclusion = conclusionData(*res.Conclusion)
	}
	if !res.Complete(d) {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Step:    res.StepsCompleted + 1,
			Message: "construction is degenerate from this step on",
		})
	}

	scene, err := tessellate.Tessellate(res.State, res.Ghosts, a.kernel, a.segments)
	if err != nil {
		a.logger.Error("tessellation failed", slog.String("prop", d.ID), slog.String("error", err.Error()))
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	result.Scene = scene
	return result
}

func factData(fs []facts.Fact) []FactData {
	out := make([]FactData, len(fs))
	for i, f := range fs {
		out[i] = FactData{
			ID:            f.ID,
			Statement:     f.Statement,
			Citation:      f.Citation.String(),
			Justification: f.Justification,
			AtStep:        f.AtStep,
		}
	}
	return out
}

func conclusionData(c derive.Conclusion) *ConclusionData {
	cd := &ConclusionData{Statement: c.Statement, Holds: c.Holds}
	if len(c.Added) > 0 {
		cd.Added = factData(c.Added)
	}
	if len(c.Chain) > 0 {
		cd.Chain = factData(c.Chain)
	}
	return cd
}
