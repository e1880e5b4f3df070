// Package rules resolves data-driven dice tables and entity rules: first-match
// outcome lookup, reroll and nested-table cascades, schema layering, payout
// arithmetic and batch resolution across many entities.
package rules

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/model"
)

// ErrTableNotFound is reported when a table or cascade names a table the
// catalog does not have.
var ErrTableNotFound = errors.New("table not found")

// DefaultMaxAttempts bounds the rolls one resolution may make across rerolls
// and nested tables.
const DefaultMaxAttempts = 100

// Engine resolves tables and rules against a swappable Catalog. Resolutions
// never mutate the catalog, so many may run concurrently.
type Engine struct {
	mu      sync.RWMutex
	catalog *Catalog

	roller      *dice.Roller
	behaviors   map[string]Behavior
	maxAttempts int

	trigMu   sync.Mutex
	triggers map[string]*Trigger // compiled on first use for entity-level events
}

// Option configures an Engine.
type Option func(*Engine)

// WithBehavior registers the behavior run when an outcome's random effect is tag.
func WithBehavior(tag string, b Behavior) Option {
	return func(e *Engine) { e.behaviors[tag] = b }
}

// WithMaxAttempts overrides DefaultMaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// NewEngine compiles cfg and returns an engine rolling with roller.
func NewEngine(cfg Config, roller *dice.Roller, opts ...Option) (*Engine, error) {
	e := &Engine{
		roller:      roller,
		behaviors:   make(map[string]Behavior),
		maxAttempts: DefaultMaxAttempts,
		triggers:    make(map[string]*Trigger),
	}
	for _, opt := range opts {
		opt(e)
	}
	cat, err := Compile(cfg, e.behaviors)
	if err != nil {
		return nil, err
	}
	e.catalog = cat
	return e, nil
}

// Swap atomically replaces the rule data. Compiles first; if compilation fails
// the old catalog stays active. Resolutions already running finish against the
// catalog they started with.
func (e *Engine) Swap(cfg Config) error {
	cat, err := Compile(cfg, e.behaviors)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.catalog = cat
	e.mu.Unlock()

	e.trigMu.Lock()
	e.triggers = make(map[string]*Trigger)
	e.trigMu.Unlock()
	slog.Info("rule data swapped", "tables", len(cat.tables), "warnings", len(cat.Warnings))
	return nil
}

// Check compiles cfg against the engine's behaviors without installing it.
func (e *Engine) Check(cfg Config) error {
	_, err := Compile(cfg, e.behaviors)
	return err
}

// Catalog returns the active catalog.
func (e *Engine) Catalog() *Catalog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog
}

// Roller returns the engine's dice roller.
func (e *Engine) Roller() *dice.Roller { return e.roller }

// trigger returns the compiled trigger for src, compiling and caching it on
// first use when the catalog did not already know it.
func (e *Engine) trigger(cat *Catalog, src string) (*Trigger, error) {
	if t, ok := cat.triggers[src]; ok {
		return t, nil
	}
	e.trigMu.Lock()
	defer e.trigMu.Unlock()
	if t, ok := e.triggers[src]; ok {
		return t, nil
	}
	t, err := CompileTrigger(src)
	if err != nil {
		return nil, err
	}
	e.triggers[src] = t
	return t, nil
}

// newCascade starts a resolution with a fresh attempt budget.
func (e *Engine) newCascade() *Cascade {
	return &Cascade{e: e, cat: e.Catalog(), max: e.maxAttempts}
}

// ResolveTable rolls on the named table and follows any cascade.
func (e *Engine) ResolveTable(name string) model.Result {
	res := e.newCascade().Table(name)
	logResult("table resolved", res)
	return res
}

// ResolveTableWithRoll resolves the named table as if roll had been rolled.
// The forced value applies to the first roll only; rerolls and nested tables
// roll normally.
func (e *Engine) ResolveTableWithRoll(name string, roll int) model.Result {
	c := e.newCascade()
	res := c.table(name, &roll)
	logResult("table resolved", res)
	return res
}

func logResult(msg string, res model.Result) {
	if res.Failed() {
		slog.Warn(msg, "table", res.Table, "status", res.Status, "error", res.Error)
		return
	}
	slog.Debug(msg, "table", res.Table, "status", res.Status, "roll", res.Total, "description", res.Description)
}
