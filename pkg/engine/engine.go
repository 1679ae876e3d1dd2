// Package engine glues the position, search and transposition table
// together into the stateful object a protocol driver (UCI) talks to.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/fen"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are runtime-tunable engine defaults, overridden per search by
// whatever a `go` command specifies explicitly.
type Options struct {
	Depth  lang.Optional[int] // unset == no limit (bounded only by searchnode.MaxPly)
	HashMB int                // 0 == no transposition table
}

func (o Options) String() string {
	depth := "unset"
	if v, ok := o.Depth.V(); ok {
		depth = fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("{depth=%v, hash=%vMB}", depth, o.HashMB)
}

// Option is an engine construction option.
type Option func(*Engine)

// WithOptions sets the engine's default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithSearchConfig overrides which optional search refinements (move
// ordering, quiescence, stand-pat pruning) are enabled.
func WithSearchConfig(cfg search.Config) Option {
	return func(e *Engine) { e.searchCfg = cfg }
}

// Engine encapsulates game-playing state: the current game, the
// transposition table, and the iterative-deepening driver that searches
// it. Safe for concurrent use -- mu guards every field below it.
type Engine struct {
	name, author string
	opts         Options
	searchCfg    search.Config

	mu     sync.Mutex
	game   *Game
	tt     search.Table
	driver *search.Driver
	active bool
	doneCh chan struct{}
	result search.Result
}

// ResultFunc receives the outcome of a search launched by Analyze, exactly
// once, whether it ran to completion or was cut short by Halt.
type ResultFunc func(search.Result)

// New builds an engine, resetting it to the standard starting position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:      name,
		author:    author,
		searchCfg: search.Config{Ordering: true, Quiescence: true, StandPat: true},
	}
	for _, fn := range opts {
		fn(e)
	}
	if err := e.Reset(ctx, fen.Initial); err != nil {
		logw.Exitf(ctx, "Failed to initialize engine: %v", err)
	}
	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version, for the UCI `id name` line.
func (e *Engine) Name() string { return fmt.Sprintf("%v %v", e.name, version) }

// Author returns the engine author, for the UCI `id author` line.
func (e *Engine) Author() string { return e.author }

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

func (e *Engine) SetDepth(depth int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if depth <= 0 {
		e.opts.Depth = lang.Optional[int]{}
		return
	}
	e.opts.Depth = lang.Some(depth)
}

func (e *Engine) SetHash(mb int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.HashMB = mb
}

// Position returns the current position as a FEN string.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	pos := e.game.Position()
	return fen.Encode(pos, pos.Turn(), pos.HalfMoveClock(), pos.FullMoveNumber())
}

// Game returns the engine's current game. Callers must not mutate it
// directly -- use Move/TakeBack/Reset.
func (e *Engine) Game() *Game {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game
}

// Reset replaces the current game with a fresh one starting at position
// (a FEN string), halting any active search first.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltLocked(ctx)

	pos, _, _, _, err := fen.Decode(position)
	if err != nil {
		return err
	}
	e.game = NewGame(pos)

	var tt search.Table = search.NoTable{}
	if e.opts.HashMB > 0 {
		tt = search.NewTable(uint64(e.opts.HashMB) << 20)
	}
	e.tt = tt
	e.driver = search.NewDriver()

	logw.Infof(ctx, "New game: %v", e.game)
	return nil
}

// Move applies a wire-format (UCI long algebraic) move, typically the
// opponent's, to the current position.
func (e *Engine) Move(ctx context.Context, uciMove string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltLocked(ctx)

	fm, err := board.ParseUCI(uciMove, e.game.Position())
	if err != nil {
		return fmt.Errorf("invalid move %q: %w", uciMove, err)
	}
	if !e.game.Move(fm) {
		return fmt.Errorf("illegal move %q", uciMove)
	}
	logw.Infof(ctx, "Move %v: %v", uciMove, e.game)
	return nil
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltLocked(ctx)

	if !e.game.TakeBack() {
		return fmt.Errorf("no move to take back")
	}
	return nil
}

// Analyze launches an iterative-deepening search from the current
// position in the background. budget governs its deadline; report (which
// may be nil) is invoked once per completed depth; onDone (which may be
// nil) is invoked exactly once, with the final result, whether the search
// ran to completion or was cut short by Halt.
func (e *Engine) Analyze(ctx context.Context, budget search.Budget, report search.Reporter, onDone ResultFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active {
		return fmt.Errorf("search already active")
	}

	node := e.game.Node().Clone()
	turn := node.Turn()
	soft, hard := budget.Deadlines(time.Now(), turn)

	maxDepth, ok := budget.Depth.V()
	if !ok {
		maxDepth, _ = e.opts.Depth.V()
	}

	driver := e.driver
	tt := e.tt
	cfg := e.searchCfg

	doneCh := make(chan struct{})
	e.doneCh = doneCh
	e.active = true

	logw.Infof(ctx, "Analyze %v, budget=%v", e.game, budget)

	go func() {
		r := driver.Run(node, tt, cfg, maxDepth, soft, hard, report)

		e.mu.Lock()
		e.result = r
		e.active = false
		close(doneCh)
		e.mu.Unlock()

		if onDone != nil {
			onDone(r)
		}
	}()

	return nil
}

// RequestStop asks an active search to halt at its next suspension point,
// without waiting for it to do so. A no-op if no search is active.
func (e *Engine) RequestStop() {
	e.mu.Lock()
	driver, active := e.driver, e.active
	e.mu.Unlock()
	if active {
		driver.Stop()
	}
}

// Halt stops the active search, if any, and blocks until it has fully
// unwound, returning its final result.
func (e *Engine) Halt(ctx context.Context) (search.Result, error) {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return search.Result{}, fmt.Errorf("no active search")
	}
	driver, doneCh := e.driver, e.doneCh
	e.mu.Unlock()

	driver.Stop()
	<-doneCh

	e.mu.Lock()
	r := e.result
	e.mu.Unlock()

	logw.Infof(ctx, "Halt: %v", r)
	return r, nil
}

// haltLocked stops any active search and waits for it to unwind. e.mu
// must already be held on entry and is held again on return.
func (e *Engine) haltLocked(ctx context.Context) {
	if !e.active {
		return
	}
	driver, doneCh := e.driver, e.doneCh
	e.mu.Unlock()
	driver.Stop()
	<-doneCh
	e.mu.Lock()
}
