// Package uci implements the Universal Chess Interface line protocol:
// parsing commands from a GUI and formatting engine output for one.
// See: https://www.chessprogramming.org/UCI.
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/engine"
	"github.com/kestrelchess/kestrel/pkg/fen"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

// ProtocolName is the UCI handshake command.
const ProtocolName = "uci"

// Driver reads UCI command lines from in and writes UCI response lines to
// the channel it returns, driving e accordingly. It runs until in is
// closed or a "quit" command is received.
type Driver struct {
	e *engine.Engine

	out    chan string
	active *atomic.Bool
	quit   chan struct{}
	closed *atomic.Bool
}

// NewDriver starts the driver's processing goroutine and returns it along
// with the read-only side of its output channel.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	d := &Driver{
		e:      e,
		out:    make(chan string, 64),
		active: atomic.NewBool(false),
		quit:   make(chan struct{}),
		closed: atomic.NewBool(false),
	}
	go d.process(ctx, in)
	return d, d.out
}

// Close shuts the driver down, as if "quit" had been received.
func (d *Driver) Close() {
	if d.closed.CompareAndSwap(false, true) {
		close(d.quit)
	}
}

// Closed returns a channel that is closed once the driver has shut down.
func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	// The "uci" line itself is consumed by main's protocol sniff before
	// this channel is ever handed to NewDriver (see cmd/kestrel/main.go),
	// so the handshake fires unconditionally here rather than waiting to
	// see "uci" in the loop below -- by the time this goroutine is
	// running, that command has already been received.
	logw.Infof(ctx, "UCI protocol initialized")
	d.send("id name %v", d.e.Name())
	d.send("id author %v", d.e.Author())
	d.send("option name Hash type spin default 16 min 0 max 4096")
	d.send("option name Depth type spin default 0 min 0 max %v", 128)
	d.send("uciok")

	for line := range in {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "uci":
			d.send("id name %v", d.e.Name())
			d.send("id author %v", d.e.Author())
			d.send("option name Hash type spin default 16 min 0 max 4096")
			d.send("option name Depth type spin default 0 min 0 max %v", 128)
			d.send("uciok")

		case "isready":
			d.send("readyok")

		case "debug":
			// No-op: this engine has no separate debug log stream.

		case "setoption":
			d.handleSetOption(args)

		case "register":
			// This engine requires no registration; ignore.

		case "ucinewgame":
			if err := d.e.Reset(ctx, fen.Initial); err != nil {
				logw.Errorf(ctx, "Reset failed: %v", err)
			}

		case "position":
			d.handlePosition(ctx, args)

		case "go":
			d.handleGo(ctx, args)

		case "stop":
			d.e.RequestStop()

		case "ponderhit":
			// Pondering is not implemented; nothing to convert.

		case "quit":
			return

		default:
			logw.Debugf(ctx, "Ignoring unknown UCI command: %v", line)
			d.send("info string unknown command %q ignored", cmd)
		}
	}
}

func (d *Driver) handleSetOption(args []string) {
	// "name <id> [value <x>]"
	name, value, ok := parseNameValue(args)
	if !ok {
		return
	}
	switch strings.ToLower(name) {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil {
			d.e.SetHash(mb)
		}
	case "depth":
		if depth, err := strconv.Atoi(value); err == nil {
			d.e.SetDepth(depth)
		}
	}
}

func parseNameValue(args []string) (name, value string, ok bool) {
	if len(args) == 0 || args[0] != "name" {
		return "", "", false
	}
	args = args[1:]

	var nameParts, valueParts []string
	inValue := false
	for _, a := range args {
		if a == "value" {
			inValue = true
			continue
		}
		if inValue {
			valueParts = append(valueParts, a)
		} else {
			nameParts = append(nameParts, a)
		}
	}
	if len(nameParts) == 0 {
		return "", "", false
	}
	return strings.Join(nameParts, " "), strings.Join(valueParts, " "), true
}

func (d *Driver) handlePosition(ctx context.Context, args []string) {
	if len(args) == 0 {
		return
	}

	var position string
	rest := args[1:]

	switch args[0] {
	case "startpos":
		position = fen.Initial
	case "fen":
		n := 0
		for n < len(rest) && rest[n] != "moves" {
			n++
		}
		position = strings.Join(rest[:n], " ")
		rest = rest[n:]
	default:
		logw.Errorf(ctx, "Invalid position command: %v", args)
		d.send("info string invalid position command, keeping prior position")
		return
	}

	if err := d.e.Reset(ctx, position); err != nil {
		logw.Errorf(ctx, "Invalid position %q: %v", position, err)
		d.send("info string invalid position %q: %v", position, err)
		return
	}

	if len(rest) > 0 && rest[0] == "moves" {
		for _, m := range rest[1:] {
			if err := d.e.Move(ctx, m); err != nil {
				logw.Errorf(ctx, "Invalid position move %q: %v", m, err)
				d.send("info string invalid move %q: %v", m, err)
				return
			}
		}
	}
}

func (d *Driver) handleGo(ctx context.Context, args []string) {
	if !d.active.CompareAndSwap(false, true) {
		logw.Errorf(ctx, "Ignoring go: search already active")
		return
	}

	budget := parseGoBudget(args, d.e.Options().Depth)

	report := func(r search.Report) {
		d.printInfo(r)
	}
	onDone := func(r search.Result) {
		d.active.Store(false)
		d.printBestMove(r)
	}

	if err := d.e.Analyze(ctx, budget, report, onDone); err != nil {
		logw.Errorf(ctx, "Analyze failed: %v", err)
		d.active.Store(false)
	}
}

func parseGoBudget(args []string, defaultDepth lang.Optional[int]) search.Budget {
	var tc search.TimeControl
	haveTimeCtrl := false

	budget := search.Budget{Depth: defaultDepth}

	for i := 0; i < len(args); i++ {
		next := func() string {
			if i+1 < len(args) {
				i++
				return args[i]
			}
			return ""
		}
		switch args[i] {
		case "wtime":
			tc.White = parseMillis(next())
			haveTimeCtrl = true
		case "btime":
			tc.Black = parseMillis(next())
			haveTimeCtrl = true
		case "winc":
			tc.WhiteInc = parseMillis(next())
			haveTimeCtrl = true
		case "binc":
			tc.BlackInc = parseMillis(next())
			haveTimeCtrl = true
		case "movestogo":
			if v, err := strconv.Atoi(next()); err == nil {
				tc.MovesToGo = v
			}
			haveTimeCtrl = true
		case "depth":
			if v, err := strconv.Atoi(next()); err == nil {
				budget.Depth = lang.Some(v)
			}
		case "movetime":
			budget.MoveTime = parseMillis(next())
		case "infinite":
			budget.Infinite = true
		case "ponder":
			// Treated as an ordinary search; there is no pondering mode.
		}
	}

	if budget.MoveTime == 0 && !budget.Infinite && haveTimeCtrl {
		budget.TimeCtrl = &tc
	}
	return budget
}

func parseMillis(s string) time.Duration {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return time.Duration(v) * time.Millisecond
}

func (d *Driver) printInfo(r search.Report) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %v score %v nodes %v time %v nps %v",
		r.Depth, formatScore(r.Score), r.Nodes, r.Elapsed.Milliseconds(), nps(r.Nodes, r.Elapsed))

	if len(r.PV) > 0 {
		sb.WriteString(" pv")
		turn := r.Position.Turn()
		for _, m := range r.PV {
			sb.WriteByte(' ')
			sb.WriteString(formatUCIMove(m, turn))
			turn = turn.Opponent()
		}
	}
	d.send("%v", sb.String())
}

func nps(nodes uint64, elapsed time.Duration) uint64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return uint64(float64(nodes) / secs)
}

func formatScore(s board.Score) string {
	if s.IsMate() {
		plies := int64(board.MaxScore) - abs64(int64(s))
		moves := (plies + 1) / 2
		if s < 0 {
			moves = -moves
		}
		return fmt.Sprintf("mate %v", moves)
	}
	return fmt.Sprintf("cp %v", int64(s))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (d *Driver) printBestMove(r search.Result) {
	if r.Best == board.NoMove {
		d.send("bestmove 0000")
		return
	}
	turn := d.e.Game().Position().Turn()
	d.send("bestmove %v", formatUCIMove(r.Best, turn))
}

// formatUCIMove renders m, played by the side to move c, in UCI wire
// format. Board.FormatUCI needs to know which side castled to resolve
// queenside vs. kingside; a bare Move encodes that in which rook square
// it pairs with the king, so it is recovered from the move itself.
func formatUCIMove(m board.Move, c board.Color) string {
	if !m.IsCastle() {
		return m.String()
	}
	piece := board.King
	if m.From().File() == board.FileA {
		piece = board.Queen
	}
	return board.FormatUCI(board.FatMove{Move: m, Piece: piece}, c)
}

func (d *Driver) send(format string, args ...interface{}) {
	d.out <- fmt.Sprintf(format, args...)
}
