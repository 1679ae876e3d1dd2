// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/kestrelchess/kestrel/pkg/fen"
	"github.com/kestrelchess/kestrel/pkg/searchnode"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = fen.Initial
	}

	pos, _, _, _, err := fen.Decode(*position)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen '%v': %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		n := searchnode.New(pos)
		n.PrepSearch(i)

		start := time.Now()
		nodes := perft(n, i, *divide && i == *depth)
		duration := time.Since(start)

		println(fmt.Sprintf("perft,%v,%v,%v,%v", *position, i, nodes, duration.Microseconds()))
	}
}

func perft(n *searchnode.Node, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	buf := n.FindMoves(true)
	var nodes int64
	for i := 0; i < buf.Len(); i++ {
		fm := buf.At(i)
		if !n.MakeMove(fm) {
			n.UnmakeMove()
			continue
		}
		count := perft(n, depth-1, false)
		n.UnmakeMove()

		if d {
			println(fmt.Sprintf("%v: %v", fm.Move, count))
		}
		nodes += count
	}
	return nodes
}
