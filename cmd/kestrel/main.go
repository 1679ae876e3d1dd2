// kestrel is a UCI chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kestrelchess/kestrel/pkg/engine"
	"github.com/kestrelchess/kestrel/pkg/engine/uci"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var (
	depth = flag.Int("depth", 0, "Fixed search depth (0 for time-controlled search)")
	hash  = flag.Int("hash", 16, "Transposition table size in MB (0 to disable)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: kestrel [options]

KESTREL is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	depthLimit := lang.Optional[int]{}
	if *depth > 0 {
		depthLimit = lang.Some(*depth)
	}
	e := engine.New(ctx, "kestrel", "kestrelchess",
		engine.WithOptions(engine.Options{Depth: depthLimit, HashMB: *hash}))

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
