package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/herohde/branchwise/pkg/book"
	"github.com/herohde/branchwise/pkg/engine"
	"github.com/herohde/branchwise/pkg/engine/console"
	"github.com/herohde/branchwise/pkg/eval"
	"github.com/seekerror/logw"
)

var (
	bookPath = flag.String("book", "", "Path to an opening book SQLite database (none, if empty)")
	budget   = flag.Duration("budget", 5*time.Second, "Search budget per move")
	workers  = flag.Int("workers", 4, "Number of scheduler worker goroutines")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: branchwise [options]

BRANCHWISE is a parallel best-move chess search engine, played over a line-oriented console
protocol.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	var opts []engine.Option
	if *bookPath != "" {
		bk, err := book.Open(ctx, *bookPath)
		if err != nil {
			logw.Exitf(ctx, "Failed to open book %v: %v", *bookPath, err)
		}
		defer bk.Close()

		opts = append(opts, engine.WithBook(bk))
	}

	c := engine.New(ctx, "branchwise", "herohde", eval.Heuristic{}, engine.Options{
		Budget:  *budget,
		Workers: *workers,
	}, opts...)

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, c, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
