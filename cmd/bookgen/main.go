// Command bookgen builds or extends an opening book SQLite database from a PGN corpus,
// grounded on original_source/chess_openings/src/main.rs: the offline writer side of the
// book pkg/book otherwise only ever reads from (spec.md §6.2/§6.4).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/herohde/branchwise/pkg/book"
	"github.com/seekerror/logw"
)

var (
	dbPath  = flag.String("db", "openings.db", "Opening book SQLite database (created if absent)")
	pgnPath = flag.String("pgn", "games.pgn", "PGN corpus to ingest")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: bookgen [options]

BOOKGEN ingests a PGN corpus into an opening book database for branchwise.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	bk, err := book.Open(ctx, *dbPath)
	if err != nil {
		logw.Exitf(ctx, "Failed to open %v: %v", *dbPath, err)
	}
	defer bk.Close()

	f, err := os.Open(*pgnPath)
	if err != nil {
		logw.Exitf(ctx, "Failed to open %v: %v", *pgnPath, err)
	}
	defer f.Close()

	res, err := bk.Ingest(ctx, f)
	if err != nil {
		logw.Exitf(ctx, "Ingest failed: %v", err)
	}
	logw.Infof(ctx, "Ingested %v games into %v (%v skipped)", res.Games, *dbPath, res.Skipped)
}
