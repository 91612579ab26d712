package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ivtscope/adapters/charts"
	"ivtscope/adapters/excel"
	"ivtscope/adapters/sheets"
	"ivtscope/domain/core"
	"ivtscope/internal"
	"ivtscope/internal/analysis"
	"ivtscope/internal/config"
	"ivtscope/internal/reporting"
	"ivtscope/ports"
)

func main() {
	sheetURL := flag.String("sheet-url", "", "Google Sheet edit URL, or a local CSV/XLSX path")
	gid := flag.Int("gid", 0, "gid (tab index) of the sheet tab")
	outDir := flag.String("out", "", "output directory (default ./output)")
	flag.Parse()

	src := *sheetURL
	if src == "" && flag.NArg() > 0 {
		src = flag.Arg(0)
	}
	if src == "" {
		fmt.Fprintln(os.Stderr, "usage: ivtscope -sheet-url <url-or-path> [-gid N] [-out DIR]")
		os.Exit(2)
	}

	// .env is optional; environment wins when both are set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	logger := internal.NewDefaultLogger()

	source, err := selectSource(src, *gid, cfg)
	if err != nil {
		// Malformed source identifier: fail fast, nothing was fetched.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	raw, err := source.Load(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load the source table. If your sheet is private, publish it to the web or download it and pass the local file path.")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	frame := analysis.NewPreprocessor().Clean(raw)
	results := analysis.NewAnalyzer(cfg.Analysis, logger).AnalyzeFrame(frame)

	assembler := reporting.NewAssembler(cfg.Output, charts.NewPNGRenderer(), logger)
	if _, err := assembler.Assemble(core.NewRunID(), frame, results); err != nil {
		fmt.Fprintln(os.Stderr, "report assembly failed:", err)
		os.Exit(1)
	}
}

// selectSource picks the table source: a path that exists on disk is read
// locally, anything else must parse as a sheet URL.
func selectSource(src string, gid int, cfg *config.Config) (ports.TableSource, error) {
	if _, err := os.Stat(src); err == nil {
		return excel.NewFileSource(src, gid), nil
	}
	return sheets.NewSource(src, gid, cfg.Fetch.Timeout)
}
