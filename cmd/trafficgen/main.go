package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ivtscope/internal/trafficgen"
)

func main() {
	out := flag.String("out", "synthetic_traffic.csv", "output file path")
	hours := flag.Int("hours", 720, "number of hourly buckets per app")
	apps := flag.String("apps", "com.example.alpha,com.example.beta", "comma-separated app identifiers")
	format := flag.String("format", "", "output format: xlsx or csv (default inferred from -out)")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	start := flag.String("start", "2025-01-01", "start date (YYYY-MM-DD)")
	truth := flag.Bool("truth", true, "include the IVT ground-truth column")
	flag.Parse()

	if *hours <= 0 {
		fmt.Fprintln(os.Stderr, "hours must be > 0")
		os.Exit(2)
	}

	startDate, err := time.ParseInLocation("2006-01-02", *start, time.UTC)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -start (expected YYYY-MM-DD):", err)
		os.Exit(2)
	}

	fmtName := strings.ToLower(strings.TrimSpace(*format))
	if fmtName == "" {
		switch strings.ToLower(filepath.Ext(*out)) {
		case ".xlsx":
			fmtName = "xlsx"
		default:
			fmtName = "csv"
		}
	}

	cfg := trafficgen.DefaultConfig()
	cfg.HoursPerApp = *hours
	cfg.Seed = *seed
	cfg.Start = startDate
	cfg.WithTruth = *truth
	cfg.Apps = nil
	for _, app := range strings.Split(*apps, ",") {
		if app = strings.TrimSpace(app); app != "" {
			cfg.Apps = append(cfg.Apps, app)
		}
	}

	ds, err := trafficgen.Generate(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating dataset:", err)
		os.Exit(1)
	}

	switch fmtName {
	case "csv":
		err = trafficgen.WriteCSV(*out, ds)
	case "xlsx":
		err = trafficgen.WriteXLSX(*out, ds)
	default:
		fmt.Fprintln(os.Stderr, "unsupported format:", fmtName)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", fmtName, err)
		os.Exit(1)
	}

	fmt.Printf("Synthetic traffic written: %s\n", *out)
	fmt.Printf("Total Columns: %d | Total Rows: %d\n", len(ds.Headers), len(ds.Rows))
}
