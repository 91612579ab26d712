package trafficgen

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// Dataset is the in-memory representation of a synthetic traffic table:
// hourly buckets per application with the recognized metric columns and,
// optionally, an IVT ground-truth label marking the injected anomalies.
type Dataset struct {
	Headers []string
	Rows    [][]string // already formatted/rounded strings

	// Numeric series for validation/tests, flat across apps in row order
	Apps          []string
	Dates         []time.Time
	TotalRequests []float64
	Impressions   []float64
	IDFAUARatio   []float64
	Truth         []float64 // 1 for injected anomaly buckets
}

type Config struct {
	Apps          []string
	HoursPerApp   int
	Seed          int64
	Start         time.Time
	WithTruth     bool
	SpikeEvery    int // every Nth bucket gets a ratio/volume spike
	BlackoutEvery int // every Nth bucket gets zero impressions at high volume
}

func DefaultConfig() Config {
	return Config{
		Apps:          []string{"com.example.alpha", "com.example.beta"},
		HoursPerApp:   720,
		Seed:          42,
		Start:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		WithTruth:     true,
		SpikeEvery:    97,
		BlackoutEvery: 113,
	}
}

func Generate(cfg Config) (*Dataset, error) {
	if cfg.HoursPerApp <= 0 {
		return nil, fmt.Errorf("hours per app must be > 0")
	}
	if len(cfg.Apps) == 0 {
		return nil, fmt.Errorf("at least one app is required")
	}
	if cfg.SpikeEvery < 2 || cfg.BlackoutEvery < 2 {
		return nil, fmt.Errorf("anomaly intervals must be >= 2")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	headers := []string{
		"date",
		"app",
		"unique_idfas",
		"unique_ips",
		"unique_uas",
		"total_requests",
		"requests_per_idfa",
		"impressions",
		"impressions_per_idfa",
		"idfa_ip_ratio",
		"idfa_ua_ratio",
	}
	if cfg.WithTruth {
		headers = append(headers, "IVT")
	}

	ds := &Dataset{Headers: headers}

	for _, app := range cfg.Apps {
		for h := 0; h < cfg.HoursPerApp; h++ {
			bucket := cfg.Start.Add(time.Duration(h) * time.Hour)

			idfas := 800 + rng.Float64()*400
			ips := idfas * (0.80 + rng.Float64()*0.30)
			uas := idfas * (0.10 + rng.Float64()*0.10)
			requests := idfas * (3 + rng.Float64()*2)
			impressions := requests * (0.50 + rng.Float64()*0.20)

			truth := 0.0
			switch {
			case h > 0 && h%cfg.SpikeEvery == 0:
				// Device farm signature: request volume surges while the
				// user-agent pool collapses.
				requests *= 8 + rng.Float64()*4
				uas /= 10
				truth = 1
			case h > 0 && h%cfg.BlackoutEvery == 0:
				// Monetization blackout: heavy request volume, zero impressions.
				requests = math.Max(requests, 5000)
				impressions = 0
				truth = 1
			}

			reqPerIDFA := requests / idfas
			imprPerIDFA := impressions / idfas
			idfaIPRatio := idfas / ips
			idfaUARatio := idfas / uas

			row := []string{
				bucket.Format("2006-01-02 15:04:05"),
				app,
				fToStr(idfas, 0),
				fToStr(ips, 0),
				fToStr(uas, 0),
				fToStr(requests, 0),
				fToStr(reqPerIDFA, 3),
				fToStr(impressions, 0),
				fToStr(imprPerIDFA, 3),
				fToStr(idfaIPRatio, 3),
				fToStr(idfaUARatio, 3),
			}
			if cfg.WithTruth {
				row = append(row, fToStr(truth, 0))
			}

			ds.Rows = append(ds.Rows, row)
			ds.Apps = append(ds.Apps, app)
			ds.Dates = append(ds.Dates, bucket)
			ds.TotalRequests = append(ds.TotalRequests, requests)
			ds.Impressions = append(ds.Impressions, impressions)
			ds.IDFAUARatio = append(ds.IDFAUARatio, idfaUARatio)
			ds.Truth = append(ds.Truth, truth)
		}
	}

	return ds, nil
}

func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(ds.Headers); err != nil {
		return err
	}
	for _, row := range ds.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range ds.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r := 0; r < len(ds.Rows); r++ {
		rowIdx := r + 2
		for c, v := range ds.Rows[r] {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func fToStr(x float64, decimals int) string {
	p := math.Pow10(decimals)
	x = math.Round(x*p) / p
	return strconv.FormatFloat(x, 'f', decimals, 64)
}
