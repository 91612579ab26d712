package coerce

import (
	"math"
	"strconv"
	"strings"
	"time"

	"ivtscope/domain/metrics"
)

// Coercer handles deterministic type coercion of raw string cells.
type Coercer struct {
	config Config
}

// Config defines the coercion rules
type Config struct {
	TrimCells      bool     // strip surrounding whitespace before parsing
	CurrencyMarks  []string // symbols stripped before numeric parsing
	TimestampForms []string // layouts tried in order
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		TrimCells:     true,
		CurrencyMarks: []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY"},
		TimestampForms: []string{
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02 15:04",
			"2006-01-02",
			"01/02/2006 15:04",
			"01/02/2006",
			"2006/01/02",
			"02-Jan-2006",
		},
	}
}

// New creates a coercer with the given config
func New(config Config) *Coercer {
	return &Coercer{config: config}
}

// Numeric deterministically converts a raw cell to a numeric value.
// Unparseable or empty cells become an explicit missing value.
func (c *Coercer) Numeric(raw string) metrics.Value {
	if v, ok := c.TryNumeric(raw); ok {
		return v
	}
	return metrics.NewMissingValue()
}

// TryNumeric attempts to parse a cell as a number with strict rules.
// Handles parentheses negatives, currency symbols, percent signs and
// thousands separators.
func (c *Coercer) TryNumeric(raw string) (metrics.Value, bool) {
	cleanVal := raw
	if c.config.TrimCells {
		cleanVal = strings.TrimSpace(cleanVal)
	}
	if cleanVal == "" {
		return metrics.Value{}, false
	}

	// Parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimPrefix(cleanVal, "(")
		cleanVal = strings.TrimSuffix(cleanVal, ")")
		isNegative = true
	}

	for _, symbol := range c.config.CurrencyMarks {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)
	cleanVal = strings.ReplaceAll(cleanVal, "%", "")

	// Thousands separators
	cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	cleanVal = strings.ReplaceAll(cleanVal, " ", "")

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	if val, err := strconv.ParseFloat(cleanVal, 64); err == nil {
		if !math.IsInf(val, 0) && !math.IsNaN(val) {
			return metrics.NewNumericValue(val), true
		}
	}
	return metrics.Value{}, false
}

// Timestamp deterministically converts a raw cell to a timestamp value.
// Unparseable or empty cells become an explicit missing value.
func (c *Coercer) Timestamp(raw string) metrics.Value {
	if v, ok := c.TryTimestamp(raw); ok {
		return v
	}
	return metrics.NewMissingValue()
}

// TryTimestamp attempts to parse a cell as a timestamp, trying the
// configured layouts in order, then Unix seconds.
func (c *Coercer) TryTimestamp(raw string) (metrics.Value, bool) {
	strVal := raw
	if c.config.TrimCells {
		strVal = strings.TrimSpace(strVal)
	}
	if strVal == "" {
		return metrics.Value{}, false
	}

	for _, layout := range c.config.TimestampForms {
		if t, err := time.Parse(layout, strVal); err == nil {
			return metrics.NewTimestampValue(t), true
		}
	}

	// Unix seconds in a plausible range
	if unixVal, err := strconv.ParseInt(strVal, 10, 64); err == nil {
		if unixVal > 0 && unixVal < 2147483647 {
			return metrics.NewTimestampValue(time.Unix(unixVal, 0).UTC()), true
		}
	}
	return metrics.Value{}, false
}

// Cell converts a raw string cell to its passthrough value: trimmed string,
// or missing when empty.
func (c *Coercer) Cell(raw string) metrics.Value {
	if c.config.TrimCells {
		raw = strings.TrimSpace(raw)
	}
	return metrics.NewStringValue(raw)
}
