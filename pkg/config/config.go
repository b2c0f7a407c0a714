package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"

	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/classify"
	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/parser"
)

// Config holds all application configuration
type Config struct {
	Log     LogConfig
	Engine  EngineConfig
	Scanner ScannerConfig
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// EngineConfig carries the extraction tuning. Every field defaults to the
// calibrated value from parser.DefaultOptions; environment variables exist
// for field testing against new store formats.
type EngineConfig struct {
	PriceWindow             int
	DiscountWindow          int
	FirstItemPriceWindow    int
	FirstItemDiscountWindow int
	SummaryLookahead        int
	SummaryMinAmount        int64
	GrandTotalCeiling       int64
	BarcodeDigits           int
	MinDescriptionRunes     int
	VocabularyFile          string
}

type ScannerConfig struct {
	Workers int // 0 means one worker per CPU
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	defaults := parser.DefaultOptions()

	cfg := &Config{
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Engine: EngineConfig{
			PriceWindow:             getEnvAsInt("RECEIPT_PRICE_WINDOW", defaults.PriceWindow),
			DiscountWindow:          getEnvAsInt("RECEIPT_DISCOUNT_WINDOW", defaults.DiscountWindow),
			FirstItemPriceWindow:    getEnvAsInt("RECEIPT_FIRST_ITEM_PRICE_WINDOW", defaults.FirstItemPriceWindow),
			FirstItemDiscountWindow: getEnvAsInt("RECEIPT_FIRST_ITEM_DISCOUNT_WINDOW", defaults.FirstItemDiscountWindow),
			SummaryLookahead:        getEnvAsInt("RECEIPT_SUMMARY_LOOKAHEAD", defaults.SummaryLookahead),
			SummaryMinAmount:        getEnvAsInt64("RECEIPT_SUMMARY_MIN_AMOUNT", defaults.SummaryMinAmount),
			GrandTotalCeiling:       getEnvAsInt64("RECEIPT_GRAND_TOTAL_CEILING", defaults.GrandTotalCeiling),
			BarcodeDigits:           getEnvAsInt("RECEIPT_BARCODE_DIGITS", defaults.BarcodeDigits),
			MinDescriptionRunes:     getEnvAsInt("RECEIPT_MIN_DESCRIPTION_RUNES", defaults.MinDescriptionRunes),
			VocabularyFile:          getEnv("RECEIPT_VOCAB_FILE", ""),
		},
		Scanner: ScannerConfig{
			Workers: getEnvAsInt("SCAN_WORKERS", 0),
		},
	}

	if err := cfg.Engine.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *EngineConfig) validate() error {
	windows := []struct {
		name  string
		value int
	}{
		{"RECEIPT_PRICE_WINDOW", c.PriceWindow},
		{"RECEIPT_DISCOUNT_WINDOW", c.DiscountWindow},
		{"RECEIPT_FIRST_ITEM_PRICE_WINDOW", c.FirstItemPriceWindow},
		{"RECEIPT_FIRST_ITEM_DISCOUNT_WINDOW", c.FirstItemDiscountWindow},
		{"RECEIPT_SUMMARY_LOOKAHEAD", c.SummaryLookahead},
		{"RECEIPT_BARCODE_DIGITS", c.BarcodeDigits},
		{"RECEIPT_MIN_DESCRIPTION_RUNES", c.MinDescriptionRunes},
	}
	for _, w := range windows {
		if w.value < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", w.name, w.value)
		}
	}

	if c.SummaryMinAmount < 0 {
		return fmt.Errorf("RECEIPT_SUMMARY_MIN_AMOUNT must not be negative, got %d", c.SummaryMinAmount)
	}
	if c.GrandTotalCeiling <= c.SummaryMinAmount {
		return fmt.Errorf("RECEIPT_GRAND_TOTAL_CEILING (%d) must exceed RECEIPT_SUMMARY_MIN_AMOUNT (%d)",
			c.GrandTotalCeiling, c.SummaryMinAmount)
	}

	return nil
}

// Options resolves the engine tuning into parser options, merging any
// vocabulary override file over the built-in keyword sets.
func (c *EngineConfig) Options() (parser.Options, error) {
	vocab, err := c.Vocabulary()
	if err != nil {
		return parser.Options{}, err
	}

	opts := parser.DefaultOptions()
	opts.PriceWindow = c.PriceWindow
	opts.DiscountWindow = c.DiscountWindow
	opts.FirstItemPriceWindow = c.FirstItemPriceWindow
	opts.FirstItemDiscountWindow = c.FirstItemDiscountWindow
	opts.SummaryLookahead = c.SummaryLookahead
	opts.SummaryMinAmount = c.SummaryMinAmount
	opts.GrandTotalCeiling = c.GrandTotalCeiling
	opts.BarcodeDigits = c.BarcodeDigits
	opts.MinDescriptionRunes = c.MinDescriptionRunes
	opts.Vocabulary = vocab
	return opts, nil
}

// Vocabulary returns the classifier keyword sets. When VocabularyFile names
// a YAML file, any non-empty set in it replaces the corresponding built-in
// set; keys mirror the set names (noise, total, summary_headers, tax, fee,
// code_headers, price_headers).
func (c *EngineConfig) Vocabulary() (classify.Vocabulary, error) {
	vocab := classify.Default()
	if c.VocabularyFile == "" {
		return vocab, nil
	}

	data, err := os.ReadFile(c.VocabularyFile)
	if err != nil {
		return classify.Vocabulary{}, fmt.Errorf("read vocabulary override: %w", err)
	}

	var override classify.Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return classify.Vocabulary{}, fmt.Errorf("parse vocabulary override: %w", err)
	}

	return vocab.Merge(override), nil
}

// Logger builds a slog logger matching the configured level and format.
func (c *LogConfig) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}
