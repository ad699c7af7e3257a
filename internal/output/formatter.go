package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rpgo/household-forecast/internal/domain"
)

// ErrUnsupportedFormat is returned when no formatter matches a requested name.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(forecast *domain.Forecast) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
	// Extension is the file extension used when writing to disk.
	Extension() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID  string
	Ext string
	F   func(*domain.Forecast) ([]byte, error)
}

func (ff FormatterFunc) Format(f *domain.Forecast) ([]byte, error) { return ff.F(f) }
func (ff FormatterFunc) Name() string                              { return ff.ID }
func (ff FormatterFunc) Extension() string                         { return ff.Ext }

// WriteFormatted runs a formatter and writes the output to filename. An empty
// filename becomes a timestamped file in the working directory; an existing
// directory receives the timestamped file inside it.
func WriteFormatted(f Formatter, forecast *domain.Forecast, filename string) (string, error) {
	data, err := f.Format(forecast)
	if err != nil {
		return "", err
	}
	stamped := fmt.Sprintf("forecast_%s.%s", time.Now().Format("20060102_150405"), f.Extension())
	switch info, statErr := os.Stat(filename); {
	case filename == "":
		filename = stamped
	case statErr == nil && info.IsDir():
		filename = filepath.Join(filename, stamped)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return filename, nil
}

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	SummaryFormatter{},
	JSONFormatter{},
	MonthlyCSVFormatter{},
	PercentileCSVFormatter{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// LookupFormatter is GetFormatterByName with an error listing the choices.
func LookupFormatter(name string) (Formatter, error) {
	if f := GetFormatterByName(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, name,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":        "console",
	"table":       "console",
	"lite":        "summary",
	"json-pretty": "json",
	"csv":         "monthly-csv",
	"monthly":     "monthly-csv",
	"bands":       "percentile-csv",
	"percentiles": "percentile-csv",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
