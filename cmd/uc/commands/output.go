package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/uc-client/internal/constants"
)

const timestampLayout = "2006-01-02 15:04:05"

// outputFormat returns the validated output format from configuration.
func outputFormat(v *viper.Viper) (string, error) {
	format := strings.ToLower(strings.TrimSpace(v.GetString("output")))

	switch format {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q (use table, json or yaml)", constants.ErrInvalidOutputFormat, format)
	}
}

func renderJSON(out io.Writer, data any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

func renderYAML(out io.Writer, data any) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// renderList writes items in the requested format. Table output uses header
// and one row per item.
func renderList[T any](out io.Writer, format string, items []T, noun string, header []any, row func(T) []string) error {
	switch format {
	case constants.FormatJSON:
		return renderJSON(out, items)
	case constants.FormatYAML:
		return renderYAML(out, items)
	}

	if len(items) == 0 {
		_, _ = fmt.Fprintf(out, "No %s found\n", noun)

		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header(header...)

	for _, item := range items {
		err := table.Append(row(item))
		if err != nil {
			return fmt.Errorf("failed to append %s row: %w", noun, err)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderItem writes a single resource. Table output is a property/value
// listing built from rows.
func renderItem(out io.Writer, format string, item any, rows [][]string) error {
	switch format {
	case constants.FormatJSON:
		return renderJSON(out, item)
	case constants.FormatYAML:
		return renderYAML(out, item)
	}

	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	for _, row := range rows {
		err := table.Append(row)
		if err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// collectItems drains seq, stopping after limit items when limit is positive.
// Stopping early leaves the remaining pages unfetched.
func collectItems[T any](seq iter.Seq2[T, error], limit int) ([]T, error) {
	items := make([]T, 0)

	for item, err := range seq {
		if err != nil {
			return nil, err
		}

		items = append(items, item)
		if limit > 0 && len(items) >= limit {
			break
		}
	}

	return items, nil
}

// titleCase turns enum values such as "OAUTH_CLIENT_CREDENTIALS" into
// "Oauth Client Credentials".
func titleCase(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	words := strings.ToLower(strings.ReplaceAll(value, "_", " "))

	return cases.Title(language.English).String(words)
}

func formatTimestamp(millis int64) string {
	if millis == 0 {
		return constants.NotAvailable
	}

	return time.UnixMilli(millis).UTC().Format(timestampLayout)
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= constants.DescriptionDisplayLength {
		return s
	}

	return string(runes[:constants.DescriptionDisplayLength-3]) + "..."
}

func valueOrNA(s string) string {
	if s == "" {
		return constants.NotAvailable
	}

	return s
}

func formatProperties(properties map[string]string) string {
	if len(properties) == 0 {
		return constants.NotAvailable
	}

	pairs := make([]string, 0, len(properties))
	for key, value := range properties {
		pairs = append(pairs, key+"="+value)
	}

	slices.Sort(pairs)

	return strings.Join(pairs, ", ")
}
