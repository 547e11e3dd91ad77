package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"rucost/internal/estimate"
	"rucost/internal/pricing/models"
)

// Format selects the report rendering
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatHuman, "":
		return FormatHuman, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: human, json, yaml)", s)
	}
}

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.Bold)
	creditColor  = color.New(color.FgGreen)
	noteColor    = color.New(color.FgYellow)
)

// Render writes the report to w in the requested format
func Render(w io.Writer, report *estimate.Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return renderHuman(w, report)
	}
}

func renderHuman(w io.Writer, report *estimate.Report) error {
	headingColor.Fprintln(w, "Workload cost estimate")
	fmt.Fprintf(w, "  %s %s (%s)\n", labelColor.Sprint("Schema:"), report.Schema, report.Flavor)

	if report.AlreadyServerless {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "This cluster is already running on the serverless tier; its real")
		fmt.Fprintln(w, "request-unit and storage charges appear on the billing console.")
		return nil
	}
	if report.Estimate == nil {
		return fmt.Errorf("report carries no estimate")
	}

	est := report.Estimate
	fmt.Fprintf(w, "  %s %s\n", labelColor.Sprint("Region:"), est.Region)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-22s %14s   %s\n", "Request Units",
		fmt.Sprintf("%s RU/mo", formatRURange(est.MonthlyRU)), formatCharge(est.RUCharge))
	fmt.Fprintf(w, "  %-22s %14s   %s\n", "Row-based Storage",
		formatGiB(est.StorageBytes), formatCharge(models.ExactCharge(est.StorageCharge)))
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 52))
	fmt.Fprintf(w, "  %-22s %14s   %s\n", labelColor.Sprint("Total"), "", formatCharge(est.Total))
	fmt.Fprintf(w, "  %-22s %14s   %s\n", "Free Credits", "",
		creditColor.Sprintf("-$%s", est.FreeCredit.StringFixed(2)))
	fmt.Fprintf(w, "  %-22s %14s   %s\n", labelColor.Sprint("Total after credits"), "",
		formatCharge(est.TotalAfterCredit))

	if len(est.Notes) > 0 {
		fmt.Fprintln(w)
		headingColor.Fprintln(w, "Notes")
		for _, note := range est.Notes {
			fmt.Fprintf(w, "  %s %s\n", noteColor.Sprint("*"), note)
		}
	}
	return nil
}

func formatCharge(c models.Charge) string {
	if c.Exact() {
		return fmt.Sprintf("$%s", c.Low.StringFixed(2))
	}
	return fmt.Sprintf("$%s to $%s", c.Low.StringFixed(2), c.High.StringFixed(2))
}

func formatRURange(r models.RURange) string {
	if r.Low == r.High {
		return groupDigits(fmt.Sprintf("%.0f", r.Low))
	}
	return fmt.Sprintf("%s to %s",
		groupDigits(fmt.Sprintf("%.0f", r.Low)), groupDigits(fmt.Sprintf("%.0f", r.High)))
}

func formatGiB(bytes int64) string {
	return fmt.Sprintf("%.2f GiB", float64(bytes)/(1<<30))
}

// groupDigits inserts thousands separators into a plain integer string
func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
