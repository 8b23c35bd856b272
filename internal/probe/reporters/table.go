package reporters

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/smykla-skalski/nativeplug/internal/color"
	"github.com/smykla-skalski/nativeplug/internal/probe"
)

// durationDisplayUnits limits load times to their two largest units.
const durationDisplayUnits = 2

// TableReporter renders reports as a bordered table followed by a summary.
type TableReporter struct {
	Theme color.Theme

	// Width overrides the terminal width. Zero detects it.
	Width int
}

// Report implements Reporter.
func (r *TableReporter) Report(w io.Writer, reports []probe.Report) error {
	if len(reports) == 0 {
		_, err := fmt.Fprintln(w, "No libraries inspected.")

		return err
	}

	width := r.Width
	if width == 0 {
		width = termWidth()
	}

	if _, err := fmt.Fprintln(w, RenderTable(reports, width, r.Theme)); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, RenderSummary(reports, r.Theme))

	return err
}

// StatusIcon returns a single-width character for a report.
func StatusIcon(report probe.Report) string {
	switch {
	case report.Valid && report.Error == "" && len(report.MissingSymbols()) == 0:
		return "✓"
	case report.Valid:
		return "!"
	case report.State == probe.StateRejected:
		return "-"
	default:
		return "✗"
	}
}

// StyledIcon returns a StatusIcon colored by the theme.
func StyledIcon(report probe.Report, theme color.Theme) string {
	icon := StatusIcon(report)

	switch icon {
	case "✓":
		return theme.Valid.Render(icon)
	case "!":
		return theme.Unverified.Render(icon)
	case "-":
		return theme.Muted.Render(icon)
	default:
		return theme.Invalid.Render(icon)
	}
}

// RenderTable builds the report table. A width below the minimum table width
// leaves column sizing to tablewriter.
func RenderTable(reports []probe.Report, width int, theme color.Theme) string {
	headers := []string{"", "Library", "Identity", "State", "Size", "Load", "Details"}
	colWidths := calcColumnWidthsFor(width, reports)

	var buf bytes.Buffer

	opts := []tablewriter.Option{
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Row().Formatting().WithAutoWrap(tw.WrapNormal).Build().Build().
			Build()),
	}

	if colWidths != nil {
		opts = append(opts, tablewriter.WithColumnWidths(toCellWidths(colWidths)))
	}

	t := tablewriter.NewTable(&buf, opts...)
	t.Header(headers)

	for _, report := range reports {
		_ = t.Append(buildRow(report, colWidths, theme))
	}

	_ = t.Render()

	return dimBorders(strings.TrimRight(buf.String(), "\n"), theme)
}

func buildRow(report probe.Report, colWidths map[int]int, theme color.Theme) []string {
	row := []string{
		StyledIcon(report, theme),
		shortenPath(report.Path),
		theme.Identity.Render(report.Identity),
		report.State,
		formatSize(report.Size),
		formatLoadTime(report.LoadTime),
		details(report),
	}

	for i, cell := range row {
		if w, ok := colWidths[i]; ok {
			row[i] = padToWidth(cell, w)
		}
	}

	return row
}

func details(report probe.Report) string {
	parts := make([]string, 0, len(report.Symbols)+1)

	if report.Error != "" {
		parts = append(parts, shortenPath(report.Error))
	}

	for _, s := range report.Symbols {
		if s.Found {
			parts = append(parts, s.Name+" "+s.Address)
		} else {
			parts = append(parts, s.Name+" missing")
		}
	}

	return strings.Join(parts, "; ")
}

func formatSize(size int64) string {
	if size <= 0 {
		return "-"
	}

	return humanize.Bytes(uint64(size))
}

func formatLoadTime(d time.Duration) string {
	if d <= 0 {
		return "-"
	}

	return durafmt.Parse(d).LimitFirstN(durationDisplayUnits).String()
}

// RenderSummary returns a colored summary line.
func RenderSummary(reports []probe.Report, theme color.Theme) string {
	s := probe.Summarize(reports)

	parts := []string{
		theme.Valid.Render(fmt.Sprintf("%d valid", s.Valid)),
		styleSummaryPart(fmt.Sprintf("%d invalid", s.Invalid), s.Invalid > 0, theme.Invalid),
	}

	if s.Rejected > 0 {
		parts = append(parts, theme.Muted.Render(fmt.Sprintf("%d rejected", s.Rejected)))
	}

	return fmt.Sprintf("Summary: %s (%d total)", strings.Join(parts, ", "), s.Total)
}

func styleSummaryPart(text string, active bool, style lipgloss.Style) string {
	if active {
		return style.Render(text)
	}

	return text
}

// calcColumnWidthsFor gives the details column whatever the fixed columns
// leave of the terminal width. Returns nil when w is too narrow for a table.
func calcColumnWidthsFor(w int, reports []probe.Report) map[int]int {
	const (
		minTableW   = 80
		colOverhead = 3 // border + left pad + right pad
		numCols     = 7
		minDetailsW = 20
		maxPathW    = 48
	)

	if w < minTableW {
		return nil
	}

	widths := map[int]int{0: 1, 1: len("Library"), 2: len("Identity"), 3: len("State"), 4: len("Size"), 5: len("Load")}

	for _, r := range reports {
		widths[1] = max(widths[1], min(runewidth.StringWidth(shortenPath(r.Path)), maxPathW))
		widths[2] = max(widths[2], runewidth.StringWidth(r.Identity))
		widths[3] = max(widths[3], len(r.State))
		widths[4] = max(widths[4], len(formatSize(r.Size)))
		widths[5] = max(widths[5], len(formatLoadTime(r.LoadTime)))
	}

	used := numCols*colOverhead + 1
	for _, cw := range widths {
		used += cw
	}

	if w-used < minDetailsW {
		return nil
	}

	widths[6] = w - used

	return widths
}

// toCellWidths converts content widths to cell widths (content + padding).
func toCellWidths(contentWidths map[int]int) tw.Mapper[int, int] {
	const padW = 2

	m := make(tw.Mapper[int, int], len(contentWidths))
	for col, w := range contentWidths {
		m[col] = w + padW
	}

	return m
}

// padToWidth right-pads s with spaces so its display width reaches w.
// ANSI escape codes are excluded from width calculation.
func padToWidth(s string, w int) string {
	visible := runewidth.StringWidth(ansi.Strip(s))
	if visible >= w {
		return s
	}

	return s + strings.Repeat(" ", w-visible)
}

// dimBorders applies the muted theme style to all box-drawing border
// characters in the rendered table output.
func dimBorders(s string, theme color.Theme) string {
	for _, ch := range []string{
		"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼",
	} {
		s = strings.ReplaceAll(s, ch, theme.Muted.Render(ch))
	}

	return s
}

// termWidth returns the terminal width or 0 if not a terminal.
func termWidth() int {
	if w, _, err := term.GetSize(
		int(os.Stdout.Fd()), //nolint:gosec // fd fits int
	); err == nil && w > 0 {
		return w
	}

	return 0
}

// homeDir caches the user's home directory for path shortening.
var homeDir string

func init() {
	homeDir, _ = os.UserHomeDir()
}

// shortenPath replaces the user's home directory prefix with ~.
func shortenPath(s string) string {
	if homeDir == "" {
		return s
	}

	return strings.ReplaceAll(s, homeDir, "~")
}
