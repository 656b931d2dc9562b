// Package ui renders CLI output: status lines, statement boxes, tables and
// markdown explanations.
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// Out is where everything except errors is written.
var Out io.Writer = os.Stdout

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...any) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...any) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintStatement prints a compiled statement in a box followed by its
// positional arguments.
func PrintStatement(stmt domain.Statement) {
	title := TitleStyle.Render(fmt.Sprintf("%s (%s)", strings.ToUpper(string(stmt.Kind)), stmt.Dialect))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, stmt.Query))
	fmt.Fprintln(Out, box)

	if len(stmt.Args) == 0 {
		fmt.Fprintln(Out, SecondaryStyle.Render("no arguments"))
		return
	}
	argColor := color.New(color.FgCyan)
	for i, a := range stmt.Args {
		fmt.Fprintf(Out, "  %s %s\n", SecondaryStyle.Render(fmt.Sprintf("$%d", i+1)), argColor.Sprint(FormatValue(a)))
	}
}

// FormatValue renders a bound value for display.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return fmt.Sprintf("%q", x)
	case []byte:
		return fmt.Sprintf("%q", string(x))
	default:
		return fmt.Sprint(x)
	}
}

// TableData lays rows out with sorted column headers.
func TableData[R ~map[string]any](rows []R) pterm.TableData {
	cols := map[string]struct{}{}
	for _, r := range rows {
		for k := range r {
			cols[k] = struct{}{}
		}
	}
	headers := make([]string, 0, len(cols))
	for k := range cols {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	data := pterm.TableData{headers}
	for _, r := range rows {
		line := make([]string, len(headers))
		for i, h := range headers {
			if v, ok := r[h]; ok {
				line[i] = FormatValue(v)
			}
		}
		data = append(data, line)
	}
	return data
}

// PrintRows prints query results as a table.
func PrintRows[R ~map[string]any](rows []R) error {
	if len(rows) == 0 {
		fmt.Fprintln(Out, SecondaryStyle.Render("(0 rows)"))
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(Out).WithData(TableData(rows)).Render()
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	return pterm.DefaultTable.WithHasHeader().WithWriter(Out).WithData(data).Render()
}

// Explain builds a markdown explanation of how a statement was scoped.
func Explain(stmt domain.Statement, role string, conditions []domain.Condition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s on %s\n\n", strings.ToUpper(string(stmt.Kind)), stmt.Dialect)
	if role != "" {
		fmt.Fprintf(&b, "Row-level security resolved to role **%s**.\n\n", role)
	} else {
		b.WriteString("No role restriction matched.\n\n")
	}
	if len(conditions) > 0 {
		b.WriteString("## Predicates\n\n")
		for _, c := range conditions {
			switch x := c.(type) {
			case domain.Filter:
				fmt.Fprintf(&b, "- `%s`\n", x)
			case domain.Group:
				parts := make([]string, len(x.Filters))
				for i, f := range x.Filters {
					parts[i] = f.String()
				}
				fmt.Fprintf(&b, "- `(%s)`\n", strings.Join(parts, " "+string(x.Combinator)+" "))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("## SQL\n\n```sql\n")
	b.WriteString(stmt.Query)
	b.WriteString("\n```\n")
	return b.String()
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(content)
	if err != nil {
		return err
	}
	fmt.Fprint(Out, out)
	return nil
}
