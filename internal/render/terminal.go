package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"vnwidget/internal/models"

	"github.com/jwalton/gchalk"
)

// Cell glyphs for the quota bar, indexed by models.BoxState.
var (
	squareCells    = [...]string{models.BoxEmpty: "□", models.BoxHalf: "◧", models.BoxFull: "■"}
	rectangleCells = [...]string{models.BoxEmpty: "▯", models.BoxHalf: "◧", models.BoxFull: "▮"}
)

// TerminalRenderer draws the widget as a small colored text block.
type TerminalRenderer struct {
	out    io.Writer
	chalk  *gchalk.Builder
	orange gchalk.ColorFn
}

// NewTerminalRenderer writes to out. With color false all styling is dropped.
func NewTerminalRenderer(out io.Writer, color bool) *TerminalRenderer {
	if color {
		return newTerminalRenderer(out, gchalk.New())
	}
	return newTerminalRenderer(out, gchalk.New(gchalk.ForceLevel(gchalk.LevelNone)))
}

func newTerminalRenderer(out io.Writer, chalk *gchalk.Builder) *TerminalRenderer {
	return &TerminalRenderer{
		out:    out,
		chalk:  chalk,
		orange: chalk.RGB(255, 136, 0),
	}
}

// RenderView prints the title row, today/month figures, usage and quota bar.
func (t *TerminalRenderer) RenderView(view *models.WidgetView) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", t.chalk.Bold(view.Title), t.chalk.BrightBlack("⏱ "+view.FetchedAt.Format("15:04")))
	if view.Interface != "" {
		fmt.Fprintf(&b, "%s\n", t.chalk.BrightBlack(view.Interface))
	}
	b.WriteString("\n")

	// Pad before styling: escape codes would count toward the width.
	fmt.Fprintf(&b, "%s %s %s %s\n", t.orange("▣"), t.chalk.BrightBlack(pad("Today")), t.orange("▣"), t.chalk.BrightBlack("Month"))
	fmt.Fprintf(&b, "  %s   %s\n", t.chalk.Bold(pad(view.TodayText)), t.chalk.Bold(view.MonthText))
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s  %s\n", t.orange("◔"), t.chalk.BrightBlack("Month Used"), view.UsageText)
	fmt.Fprintf(&b, "  %s\n", t.chalk.Bold(view.QuotaText))
	fmt.Fprintf(&b, "  %s\n", t.orange(progressBar(view.Progress, view.BoxCount, view.Square)))

	_, err := io.WriteString(t.out, b.String())
	return err
}

// RenderError prints the failure state and when the next attempt happens.
func (t *TerminalRenderer) RenderError(err error, nextRefresh time.Time) error {
	detail := "Check configuration"
	if err != nil && err.Error() != "" {
		detail = err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️  %s\n", t.orange(t.chalk.Bold("Connection Failed")))
	fmt.Fprintf(&b, "   %s\n", t.chalk.BrightBlack(detail))
	if !nextRefresh.IsZero() {
		fmt.Fprintf(&b, "   %s\n", t.chalk.BrightBlack("retry at "+nextRefresh.Format("15:04")))
	}

	_, werr := io.WriteString(t.out, b.String())
	return werr
}

func pad(s string) string {
	return fmt.Sprintf("%-14s", s)
}

func progressBar(fill models.ProgressFill, boxCount int, square bool) string {
	glyphs := rectangleCells
	if square {
		glyphs = squareCells
	}

	var b strings.Builder
	for _, cell := range fill.Cells(boxCount) {
		b.WriteString(glyphs[cell])
	}
	return b.String()
}
