package render

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
)

const barWidth = 30

// ResultView draws a DisplayModel for the terminal.
type ResultView struct {
	writer io.Writer
	quiet  bool
}

// NewResultView creates a view writing to w. A quiet view prints nothing.
func NewResultView(w io.Writer, quiet bool) *ResultView {
	return &ResultView{writer: w, quiet: quiet}
}

// Print writes the boxed result panel.
func (v *ResultView) Print(dm DisplayModel) {
	if v.quiet {
		return
	}
	fmt.Fprintln(v.writer, Panel(dm))
}

// PrintSimple writes a plain text summary without styling.
func (v *ResultView) PrintSimple(dm DisplayModel) {
	fmt.Fprintf(v.writer, "Verdict: %s (%s)\n", dm.Verdict, dm.Confidence.Percent)
	fmt.Fprintf(v.writer, "Good: %s  Bad: %s\n", dm.Good.Percent, dm.Bad.Percent)
	fmt.Fprintf(v.writer, "Class: %s (%s)\n", dm.ClassLabel, dm.ClassConfidence.Percent)
	for _, p := range dm.Probabilities {
		fmt.Fprintf(v.writer, "  %s: %s\n", p.Label, p.Percent)
	}
}

// Panel renders dm as a bordered panel, green for a good verdict and red
// otherwise.
func Panel(dm DisplayModel) string {
	var b strings.Builder

	b.WriteString(ui.Title.Render("Classification Result"))
	b.WriteString("\n\n")

	b.WriteString(ui.FormatKeyValue("Verdict", toneStyle(dm.Confidence.Tone).Bold(true).Render(dm.Verdict)))
	b.WriteString("\n")
	b.WriteString(ui.FormatKeyValue("Confidence", bar(dm.Confidence, barWidth)+" "+percent(dm.Confidence)))
	b.WriteString("\n")
	b.WriteString(ui.FormatKeyValue("Class", ui.Highlight.Render(dm.ClassLabel)+" "+ui.Dim.Render("("+dm.ClassConfidence.Percent+")")))
	b.WriteString("\n\n")

	b.WriteString(ui.SectionHeader.Render("Infrastructure Quality"))
	b.WriteString("\n")
	b.WriteString(row(dm.Good, len(VerdictGood)))
	b.WriteString("\n")
	b.WriteString(row(dm.Bad, len(VerdictGood)))

	if len(dm.Probabilities) > 0 {
		b.WriteString("\n\n")
		b.WriteString(ui.SectionHeader.Render("Class Probabilities"))
		width := 0
		for _, p := range dm.Probabilities {
			width = max(width, len(p.Label))
		}
		for _, p := range dm.Probabilities {
			b.WriteString("\n")
			b.WriteString(row(p, width))
		}
	}

	if dm.IsGood {
		return ui.SuccessBox.Render(b.String())
	}
	return ui.ErrorBox.Render(b.String())
}

func row(p Probability, labelWidth int) string {
	label := fmt.Sprintf("%-*s", labelWidth, p.Label)
	return ui.Dim.Render(label) + " " + bar(p, barWidth) + " " + percent(p)
}

// bar draws the clamped value as a filled bar coloured by tone.
func bar(p Probability, width int) string {
	filled := int(Clamp(p.Value)*float64(width) + 0.5)
	return toneStyle(p.Tone).Render(strings.Repeat("█", filled)) +
		ui.Muted.Render(strings.Repeat("░", width-filled))
}

func percent(p Probability) string {
	return toneStyle(p.Tone).Render(p.Percent)
}

func toneStyle(t Tone) lipgloss.Style {
	if t == ToneGood {
		return lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	}
	return lipgloss.NewStyle().Foreground(ui.ColorError)
}
