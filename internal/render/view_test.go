package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestResultView_Print(t *testing.T) {
	tests := []struct {
		name  string
		dm    DisplayModel
		quiet bool
		want  []string
	}{
		{
			name: "good result",
			dm:   Render(sampleResult()),
			want: []string{"Classification Result", "Good Infrastructure", "92.0%", "Good Infrastructure (Type A)", "95.0%", "Class Probabilities", "88.0%", "12.0%"},
		},
		{
			name: "no individual probabilities",
			dm: func() DisplayModel {
				res := sampleResult()
				res.IndividualProbs = nil
				return Render(res)
			}(),
			want: []string{"Infrastructure Quality", "88.0%"},
		},
		{
			name:  "quiet mode produces no output",
			dm:    Render(sampleResult()),
			quiet: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewResultView(&buf, tt.quiet).Print(tt.dm)
			out := buf.String()

			if tt.quiet {
				if out != "" {
					t.Errorf("Expected no output in quiet mode, got: %q", out)
				}
				return
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("Output missing expected string %q.\nGot:\n%s", w, out)
				}
			}
		})
	}
}

func TestResultView_PrintSimple(t *testing.T) {
	var buf bytes.Buffer
	NewResultView(&buf, false).PrintSimple(Render(sampleResult()))

	want := []string{
		"Verdict: Good Infrastructure (92.0%)",
		"Good: 88.0%  Bad: 12.0%",
		"Class: Good Infrastructure (Type A) (95.0%)",
		"  Bad Infrastructure (Type A): 4.0%",
		"  Good Infrastructure (Type B): 0.0%",
	}
	out := buf.String()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("Output missing expected string %q.\nGot:\n%s", w, out)
		}
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		width int
	}{
		{"full", 1.0, 10},
		{"half", 0.5, 10},
		{"empty", 0.0, 10},
		{"over", 1.7, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bar(Probability{Value: tt.value, Tone: ToneGood}, tt.width)
			cells := strings.Count(got, "█") + strings.Count(got, "░")
			if cells != tt.width {
				t.Errorf("bar has %d cells, want %d", cells, tt.width)
			}
		})
	}
}
