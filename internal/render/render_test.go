package render

import (
	"math"
	"testing"

	"github.com/idlab-discover/InfraClassify-cli/internal/client"
)

func sampleResult() *client.Result {
	return &client.Result{
		IsGood:                 true,
		QualityConfidence:      0.92,
		GoodInfrastructureProb: 0.88,
		BadInfrastructureProb:  0.12,
		SpecificClass:          2,
		ClassConfidence:        0.95,
		IndividualProbs:        []float64{0.04, 0.08, 0.88, 0.0},
	}
}

func TestRender_Sample(t *testing.T) {
	dm := Render(sampleResult())

	if dm.Verdict != "Good Infrastructure" || !dm.IsGood {
		t.Fatalf("verdict = %q (good=%v)", dm.Verdict, dm.IsGood)
	}
	if dm.Confidence.Percent != "92.0%" {
		t.Fatalf("confidence = %q, want 92.0%%", dm.Confidence.Percent)
	}
	if dm.Good.Percent != "88.0%" || dm.Bad.Percent != "12.0%" {
		t.Fatalf("good/bad = %q/%q", dm.Good.Percent, dm.Bad.Percent)
	}
	if dm.ClassLabel != "Good Infrastructure (Type A)" {
		t.Fatalf("class label = %q", dm.ClassLabel)
	}
	if dm.ClassConfidence.Percent != "95.0%" {
		t.Fatalf("class confidence = %q", dm.ClassConfidence.Percent)
	}

	wantTones := []Tone{ToneBad, ToneBad, ToneGood, ToneGood}
	wantPct := []string{"4.0%", "8.0%", "88.0%", "0.0%"}
	if len(dm.Probabilities) != 4 {
		t.Fatalf("probabilities = %d, want 4", len(dm.Probabilities))
	}
	for i, p := range dm.Probabilities {
		if p.Label != ClassLabels[i] || p.Tone != wantTones[i] || p.Percent != wantPct[i] {
			t.Fatalf("row %d = %+v", i, p)
		}
	}
}

func TestRender_ClampsOutOfRangeValues(t *testing.T) {
	res := sampleResult()
	res.GoodInfrastructureProb = 1.4
	res.BadInfrastructureProb = -0.4
	res.IndividualProbs = []float64{-1, 0.5, 2, math.NaN()}

	dm := Render(res)
	if dm.Good.Percent != "100.0%" || dm.Good.Value != 1 {
		t.Fatalf("good = %+v, want clamped to 100%%", dm.Good)
	}
	if dm.Bad.Percent != "0.0%" {
		t.Fatalf("bad = %+v, want clamped to 0%%", dm.Bad)
	}
	want := []string{"0.0%", "50.0%", "100.0%", "0.0%"}
	for i, p := range dm.Probabilities {
		if p.Percent != want[i] {
			t.Fatalf("row %d = %q, want %q", i, p.Percent, want[i])
		}
	}
}

func TestRender_ClassLabels(t *testing.T) {
	tests := []struct {
		class int
		want  string
	}{
		{0, "Bad Infrastructure (Type A)"},
		{1, "Bad Infrastructure (Type B)"},
		{2, "Good Infrastructure (Type A)"},
		{3, "Good Infrastructure (Type B)"},
		{9, "Class 9"},
		{-1, "Class -1"},
	}
	for _, tt := range tests {
		res := sampleResult()
		res.SpecificClass = tt.class
		if got := Render(res).ClassLabel; got != tt.want {
			t.Fatalf("class %d label = %q, want %q", tt.class, got, tt.want)
		}
	}
}

func TestRender_BadVerdict(t *testing.T) {
	res := sampleResult()
	res.IsGood = false
	dm := Render(res)
	if dm.Verdict != "Bad Infrastructure" || dm.Confidence.Tone != ToneBad {
		t.Fatalf("unexpected verdict: %+v", dm)
	}
}

func TestRender_Nil(t *testing.T) {
	if dm := Render(nil); dm.Verdict != "" || dm.Probabilities != nil {
		t.Fatalf("expected zero model, got %+v", dm)
	}
}

func TestPercent(t *testing.T) {
	cases := map[float64]string{
		0:      "0.0%",
		0.9234: "92.3%",
		1:      "100.0%",
		1.4:    "100.0%",
		-3:     "0.0%",
	}
	for in, want := range cases {
		if got := Percent(in); got != want {
			t.Fatalf("Percent(%v) = %q, want %q", in, got, want)
		}
	}
}
