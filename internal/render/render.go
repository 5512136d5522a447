// Package render turns a classification result into display fields.
package render

import (
	"fmt"
	"math"

	"github.com/idlab-discover/InfraClassify-cli/internal/client"
)

// Tone is a styling hint for a probability row. It does not change the data.
type Tone string

const (
	ToneGood Tone = "good"
	ToneBad  Tone = "bad"
)

const (
	VerdictGood = "Good Infrastructure"
	VerdictBad  = "Bad Infrastructure"
)

// ClassLabels are the fine-grained classes in the order the service reports
// individual_probs.
var ClassLabels = [client.ClassCount]string{
	"Bad Infrastructure (Type A)",
	"Bad Infrastructure (Type B)",
	"Good Infrastructure (Type A)",
	"Good Infrastructure (Type B)",
}

// Probability is one clamped, formatted value.
type Probability struct {
	Label   string  `json:"label" yaml:"label"`
	Value   float64 `json:"value" yaml:"value"`
	Percent string  `json:"percent" yaml:"percent"`
	Tone    Tone    `json:"tone,omitempty" yaml:"tone,omitempty"`
}

// DisplayModel is everything the front end shows for a successful result.
type DisplayModel struct {
	Verdict         string        `json:"verdict" yaml:"verdict"`
	IsGood          bool          `json:"is_good" yaml:"is_good"`
	Confidence      Probability   `json:"confidence" yaml:"confidence"`
	Good            Probability   `json:"good" yaml:"good"`
	Bad             Probability   `json:"bad" yaml:"bad"`
	SpecificClass   int           `json:"specific_class" yaml:"specific_class"`
	ClassLabel      string        `json:"class_label" yaml:"class_label"`
	ClassConfidence Probability   `json:"class_confidence" yaml:"class_confidence"`
	Probabilities   []Probability `json:"probabilities" yaml:"probabilities"`
}

// Render maps res to display fields. Every probability is clamped to [0,1].
// A nil result renders as the zero DisplayModel.
func Render(res *client.Result) DisplayModel {
	if res == nil {
		return DisplayModel{}
	}

	verdict := VerdictBad
	tone := ToneBad
	if res.IsGood {
		verdict = VerdictGood
		tone = ToneGood
	}

	label := ClassLabel(res.SpecificClass)
	dm := DisplayModel{
		Verdict:         verdict,
		IsGood:          res.IsGood,
		Confidence:      prob("Quality confidence", res.QualityConfidence, tone),
		Good:            prob(VerdictGood, res.GoodInfrastructureProb, ToneGood),
		Bad:             prob(VerdictBad, res.BadInfrastructureProb, ToneBad),
		SpecificClass:   res.SpecificClass,
		ClassLabel:      label,
		ClassConfidence: prob(label, res.ClassConfidence, toneForIndex(res.SpecificClass)),
	}

	dm.Probabilities = make([]Probability, 0, len(res.IndividualProbs))
	for i, p := range res.IndividualProbs {
		dm.Probabilities = append(dm.Probabilities, prob(ClassLabel(i), p, toneForIndex(i)))
	}
	return dm
}

// ClassLabel names class index i, or "Class i" when it is out of range.
func ClassLabel(i int) string {
	if i >= 0 && i < len(ClassLabels) {
		return ClassLabels[i]
	}
	return fmt.Sprintf("Class %d", i)
}

// Clamp limits v to [0,1]. NaN becomes 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Percent formats v as a percentage with one decimal, after clamping.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", Clamp(v)*100)
}

func prob(label string, v float64, tone Tone) Probability {
	c := Clamp(v)
	return Probability{Label: label, Value: c, Percent: Percent(c), Tone: tone}
}

// the first two classes are the bad ones
func toneForIndex(i int) Tone {
	if i > 1 {
		return ToneGood
	}
	return ToneBad
}
