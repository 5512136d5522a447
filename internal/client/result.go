package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// ClassCount is the number of fine-grained classes the model predicts.
const ClassCount = 4

// Result is a successful classification. Probabilities are passed through as
// received; the producer does not guarantee they are within [0,1].
type Result struct {
	IsGood                 bool      `json:"is_good" yaml:"is_good"`
	QualityConfidence      float64   `json:"quality_confidence" yaml:"quality_confidence"`
	GoodInfrastructureProb float64   `json:"good_infrastructure_prob" yaml:"good_infrastructure_prob"`
	BadInfrastructureProb  float64   `json:"bad_infrastructure_prob" yaml:"bad_infrastructure_prob"`
	SpecificClass          int       `json:"specific_class" yaml:"specific_class"`
	ClassConfidence        float64   `json:"class_confidence" yaml:"class_confidence"`
	IndividualProbs        []float64 `json:"individual_probs" yaml:"individual_probs"`
}

// binaryFlag unmarshals is_good, which the service sends as 0 or 1.
// true/false are accepted as well.
type binaryFlag struct {
	Value bool
}

func (v *binaryFlag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "1", "true":
		v.Value = true
		return nil
	case "0", "false":
		v.Value = false
		return nil
	}

	// numeric forms like 1.0
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("is_good: %w", err)
	}
	switch f {
	case 1:
		v.Value = true
	case 0:
		v.Value = false
	default:
		return fmt.Errorf("is_good: expected 0 or 1, got %v", f)
	}
	return nil
}

type wireResult struct {
	IsGood                 *binaryFlag `json:"is_good"`
	QualityConfidence      *float64    `json:"quality_confidence"`
	GoodInfrastructureProb *float64    `json:"good_infrastructure_prob"`
	BadInfrastructureProb  *float64    `json:"bad_infrastructure_prob"`
	SpecificClass          *float64    `json:"specific_class"`
	ClassConfidence        *float64    `json:"class_confidence"`
	IndividualProbs        []float64   `json:"individual_probs"`
}

// DecodeResult parses a success body. Any deviation from the schema is
// reported as ErrMalformedResponse. An out-of-range specific_class is kept;
// rendering decides how to show it.
func DecodeResult(body []byte) (*Result, error) {
	var w wireResult
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var missing []string
	if w.IsGood == nil {
		missing = append(missing, "is_good")
	}
	if w.QualityConfidence == nil {
		missing = append(missing, "quality_confidence")
	}
	if w.GoodInfrastructureProb == nil {
		missing = append(missing, "good_infrastructure_prob")
	}
	if w.BadInfrastructureProb == nil {
		missing = append(missing, "bad_infrastructure_prob")
	}
	if w.SpecificClass == nil {
		missing = append(missing, "specific_class")
	}
	if w.ClassConfidence == nil {
		missing = append(missing, "class_confidence")
	}
	if w.IndividualProbs == nil {
		missing = append(missing, "individual_probs")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %v", ErrMalformedResponse, missing)
	}

	if len(w.IndividualProbs) != ClassCount {
		return nil, fmt.Errorf("%w: individual_probs has %d entries, want %d", ErrMalformedResponse, len(w.IndividualProbs), ClassCount)
	}
	cls := *w.SpecificClass
	if cls != math.Trunc(cls) || math.Abs(cls) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: specific_class %v is not an integer", ErrMalformedResponse, cls)
	}

	return &Result{
		IsGood:                 w.IsGood.Value,
		QualityConfidence:      *w.QualityConfidence,
		GoodInfrastructureProb: *w.GoodInfrastructureProb,
		BadInfrastructureProb:  *w.BadInfrastructureProb,
		SpecificClass:          int(cls),
		ClassConfidence:        *w.ClassConfidence,
		IndividualProbs:        append([]float64(nil), w.IndividualProbs...),
	}, nil
}
