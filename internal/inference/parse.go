package inference

import "encoding/json"

type responseShape int

const (
	shapeFlat responseShape = iota
	shapeNested
	shapeUnknown
)

// decodePredictions parses a 2xx inference body. The endpoint returns either
// a flat list of label/score records or the same list nested one level deep;
// anything else is reported as unknown so callers can treat it as a
// non-retryable failure.
func decodePredictions(body []byte) ([]Prediction, responseShape) {
	if !looksLikeArray(body) {
		return nil, shapeUnknown
	}

	var nested [][]Prediction
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		return nested[0], shapeNested
	}

	var flat []Prediction
	if err := json.Unmarshal(body, &flat); err == nil {
		return flat, shapeFlat
	}

	return nil, shapeUnknown
}

func looksLikeArray(body []byte) bool {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
