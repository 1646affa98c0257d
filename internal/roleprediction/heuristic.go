package roleprediction

import "strings"

// heuristicConfidence is reported whenever the keyword fallback decides the
// label instead of the remote classifier.
const heuristicConfidence = 0.5

type keywordGroup struct {
	label    string
	keywords []string
}

// keywordGroups are checked in priority order; the first group with any
// keyword present in the lowercased text wins.
var keywordGroups = []keywordGroup{
	{"technology", []string{"react", "angular", "vue", "frontend"}},
	{"programming", []string{"python", "java", "node", "backend", "api"}},
	{"creativity", []string{"ui", "ux", "figma", "design"}},
	{"analysis", []string{"data", "analysis", "excel", "power bi", "sql"}},
	{"learning", []string{"ml", "machine learning", "deep learning", "tensorflow", "pytorch"}},
	{"organization", []string{"business", "requirements", "stakeholder"}},
	{"responsibility", []string{"security", "cyber", "vulnerability", "network"}},
}

// heuristicLabel classifies text locally without any network call. It is a
// pure function of its input; no match defaults to "technology".
func heuristicLabel(text string) string {
	lowered := strings.ToLower(text)
	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lowered, kw) {
				return group.label
			}
		}
	}
	return "technology"
}
