package roleprediction

import "strings"

// roleMap maps classifier labels to ordered fresher role recommendations.
// Loaded once at process start; read-only afterwards.
var roleMap = map[string][]string{
	"technology":     {"Software Engineer - Fresher", "Full Stack Developer - Fresher"},
	"programming":    {"Backend Developer - Fresher"},
	"creativity":     {"UI/UX Designer - Fresher"},
	"analysis":       {"Data Analyst - Fresher"},
	"learning":       {"Machine Learning Intern"},
	"organization":   {"Business Analyst - Fresher"},
	"responsibility": {"Cybersecurity Analyst - Fresher"},
}

// MapLabelToRoles returns the role list for a label, matching
// case-insensitively with surrounding whitespace stripped. Unmapped labels
// yield an empty list.
func MapLabelToRoles(label string) []string {
	key := strings.ToLower(strings.TrimSpace(label))
	roles, ok := roleMap[key]
	if !ok {
		return []string{}
	}
	out := make([]string, len(roles))
	copy(out, roles)
	return out
}

// FilterFresherRoles keeps only roles explicitly designated for entry-level
// candidates. An empty result is valid, not an error.
func FilterFresherRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if strings.Contains(r, "Fresher") || strings.Contains(r, "Intern") {
			out = append(out, r)
		}
	}
	return out
}
