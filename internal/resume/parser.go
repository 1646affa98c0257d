package resume

import (
	"regexp"
	"sort"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	linkPattern  = regexp.MustCompile(`https?://[^\s)>\]]+`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[\s\-]?)?\(?\d{3,5}\)?[\s\-]?\d{3}[\s\-]?\d{3,4}`)
)

// knownSkills is matched against lowercased resume text. Multi-word entries
// use substring matching; single tokens require word boundaries to avoid
// false positives like "go" inside "google".
var knownSkills = []string{
	"python", "java", "javascript", "typescript", "golang", "c++", "c#",
	"react", "angular", "vue", "node", "express", "django", "flask", "spring",
	"html", "css", "sql", "mysql", "postgresql", "mongodb", "redis",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "git",
	"machine learning", "deep learning", "tensorflow", "pytorch", "pandas",
	"numpy", "power bi", "tableau", "excel", "figma", "linux",
}

// ParseText derives structured info from extracted resume text.
func ParseText(text string) map[string]any {
	emails := dedupe(emailPattern.FindAllString(text, -1))
	links := dedupe(linkPattern.FindAllString(text, -1))
	phones := dedupe(phonePattern.FindAllString(text, -1))

	return map[string]any{
		"emails":     emails,
		"links":      links,
		"phones":     phones,
		"skills":     DetectSkills(text),
		"word_count": len(strings.Fields(text)),
		"summary":    summarize(text),
	}
}

// DetectSkills returns known skills present in the text, sorted.
func DetectSkills(text string) []string {
	lowered := strings.ToLower(text)
	found := make([]string, 0, 8)
	for _, skill := range knownSkills {
		if containsSkill(lowered, skill) {
			found = append(found, skill)
		}
	}
	sort.Strings(found)
	return found
}

func containsSkill(lowered, skill string) bool {
	if strings.Contains(skill, " ") {
		return strings.Contains(lowered, skill)
	}
	idx := 0
	for {
		pos := strings.Index(lowered[idx:], skill)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(skill)
		if boundaryBefore(lowered, start) && boundaryAfter(lowered, end) {
			return true
		}
		idx = start + 1
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordByte(s[i-1])
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	return !isWordByte(s[i])
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

func summarize(text string) string {
	const maxSummary = 300
	compact := strings.Join(strings.Fields(text), " ")
	if len(compact) <= maxSummary {
		return compact
	}
	return compact[:maxSummary]
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
