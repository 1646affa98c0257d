package aggregate

import "time"

// Request carries one aggregate-analysis invocation. Optional identifiers are
// opaque strings; an empty value means "skip this source".
type Request struct {
	RequestID string
	FileName  string
	MimeType  string
	FileData  []byte
	GitHub    string
	LeetCode  string
	CodeChef  string
	Token     string
}

// SourceResult is a fully resolved per-source outcome: exactly one of Payload
// or Err is set, never both and never neither.
type SourceResult struct {
	Payload map[string]any
	Err     string
}

// Succeeded builds a successful SourceResult.
func Succeeded(payload map[string]any) SourceResult {
	return SourceResult{Payload: payload}
}

// Failed builds a failed SourceResult.
func Failed(message string) SourceResult {
	return SourceResult{Err: message}
}

// IsFailure reports whether the source failed.
func (r SourceResult) IsFailure() bool {
	return r.Err != ""
}

// Response maps a source name to its payload, or "<source>_error" to its
// failure message. Keys are mutually exclusive per source.
type Response map[string]any

func (resp Response) set(source string, result SourceResult) {
	if result.IsFailure() {
		resp[source+"_error"] = result.Err
		return
	}
	resp[source] = result.Payload
}

// Record is the persisted summary of one completed aggregate run.
type Record struct {
	ID           string
	RequestID    string
	ResumeFile   string
	StorageKey   string
	GitHubUser   string
	LeetCodeUser string
	CodeChefUser string
	SourcesOK    []string
	SourcesErr   []string
	CreatedAt    time.Time
}
