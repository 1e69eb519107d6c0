package extractor

// Content category labels. Keys in Result.Content come from this
// vocabulary; backends add categories here, never rename existing ones.
const (
	CategoryText       = "TEXT"
	CategoryTables     = "TABLES"
	CategoryTranscript = "TRANSCRIPT"
)

// Common metadata keys.
const (
	MetaExtractor = "extractor"
	MetaUnit      = "unit"
	MetaCharCount = "char_count"
	MetaError     = "error"
)

// Result is the normalized output for a single unit (one page or one audio
// segment). Both maps are always non-nil, even on failure: a failed unit has
// empty content values and an "error" metadata key.
type Result struct {
	Content  map[string]string `json:"content"`
	Metadata map[string]any    `json:"metadata"`
}

// ResultSet maps a unit index to its result. PDF pages are 1-based; audio
// segment numbering is backend-defined. A missing index means the unit was
// never processed, not that it produced empty content.
type ResultSet map[int]Result

// NewResult returns an empty result covering the given categories, so that
// units with no extractable content still expose the full category set.
func NewResult(name string, unit int, categories ...string) Result {
	content := make(map[string]string, len(categories))
	for _, c := range categories {
		content[c] = ""
	}
	return Result{
		Content: content,
		Metadata: map[string]any{
			MetaExtractor: name,
			MetaUnit:      unit,
		},
	}
}

// FailureSet builds the degenerate result set a backend returns when the
// whole extraction fails: one unit whose metadata carries the error. The
// unit index is the first unit the caller asked for, or 1 when the request
// never got far enough to know.
func FailureSet(name string, unit int, err error) ResultSet {
	if unit < 0 {
		unit = 1
	}
	r := NewResult(name, unit)
	r.Metadata[MetaError] = err.Error()
	return ResultSet{unit: r}
}
