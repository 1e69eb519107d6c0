package extractor

// Options carries backend-recognized settings keyed by name. Backends read
// the keys they understand and silently ignore the rest; an unrecognized key
// is never an error. A nil Options is valid and means "all defaults".
type Options map[string]any

// Well-known option keys. Each backend documents which of these it honors.
const (
	OptFirstPage = "first_page" // int, 1-based, inclusive
	OptLastPage  = "last_page"  // int, 1-based, inclusive
	OptLanguage  = "language"   // string, e.g. "eng"
	OptDPI       = "dpi"        // int, rasterization DPI
)

// String returns the string value for key, or def when the key is absent or
// holds a different type.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Int returns the int value for key, or def when the key is absent or holds
// a different type. JSON-decoded numbers arrive as float64 and are accepted.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// Bool returns the bool value for key, or def when absent or mistyped.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}
