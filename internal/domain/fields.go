package domain

// StringField extracts a string value from a raw document, returning ""
// when the key is absent or holds a different type.
func StringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// StringSliceField extracts a slice of strings from a raw document.
// JSON decoding yields []any, so each element is converted individually;
// non-string elements are dropped.
func StringSliceField(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
