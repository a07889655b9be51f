package feed

// Bus Time responses are decoded into generic values and walked with these
// helpers, so a missing or oddly typed field yields a default instead of an error.

// lookup follows path through nested objects (string keys) and arrays
// (int indices). It returns nil as soon as a step is missing.
func lookup(v any, path ...any) any {
	cur := v
	for _, step := range path {
		switch key := step.(type) {
		case string:
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = obj[key]
		case int:
			arr, ok := cur.([]any)
			if !ok || key < 0 || key >= len(arr) {
				return nil
			}
			cur = arr[key]
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// stringAt returns the string at path or def. SIRI 2 encodes some names as
// a list of strings; the first non-empty element is used.
func stringAt(v any, def string, path ...any) string {
	switch val := lookup(v, path...).(type) {
	case string:
		if val != "" {
			return val
		}
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				return s
			}
		}
	}
	return def
}

// listAt returns the array at path, or nil
func listAt(v any, path ...any) []any {
	list, _ := lookup(v, path...).([]any)
	return list
}

// floatAt returns the number at path
func floatAt(v any, path ...any) (float64, bool) {
	f, ok := lookup(v, path...).(float64)
	return f, ok
}
