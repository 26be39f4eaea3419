package extract

import "strings"

// Helpers for walking the loosely-typed source documents. Missing or
// wrongly-typed optional fields read as zero values so claim families are
// skipped instead of failing.

func docString(doc map[string]any, key string) string {
	if doc == nil {
		return ""
	}
	if v, ok := doc[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func docBool(doc map[string]any, key string) (bool, bool) {
	if doc == nil {
		return false, false
	}
	v, ok := doc[key].(bool)
	return v, ok
}

func docMap(doc map[string]any, key string) map[string]any {
	if doc == nil {
		return nil
	}
	if v, ok := doc[key].(map[string]any); ok {
		return v
	}
	return nil
}

// docList normalizes a value that may appear as a single object or a list of
// objects into a slice, the way ORCID serializes affiliation and alumniOf.
func docList(doc map[string]any, key string) []map[string]any {
	if doc == nil {
		return nil
	}
	switch v := doc[key].(type) {
	case map[string]any:
		return []map[string]any{v}
	case []any:
		items := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items
	default:
		return nil
	}
}

func docStrings(doc map[string]any, key string) []string {
	if doc == nil {
		return nil
	}
	switch v := doc[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	default:
		return nil
	}
}

// dateQualifier picks the best available date field from the document,
// falling back to the extraction time.
func dateQualifier(doc map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := docString(doc, key); v != "" {
			return v
		}
	}
	return nowISO()
}

// copyIdentifiers clones an identifier map so claim pairs never share one.
func copyIdentifiers(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
