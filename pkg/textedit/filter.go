package textedit

import "strings"

// FilterLines returns a copy of doc retaining only the lines that contain
// none of the given literal patterns. Matching is case-sensitive substring
// containment; retained lines keep their content and relative order. An
// empty pattern set is the identity transform.
func FilterLines(doc Document, patterns []string) (out Document, changed bool) {
	if len(patterns) == 0 {
		return doc, false
	}

	kept := make([]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		if matchesAny(line, patterns) {
			changed = true
			continue
		}
		kept = append(kept, line)
	}
	if !changed {
		return doc, false
	}
	return doc.withLines(kept), true
}

// matchesAny reports whether line contains any of the literal patterns.
func matchesAny(line string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}
