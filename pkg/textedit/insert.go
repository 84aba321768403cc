package textedit

import "strings"

// SplitBlock splits a raw multi-line content block into whole lines. A
// single trailing newline is not treated as an extra empty line.
func SplitBlock(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// InsertAfterMarker returns a copy of doc with the block's lines inserted
// as a contiguous run immediately after the first line containing marker.
// When no line contains the marker, or the marker is empty, the block is
// appended at the end. anchored reports whether a marker line was found.
//
// This operation is not idempotent: calling it twice inserts the block
// twice. Callers needing exactly-once semantics must gate the call on
// ContainsBlock, or use EnsureEntries for structured list inserts.
func InsertAfterMarker(doc Document, marker string, block []string) (out Document, anchored bool) {
	if len(block) == 0 {
		return doc, false
	}

	at := len(doc.Lines)
	if marker != "" {
		if i := FindLine(doc, marker); i >= 0 {
			at = i + 1
			anchored = true
		}
	}

	lines := make([]string, 0, len(doc.Lines)+len(block))
	lines = append(lines, doc.Lines[:at]...)
	lines = append(lines, block...)
	lines = append(lines, doc.Lines[at:]...)
	out = doc.withLines(lines)
	if !doc.trailingNewline && at == len(doc.Lines) {
		// An appended block always ends with a newline, even when the
		// original file did not.
		out.trailingNewline = true
	}
	return out, anchored
}

// ContainsBlock reports whether the block's lines appear verbatim as a
// contiguous run in doc. An empty block is trivially present.
func ContainsBlock(doc Document, block []string) bool {
	if len(block) == 0 {
		return true
	}
	if len(block) > len(doc.Lines) {
		return false
	}
outer:
	for i := 0; i+len(block) <= len(doc.Lines); i++ {
		for j, want := range block {
			if doc.Lines[i+j] != want {
				continue outer
			}
		}
		return true
	}
	return false
}
