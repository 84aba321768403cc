// Package textedit provides line-oriented transformations over text files:
// pattern-based line filtering, marker-anchored block insertion, and
// exactly-once edits of bracketed list blocks. It operates on raw line
// structure only and knows nothing about the language being patched.
package textedit

import "strings"

// Document is an ordered sequence of lines together with the line-ending
// style and trailing-newline shape of the file it was parsed from, so a
// round trip through Parse and Bytes is byte-preserving.
type Document struct {
	Lines []string

	lineEnding      string
	trailingNewline bool
}

// Parse splits raw file content into a Document. The dominant line ending
// (LF or CRLF) is detected and restored on serialization.
func Parse(data []byte) Document {
	content := string(data)
	ending := detectLineEnding(content)

	trailing := strings.HasSuffix(content, "\n")
	content = strings.TrimSuffix(content, ending)
	if ending == "\r\n" {
		// Normalize for splitting; the ending is restored in Bytes.
		content = strings.ReplaceAll(content, "\r\n", "\n")
	}

	var lines []string
	if content != "" || trailing {
		lines = strings.Split(content, "\n")
	}

	return Document{
		Lines:           lines,
		lineEnding:      ending,
		trailingNewline: trailing,
	}
}

// FromLines builds a Document from explicit lines using LF endings and a
// trailing newline. Intended for constructing content blocks and tests.
func FromLines(lines ...string) Document {
	return Document{
		Lines:           append([]string(nil), lines...),
		lineEnding:      "\n",
		trailingNewline: true,
	}
}

// Bytes serializes the document back to file content, preserving the
// original line-ending style and trailing-newline shape.
func (d Document) Bytes() []byte {
	return []byte(d.String())
}

// String returns the serialized document content.
func (d Document) String() string {
	if len(d.Lines) == 0 {
		return ""
	}
	ending := d.lineEnding
	if ending == "" {
		ending = "\n"
	}
	s := strings.Join(d.Lines, ending)
	if d.trailingNewline {
		s += ending
	}
	return s
}

// Equal reports whether two documents serialize to identical content.
func (d Document) Equal(other Document) bool {
	return d.String() == other.String()
}

// withLines returns a copy of d carrying the given lines and the original
// serialization shape.
func (d Document) withLines(lines []string) Document {
	return Document{
		Lines:           lines,
		lineEnding:      d.lineEnding,
		trailingNewline: d.trailingNewline,
	}
}

// FindLine returns the index of the first line containing the literal
// substring, or -1 when no line matches.
func FindLine(doc Document, substr string) int {
	for i, line := range doc.Lines {
		if strings.Contains(line, substr) {
			return i
		}
	}
	return -1
}

// detectLineEnding picks the dominant line ending, defaulting to LF.
func detectLineEnding(content string) string {
	crlf := strings.Count(content, "\r\n")
	lf := strings.Count(content, "\n") - crlf
	if crlf > lf {
		return "\r\n"
	}
	return "\n"
}
