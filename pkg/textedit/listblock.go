package textedit

import (
	"fmt"
	"strings"
)

// BlockNotFoundError is returned when a list-block opener cannot be located
// in the document. List edits without a matching block must surface as
// failures rather than fall back to appending at end of file.
type BlockNotFoundError struct {
	Opener string
}

func (e *BlockNotFoundError) Error() string {
	return fmt.Sprintf("list block not found: no line contains %q", e.Opener)
}

// EnsureEntries inserts the given entries into the list block opened by the
// first line containing opener, skipping any entry whose text already
// appears on a line anywhere in the document. Inserted lines take the
// indentation of an existing sibling entry when the block has one, else
// defaultIndent. Repeated calls with the same entries are a no-op after the
// first. added is the number of lines actually inserted.
//
// When no line contains opener, a *BlockNotFoundError is returned and the
// document is unchanged.
func EnsureEntries(doc Document, opener string, entries []string, defaultIndent string) (out Document, added int, err error) {
	openerIdx := FindLine(doc, opener)
	if openerIdx == -1 {
		return doc, 0, &BlockNotFoundError{Opener: opener}
	}

	var missing []string
	for _, entry := range entries {
		if !HasEntry(doc, entry) {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return doc, 0, nil
	}

	indent := siblingIndent(doc.Lines, openerIdx)
	if indent == "" {
		indent = defaultIndent
	}

	lines := make([]string, 0, len(doc.Lines)+len(missing))
	lines = append(lines, doc.Lines[:openerIdx+1]...)
	for _, entry := range missing {
		lines = append(lines, indent+strings.TrimSpace(entry))
	}
	lines = append(lines, doc.Lines[openerIdx+1:]...)
	return doc.withLines(lines), len(missing), nil
}

// RemoveEntriesContainingAny removes every line containing any of the given
// literal patterns. It is the list-edit counterpart of FilterLines, exposed
// separately because callers reason about it as a manifest edit.
func RemoveEntriesContainingAny(doc Document, patterns []string) (out Document, changed bool) {
	return FilterLines(doc, patterns)
}

// HasEntry reports whether any line of doc carries exactly the entry text,
// ignoring surrounding whitespace. This is the same matching rule
// EnsureEntries uses to decide whether an entry is already present, so the
// validator and the mutator agree on what "applied" means.
func HasEntry(doc Document, entry string) bool {
	want := strings.TrimSpace(entry)
	for _, line := range doc.Lines {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}

// siblingIndent returns the leading whitespace of the first entry line
// following the opener, or "" when the block has no usable sibling. A line
// starting with a closing bracket terminates the scan.
func siblingIndent(lines []string, openerIdx int) string {
	for _, line := range lines[openerIdx+1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "]") || strings.HasPrefix(trimmed, ")") || strings.HasPrefix(trimmed, "}") {
			return ""
		}
		return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	}
	return ""
}
