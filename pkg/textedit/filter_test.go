package textedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterLines(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		patterns []string
		want     []string
		changed  bool
	}{
		{
			name:     "removes matching lines keeping order",
			lines:    []string{"import Vapor", "app.get(\"todo\")", "app.migrations.add(CreateTodo())"},
			patterns: []string{"CreateTodo", "register(collection:"},
			want:     []string{"import Vapor", "app.get(\"todo\")"},
			changed:  true,
		},
		{
			name:     "empty pattern set is identity",
			lines:    []string{"a", "b"},
			patterns: nil,
			want:     []string{"a", "b"},
			changed:  false,
		},
		{
			name:     "no matches leaves document unchanged",
			lines:    []string{"let x = 1", "let y = 2"},
			patterns: []string{"Todo"},
			want:     []string{"let x = 1", "let y = 2"},
			changed:  false,
		},
		{
			name:     "substring match is case-sensitive",
			lines:    []string{"TodoController", "todocontroller"},
			patterns: []string{"Todo"},
			want:     []string{"todocontroller"},
			changed:  true,
		},
		{
			name:     "all lines removed",
			lines:    []string{"CreateTodo()", "CreateTodo(x)"},
			patterns: []string{"CreateTodo"},
			want:     []string{},
			changed:  true,
		},
		{
			name:     "empty document",
			lines:    nil,
			patterns: []string{"x"},
			want:     nil,
			changed:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{Lines: tt.lines}
			got, changed := FilterLines(doc, tt.patterns)
			assert.Equal(t, tt.changed, changed)
			if len(tt.want) == 0 {
				assert.Empty(t, got.Lines)
			} else {
				assert.Equal(t, tt.want, got.Lines)
			}
		})
	}
}

func TestFilterLinesPreservesSerializationShape(t *testing.T) {
	doc := Parse([]byte("keep\r\ndrop me\r\nkeep too\r\n"))
	got, changed := FilterLines(doc, []string{"drop"})
	assert.True(t, changed)
	assert.Equal(t, "keep\r\nkeep too\r\n", got.String())
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"lf with trailing newline", "a\nb\n"},
		{"lf without trailing newline", "a\nb"},
		{"crlf", "a\r\nb\r\n"},
		{"empty", ""},
		{"single line", "only\n"},
		{"blank interior line", "a\n\nb\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse([]byte(tt.content))
			assert.Equal(t, tt.content, string(doc.Bytes()))
		})
	}
}
