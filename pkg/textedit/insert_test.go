package textedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertAfterMarker(t *testing.T) {
	block := []string{"    app.middleware.use(OpenAPIMiddleware())"}

	t.Run("inserts after first marker line", func(t *testing.T) {
		doc := FromLines(
			"import Vapor",
			"public func configure(_ app: Application) throws {",
			"    // register routes",
			"}",
		)
		got, anchored := InsertAfterMarker(doc, "public func configure", block)
		assert.True(t, anchored)
		assert.Equal(t, []string{
			"import Vapor",
			"public func configure(_ app: Application) throws {",
			"    app.middleware.use(OpenAPIMiddleware())",
			"    // register routes",
			"}",
		}, got.Lines)
	})

	t.Run("appends when marker absent", func(t *testing.T) {
		doc := FromLines("import Vapor")
		got, anchored := InsertAfterMarker(doc, "no such marker", block)
		assert.False(t, anchored)
		assert.Equal(t, []string{"import Vapor", block[0]}, got.Lines)
	})

	t.Run("only the first marker anchors", func(t *testing.T) {
		doc := FromLines("anchor", "middle", "anchor")
		got, anchored := InsertAfterMarker(doc, "anchor", []string{"inserted"})
		assert.True(t, anchored)
		assert.Equal(t, []string{"anchor", "inserted", "middle", "anchor"}, got.Lines)
	})

	t.Run("multi-line block stays contiguous", func(t *testing.T) {
		doc := FromLines("a", "b")
		got, _ := InsertAfterMarker(doc, "a", []string{"one", "two", "three"})
		assert.Equal(t, []string{"a", "one", "two", "three", "b"}, got.Lines)
	})

	t.Run("not idempotent by design", func(t *testing.T) {
		doc := FromLines("anchor")
		once, _ := InsertAfterMarker(doc, "anchor", []string{"x"})
		twice, _ := InsertAfterMarker(once, "anchor", []string{"x"})
		assert.Equal(t, []string{"anchor", "x", "x"}, twice.Lines)
	})

	t.Run("empty block is identity", func(t *testing.T) {
		doc := FromLines("a")
		got, anchored := InsertAfterMarker(doc, "a", nil)
		assert.False(t, anchored)
		assert.True(t, got.Equal(doc))
	})

	t.Run("append to file without trailing newline gains one", func(t *testing.T) {
		doc := Parse([]byte("last line"))
		got, _ := InsertAfterMarker(doc, "absent", []string{"added"})
		assert.Equal(t, "last line\nadded\n", got.String())
	})
}

func TestSplitBlock(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitBlock("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, SplitBlock("a\nb"))
	assert.Equal(t, []string{"a", "", "b"}, SplitBlock("a\r\n\r\nb"))
	assert.Nil(t, SplitBlock(""))
	assert.Nil(t, SplitBlock("\n"))
}

func TestContainsBlock(t *testing.T) {
	doc := FromLines("a", "b", "c", "d")

	assert.True(t, ContainsBlock(doc, []string{"b", "c"}))
	assert.True(t, ContainsBlock(doc, []string{"a"}))
	assert.True(t, ContainsBlock(doc, nil))
	assert.False(t, ContainsBlock(doc, []string{"c", "b"}))
	assert.False(t, ContainsBlock(doc, []string{"a", "b", "c", "d", "e"}))
	assert.False(t, ContainsBlock(Document{}, []string{"a"}))
}
