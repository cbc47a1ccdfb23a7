package textparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenMarkdownStripsMarkup(t *testing.T) {
	src := "# Heading\n\nSome **bold** and *italic* text with a [link](https://example.com).\n\nSecond paragraph."
	got := FlattenMarkdown(src)

	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "**")
	assert.NotContains(t, got, "](")
	assert.Contains(t, got, "Some bold and italic text with a link.")
}

func TestFlattenMarkdownKeepsParagraphStructure(t *testing.T) {
	src := "## Title\n\nFirst paragraph.\n\nSecond paragraph."
	paras := SplitParagraphs(FlattenMarkdown(src))
	require.Len(t, paras, 3)
	assert.Equal(t, "Title", paras[0])
	assert.Equal(t, "Second paragraph.", paras[2])
}

func TestFlattenMarkdownPlainText(t *testing.T) {
	src := "Just a plain paragraph with nothing fancy."
	assert.Equal(t, src, FlattenMarkdown(src))
}
