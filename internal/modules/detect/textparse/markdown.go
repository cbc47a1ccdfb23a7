package textparse

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdownEngine = goldmark.New()

// FlattenMarkdown reduces a markdown source to plain prose by walking
// the parsed AST and collecting text segments, so markup never skews
// word counts or prompts. Block boundaries become paragraph breaks.
func FlattenMarkdown(src string) string {
	source := []byte(src)
	root := markdownEngine.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, isBlock := n.(*ast.Paragraph); isBlock {
				b.WriteString("\n\n")
			}
			if _, isHeading := n.(*ast.Heading); isHeading {
				b.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}
