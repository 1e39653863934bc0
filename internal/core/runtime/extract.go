package runtime

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodeBlock is a fenced code block lifted out of a markdown reply.
type CodeBlock struct {
	// Hint is the paragraph immediately preceding the block, typically the
	// assistant's one-line description of it.
	Hint string
	// Lang is the fence's language identifier, e.g. "html".
	Lang string
	// Content is the raw text inside the fence.
	Content string
}

// ExtractCodeBlocks walks the markdown AST of a reply and collects every
// fenced code block together with its language and preceding paragraph. Used
// when the assistant ignores the sectioned reply format and answers in plain
// markdown instead.
func ExtractCodeBlocks(source []byte) ([]CodeBlock, error) {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var blocks []CodeBlock
	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var block CodeBlock
		if fenced.Info != nil {
			block.Lang = string(fenced.Info.Text(source))
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			content.Write(segment.Value(source))
		}
		block.Content = content.String()

		if prev, ok := fenced.PreviousSibling().(*ast.Paragraph); ok {
			block.Hint = strings.TrimSpace(string(prev.Text(source)))
		}

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}
