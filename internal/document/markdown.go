package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"docdigest/internal/contextutil"
)

// MarkdownSource reads documents from markdown files under a root directory.
// A document ID is the slash-separated path relative to the root.
type MarkdownSource struct {
	root   string
	parser goldmark.Markdown
}

// NewMarkdownSource creates a MarkdownSource rooted at dir.
func NewMarkdownSource(dir string) *MarkdownSource {
	return &MarkdownSource{
		root: dir,
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Open reads and parses the markdown file identified by id.
func (s *MarkdownSource) Open(ctx context.Context, id string) (*Document, error) {
	logger := contextutil.LoggerFromContext(ctx)

	clean := filepath.Clean(filepath.FromSlash(id))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid document id %q: %w", id, ErrNotFound)
	}
	path := filepath.Join(s.root, clean)

	content, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to read %s: %w", id, ErrNotFound)
		case errors.Is(err, fs.ErrPermission):
			return nil, fmt.Errorf("failed to read %s: %w", id, ErrPermission)
		default:
			return nil, fmt.Errorf("failed to read %s: %w", id, err)
		}
	}

	blocks := s.ParseBlocks(content)
	logger.DebugContext(ctx, "parsed markdown document", "doc_id", id, "blocks", len(blocks))

	return &Document{
		ID:     id,
		Title:  titleFromPath(clean),
		Blocks: blocks,
	}, nil
}

// List returns the IDs of all markdown files under the root, skipping hidden directories.
func (s *MarkdownSource) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ParseBlocks converts markdown content into top-level blocks in document order.
func (s *MarkdownSource) ParseBlocks(content []byte) []Block {
	doc := s.parser.Parser().Parse(text.NewReader(content))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n == doc {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			role := RoleParagraph
			switch node.Level {
			case 1:
				role = RoleHeading1
			case 2:
				role = RoleHeading2
			}
			blocks = append(blocks, Block{Role: role, Text: extractTextFromNode(node, content)})
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.TextBlock:
			blocks = append(blocks, Block{Role: RoleParagraph, Text: extractTextFromNode(node, content)})
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock, *ast.FencedCodeBlock:
			blocks = append(blocks, Block{Role: RoleParagraph, Text: codeBlockText(node, content)})
			return ast.WalkSkipChildren, nil

		case *ast.List:
			style := ListBulleted
			if node.IsOrdered() {
				style = ListOrdered
			}
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				appendListItem(&blocks, item, style, content)
			}
			return ast.WalkSkipChildren, nil

		case *ast.Blockquote:
			return ast.WalkContinue, nil

		default:
			if n.Type() == ast.TypeBlock {
				blocks = append(blocks, Block{Role: RoleOther, Text: extractTextFromNode(n, content)})
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		}
	})

	return blocks
}

// appendListItem emits one block for the item's own text and recurses into nested lists.
func appendListItem(blocks *[]Block, item ast.Node, style ListStyle, content []byte) {
	var parts []string
	var nested []*ast.List
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		if list, ok := child.(*ast.List); ok {
			nested = append(nested, list)
			continue
		}
		if t := extractTextFromNode(child, content); t != "" {
			parts = append(parts, t)
		}
	}
	*blocks = append(*blocks, Block{Role: RoleListItem, Text: strings.Join(parts, " "), List: style})

	for _, list := range nested {
		nestedStyle := ListBulleted
		if list.IsOrdered() {
			nestedStyle = ListOrdered
		}
		for child := list.FirstChild(); child != nil; child = child.NextSibling() {
			appendListItem(blocks, child, nestedStyle, content)
		}
	}
}

// extractTextFromNode extracts text content from a node and its children.
func extractTextFromNode(n ast.Node, content []byte) string {
	var textBuilder strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			textBuilder.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				textBuilder.WriteByte(' ')
			}
		case *ast.String:
			textBuilder.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(textBuilder.String())
}

func codeBlockText(n ast.Node, content []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(content))
	}
	return strings.TrimRight(b.String(), "\n")
}

// titleFromPath returns the file name without its extension.
func titleFromPath(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
