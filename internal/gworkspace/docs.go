package gworkspace

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/api/docs/v1"

	"docdigest/internal/document"
)

// Named paragraph styles of the Docs API that map to chunk headings.
const (
	styleHeading1 = "HEADING_1"
	styleHeading2 = "HEADING_2"
)

// DocsSource reads documents from Google Docs.
type DocsSource struct {
	svc     *docs.Service
	limiter *rate.Limiter
}

// NewDocsSource creates a DocsSource.
func NewDocsSource(svc *docs.Service) *DocsSource {
	return &DocsSource{svc: svc, limiter: newLimiter(DocsRequestsPerSecond)}
}

// Open fetches the document and flattens its body into blocks.
func (s *DocsSource) Open(ctx context.Context, id string) (*document.Document, error) {
	if err := wait(ctx, s.limiter); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	doc, err := s.svc.Documents.Get(id).Context(ctx).Do()
	if err != nil {
		return nil, documentError(id, err)
	}

	return &document.Document{
		ID:     id,
		Title:  doc.Title,
		Blocks: convertBody(doc),
	}, nil
}

// convertBody maps the top-level structural elements of doc onto blocks.
// Tables become RoleOther blocks; section breaks and tables of contents are dropped.
func convertBody(doc *docs.Document) []document.Block {
	if doc.Body == nil {
		return nil
	}

	var blocks []document.Block
	for _, el := range doc.Body.Content {
		switch {
		case el.Paragraph != nil:
			blocks = append(blocks, convertParagraph(doc, el.Paragraph))
		case el.Table != nil:
			blocks = append(blocks, document.Block{Role: document.RoleOther, Text: tableText(el.Table)})
		}
	}
	return blocks
}

func convertParagraph(doc *docs.Document, p *docs.Paragraph) document.Block {
	text := paragraphText(p)

	if p.ParagraphStyle != nil {
		switch p.ParagraphStyle.NamedStyleType {
		case styleHeading1:
			return document.Block{Role: document.RoleHeading1, Text: text}
		case styleHeading2:
			return document.Block{Role: document.RoleHeading2, Text: text}
		}
	}

	if p.Bullet != nil {
		return document.Block{
			Role: document.RoleListItem,
			Text: text,
			List: listStyle(doc, p.Bullet),
		}
	}
	return document.Block{Role: document.RoleParagraph, Text: text}
}

func paragraphText(p *docs.Paragraph) string {
	var sb strings.Builder
	for _, el := range p.Elements {
		if el.TextRun != nil {
			sb.WriteString(el.TextRun.Content)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// listStyle reports whether the bullet's nesting level uses numbered or symbol glyphs.
func listStyle(doc *docs.Document, b *docs.Bullet) document.ListStyle {
	list, ok := doc.Lists[b.ListId]
	if !ok || list.ListProperties == nil {
		return document.ListUnknown
	}
	levels := list.ListProperties.NestingLevels
	if int(b.NestingLevel) >= len(levels) || levels[b.NestingLevel] == nil {
		return document.ListUnknown
	}

	level := levels[b.NestingLevel]
	switch {
	case level.GlyphType != "" && level.GlyphType != "GLYPH_TYPE_UNSPECIFIED" && level.GlyphType != "NONE":
		return document.ListOrdered
	case level.GlyphSymbol != "":
		return document.ListBulleted
	default:
		return document.ListUnknown
	}
}

func tableText(t *docs.Table) string {
	var rows []string
	for _, row := range t.TableRows {
		var cells []string
		for _, cell := range row.TableCells {
			var parts []string
			for _, el := range cell.Content {
				if el.Paragraph != nil {
					if text := strings.TrimSpace(paragraphText(el.Paragraph)); text != "" {
						parts = append(parts, text)
					}
				}
			}
			cells = append(cells, strings.Join(parts, " "))
		}
		rows = append(rows, strings.Join(cells, " | "))
	}
	return strings.Join(rows, "\n")
}
