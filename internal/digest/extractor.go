package digest

import (
	"context"
	"fmt"
	"strings"

	"docdigest/internal/contextutil"
	"docdigest/internal/document"
)

// Chunk is the content under one level-1 heading.
type Chunk struct {
	Title   string
	Content string
}

// List markers rendered in chunk content.
const (
	bulletMarker  = "* "
	orderedMarker = "1. "
	genericMarker = "- "
	sectionMarker = "## "
)

// ExtractChunks groups blocks into chunks keyed by their level-1 heading.
// Content before the first level-1 heading is dropped, as are chunks with no content.
func ExtractChunks(ctx context.Context, blocks []document.Block) []Chunk {
	logger := contextutil.LoggerFromContext(ctx)

	var chunks []Chunk
	var heading string
	var lines []string
	open := false
	seen := make(map[string]int)

	flush := func() {
		if !open {
			return
		}
		if len(lines) == 0 {
			logger.WarnContext(ctx, "dropping empty chunk", "heading", heading)
			return
		}
		title := uniqueTitle(heading, seen)
		if title != heading {
			logger.WarnContext(ctx, "duplicate heading renamed", "heading", heading, "title", title)
		}
		chunks = append(chunks, Chunk{Title: title, Content: strings.Join(lines, "\n")})
	}

	for i, block := range blocks {
		if block.Err != nil {
			logger.WarnContext(ctx, "skipping unreadable block", "index", i, "error", block.Err)
			continue
		}
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}

		switch block.Role {
		case document.RoleHeading1:
			flush()
			heading = text
			lines = nil
			open = true
		case document.RoleHeading2:
			if open {
				lines = append(lines, sectionMarker+text)
			}
		case document.RoleParagraph:
			if open {
				lines = append(lines, text)
			}
		case document.RoleListItem:
			if open {
				lines = append(lines, listMarker(block.List)+text)
			}
		default:
			logger.DebugContext(ctx, "skipping unsupported block", "index", i, "role", block.Role.String())
		}
	}
	flush()

	return chunks
}

func listMarker(style document.ListStyle) string {
	switch style {
	case document.ListBulleted:
		return bulletMarker
	case document.ListOrdered:
		return orderedMarker
	default:
		return genericMarker
	}
}

// uniqueTitle suffixes repeated headings with their occurrence count among
// emitted chunks.
func uniqueTitle(heading string, seen map[string]int) string {
	seen[heading]++
	n := seen[heading]
	if n == 1 {
		return heading
	}
	for {
		candidate := fmt.Sprintf("%s (%d)", heading, n)
		if _, taken := seen[candidate]; !taken {
			seen[candidate] = 1
			return candidate
		}
		n++
	}
}
