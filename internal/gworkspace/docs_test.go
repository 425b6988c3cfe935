package gworkspace

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/docs/v1"

	"docdigest/internal/document"
)

func para(text, style string) *docs.StructuralElement {
	return &docs.StructuralElement{Paragraph: &docs.Paragraph{
		Elements:       []*docs.ParagraphElement{{TextRun: &docs.TextRun{Content: text + "\n"}}},
		ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: style},
	}}
}

func bullet(text, listID string) *docs.StructuralElement {
	el := para(text, "NORMAL_TEXT")
	el.Paragraph.Bullet = &docs.Bullet{ListId: listID}
	return el
}

func sampleDoc() *docs.Document {
	return &docs.Document{
		DocumentId: "doc-1",
		Title:      "Weekly Status",
		Body: &docs.Body{Content: []*docs.StructuralElement{
			{SectionBreak: &docs.SectionBreak{}},
			para("Status", "HEADING_1"),
			para("Beta ships Friday.", "NORMAL_TEXT"),
			para("Risks", "HEADING_2"),
			bullet("vendor delay", "kix.bullets"),
			bullet("hire QA", "kix.numbers"),
			bullet("orphan", "kix.missing"),
			para("Detail", "HEADING_3"),
			{Table: &docs.Table{TableRows: []*docs.TableRow{{TableCells: []*docs.TableCell{
				{Content: []*docs.StructuralElement{para("a", "NORMAL_TEXT")}},
				{Content: []*docs.StructuralElement{para("b", "NORMAL_TEXT")}},
			}}}}},
		}},
		Lists: map[string]docs.List{
			"kix.bullets": {ListProperties: &docs.ListProperties{NestingLevels: []*docs.NestingLevel{{GlyphSymbol: "●"}}}},
			"kix.numbers": {ListProperties: &docs.ListProperties{NestingLevels: []*docs.NestingLevel{{GlyphType: "DECIMAL"}}}},
		},
	}
}

func TestConvertBody(t *testing.T) {
	want := []document.Block{
		{Role: document.RoleHeading1, Text: "Status"},
		{Role: document.RoleParagraph, Text: "Beta ships Friday."},
		{Role: document.RoleHeading2, Text: "Risks"},
		{Role: document.RoleListItem, Text: "vendor delay", List: document.ListBulleted},
		{Role: document.RoleListItem, Text: "hire QA", List: document.ListOrdered},
		{Role: document.RoleListItem, Text: "orphan", List: document.ListUnknown},
		{Role: document.RoleParagraph, Text: "Detail"},
		{Role: document.RoleOther, Text: "a | b"},
	}

	assert.Equal(t, want, convertBody(sampleDoc()))
	assert.Nil(t, convertBody(&docs.Document{}))
}

func TestConvertParagraph_HeadingStyleWinsOverBullet(t *testing.T) {
	doc := sampleDoc()
	tests := []struct {
		name  string
		style string
		want  document.Block
	}{
		{name: "bulleted heading 1", style: "HEADING_1", want: document.Block{Role: document.RoleHeading1, Text: "Launch"}},
		{name: "bulleted heading 2", style: "HEADING_2", want: document.Block{Role: document.RoleHeading2, Text: "Launch"}},
		{name: "bulleted heading 3", style: "HEADING_3", want: document.Block{Role: document.RoleListItem, Text: "Launch", List: document.ListBulleted}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := para("Launch", tt.style)
			el.Paragraph.Bullet = &docs.Bullet{ListId: "kix.bullets"}
			assert.Equal(t, tt.want, convertParagraph(doc, el.Paragraph))
		})
	}
}

func TestDocsSource_Open(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/documents/doc-1":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(sampleDoc())
		case "/v1/documents/secret":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found."}}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := docs.NewService(ctx, testOptions(srv)...)
	require.NoError(t, err)
	source := NewDocsSource(svc)

	doc, err := source.Open(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "Weekly Status", doc.Title)
	assert.Len(t, doc.Blocks, 8)

	_, err = source.Open(ctx, "missing")
	assert.True(t, errors.Is(err, document.ErrNotFound), "got %v", err)

	_, err = source.Open(ctx, "secret")
	assert.True(t, errors.Is(err, document.ErrPermission), "got %v", err)
}
