package document

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source.go -package=mocks docdigest/internal/document Source

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document ID does not resolve to a document.
	ErrNotFound = errors.New("document not found")
	// ErrPermission is returned when the document exists but cannot be read.
	ErrPermission = errors.New("document permission denied")
)

// Role is the structural role of a block.
type Role int

const (
	RoleOther Role = iota
	RoleParagraph
	RoleListItem
	RoleHeading1
	RoleHeading2
)

func (r Role) String() string {
	switch r {
	case RoleParagraph:
		return "paragraph"
	case RoleListItem:
		return "list_item"
	case RoleHeading1:
		return "heading_1"
	case RoleHeading2:
		return "heading_2"
	default:
		return "other"
	}
}

// ListStyle says how a list item is numbered.
type ListStyle int

const (
	ListUnknown ListStyle = iota
	ListBulleted
	ListOrdered
)

// Block is one element of a document in reading order.
type Block struct {
	Role Role
	Text string
	// List is only meaningful for RoleListItem.
	List ListStyle
	// Err is set when the block's text could not be extracted.
	Err error
}

// Document is an opened document.
type Document struct {
	ID     string
	Title  string
	Blocks []Block
}

// Source opens documents by ID.
type Source interface {
	// Open returns the document with the given ID.
	// Returns an error wrapping ErrNotFound or ErrPermission when applicable.
	Open(ctx context.Context, id string) (*Document, error)
}
