// Package docstore defines the document-store contract the entity
// repositories are written against: predicate queries, id-addressed
// reads, bulk creation, narrow field patches and deletion against named
// collections. Predicates are structured values, never spliced query
// strings; each backend renders them itself.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by GetByID, Patch and Delete for unknown ids.
var ErrNotFound = errors.New("document not found")

// Op is a predicate operator.
type Op string

const (
	OpEq         Op = "=="
	OpStartsWith Op = "startsWith"
)

// Condition matches a (possibly dotted) field path against a value.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Query is the predicate subset the stores support: equality and
// prefix conditions ANDed together, optional ordering and paging.
type Query struct {
	Where   []Condition
	OrderBy string
	// OrderAsLong orders numerically; non-numeric values sort as zero.
	OrderAsLong bool
	Limit       int
	Offset      int
}

func Where(field string, op Op, value any) Condition {
	return Condition{Field: field, Op: op, Value: value}
}

// Document is a stored body plus its store-assigned id.
type Document struct {
	ID   string
	Body json.RawMessage
}

// Result carries one page of query matches plus the total match count,
// so paginated listings can agree with their page slices.
type Result struct {
	Total int64
	Docs  []Document
}

// Store is the backend-agnostic client. Create returns the assigned
// ids in input order. Patch overwrites only the given top-level fields.
type Store interface {
	Query(ctx context.Context, collection string, q Query) (*Result, error)
	GetByID(ctx context.Context, collection, id string) (*Document, error)
	Create(ctx context.Context, collection string, bodies []json.RawMessage) ([]string, error)
	Patch(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}
