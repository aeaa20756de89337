package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory, concurrency-safe Store used by tests and
// local runs. Documents keep insertion order so query results are
// deterministic.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

type memCollection struct {
	docs  map[string]json.RawMessage
	order []string
	seq   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memCollection)}
}

func (s *MemoryStore) collection(name string) *memCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memCollection{docs: make(map[string]json.RawMessage)}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Query(_ context.Context, collection string, q Query) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return &Result{}, nil
	}

	type match struct {
		doc    Document
		fields map[string]any
	}
	var matches []match
	for _, id := range c.order {
		body, ok := c.docs[id]
		if !ok {
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		if !matchesAll(fields, q.Where) {
			continue
		}
		matches = append(matches, match{Document{ID: id, Body: body}, fields})
	}

	if q.OrderBy != "" {
		sort.SliceStable(matches, func(i, j int) bool {
			a := fieldByPath(matches[i].fields, q.OrderBy)
			b := fieldByPath(matches[j].fields, q.OrderBy)
			if q.OrderAsLong {
				return asNumber(a) < asNumber(b)
			}
			return asString(a) < asString(b)
		})
	}

	res := &Result{Total: int64(len(matches))}
	start := q.Offset
	if start > len(matches) {
		start = len(matches)
	}
	end := len(matches)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	for _, m := range matches[start:end] {
		res.Docs = append(res.Docs, m.doc)
	}
	return res, nil
}

func (s *MemoryStore) GetByID(_ context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, ErrNotFound
	}
	body, ok := c.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Body: body}, nil
}

func (s *MemoryStore) Create(_ context.Context, collection string, bodies []json.RawMessage) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	ids := make([]string, 0, len(bodies))
	for _, body := range bodies {
		c.seq++
		id := fmt.Sprintf("%s/%d", collection, c.seq)
		c.docs[id] = append(json.RawMessage(nil), body...)
		c.order = append(c.order, id)
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryStore) Patch(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return ErrNotFound
	}
	body, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return err
	}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		doc[k] = raw
	}
	updated, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c.docs[id] = updated
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		return ErrNotFound
	}
	delete(c.docs, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func matchesAll(fields map[string]any, conds []Condition) bool {
	for _, cond := range conds {
		v := fieldByPath(fields, cond.Field)
		switch cond.Op {
		case OpEq:
			if !valueEq(v, cond.Value) {
				return false
			}
		case OpStartsWith:
			want, ok := cond.Value.(string)
			if !ok || !strings.HasPrefix(asString(v), want) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func fieldByPath(fields map[string]any, path string) any {
	parts := strings.Split(path, ".")
	var cur any = fields
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[p]
	}
	return cur
}

func valueEq(a, b any) bool {
	switch bv := b.(type) {
	case string:
		av, ok := a.(string)
		return ok && av == bv
	case bool:
		av, ok := a.(bool)
		return ok && av == bv
	default:
		af, aok := toNumber(a)
		bf, bok := toNumber(b)
		return aok && bok && af == bf
	}
}

// toNumber widens the numeric types a condition value or a decoded JSON
// field can carry; decoded JSON numbers are always float64.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asNumber(v any) float64 {
	n, _ := toNumber(v)
	return n
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
