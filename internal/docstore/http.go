package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// HTTPStore talks to the remote document store's REST API: predicate
// queries under /{collection}/queries, id-addressed documents under
// /{collection}/docs and mutations under /{collection}/bulk_docs.
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
}

// StatusError is a non-2xx reply from the store. 5xx replies are
// retryable, 4xx replies are data errors and are not.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("document store returned %d: %s", e.Code, e.Body)
}

func (e *StatusError) Retryable() bool {
	return e.Code >= 500
}

func NewHTTPStore(baseURL, token string) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// queryResponse is the store's query/read envelope.
type queryResponse struct {
	TotalResults     int64             `json:"TotalResults"`
	LongTotalResults int64             `json:"LongTotalResults"`
	Results          []json.RawMessage `json:"Results"`
}

type bulkCommand struct {
	ID       string          `json:"Id"`
	Type     string          `json:"Type"`
	Document json.RawMessage `json:"Document,omitempty"`
	Patch    *patchRequest   `json:"Patch,omitempty"`
}

type patchRequest struct {
	Script string         `json:"Script"`
	Values map[string]any `json:"Values"`
}

type bulkRequest struct {
	Commands []bulkCommand `json:"Commands"`
}

type bulkResponse struct {
	Results []struct {
		ID string `json:"@id"`
	} `json:"Results"`
}

func (s *HTTPStore) Query(ctx context.Context, collection string, q Query) (*Result, error) {
	rql, err := renderQuery(q)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/%s/queries?query=%s", collection, url.QueryEscape(rql))

	var resp queryResponse
	if err := s.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return decodeResult(&resp)
}

func (s *HTTPStore) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	path := fmt.Sprintf("/%s/docs?id=%s", collection, url.QueryEscape(id))

	var resp queryResponse
	if err := s.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	res, err := decodeResult(&resp)
	if err != nil {
		return nil, err
	}
	if len(res.Docs) == 0 {
		return nil, ErrNotFound
	}
	return &res.Docs[0], nil
}

func (s *HTTPStore) Create(ctx context.Context, collection string, bodies []json.RawMessage) ([]string, error) {
	req := bulkRequest{}
	for _, body := range bodies {
		req.Commands = append(req.Commands, bulkCommand{ID: "", Type: "PUT", Document: body})
	}

	var resp bulkResponse
	if err := s.do(ctx, http.MethodPost, "/"+collection+"/bulk_docs", req, &resp); err != nil {
		return nil, err
	}
	ids := make([]string, len(bodies))
	for i := range resp.Results {
		if i < len(ids) {
			ids[i] = resp.Results[i].ID
		}
	}
	return ids, nil
}

// Patch sets the given top-level fields through the store's scripted
// patch, passing every value as a script argument so no document data
// is ever rendered into the script text.
func (s *HTTPStore) Patch(ctx context.Context, collection, id string, fields map[string]any) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var script strings.Builder
	for _, name := range names {
		fmt.Fprintf(&script, "this.%s = args.%s;", name, name)
	}

	req := bulkRequest{Commands: []bulkCommand{{
		ID:    id,
		Type:  "PATCH",
		Patch: &patchRequest{Script: script.String(), Values: fields},
	}}}
	err := s.do(ctx, http.MethodPost, "/"+collection+"/bulk_docs", req, nil)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}

func (s *HTTPStore) Delete(ctx context.Context, collection, id string) error {
	path := fmt.Sprintf("/%s/docs?id=%s", collection, url.QueryEscape(id))
	err := s.do(ctx, http.MethodDelete, path, nil, nil)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}

func (s *HTTPStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// renderQuery turns a structured Query into the store's query language.
// Values are JSON-encoded before being placed into the text, so quoting
// and escaping are never hand-built.
func renderQuery(q Query) (string, error) {
	var b strings.Builder
	b.WriteString(`from "@empty"`)

	for i, cond := range q.Where {
		if i == 0 {
			b.WriteString(" where ")
		} else {
			b.WriteString(" and ")
		}
		val, err := json.Marshal(cond.Value)
		if err != nil {
			return "", err
		}
		switch cond.Op {
		case OpEq:
			fmt.Fprintf(&b, "%s == %s", cond.Field, val)
		case OpStartsWith:
			fmt.Fprintf(&b, "startsWith(%s, %s)", cond.Field, val)
		default:
			return "", fmt.Errorf("unsupported operator %q", cond.Op)
		}
	}

	if q.OrderBy != "" {
		fmt.Fprintf(&b, " order by %s", q.OrderBy)
		if q.OrderAsLong {
			b.WriteString(" as long")
		}
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " limit %d, %d", q.Offset, q.Limit)
	}
	return b.String(), nil
}

// decodeResult strips the @metadata envelope from each result and
// surfaces the @id it carries.
func decodeResult(resp *queryResponse) (*Result, error) {
	total := resp.LongTotalResults
	if total == 0 {
		total = resp.TotalResults
	}
	res := &Result{Total: total}
	for _, raw := range resp.Results {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		var id string
		if meta, ok := doc["@metadata"]; ok {
			var m struct {
				ID string `json:"@id"`
			}
			if err := json.Unmarshal(meta, &m); err != nil {
				return nil, err
			}
			id = m.ID
			delete(doc, "@metadata")
		}
		body, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		res.Docs = append(res.Docs, Document{ID: id, Body: body})
	}
	if res.Total == 0 {
		res.Total = int64(len(res.Docs))
	}
	return res, nil
}
