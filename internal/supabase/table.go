package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// QueryBuilder assembles a single table API call. A builder is used for
// exactly one request; it is not safe for reuse or concurrent use.
type QueryBuilder struct {
	client  *Client
	table   string
	method  string
	body    any
	filters url.Values
	token   string
	err     error
}

// From starts a query against the named table.
func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{
		client:  c,
		table:   table,
		filters: url.Values{},
	}
}

// Auth overrides the bearer token for this request so the store's
// row-level security evaluates against the calling user instead of the
// client's own key.
func (q *QueryBuilder) Auth(token string) *QueryBuilder {
	q.token = token
	return q
}

// Select prepares a read of all columns.
func (q *QueryBuilder) Select() *QueryBuilder {
	q.method = http.MethodGet
	q.filters.Set("select", "*")
	return q
}

// Insert prepares an insert of v.
func (q *QueryBuilder) Insert(v any) *QueryBuilder {
	q.method = http.MethodPost
	q.body = v
	return q
}

// Update prepares a partial update with the non-empty fields of v.
// Combine with Eq to address the target rows.
func (q *QueryBuilder) Update(v any) *QueryBuilder {
	q.method = http.MethodPatch
	q.body = v
	return q
}

// Delete prepares a delete. Combine with Eq to address the target rows.
func (q *QueryBuilder) Delete() *QueryBuilder {
	q.method = http.MethodDelete
	return q
}

// Eq adds an equality filter on column.
func (q *QueryBuilder) Eq(column, value string) *QueryBuilder {
	q.filters.Set(column, "eq."+value)
	return q
}

// Execute performs the request and decodes the returned rows into dest,
// which must be a pointer to a slice. Writes ask the store to return the
// affected rows. Pass nil to discard the result.
func (q *QueryBuilder) Execute(ctx context.Context, dest any) error {
	if q.err != nil {
		return q.err
	}
	if q.method == "" {
		return fmt.Errorf("supabase: query on %q has no verb", q.table)
	}

	var reader *bytes.Reader
	if q.body != nil {
		payload, err := json.Marshal(q.body)
		if err != nil {
			return fmt.Errorf("supabase: encode %s payload: %w", q.table, err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	endpoint := q.client.baseURL + restPath + "/" + q.table
	if encoded := q.filters.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, q.method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", q.client.apiKey)
	req.Header.Set("Authorization", q.client.authorization(q.token))
	if q.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := q.client.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: %s %s: %w", q.method, q.table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp)
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("supabase: decode %s rows: %w", q.table, err)
		}
	}
	return nil
}
