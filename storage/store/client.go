// Package store implements the client of the hosted data store: a relational
// service exposing collections as REST resources with equality filters.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
)

var (
	errMissingAPIURL = errors.New("store: api url not configured")
	errMissingAPIKey = errors.New("store: api key not configured")
)

// Filter is an equality predicate on one column, serialized as column=eq.value.
type Filter struct {
	Field string
	Value string
}

func Eq(field, value string) Filter { return Filter{Field: field, Value: value} }

// RequestError is returned when the store answers outside the 2xx range.
// Its message is the remote response body, whatever the failure was.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	if e.Body == "" {
		return http.StatusText(e.Status)
	}
	return e.Body
}

type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// NewClient returns a client for the store configured in conf. The API URL and
// key must both be present; there is no degraded mode without them.
func NewClient(conf *core.Config) (*Client, error) {
	if conf.Store.APIURL == "" {
		return nil, errMissingAPIURL
	}
	if conf.Store.APIKey == "" {
		return nil, errMissingAPIKey
	}
	return &Client{
		baseURL: strings.TrimRight(conf.Store.APIURL, "/"),
		apiKey:  conf.Store.APIKey,
		hc:      &http.Client{Timeout: conf.Store.Timeout},
	}, nil
}

// Select fetches the rows of collection matching filters into dest, a pointer
// to a slice. columns restricts the projection; "" selects everything.
func (c *Client) Select(ctx context.Context, collection, columns string, dest interface{}, filters ...Filter) error {
	q := makeQuery(filters)
	if columns != "" {
		q.Set("select", columns)
	}
	return c.do(ctx, http.MethodGet, collection, q, nil, dest)
}

// Insert creates rows (a struct or a slice of structs) in collection. The
// created representation is decoded into dest when dest is non-nil.
func (c *Client) Insert(ctx context.Context, collection string, rows, dest interface{}) error {
	return c.do(ctx, http.MethodPost, collection, nil, rows, dest)
}

// Update patches the rows of collection matching filters. The updated
// representation is decoded into dest when dest is non-nil.
func (c *Client) Update(ctx context.Context, collection string, patch, dest interface{}, filters ...Filter) error {
	return c.do(ctx, http.MethodPatch, collection, makeQuery(filters), patch, dest)
}

// Delete removes the rows of collection matching filters.
func (c *Client) Delete(ctx context.Context, collection string, filters ...Filter) error {
	return c.do(ctx, http.MethodDelete, collection, makeQuery(filters), nil, nil)
}

func makeQuery(filters []Filter) url.Values {
	q := make(url.Values, len(filters))
	for _, f := range filters {
		q.Set(f.Field, "eq."+f.Value)
	}
	return q
}

func (c *Client) do(ctx context.Context, method, collection string, q url.Values, body, dest interface{}) error {
	u := c.baseURL + "/" + collection
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshalling request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return errors.Wrapf(err, "creating %s %s request", method, collection)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if dest != nil && method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, collection)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return &RequestError{Status: res.StatusCode, Body: strings.TrimSpace(string(resBody))}
	}

	if dest != nil && len(resBody) > 0 {
		if err := json.Unmarshal(resBody, dest); err != nil {
			return errors.Wrap(err, "unmarshalling response body")
		}
	}
	return nil
}
