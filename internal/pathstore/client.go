// Package pathstore is a small client for the pathstore key/value HTTP API,
// used as the optional persistence sink for document outlines.
package pathstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// OutlinePrefix is the key prefix every stored outline lives under.
const OutlinePrefix = "outlines"

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("not found")

// Client communicates with the pathstore HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NodeRequest is the body for PUT /kv/{key}.
type NodeRequest struct {
	Value  any    `json:"value"`
	Source string `json:"source,omitempty"`
}

// NodeResponse is the response from GET /kv/{key}.
type NodeResponse struct {
	Key   string          `json:"key_path"`
	Value json.RawMessage `json:"value"`
}

// StoredOutline is the value written for each classified document.
type StoredOutline struct {
	DocID       string                  `json:"doc_id"`
	Filename    string                  `json:"filename"`
	ContentHash string                  `json:"content_hash,omitempty"`
	Outline     doctree.DocumentOutline `json:"outline"`
	CreatedAt   time.Time               `json:"created_at"`
}

// StatusError is a non-success response from pathstore.
type StatusError struct {
	Op         string
	Key        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.Key, e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed if retried.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// OutlineKey returns the key an outline for docID is stored at.
func OutlineKey(docID string) string {
	return OutlinePrefix + "/" + url.PathEscape(docID)
}

// PutNode stores or updates a node at the given path.
func (c *Client) PutNode(ctx context.Context, key string, req NodeRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPut, "/kv/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("put node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError("put node", key, resp)
	}
	return nil
}

// GetNode retrieves a node by key. Missing keys return ErrNotFound.
func (c *Client) GetNode(ctx context.Context, key string) (*NodeResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/kv/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("get node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("get node", key, resp)
	}

	var node NodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	return &node, nil
}

// DeleteNode deletes a node. Deleting a missing key returns ErrNotFound.
func (c *Client) DeleteNode(ctx context.Context, key string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/kv/"+key, nil)
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError("delete node", key, resp)
	}
	return nil
}

// ListChildren does a prefix scan under the given key.
func (c *Client) ListChildren(ctx context.Context, key string, limit int) ([]NodeResponse, error) {
	path := "/kv/" + key + "/*"
	if limit > 0 {
		path += "?limit=" + url.QueryEscape(fmt.Sprintf("%d", limit))
	}
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list children", key, resp)
	}

	var result struct {
		Nodes []NodeResponse `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode children: %w", err)
	}
	return result.Nodes, nil
}

// PutOutline writes a stored outline under OutlineKey(o.DocID).
func (c *Client) PutOutline(ctx context.Context, o StoredOutline) error {
	return c.PutNode(ctx, OutlineKey(o.DocID), NodeRequest{
		Value:  o,
		Source: "docoutline:" + o.DocID,
	})
}

// GetOutline reads the stored outline for docID.
func (c *Client) GetOutline(ctx context.Context, docID string) (*StoredOutline, error) {
	node, err := c.GetNode(ctx, OutlineKey(docID))
	if err != nil {
		return nil, err
	}
	var o StoredOutline
	if err := json.Unmarshal(node.Value, &o); err != nil {
		return nil, fmt.Errorf("decode outline %s: %w", docID, err)
	}
	return &o, nil
}

// DeleteOutline removes the stored outline for docID.
func (c *Client) DeleteOutline(ctx context.Context, docID string) error {
	return c.DeleteNode(ctx, OutlineKey(docID))
}

// ListOutlines returns up to limit stored outlines.
func (c *Client) ListOutlines(ctx context.Context, limit int) ([]StoredOutline, error) {
	nodes, err := c.ListChildren(ctx, OutlinePrefix, limit)
	if err != nil {
		return nil, err
	}
	out := make([]StoredOutline, 0, len(nodes))
	for _, n := range nodes {
		var o StoredOutline
		if err := json.Unmarshal(n.Value, &o); err != nil {
			return nil, fmt.Errorf("decode outline %s: %w", n.Key, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return c.httpClient.Do(req)
}

func statusError(op, key string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &StatusError{Op: op, Key: key, StatusCode: resp.StatusCode, Body: string(body)}
}
