// Package api is the HTTP client for the collection service. It lists the
// folders a connector knows about and submits batch collection-creation
// requests.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/curatorlabs/curator/internal/inventory"
)

// ErrUnauthorized is returned when the service rejects the API token.
var ErrUnauthorized = errors.New("api: unauthorized")

// CollectionState is the lifecycle state a new collection is created in.
type CollectionState string

// States accepted by the collection service.
const (
	StateLive     CollectionState = "live"
	StateArchived CollectionState = "archived"
	StateClosed   CollectionState = "closed"
)

// AllStates lists the valid states in cycling order.
var AllStates = []CollectionState{StateLive, StateArchived, StateClosed}

// ParseState validates a state string from config or flags.
func ParseState(s string) (CollectionState, error) {
	for _, st := range AllStates {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown collection state %q", s)
}

// Next returns the state after s in cycling order, wrapping around.
func (s CollectionState) Next() CollectionState {
	for i, st := range AllStates {
		if st == s {
			return AllStates[(i+1)%len(AllStates)]
		}
	}
	return AllStates[0]
}

// Mapping is one folder-to-collection creation request.
type Mapping struct {
	FolderGUID   string          `json:"folderGuid"`
	Name         string          `json:"name"`
	State        CollectionState `json:"state"`
	PipelineGUID string          `json:"pipelineGuid,omitempty"`
}

// CreatedCollection is a successful entry in a batch response.
type CreatedCollection struct {
	CollectionGUID string `json:"collectionGuid"`
	FolderGUID     string `json:"folderGuid"`
	Name           string `json:"name"`
}

// MappingError is a failed entry in a batch response.
type MappingError struct {
	FolderGUID string `json:"folderGuid"`
	Message    string `json:"error"`
}

// BatchResult partitions a batch submission into successes and failures.
// The service applies entries independently, so both slices can be non-empty.
type BatchResult struct {
	Created []CreatedCollection `json:"created"`
	Errors  []MappingError      `json:"errors"`
}

// Client talks to the collection service.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	log     *slog.Logger
}

// NewClient builds a client for the service at baseURL authenticated with
// token. A nil logger discards log output.
func NewClient(baseURL, token string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

type folderRecord struct {
	GUID           string `json:"guid"`
	Path           string `json:"path"`
	ObjectCount    int64  `json:"objectCount"`
	TotalSize      int64  `json:"totalSize"`
	CollectionGUID string `json:"collectionGuid,omitempty"`
}

// ListFolders fetches the connector's folder inventory.
func (c *Client) ListFolders(ctx context.Context, connector string) (*inventory.Snapshot, error) {
	endpoint := fmt.Sprintf("%s/v1/connectors/%s/folders", c.baseURL, url.PathEscape(connector))

	var records []folderRecord
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &records); err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}

	folders := make([]inventory.Folder, 0, len(records))
	for _, r := range records {
		folders = append(folders, inventory.Folder{
			GUID:           r.GUID,
			Path:           r.Path,
			ObjectCount:    r.ObjectCount,
			TotalSize:      r.TotalSize,
			CollectionGUID: r.CollectionGUID,
		})
	}

	c.log.Debug("listed folders", "connector", connector, "count", len(folders))

	return inventory.NewSnapshot(folders), nil
}

// CreateCollections submits a batch of mappings. The returned result reports
// per-mapping outcomes; only transport and protocol failures surface as an
// error.
func (c *Client) CreateCollections(ctx context.Context, connector string, mappings []Mapping) (*BatchResult, error) {
	endpoint := fmt.Sprintf("%s/v1/connectors/%s/collections", c.baseURL, url.PathEscape(connector))

	body := struct {
		Mappings []Mapping `json:"mappings"`
	}{Mappings: mappings}

	var result BatchResult
	if err := c.do(ctx, http.MethodPost, endpoint, body, &result); err != nil {
		return nil, fmt.Errorf("creating collections: %w", err)
	}

	c.log.Info("batch submitted",
		"connector", connector,
		"requested", len(mappings),
		"created", len(result.Created),
		"failed", len(result.Errors))

	return &result, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
