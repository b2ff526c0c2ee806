package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

// pointNamespace makes point IDs a pure function of document and chunk
// index so re-indexing a document overwrites its old vectors.
var pointNamespace = uuid.MustParse("c2f8e014-3a57-49d1-b6ce-84d95a21f7b0")

type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client

	ensureMu          sync.Mutex
	ensuredCollection bool
	ensuredVectorSize int
}

func New(baseURL, collection string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) IndexSnippets(ctx context.Context, doc *domain.Document, chunks []string, vectors [][]float32) error {
	if len(chunks) == 0 || len(vectors) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch")
	}

	if err := c.ensureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}

	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}

	points := make([]point, 0, len(chunks))
	for i := range chunks {
		pointID := uuid.NewSHA1(pointNamespace, fmt.Appendf(nil, "%s/%d", doc.ID, i)).String()
		points = append(points, point{
			ID:     pointID,
			Vector: vectors[i],
			Payload: map[string]any{
				"snippet_id":  pointID,
				"doc_id":      doc.ID,
				"title":       doc.Title,
				"source_tag":  doc.SourceTag,
				"chunk_index": i,
				"text":        chunks[i],
			},
		})
	}

	reqBody := map[string]any{"points": points}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal upsert body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create upsert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant upsert request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant upsert status: %s", resp.Status)
	}
	return nil
}

func (c *Client) Search(
	ctx context.Context,
	queryVector []float32,
	limit int,
	filter domain.SearchFilter,
) ([]domain.RetrievedSnippet, error) {
	reqBody := map[string]any{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
	}
	if filter.SourceTag != "" {
		reqBody["filter"] = map[string]any{
			"must": []map[string]any{
				{
					"key": "source_tag",
					"match": map[string]any{
						"value": filter.SourceTag,
					},
				},
			},
		}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant search status: %s", resp.Status)
	}

	var searchResp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]domain.RetrievedSnippet, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		out = append(out, domain.RetrievedSnippet{
			SnippetID: getStringPayload(r.Payload, "snippet_id"),
			Title:     getStringPayload(r.Payload, "title"),
			SourceTag: getStringPayload(r.Payload, "source_tag"),
			Text:      getStringPayload(r.Payload, "text"),
			Score:     r.Score,
		})
	}
	return out, nil
}

func (c *Client) ensureCollection(ctx context.Context, vectorSize int) error {
	c.ensureMu.Lock()
	if c.ensuredCollection && c.ensuredVectorSize == vectorSize {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	reqBody := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal create collection body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create collection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant ensure collection request: %w", err)
	}
	defer resp.Body.Close()

	// 200/201 for create, 409 if the collection already exists.
	if resp.StatusCode == http.StatusConflict {
		c.markCollectionEnsured(vectorSize)
		return nil
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return fmt.Errorf("qdrant ensure collection status: %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("qdrant ensure collection status: %s", resp.Status)
	}
	c.markCollectionEnsured(vectorSize)
	return nil
}

func (c *Client) markCollectionEnsured(vectorSize int) {
	c.ensureMu.Lock()
	defer c.ensureMu.Unlock()
	c.ensuredCollection = true
	c.ensuredVectorSize = vectorSize
}

func getStringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
