package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/parkwise/rainier-guide/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	genModel   string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, genModel, embedModel string, timeout time.Duration, executor *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

// Embedder implements ports.Embedder against the Ollama embeddings API.
type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": texts,
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	err := e.client.execute(ctx, "embed", func(ctx context.Context) error {
		return e.client.postJSON(ctx, "/api/embed", request, &response, "embed")
	})
	if err != nil {
		return nil, wrapTemporaryIfNeeded("embed", err)
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: got %d vectors for %d inputs", len(response.Embeddings), len(texts))
	}
	return response.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

// Generator implements ports.Generator. The system instruction rides in
// the request's "system" field so topic persona and user prompt stay
// separate on the wire.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	request := map[string]any{
		"model":  g.client.genModel,
		"prompt": prompt,
		"stream": false,
	}
	if system != "" {
		request["system"] = system
	}

	var response struct {
		Response string `json:"response"`
	}
	err := g.client.execute(ctx, "generate", func(ctx context.Context) error {
		return g.client.postJSON(ctx, "/api/generate", request, &response, "generate")
	})
	if err != nil {
		return "", wrapTemporaryIfNeeded("generate", err)
	}
	return strings.TrimSpace(response.Response), nil
}

func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return fn(ctx)
	}
	return c.executor.Execute(ctx, "ollama_"+operation, fn, classifyOllamaError)
}
