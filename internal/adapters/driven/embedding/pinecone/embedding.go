// Package pinecone provides an embedding service adapter using the
// Pinecone Inference API.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.pinecone.io"
	DefaultModel      = "llama-text-embed-v2"
	DefaultDimensions = 1024
	DefaultTimeout    = 60 * time.Second

	// DefaultBatchSize bounds inputs per request. The Inference API
	// rejects requests with more than 96 inputs.
	DefaultBatchSize = 20

	// apiVersion pins the Inference API revision.
	apiVersion = "2024-10"
)

// Config holds configuration for the Pinecone embedding service.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.pinecone.io).
	BaseURL string

	// Model is the hosted embedding model to use (default: llama-text-embed-v2).
	Model string

	// Dimensions is the embedding vector size (default: 1024).
	Dimensions int

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// BatchSize is the number of texts per request (default: 20).
	BatchSize int

	// RequestsPerSecond limits the request rate (default: 3).
	RequestsPerSecond float64
}

// EmbeddingService generates embeddings using the Pinecone Inference API.
type EmbeddingService struct {
	client     *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	batchSize  int
}

// embedRequest is the Inference API request format.
type embedRequest struct {
	Model      string            `json:"model"`
	Inputs     []embedInput      `json:"inputs"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

type embedInput struct {
	Text string `json:"text"`
}

// embedResponse is the Inference API response format.
type embedResponse struct {
	Data []struct {
		Values []float32 `json:"values"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewEmbeddingService creates a new Pinecone embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: pinecone: API key is required", domain.ErrConfiguration)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 3
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		batchSize:  cfg.BatchSize,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%w: pinecone: no embedding returned", domain.ErrTransport)
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts. Requests are issued
// in batches to bound request size and rate-limited between batches.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		batch, err := s.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, batch...)
	}

	return embeddings, nil
}

// embedBatch issues a single /embed request.
func (s *EmbeddingService) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	inputs := make([]embedInput, len(texts))
	for i, text := range texts {
		inputs[i] = embedInput{Text: text}
	}

	reqBody := embedRequest{
		Model:  s.model,
		Inputs: inputs,
		Parameters: map[string]string{
			"input_type": "passage",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/embed",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", s.apiKey)
	req.Header.Set("X-Pinecone-API-Version", apiVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: pinecone: send request: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: pinecone: read response: %v", domain.ErrTransport, err)
	}

	var embedResp embedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("%w: pinecone: decode response: %v", domain.ErrTransport, err)
	}

	if embedResp.Error != nil {
		return nil, fmt.Errorf("%w: pinecone: %s", domain.ErrTransport, embedResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: pinecone: status %d: %s", domain.ErrTransport, resp.StatusCode, string(body))
	}

	if len(embedResp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: pinecone: %d embeddings returned for %d inputs",
			domain.ErrTransport, len(embedResp.Data), len(texts))
	}

	embeddings := make([][]float32, len(texts))
	for i, data := range embedResp.Data {
		embeddings[i] = data.Values
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
