package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/hyperjump/tansaku/pkg/utils"
)

// RemoteConfig configures the optional remote embedding model.
type RemoteConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
}

// RemoteModel calls an OpenAI-compatible embeddings endpoint and tracks its
// own health. A new model starts unavailable until Reset probes the
// endpoint; request failures flip it back to unavailable. Callers that see
// Available() == false should use the hash embedder instead, so a dead
// endpoint degrades search quality without breaking it.
type RemoteModel struct {
	client *openai.Client
	model  string
	dims   int
	logger *zap.Logger

	mu        sync.RWMutex
	available bool
	lastErr   error
}

// NewRemoteModel builds the client without touching the network. Callers
// decide when to probe via Reset.
func NewRemoteModel(cfg RemoteConfig, logger *zap.Logger) *RemoteModel {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	m := &RemoteModel{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		dims:   cfg.Dimensions,
		logger: logger,
	}
	if m.model == "" {
		m.model = string(openai.SmallEmbedding3)
	}
	if m.dims <= 0 {
		m.dims = DefaultDimensions
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	return m
}

// Embed embeds a single text.
func (m *RemoteModel) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request. Vectors come back L2-normalized
// in input order.
func (m *RemoteModel) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := m.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          texts,
		Model:          openai.EmbeddingModel(m.model),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		Dimensions:     m.dims,
	})
	if err != nil {
		err = fmt.Errorf("remote embedding request: %w", describeAPIError(err))
		m.fail(err)
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		err = fmt.Errorf("remote embedding returned %d vectors for %d inputs", len(resp.Data), len(texts))
		m.fail(err)
		return nil, err
	}
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			err = fmt.Errorf("remote embedding returned out-of-range index %d", d.Index)
			m.fail(err)
			return nil, err
		}
		vec := make([]float32, len(d.Embedding))
		copy(vec, d.Embedding)
		utils.NormalizeL2(vec)
		out[d.Index] = vec
	}
	m.ok()
	return out, nil
}

// Dimensions returns the requested embedding width.
func (m *RemoteModel) Dimensions() int {
	return m.dims
}

// Close is a no-op; the underlying HTTP client keeps no open state.
func (m *RemoteModel) Close() error {
	return nil
}

// Available reports whether the last interaction with the endpoint worked.
func (m *RemoteModel) Available() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available
}

// LastError returns the error that marked the model unavailable, or nil.
func (m *RemoteModel) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// Reset probes the endpoint and, on success, marks the model available.
func (m *RemoteModel) Reset(ctx context.Context) error {
	if _, err := m.client.ListModels(ctx); err != nil {
		err = fmt.Errorf("remote embedding probe: %w", describeAPIError(err))
		m.fail(err)
		return err
	}
	m.ok()
	m.logger.Info("remote embedding model available", zap.String("model", m.model))
	return nil
}

func (m *RemoteModel) fail(err error) {
	m.mu.Lock()
	wasAvailable := m.available
	m.available = false
	m.lastErr = err
	m.mu.Unlock()
	if wasAvailable {
		m.logger.Warn("remote embedding model unavailable", zap.Error(err))
	}
}

func (m *RemoteModel) ok() {
	m.mu.Lock()
	m.available = true
	m.lastErr = nil
	m.mu.Unlock()
}

// describeAPIError unwraps go-openai error types into log-friendly form.
func describeAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("http %d: %w", reqErr.HTTPStatusCode, reqErr.Err)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("api error (status %d, type %q): %s", apiErr.HTTPStatusCode, apiErr.Type, apiErr.Message)
	}
	return err
}
