package embedding

import (
	"context"

	"github.com/hyperjump/tansaku/internal/tokenizer"
	"github.com/hyperjump/tansaku/pkg/utils"
)

// DefaultDimensions is the embedding width used when none is configured.
const DefaultDimensions = 128

// FNV-1a 32-bit parameters, inlined to avoid a hasher allocation per token.
// Stored vectors depend on these exact values.
const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

// trigramPerturbations is how many perturbed indices each trigram feeds.
const trigramPerturbations = 3

// HashEmbedder maps text to fixed-dimension unit vectors built from token
// and trigram hashes. It needs no model files or network access, never
// fails, and the same text yields the same vector on every call. The
// trigram contributions give it partial robustness to misspellings: a typo
// shifts a few trigrams but leaves the rest of the vector intact.
//
// A HashEmbedder is stateless and safe for concurrent use.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder returns a hash embedder of the given dimensionality, or
// DefaultDimensions when dims <= 0.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &HashEmbedder{dims: dims}
}

// Embed builds the vector for text. Each token adds +-2 at the index of its
// whole-token hash; tokens of length >= 3 additionally slide a 3-character
// window, and each trigram hash is multiplied by the constants 1..3 to
// yield three more indices contributing +-1 each. The sum is L2-normalized;
// text with no tokens yields the zero vector. The error is always nil and
// exists to satisfy Embedder.
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	dims := uint32(e.dims)
	vec := make([]float32, e.dims)
	for _, tok := range tokenizer.Tokenize(text) {
		h := hashString(tok)
		vec[h%dims] += signOf(h) * 2

		if len(tok) < 3 {
			continue
		}
		for i := 0; i+3 <= len(tok); i++ {
			th := hashString(tok[i : i+3])
			for k := uint32(1); k <= trigramPerturbations; k++ {
				ph := th * k
				vec[ph%dims] += signOf(ph)
			}
		}
	}
	utils.NormalizeL2(vec)
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding width.
func (e *HashEmbedder) Dimensions() int {
	return e.dims
}

// Close is a no-op.
func (e *HashEmbedder) Close() error {
	return nil
}

// hashString is FNV-1a over the bytes of s.
func hashString(s string) uint32 {
	h := fnvOffset32
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// signOf picks the contribution sign from the hash's second-lowest bit. The
// lowest bit correlates with the modulo index for even dimensionalities, so
// it is skipped.
func signOf(h uint32) float32 {
	if h>>1&1 == 1 {
		return 1
	}
	return -1
}
