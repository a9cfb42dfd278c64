package embedding

import (
	"context"
	"math"
	"reflect"
	"testing"
)

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(128)
	ctx := context.Background()

	texts := []string{
		"the quick brown fox",
		"idea-wizard brainstorming helper",
		"x",
		"",
	}
	for _, text := range texts {
		a, err := e.Embed(ctx, text)
		if err != nil {
			t.Fatalf("Embed(%q): %v", text, err)
		}
		b, err := e.Embed(ctx, text)
		if err != nil {
			t.Fatalf("Embed(%q): %v", text, err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Embed(%q) not deterministic", text)
		}
	}
}

func TestHashEmbedder_UnitNorm(t *testing.T) {
	e := NewHashEmbedder(128)
	ctx := context.Background()

	for _, text := range []string{
		"hello world",
		"searchable catalog documents",
		"brainstorm",
		"ab",
	} {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			t.Fatalf("Embed(%q): %v", text, err)
		}
		if m := magnitude(vec); math.Abs(m-1) > 1e-2 {
			t.Errorf("magnitude(Embed(%q)) = %v, want 1", text, m)
		}
	}
}

func TestHashEmbedder_EmptyTextZeroVector(t *testing.T) {
	e := NewHashEmbedder(64)
	ctx := context.Background()

	// Stopword-only text tokenizes to nothing, same as empty input.
	for _, text := range []string{"", "   ", "the of and", "!!!"} {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			t.Fatalf("Embed(%q): %v", text, err)
		}
		if len(vec) != 64 {
			t.Fatalf("len(Embed(%q)) = %d, want 64", text, len(vec))
		}
		if m := magnitude(vec); m != 0 {
			t.Errorf("magnitude(Embed(%q)) = %v, want 0", text, m)
		}
	}
}

func TestHashEmbedder_ShortTokenSingleIndex(t *testing.T) {
	e := NewHashEmbedder(128)
	vec, err := e.Embed(context.Background(), "ab")
	if err != nil {
		t.Fatal(err)
	}
	// A 2-char token has no trigrams, so all mass lands on the whole-token
	// index and normalizes to exactly +-1.
	nonzero := 0
	for _, x := range vec {
		if x != 0 {
			nonzero++
			if x != 1 && x != -1 {
				t.Errorf("component = %v, want +-1", x)
			}
		}
	}
	if nonzero != 1 {
		t.Errorf("nonzero components = %d, want 1", nonzero)
	}
}

func TestHashEmbedder_DistinctTextsDiffer(t *testing.T) {
	e := NewHashEmbedder(128)
	ctx := context.Background()

	a, _ := e.Embed(ctx, "database migration guide")
	b, _ := e.Embed(ctx, "cooking pasta at home")
	if reflect.DeepEqual(a, b) {
		t.Error("distinct texts produced identical embeddings")
	}
}

func TestHashEmbedder_Dimensions(t *testing.T) {
	if got := NewHashEmbedder(0).Dimensions(); got != DefaultDimensions {
		t.Errorf("Dimensions() = %d, want default %d", got, DefaultDimensions)
	}
	if got := NewHashEmbedder(32).Dimensions(); got != 32 {
		t.Errorf("Dimensions() = %d, want 32", got)
	}
}

func TestHashEmbedder_EmbedBatch(t *testing.T) {
	e := NewHashEmbedder(64)
	ctx := context.Background()

	texts := []string{"first text", "second text", ""}
	batch, err := e.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != len(texts) {
		t.Fatalf("len(batch) = %d, want %d", len(batch), len(texts))
	}
	for i, text := range texts {
		single, _ := e.Embed(ctx, text)
		if !reflect.DeepEqual(batch[i], single) {
			t.Errorf("batch[%d] differs from Embed(%q)", i, text)
		}
	}
}
