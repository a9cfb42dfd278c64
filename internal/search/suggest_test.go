package search

import (
	"reflect"
	"testing"

	"github.com/hyperjump/tansaku/internal/ranking"
)

func indexWithVocabulary(freqs map[string]int) *ranking.Index {
	return &ranking.Index{DocFrequencies: freqs}
}

func TestSuggest_KnownTokensPassThrough(t *testing.T) {
	ix := indexWithVocabulary(map[string]int{"changelog": 2, "memo": 1})

	if got := Suggest(ix, []string{"changelog", "memo"}, 3); got != nil {
		t.Errorf("Suggest = %v, want nil for fully known query", got)
	}
}

func TestSuggest_CorrectsTypo(t *testing.T) {
	ix := indexWithVocabulary(map[string]int{
		"changelog": 2,
		"memo":      1,
		"release":   1,
		"planner":   3,
	})

	tests := []struct {
		name      string
		tokens    []string
		wantFirst string
	}{
		{"transposed letters", []string{"changelgo"}, "changelog"},
		{"dropped letter", []string{"plannr"}, "planner"},
		{"extra letter", []string{"memoo"}, "memo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(ix, tt.tokens, 3)
			if len(got) == 0 {
				t.Fatal("Suggest returned nothing")
			}
			if got[0] != tt.wantFirst {
				t.Errorf("first suggestion = %q, want %q", got[0], tt.wantFirst)
			}
		})
	}
}

func TestSuggest_KeepsKnownTokensInPlace(t *testing.T) {
	ix := indexWithVocabulary(map[string]int{
		"release": 1,
		"memo":    1,
	})

	got := Suggest(ix, []string{"release", "memno"}, 3)
	if len(got) == 0 {
		t.Fatal("Suggest returned nothing")
	}
	if got[0] != "release memo" {
		t.Errorf("first suggestion = %q, want %q", got[0], "release memo")
	}
}

func TestSuggest_RanksByFrequencyThenTerm(t *testing.T) {
	// "cat" appears in twice as many documents as "car"; both are one edit
	// from the query.
	ix := indexWithVocabulary(map[string]int{"cat": 2, "car": 1})

	got := Suggest(ix, []string{"caz"}, 3)
	want := []string{"cat", "car"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest = %v, want %v", got, want)
	}
}

func TestSuggest_TiesBreakAlphabetically(t *testing.T) {
	ix := indexWithVocabulary(map[string]int{"bat": 1, "bar": 1})

	// Equal score; order must not depend on map iteration.
	for i := 0; i < 10; i++ {
		got := Suggest(ix, []string{"baz"}, 3)
		want := []string{"bar", "bat"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: Suggest = %v, want %v", i, got, want)
		}
	}
}

func TestSuggest_CapsAtMax(t *testing.T) {
	ix := indexWithVocabulary(map[string]int{
		"cat": 5, "car": 4, "can": 3, "cap": 2, "cab": 1,
	})

	got := Suggest(ix, []string{"caz"}, 2)
	if len(got) != 2 {
		t.Fatalf("len(Suggest) = %d, want 2", len(got))
	}
	if got[0] != "cat" {
		t.Errorf("first suggestion = %q, want %q", got[0], "cat")
	}
}

func TestSuggest_MultipleUnknownsYieldSingleCombination(t *testing.T) {
	ix := indexWithVocabulary(map[string]int{
		"release":   2,
		"changelog": 2,
	})

	got := Suggest(ix, []string{"relaese", "changelgo"}, 3)
	want := []string{"release changelog"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest = %v, want %v", got, want)
	}
}

func TestSuggest_NoCloseTerms(t *testing.T) {
	ix := indexWithVocabulary(map[string]int{"changelog": 2})

	if got := Suggest(ix, []string{"xylophone"}, 3); got != nil {
		t.Errorf("Suggest = %v, want nil when nothing is close", got)
	}
}

func TestSuggest_DegenerateInputs(t *testing.T) {
	ix := indexWithVocabulary(map[string]int{"changelog": 2})

	if got := Suggest(nil, []string{"changelgo"}, 3); got != nil {
		t.Errorf("nil index: Suggest = %v, want nil", got)
	}
	if got := Suggest(ix, nil, 3); got != nil {
		t.Errorf("no tokens: Suggest = %v, want nil", got)
	}
	if got := Suggest(ix, []string{"changelgo"}, 0); got != nil {
		t.Errorf("max 0: Suggest = %v, want nil", got)
	}
}

func TestSuggest_BuiltIndexVocabulary(t *testing.T) {
	ix := ranking.BuildIndex(testCatalog(), nil)

	got := Suggest(ix, []string{"changelgo"}, 3)
	if len(got) == 0 {
		t.Fatal("Suggest returned nothing")
	}
	if got[0] != "changelog" {
		t.Errorf("first suggestion = %q, want %q", got[0], "changelog")
	}
}
