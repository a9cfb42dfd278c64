package ranking

import "testing"

func TestConfig_ApplyDefaults(t *testing.T) {
	// Partial override keeps the overridden value and fills the rest.
	cfg := &Config{TitleWeight: 20}
	cfg.ApplyDefaults()

	if cfg.TitleWeight != 20 {
		t.Errorf("TitleWeight = %v, want override 20 preserved", cfg.TitleWeight)
	}
	if cfg.IDWeight != 8 {
		t.Errorf("IDWeight = %v, want default 8", cfg.IDWeight)
	}
	if cfg.CoverageMultiplier != 1.3 {
		t.Errorf("CoverageMultiplier = %v, want default 1.3", cfg.CoverageMultiplier)
	}
	if cfg.ExactIDBonus != 50 {
		t.Errorf("ExactIDBonus = %v, want default 50", cfg.ExactIDBonus)
	}
}

func TestDefaultConfig_FieldOrdering(t *testing.T) {
	cfg := DefaultConfig()
	weights := []struct {
		name string
		w    float64
	}{
		{"title", cfg.TitleWeight},
		{"id", cfg.IDWeight},
		{"tags", cfg.TagsWeight},
		{"category", cfg.CategoryWeight},
		{"description", cfg.DescriptionWeight},
		{"content", cfg.ContentWeight},
	}
	for i := 1; i < len(weights); i++ {
		if weights[i].w >= weights[i-1].w {
			t.Errorf("%s weight %v not strictly below %s weight %v",
				weights[i].name, weights[i].w, weights[i-1].name, weights[i-1].w)
		}
	}
}
