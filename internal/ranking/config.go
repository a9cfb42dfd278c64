package ranking

// Config holds all tunable weights and bonuses for the lexical scorer.
// The defaults are empirically tuned; changing them reorders results, so
// deployments that override any of these should keep a golden-query
// regression suite.
type Config struct {
	// Field weights. Strictly ordered: title evidence always outweighs id
	// evidence, id outweighs tags, and so on down to content.
	TitleWeight       float64 `yaml:"title_weight"`       // default: 10
	IDWeight          float64 `yaml:"id_weight"`          // default: 8
	TagsWeight        float64 `yaml:"tags_weight"`        // default: 5
	CategoryWeight    float64 `yaml:"category_weight"`    // default: 4
	DescriptionWeight float64 `yaml:"description_weight"` // default: 3
	ContentWeight     float64 `yaml:"content_weight"`     // default: 1

	// Match-type factors, applied to the field weight. Exact matches score
	// the full weight; the factors below scale the weaker signals.
	PrefixBase      float64 `yaml:"prefix_base"`      // default: 0.3
	PrefixScale     float64 `yaml:"prefix_scale"`     // default: 0.65
	FuzzyFactor     float64 `yaml:"fuzzy_factor"`     // default: 0.4
	SubstringFactor float64 `yaml:"substring_factor"` // default: 0.2

	// Synonym-expansion tokens contribute at a discount so a loose synonym
	// match never outranks the equivalent exact match.
	ExpansionDiscount float64 `yaml:"expansion_discount"` // default: 0.5

	// Whole-query bonuses.
	CoverageMultiplier float64 `yaml:"coverage_multiplier"` // default: 1.3
	PhraseFactor       float64 `yaml:"phrase_factor"`       // default: 0.5
	ExactIDBonus       float64 `yaml:"exact_id_bonus"`      // default: 50
	AcronymBonus       float64 `yaml:"acronym_bonus"`       // default: 6
}

// DefaultConfig returns the standard scorer configuration.
func DefaultConfig() *Config {
	return &Config{
		TitleWeight:       10,
		IDWeight:          8,
		TagsWeight:        5,
		CategoryWeight:    4,
		DescriptionWeight: 3,
		ContentWeight:     1,

		PrefixBase:      0.3,
		PrefixScale:     0.65,
		FuzzyFactor:     0.4,
		SubstringFactor: 0.2,

		ExpansionDiscount: 0.5,

		CoverageMultiplier: 1.3,
		PhraseFactor:       0.5,
		ExactIDBonus:       50,
		AcronymBonus:       6,
	}
}

// ApplyDefaults fills zero-valued fields with their defaults, so a config
// file can override a subset of the weights without zeroing the rest.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.TitleWeight == 0 {
		c.TitleWeight = d.TitleWeight
	}
	if c.IDWeight == 0 {
		c.IDWeight = d.IDWeight
	}
	if c.TagsWeight == 0 {
		c.TagsWeight = d.TagsWeight
	}
	if c.CategoryWeight == 0 {
		c.CategoryWeight = d.CategoryWeight
	}
	if c.DescriptionWeight == 0 {
		c.DescriptionWeight = d.DescriptionWeight
	}
	if c.ContentWeight == 0 {
		c.ContentWeight = d.ContentWeight
	}
	if c.PrefixBase == 0 {
		c.PrefixBase = d.PrefixBase
	}
	if c.PrefixScale == 0 {
		c.PrefixScale = d.PrefixScale
	}
	if c.FuzzyFactor == 0 {
		c.FuzzyFactor = d.FuzzyFactor
	}
	if c.SubstringFactor == 0 {
		c.SubstringFactor = d.SubstringFactor
	}
	if c.ExpansionDiscount == 0 {
		c.ExpansionDiscount = d.ExpansionDiscount
	}
	if c.CoverageMultiplier == 0 {
		c.CoverageMultiplier = d.CoverageMultiplier
	}
	if c.PhraseFactor == 0 {
		c.PhraseFactor = d.PhraseFactor
	}
	if c.ExactIDBonus == 0 {
		c.ExactIDBonus = d.ExactIDBonus
	}
	if c.AcronymBonus == 0 {
		c.AcronymBonus = d.AcronymBonus
	}
}
