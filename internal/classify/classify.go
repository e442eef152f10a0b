package classify

import (
	"math"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Config holds the tunable knobs of the pipeline. Score weights are not
// configurable.
type Config struct {
	FragmentWordCeiling   int     // Lines with more words are prose.
	ScoreThreshold        float64 // Minimum score to stay a heading.
	TitleMaxWords         int     // Longest line considered for the title.
	TitleLineGapThreshold float64 // Max vertical gap (points) between wrapped title lines.
}

// DefaultConfig returns the standard settings.
func DefaultConfig() Config {
	return Config{
		FragmentWordCeiling:   20,
		ScoreThreshold:        1.0,
		TitleMaxWords:         15,
		TitleLineGapThreshold: 6.0,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FragmentWordCeiling <= 0 {
		c.FragmentWordCeiling = d.FragmentWordCeiling
	}
	if !usable(c.ScoreThreshold) {
		c.ScoreThreshold = d.ScoreThreshold
	}
	if c.TitleMaxWords <= 0 {
		c.TitleMaxWords = d.TitleMaxWords
	}
	if !usable(c.TitleLineGapThreshold) {
		c.TitleLineGapThreshold = d.TitleLineGapThreshold
	}
	return c
}

// usable reports a positive finite threshold. NaN would disable every
// comparison it takes part in.
func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Classifier runs the full pipeline. It holds only configuration and is safe
// for concurrent use across documents.
type Classifier struct {
	cfg Config
}

// New returns a Classifier; zero, negative or non-finite fields in cfg take
// their defaults.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Classify returns the title and outline of one document.
func (c *Classifier) Classify(frags []doctree.Fragment) doctree.DocumentOutline {
	return c.Trace(frags).Outline
}

// Trace is the intermediate state of one classification run.
type Trace struct {
	Document   Document
	Filtered   []Candidate // after the structural filter, unscored
	Candidates []Candidate // scored, leveled, in document order
	Outline    doctree.DocumentOutline
}

// Trace runs the pipeline and keeps every intermediate stage.
func (c *Classifier) Trace(frags []doctree.Fragment) Trace {
	if len(frags) == 0 {
		return Trace{Outline: doctree.Empty()}
	}
	doc := Normalize(frags)
	filtered := Filter(doc, c.cfg)
	scored := Score(doc, filtered, c.cfg)
	AssignLevels(scored)
	title := ExtractTitle(doc, c.cfg)
	return Trace{
		Document:   doc,
		Filtered:   filtered,
		Candidates: scored,
		Outline:    Assemble(title, scored),
	}
}
