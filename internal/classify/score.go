package classify

// ScoreRule is one weighted, independent heading signal.
type ScoreRule struct {
	Name   string
	Weight float64
	Match  func(c Candidate, doc Document) bool
}

// ScoreRules are fixed; changing them changes every outline.
var ScoreRules = []ScoreRule{
	{Name: "numbered", Weight: 2.0, Match: func(c Candidate, _ Document) bool {
		return c.Numbered()
	}},
	{Name: "bold", Weight: 1.0, Match: func(c Candidate, _ Document) bool {
		return c.Bold
	}},
	{Name: "large-font", Weight: 1.0, Match: func(c Candidate, doc Document) bool {
		return InTopThird(c.RelativeFontRank, doc.RankCount())
	}},
	{Name: "display-casing", Weight: 0.5, Match: func(c Candidate, _ Document) bool {
		return c.Casing == CasingAllCaps || c.Casing == CasingTitle
	}},
	{Name: "short", Weight: 0.5, Match: func(c Candidate, _ Document) bool {
		return c.WordCount <= 8
	}},
	{Name: "isolated-line", Weight: 0.3, Match: func(c Candidate, _ Document) bool {
		return !c.Numbered() && !c.EndsWithTerminalPunctuation
	}},
}

// InTopThird reports whether rank falls in the largest third of n ranks.
// A document with a single font size has nothing larger than its median.
func InTopThird(rank, n int) bool {
	if n < 2 {
		return false
	}
	cut := (n + 2) / 3
	return rank < cut
}

// ScoreOf sums the weights of every matching rule.
func ScoreOf(c Candidate, doc Document) float64 {
	var s float64
	for _, rule := range ScoreRules {
		if rule.Match(c, doc) {
			s += rule.Weight
		}
	}
	return s
}

// Score fills in each candidate's score and drops those below the threshold.
func Score(doc Document, cands []Candidate, cfg Config) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		c.Score = ScoreOf(c, doc)
		if c.Score < cfg.ScoreThreshold {
			continue
		}
		out = append(out, c)
	}
	return out
}
