package classify

import "strings"

// ExtractTitle picks the most prominent short line on the first page and
// joins it with adjacent wrapped lines of the same size. It returns "" when
// no first-page fragment qualifies.
func ExtractTitle(doc Document, cfg Config) string {
	var page []FeatureRecord
	for _, r := range doc.Records {
		if r.Page == 1 {
			page = append(page, r)
		}
	}

	best := -1
	for i, r := range page {
		if !titleEligible(r, cfg) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := page[best]
		if r.RelativeFontRank < b.RelativeFontRank ||
			(r.RelativeFontRank == b.RelativeFontRank && r.Y < b.Y) {
			best = i
		}
	}
	if best < 0 {
		return ""
	}

	start, end := best, best
	for start > 0 && wrapsInto(page[start-1], page[start], cfg) {
		start--
	}
	for end < len(page)-1 && wrapsInto(page[end], page[end+1], cfg) {
		end++
	}

	parts := make([]string, 0, end-start+1)
	for _, r := range page[start : end+1] {
		if t := strings.TrimSpace(r.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func titleEligible(r FeatureRecord, cfg Config) bool {
	if r.WordCount < 1 || r.WordCount > cfg.TitleMaxWords {
		return false
	}
	return !(r.Casing == CasingSentence && r.EndsWithTerminalPunctuation)
}

// wrapsInto reports whether next continues prev as a wrapped line: same font
// size, directly below, with a gap under the threshold.
func wrapsInto(prev, next FeatureRecord, cfg Config) bool {
	if prev.FontSize != next.FontSize || next.Y <= prev.Y {
		return false
	}
	gap := next.Y - (prev.Y + prev.FontSize)
	return gap < cfg.TitleLineGapThreshold
}
