package crawler

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	wordRe = regexp.MustCompile(`[a-zA-Z\-]{3,}`)

	solutionCues = []string{
		"should", "must", "we need to", "recommend", "propose", "ought to",
		"could", "establish", "adopt", "create", "introduce",
	}
)

// ExtractText returns the readable text of an HTML page. Plain text passes
// through with whitespace normalised.
func ExtractText(html string) string {
	trimmed := strings.TrimSpace(html)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "<") {
		return normText(trimmed)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return normText(doc.Text())
}

func normText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ContentHash identifies duplicate bodies published under different URLs.
func ContentHash(text string) string {
	h := sha256.Sum256([]byte(strings.ToLower(normText(text))))
	return hex.EncodeToString(h[:])
}

// splitSentences breaks after '.', '!' or '?' when whitespace follows.
func splitSentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes)-1; i++ {
		if strings.ContainsRune(".!?", runes[i]) && isSpace(runes[i+1]) {
			out = append(out, string(runes[start:i+1]))
			j := i + 1
			for j < len(runes) && isSpace(runes[j]) {
				j++
			}
			start = j
			i = j - 1
		}
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r' || r == '\f' || r == '\v'
}

// Solutions picks up to ten sentences that read like proposals.
func Solutions(text string) []string {
	var out []string
	for _, s := range splitSentences(text) {
		s = strings.TrimSpace(s)
		if len(s) < 60 || len(s) > 280 {
			continue
		}
		lower := strings.ToLower(s)
		for _, cue := range solutionCues {
			if strings.Contains(lower, cue) {
				out = append(out, s)
				break
			}
		}
		if len(out) == 10 {
			break
		}
	}
	return out
}

// Summarize is the extractive fallback summary: the n sentences with the
// most distinct non-stopword terms, in their original order.
func Summarize(text string, n int) string {
	if text == "" {
		return ""
	}
	sents := splitSentences(normText(text))

	type scored struct {
		idx   int
		score int
	}
	ranked := make([]scored, len(sents))
	for i, s := range sents {
		seen := map[string]struct{}{}
		for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
			if _, stop := stopwords[w]; !stop {
				seen[w] = struct{}{}
			}
		}
		ranked[i] = scored{idx: i, score: len(seen)}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	sort.Slice(ranked, func(a, b int) bool { return ranked[a].idx < ranked[b].idx })

	parts := make([]string, len(ranked))
	for i, r := range ranked {
		parts[i] = sents[r.idx]
	}
	return strings.Join(parts, " ")
}

var stopwords = func() map[string]struct{} {
	words := strings.Fields(`about above after again against all also and any are because been before
being below between both but can could did does doing down during each few for from further had has
have having her here hers herself him himself his how into its itself just more most not now off once
only other our ours ourselves out over own same she should some such than that the their theirs them
themselves then there these they this those through too under until very was were what when where
which while who whom why will with would you your yours yourself yourselves said says year years new`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
