package search

import (
	"regexp"
	"strings"
)

// Decomposer splits a compound query into independent sub-queries.
// It is pure and never fails: any input, including empty or malformed
// strings, degrades to the single-sub-query simple path.
//
// Strategies are tried in fixed priority order; the first one whose
// cleaned output has more than one sub-query wins. Each strategy is a
// plain function with a uniform signature, iterated from an ordered
// slice - no dynamic dispatch.
type Decomposer struct {
	cfg        Config
	strategies []strategy
}

// strategy pairs a splitting function with its label and fixed confidence.
type strategy struct {
	name       Strategy
	confidence float64
	split      func(query string) []string
}

// languageWords are the file-type/language mentions the multi_topic
// strategy folds into its shared base context.
var languageWords = []string{
	"python", "go", "golang", "rust", "java", "javascript", "typescript",
	"ruby", "php", "kotlin", "swift", "c", "cpp",
}

var (
	// listContextPatterns extract the "list-introducing" phrase that
	// bare keyword items inherit, e.g. "Find Python files with" from
	// "Find Python files with auth, database, and API handling".
	listContextPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^((?:find|search|get|show|list)\b[^,]*?\b(?:with|that|for|handling|containing))\s+`),
		regexp.MustCompile(`(?i)^(looking for)\s+`),
		regexp.MustCompile(`(?i)^([^,]*?\b(?:files|functions|classes|methods)\s+(?:that|with|for))\s+`),
	}

	// conjunctionSplitRe splits a query at connector phrases,
	// discarding the connector itself. Multi-word tokens come first in
	// the alternation so they win over their single-word suffixes.
	conjunctionSplitRe = regexp.MustCompile(`(?i)\s+(?:` + strings.Join(conjunctionTokens, "|") + `)\s+`)

	// questionMarkRe locates question-marker words for the
	// multi_question strategy.
	questionMarkRe = regexp.MustCompile(`(?i)\b(?:` + strings.Join(questionWords, "|") + `)\b`)
)

// NewDecomposer creates a decomposer with the given configuration.
func NewDecomposer(cfg Config) *Decomposer {
	d := &Decomposer{cfg: cfg}
	d.strategies = []strategy{
		{StrategyCombinedList, ConfidenceCombinedList, d.splitCombinedList},
		{StrategyConjunction, ConfidenceConjunction, d.splitConjunctions},
		{StrategyCompound, ConfidenceCompound, d.splitTopLevelCommas},
		{StrategyMultiTopic, ConfidenceMultiTopic, d.splitTopics},
		{StrategyMultiQuestion, ConfidenceMultiQuestion, d.splitQuestions},
	}
	return d
}

// Decompose splits the query with the first strategy that yields more
// than one cleaned sub-query. If none does, the result is the original
// query with strategy simple and confidence 1.0 - never an empty set.
func (d *Decomposer) Decompose(query string) DecomposedQuery {
	trimmed := strings.TrimSpace(query)

	if trimmed != "" {
		for _, s := range d.strategies {
			cleaned := d.clean(s.split(trimmed))
			if len(cleaned) > 1 {
				return DecomposedQuery{
					Original:   query,
					SubQueries: cleaned,
					Strategy:   s.name,
					Confidence: s.confidence,
				}
			}
		}
	}

	return DecomposedQuery{
		Original:   query,
		SubQueries: []string{query},
		Strategy:   StrategySimple,
		Confidence: ConfidenceSimple,
	}
}

// splitCombinedList handles lists that mix commas with a trailing
// conjunction, e.g. "auth, database, and API handling".
//
// The final comma segment needs special handling: "a, b and c" must
// yield three items, not two, so a leading "and "/"or " is stripped and
// an internal " and "/" or " splits the segment in two.
func (d *Decomposer) splitCombinedList(query string) []string {
	if !strings.Contains(query, ",") {
		return nil
	}

	lower := strings.ToLower(query)
	if !strings.Contains(lower, " and ") && !strings.Contains(lower, " or ") &&
		!strings.Contains(lower, ", and ") && !strings.Contains(lower, ", or ") {
		return nil
	}

	segs := splitTopLevelTrimmed(query)
	if len(segs) < 2 {
		return nil
	}

	// Resolve the conjunction in the last comma segment.
	last := segs[len(segs)-1]
	lastLower := strings.ToLower(last)
	switch {
	case strings.HasPrefix(lastLower, "and "):
		segs[len(segs)-1] = strings.TrimSpace(last[len("and "):])
	case strings.HasPrefix(lastLower, "or "):
		segs[len(segs)-1] = strings.TrimSpace(last[len("or "):])
	default:
		if head, tail, ok := splitAtConjunction(last); ok {
			segs[len(segs)-1] = head
			segs = append(segs, tail)
		}
	}

	// Bare keyword items inherit the surrounding intent: any sub-query
	// shorter than the inherit limit gets the list-introducing context
	// phrase from the original query prepended.
	if context := extractListContext(query); context != "" {
		for i, seg := range segs {
			if len(seg) < d.cfg.ContextInheritLimit {
				segs[i] = context + " " + seg
			}
		}
	}

	return segs
}

// splitAtConjunction splits s in two at the first internal " and " or
// " or ", discarding the conjunction word. Reports whether a split happened.
func splitAtConjunction(s string) (head, tail string, ok bool) {
	lower := strings.ToLower(s)
	idx, tokLen := -1, 0
	for _, tok := range []string{" and ", " or "} {
		if i := strings.Index(lower, tok); i >= 0 && (idx < 0 || i < idx) {
			idx, tokLen = i, len(tok)
		}
	}
	if idx < 0 {
		return "", "", false
	}
	head = strings.TrimSpace(s[:idx])
	tail = strings.TrimSpace(s[idx+tokLen:])
	if head == "" || tail == "" {
		return "", "", false
	}
	return head, tail, true
}

// extractListContext pulls the leading list-introducing phrase out of
// the original query, if one is present.
func extractListContext(query string) string {
	for _, re := range listContextPatterns {
		if m := re.FindStringSubmatch(query); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// splitConjunctions splits the whole query on the conjunction-token
// set, discarding the conjunction words and empty segments.
func (d *Decomposer) splitConjunctions(query string) []string {
	parts := conjunctionSplitRe.Split(query, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitTopLevelCommas splits on top-level commas only, via the same
// depth/quote-aware splitter the combined-list strategy uses.
func (d *Decomposer) splitTopLevelCommas(query string) []string {
	if !strings.Contains(query, ",") {
		return nil
	}
	return splitTopLevelTrimmed(query)
}

// splitTopics synthesizes one sub-query per detected topic cluster.
// Unlike the other strategies it does not slice the input text: each
// sub-query is the shared base context (detected language/file-type
// mentions) concatenated with the topic name.
func (d *Decomposer) splitTopics(query string) []string {
	topics := detectTopics(query)
	if len(topics) < 2 {
		return nil
	}

	base := detectBaseContext(query)
	out := make([]string, 0, len(topics))
	for _, topic := range topics {
		if base != "" {
			out = append(out, base+" "+topic)
		} else {
			out = append(out, topic)
		}
	}
	return out
}

// detectBaseContext collects language/file-type mentions shared by all
// synthesized topic sub-queries, in fixed vocabulary order.
func detectBaseContext(query string) string {
	words := queryWordSet(query)
	var parts []string
	for _, lang := range languageWords {
		if _, ok := words[lang]; ok {
			parts = append(parts, lang)
		}
	}
	return strings.Join(parts, " ")
}

// splitQuestions splits at each position where a question-marker word
// begins, producing one segment per question.
func (d *Decomposer) splitQuestions(query string) []string {
	marks := questionMarkRe.FindAllStringIndex(query, -1)
	if len(marks) < 2 {
		return nil
	}

	// Cut at every marker start except position zero; text before the
	// first marker stays attached to the first segment.
	cuts := make([]int, 0, len(marks))
	for _, m := range marks {
		if m[0] > 0 {
			cuts = append(cuts, m[0])
		}
	}
	if len(cuts) == 0 {
		return nil
	}

	var segs []string
	prev := 0
	for _, cut := range cuts {
		if s := strings.TrimSpace(query[prev:cut]); s != "" {
			segs = append(segs, s)
		}
		prev = cut
	}
	if s := strings.TrimSpace(query[prev:]); s != "" {
		segs = append(segs, s)
	}
	return segs
}

// clean applies the shared cleanup pass: collapse internal whitespace,
// strip trailing punctuation, drop segments under the minimum length,
// drop case-insensitive duplicates preserving first occurrence order,
// and truncate to the maximum sub-query count.
func (d *Decomposer) clean(segs []string) []string {
	seen := make(map[string]struct{}, len(segs))
	out := make([]string, 0, len(segs))

	for _, s := range segs {
		s = strings.Join(strings.Fields(s), " ")
		s = strings.TrimRight(s, "?.!,;: ")
		if len(s) < d.cfg.MinSubQueryLength {
			continue
		}

		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, s)
		if len(out) == d.cfg.MaxSubQueries {
			break
		}
	}

	return out
}
