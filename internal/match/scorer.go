package match

import (
	"sort"
	"strings"

	"github.com/taller-garcia/quote-sync/internal/concept"
	"github.com/taller-garcia/quote-sync/internal/model"
	"github.com/taller-garcia/quote-sync/internal/policy"
)

// Scoring constants. All scores are non-negative integers; higher is
// strictly better, ties broken by concept declaration order.
const (
	exactScore        = 1000
	completeTokenBase = 100
	firstTokenBonus   = 100
	shortConceptBonus = 50
	lengthPenaltyStep = 10
	orderBonus        = 30
	partialTokenScore = 50
	partialMissCost   = 15
	anchorBonus       = 75

	inHouseServiceBonus = 50
	inHouseArticleBonus = 25
	otherArticleBonus   = 30
)

// Candidate is the score of one (description, concept) pair. Transient:
// produced during resolution, discarded after the winner is picked.
// SupplierGated marks a would-be match (overlap >= 0.5) that the supplier
// category gate killed; GateDetail carries the violated rule.
type Candidate struct {
	Concept       concept.Entry
	Score         int
	Kind          model.MatchKind
	MatchedTokens []string
	SupplierGated bool
	GateDetail    string
}

// Rejected reports whether the candidate was gated out.
func (c Candidate) Rejected() bool {
	return c.Kind == model.MatchRejected
}

// Score computes the compatibility between a description and a concept
// phrase for a given supplier. Gates short-circuit to a rejected candidate
// with score zero; any surviving candidate scores at least 1.
func Score(description string, entry concept.Entry, supplier string, rules *policy.Rules) Candidate {
	rejected := Candidate{Concept: entry, Kind: model.MatchRejected}

	norm := Normalize(description)
	if norm == "" {
		return rejected
	}

	conceptTokens := strings.Fields(entry.Phrase)
	if len(conceptTokens) == 0 {
		return rejected
	}

	// Exact phrase match beats everything.
	if norm == entry.Phrase {
		return Candidate{
			Concept:       entry,
			Score:         exactScore,
			Kind:          model.MatchExact,
			MatchedTokens: uniqueTokens(conceptTokens),
		}
	}

	// Gate: the description's primary token must appear in the concept.
	primary := PrimaryToken(description)
	if !containsToken(conceptTokens, primary) {
		return rejected
	}

	descSet := tokenSet(Tokens(description))
	unique := uniqueTokens(conceptTokens)
	var matched []string
	for _, t := range unique {
		if descSet[t] {
			matched = append(matched, t)
		}
	}
	overlap := float64(len(matched)) / float64(len(unique))

	// Category gate on the concept phrase (not the raw description).
	category := rules.Classify(entry.Phrase)
	supplierBonus := 0
	if strings.TrimSpace(supplier) != "" {
		if dec := rules.Check(category, entry.Phrase, supplier); !dec.Allowed {
			rejected.SupplierGated = overlap >= 0.5
			rejected.GateDetail = dec.Detail
			return rejected
		}
		switch {
		case rules.IsInHouse(supplier) && category == policy.CategoryService:
			supplierBonus = inHouseServiceBonus
		case rules.IsInHouse(supplier):
			supplierBonus = inHouseArticleBonus
		default:
			supplierBonus = otherArticleBonus
		}
	}

	var score int
	var kind model.MatchKind
	switch {
	case overlap == 1.0:
		kind = model.MatchComplete
		score = completeTokenBase * len(unique)
		if conceptTokens[0] == primary {
			score += firstTokenBonus
		}
		if len(unique) <= 3 {
			score += shortConceptBonus
		}
		if len(unique) > 5 {
			score -= lengthPenaltyStep * (len(unique) - 5)
		}
		if tokensInOrder(matched, Tokens(description)) {
			score += orderBonus
		}
		score += supplierBonus
	case overlap >= 0.5:
		kind = model.MatchPartial
		score = partialTokenScore*len(matched) - partialMissCost*(len(unique)-len(matched))
		score += supplierBonus / 2
	default:
		return rejected
	}

	// A match anchored on the concept's leading token or a product noun is
	// centered on the right part, not just on shared adjectives.
	if anchored(matched, conceptTokens[0]) {
		score += anchorBonus
	}

	if score < 1 {
		score = 1
	}
	return Candidate{Concept: entry, Score: score, Kind: kind, MatchedTokens: matched}
}

// Rank scores a description against every concept entry. It returns the
// surviving candidates sorted by score descending plus, separately, the
// candidates that only failed the supplier gate (so the caller can report
// "supplier ineligible" instead of "not found" when nothing survived).
// The sort is stable, so equal scores keep catalog declaration order
// (first declared wins).
func Rank(description, supplier string, entries []concept.Entry, rules *policy.Rules) (eligible, supplierGated []Candidate) {
	for _, e := range entries {
		c := Score(description, e, supplier, rules)
		switch {
		case !c.Rejected():
			eligible = append(eligible, c)
		case c.SupplierGated:
			supplierGated = append(supplierGated, c)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})
	return eligible, supplierGated
}

// tokensInOrder reports whether the matched tokens occur in the description
// in the same relative order as in the concept phrase. Positions are the
// first occurrence of each token in the description.
func tokensInOrder(matched, descTokens []string) bool {
	prev := -1
	for _, t := range matched {
		pos := indexOf(descTokens, t)
		if pos < prev {
			return false
		}
		prev = pos
	}
	return true
}

func indexOf(tokens []string, t string) int {
	for i, v := range tokens {
		if v == t {
			return i
		}
	}
	return -1
}

func containsToken(tokens []string, t string) bool {
	return indexOf(tokens, t) >= 0
}

// anchored reports whether the matched tokens include the concept's leading
// token or any product noun. It is a function of the matched set alone:
// growing the description can set it but never clear it.
func anchored(matched []string, conceptFirst string) bool {
	for _, t := range matched {
		if t == conceptFirst || productNouns[t] {
			return true
		}
	}
	return false
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// uniqueTokens preserves first-occurrence order while dropping repeats.
func uniqueTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var out []string
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
