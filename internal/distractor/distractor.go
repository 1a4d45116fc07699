// Package distractor picks plausible wrong answers for a catalog product.
//
// Candidates are drawn through a fixed sequence of tiers, each relaxing the
// previous one's constraint, until enough distractors are found:
//
//  1. same color category, different design;
//  2. any different design;
//  3. any different design-and-wear-period combination.
package distractor

import (
	"github.com/y4m4usr/hl001-quiz-must1/internal/catalog"
)

// DefaultCount is the number of distractors per question.
const DefaultCount = 3

// Shuffler permutes n elements via swap. *rand.Rand from math/rand/v2
// satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// selection tracks what has been picked so far.
type selection struct {
	correct    catalog.ProductRow
	categories map[string]bool
	picked     []catalog.ProductRow
	composite  map[catalog.CompositeKey]bool
	full       map[catalog.FullKey]bool
}

func newSelection(correct catalog.ProductRow) *selection {
	cats := make(map[string]bool)
	for _, c := range correct.Categories() {
		cats[c] = true
	}
	return &selection{
		correct:    correct,
		categories: cats,
		composite:  map[catalog.CompositeKey]bool{correct.CompositeKey(): true},
		full:       map[catalog.FullKey]bool{correct.FullKey(): true},
	}
}

func (s *selection) add(r catalog.ProductRow) {
	s.picked = append(s.picked, r)
	s.composite[r.CompositeKey()] = true
	s.full[r.FullKey()] = true
}

func (s *selection) sharesCategory(r catalog.ProductRow) bool {
	for _, c := range r.Categories() {
		if s.categories[c] {
			return true
		}
	}
	return false
}

// Tier is one candidate filter in the fallback sequence.
type Tier struct {
	Name   string
	accept func(s *selection, r catalog.ProductRow) bool
}

// Tiers lists the fallback sequence in the order it is applied.
var Tiers = []Tier{
	{
		Name: "category",
		accept: func(s *selection, r catalog.ProductRow) bool {
			return !s.composite[r.CompositeKey()] && s.sharesCategory(r)
		},
	},
	{
		Name: "design",
		accept: func(s *selection, r catalog.ProductRow) bool {
			return !s.composite[r.CompositeKey()]
		},
	},
	{
		// Only the full key is guarded: two distractors may share a design
		// when they differ in wear period.
		Name: "variant",
		accept: func(s *selection, r catalog.ProductRow) bool {
			return !s.full[r.FullKey()]
		},
	},
}

// Result is a selection together with how many rows each tier contributed.
type Result struct {
	Picked []catalog.ProductRow
	ByTier map[string]int
}

// Short reports whether fewer than n distractors were found.
func (r Result) Short(n int) bool {
	if n <= 0 {
		n = DefaultCount
	}
	return len(r.Picked) < n
}

// Select returns up to n wrong answers for correct drawn from pool.
// n <= 0 selects DefaultCount. A shortfall is not an error; the result is
// simply shorter than n.
func Select(correct catalog.ProductRow, pool []catalog.ProductRow, n int, rng Shuffler) []catalog.ProductRow {
	return SelectWithTiers(correct, pool, n, rng).Picked
}

// SelectWithTiers is Select that also reports each tier's contribution.
func SelectWithTiers(correct catalog.ProductRow, pool []catalog.ProductRow, n int, rng Shuffler) Result {
	if n <= 0 {
		n = DefaultCount
	}
	sel := newSelection(correct)
	byTier := make(map[string]int, len(Tiers))

	for _, tier := range Tiers {
		if len(sel.picked) >= n {
			break
		}

		var candidates []catalog.ProductRow
		for _, r := range pool {
			if tier.accept(sel, r) {
				candidates = append(candidates, r)
			}
		}
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		for _, r := range candidates {
			if len(sel.picked) >= n {
				break
			}
			// Earlier picks in this tier may have taken the same key.
			if !tier.accept(sel, r) {
				continue
			}
			sel.add(r)
			byTier[tier.Name]++
		}
	}

	return Result{Picked: sel.picked, ByTier: byTier}
}
