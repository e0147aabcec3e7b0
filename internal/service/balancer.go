package service

import (
	"math"

	"github.com/etymograph/dailyverse/internal/model"
	"github.com/etymograph/dailyverse/internal/shuffle"
)

// Share of the final selection reserved for each part of speech. Adverbs get
// no reserved share and only appear through the remainder fill.
var typeShares = []struct {
	Type  model.PartOfSpeech
	Share float64
}{
	{model.Noun, 0.4},
	{model.Verb, 0.3},
	{model.Adjective, 0.3},
}

// Targets returns the per-type counts for a selection of total words. Each
// count is rounded up, so the sum may exceed total by a word or two.
func Targets(total int) map[model.PartOfSpeech]int {
	targets := make(map[model.PartOfSpeech]int, len(typeShares))
	for _, ts := range typeShares {
		targets[ts.Type] = int(math.Ceil(float64(total) * ts.Share))
	}
	return targets
}

// Balance selects up to n words from the pool, honoring the per-type targets
// where the pool allows and filling any shortfall from unused words of any
// type. The result is shuffled and never longer than n.
func Balance(pool []model.Word, n int, rnd *shuffle.Rand) []model.Word {
	total := len(pool)
	if n < total {
		total = n
	}
	if total <= 0 {
		return nil
	}

	byType := make(map[model.PartOfSpeech][]model.Word)
	for _, w := range pool {
		byType[w.Type] = append(byType[w.Type], w)
	}

	targets := Targets(total)
	used := make(map[string]struct{}, total)
	selected := make([]model.Word, 0, total+len(typeShares))

	for _, ts := range typeShares {
		candidates := shuffle.Copy(rnd, byType[ts.Type])
		take := targets[ts.Type]
		if take > len(candidates) {
			take = len(candidates)
		}
		for _, w := range candidates[:take] {
			selected = append(selected, w)
			used[w.Text] = struct{}{}
		}
	}

	if len(selected) < total {
		remaining := make([]model.Word, 0, len(pool)-len(selected))
		for _, w := range pool {
			if _, ok := used[w.Text]; !ok {
				remaining = append(remaining, w)
			}
		}
		shuffle.Slice(rnd, remaining)
		need := total - len(selected)
		if need > len(remaining) {
			need = len(remaining)
		}
		selected = append(selected, remaining[:need]...)
	}

	shuffle.Slice(rnd, selected)
	// Rounded-up targets can overshoot total.
	if len(selected) > total {
		selected = selected[:total]
	}
	return selected
}
