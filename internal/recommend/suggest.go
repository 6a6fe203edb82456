// Package recommend scores catalog products against a cart to produce
// cross-sell suggestions, using an additive keyword/category rule table.
package recommend

import (
	"sort"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

// Points awarded by each cross-sell rule. Rules are additive: a candidate
// can collect points from several rules at once.
const (
	pointsIceForDrinks    = 120
	pointsMixerForSpirits = 90
	pointsConvForSpirits  = 10
	pointsBeerForSnacks   = 40
	pointsSoftForSnacks   = 35
	pointsSnackForBeer    = 35
	pointsBeerForIce      = 25
	pointsSoftForIce      = 20
	pointsSharedCategory  = 18
	pointsFeatured        = 6
)

// Scorer ranks cross-sell candidates for a cart. The zero value is not
// usable; construct with NewScorer.
type Scorer struct {
	tax Taxonomy
}

func NewScorer(tax Taxonomy) *Scorer {
	return &Scorer{tax: tax}
}

// Suggest returns up to limit products from catalog ranked as cross-sell
// suggestions for the cart identified by cartIDs. Products already in the
// cart are never suggested. Cart IDs that don't resolve against the catalog
// contribute no signals. An empty cart, or a cart where no candidate scores
// above zero, yields a featured-first, cheapest-first slice of the catalog,
// so the storefront always has something to show.
func (s *Scorer) Suggest(catalog []domain.Product, cartIDs []string, limit int) []domain.Product {
	if limit <= 0 {
		return nil
	}

	if len(cartIDs) == 0 {
		return rankByAppeal(catalog, limit)
	}

	inCart := make(map[string]bool, len(cartIDs))
	for _, id := range cartIDs {
		inCart[id] = true
	}

	// Signals derive only from cart items that resolve against the catalog.
	var cartText string
	cartCategories := make(map[string]bool)
	for _, p := range catalog {
		if !inCart[p.ID] {
			continue
		}
		cartText += " " + domain.Normalize(p.Name) + " " + domain.Normalize(p.Category)
		cartCategories[domain.Normalize(p.Category)] = true
	}

	active := func(sig Signal) bool {
		rule := s.tax[sig]
		if cartCategories[domain.Normalize(rule.Category)] {
			return true
		}
		return domain.ContainsAny(cartText, rule.Keywords)
	}

	hasBeer := active(SignalBeer)
	hasSpirits := active(SignalSpirits)
	hasSoftDrink := active(SignalSoftDrink)
	hasSnacks := active(SignalSnacks)
	hasIceCoal := active(SignalIceCoal)

	iceCategory := domain.Normalize(s.tax[SignalIceCoal].Category)
	beerCategory := domain.Normalize(s.tax[SignalBeer].Category)
	snackCategory := domain.Normalize(s.tax[SignalSnacks].Category)
	convCategory := domain.Normalize(s.tax[SignalSoftDrink].Category)

	type scored struct {
		product domain.Product
		score   int
	}
	candidates := make([]scored, 0, len(catalog))

	for _, p := range catalog {
		if inCart[p.ID] {
			continue
		}
		text := domain.Normalize(p.Name) + " " + domain.Normalize(p.Category)
		category := domain.Normalize(p.Category)
		score := 0

		if hasBeer || hasSoftDrink || hasSpirits {
			if domain.ContainsAny(text, []string{"gelo"}) || category == iceCategory {
				score += pointsIceForDrinks
			}
		}
		if hasSpirits {
			if domain.ContainsAny(text, mixerKeywords) {
				score += pointsMixerForSpirits
			}
			if category == convCategory {
				score += pointsConvForSpirits
			}
		}
		if hasSnacks {
			if category == beerCategory {
				score += pointsBeerForSnacks
			}
			if domain.ContainsAny(text, softDrinkKeywords) {
				score += pointsSoftForSnacks
			}
		}
		if hasBeer && category == snackCategory {
			score += pointsSnackForBeer
		}
		if hasIceCoal {
			if category == beerCategory {
				score += pointsBeerForIce
			}
			if domain.ContainsAny(text, softDrinkKeywords) {
				score += pointsSoftForIce
			}
		}
		if cartCategories[category] {
			score += pointsSharedCategory
		}
		if p.IsFeatured {
			score += pointsFeatured
		}

		candidates = append(candidates, scored{product: p, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].product.IsFeatured != candidates[j].product.IsFeatured {
			return candidates[i].product.IsFeatured
		}
		return candidates[i].product.Price.LessThan(candidates[j].product.Price)
	})

	anyScored := false
	for _, c := range candidates {
		if c.score > 0 {
			anyScored = true
			break
		}
	}
	if !anyScored {
		pool := make([]domain.Product, 0, len(candidates))
		for _, c := range candidates {
			pool = append(pool, c.product)
		}
		return rankByAppeal(pool, limit)
	}

	// Zero-score candidates still pad out the tail so the storefront
	// always gets limit items when the catalog has them.
	out := make([]domain.Product, 0, limit)
	for _, c := range candidates {
		out = append(out, c.product)
		if len(out) == limit {
			break
		}
	}
	return out
}

// rankByAppeal orders products featured first, then cheapest first.
func rankByAppeal(products []domain.Product, limit int) []domain.Product {
	ranked := make([]domain.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].IsFeatured != ranked[j].IsFeatured {
			return ranked[i].IsFeatured
		}
		return ranked[i].Price.LessThan(ranked[j].Price)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Suggest ranks with the default taxonomy.
func Suggest(catalog []domain.Product, cartIDs []string, limit int) []domain.Product {
	return NewScorer(DefaultTaxonomy()).Suggest(catalog, cartIDs, limit)
}
