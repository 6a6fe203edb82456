package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

// PromoSuggestion is a promotion idea surfaced on the admin dashboard.
// Type is "estoque" for slow-moving inventory and "sazonal" for combo
// and calendar-driven suggestions.
type PromoSuggestion struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	TotalSold   int    `json:"total_sold,omitempty"`
}

const (
	PromoTypeStock    = "estoque"
	PromoTypeSeasonal = "sazonal"

	maxSlowMovers  = 12
	maxSuggestions = 18
)

// SuggestPromotions builds a promotion list from three sources: seasonal
// windows on the Brazilian retail calendar, cross-sell combos anchored on
// the best sellers of the last 30 days, and slow movers still sitting in
// stock. The list is capped at maxSuggestions, seasonal cards first.
func SuggestPromotions(products []domain.Product, orders []domain.Order, now time.Time) []PromoSuggestion {
	cutoff := now.AddDate(0, 0, -DefaultLookbackDays)
	soldByID := make(map[string]int)
	for _, o := range orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		for _, item := range o.Items {
			soldByID[item.ProductID] += item.Quantity
		}
	}

	inStock := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.StockQuantity > 0 {
			inStock = append(inStock, p)
		}
	}

	out := make([]PromoSuggestion, 0, maxSuggestions)
	out = append(out, seasonalCards(now)...)
	out = append(out, comboCards(inStock, soldByID)...)
	out = append(out, slowMovers(inStock, soldByID)...)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// slowMovers picks in-stock products with fewer than 5 recent sales,
// least-sold first.
func slowMovers(inStock []domain.Product, soldByID map[string]int) []PromoSuggestion {
	slow := make([]domain.Product, 0, len(inStock))
	for _, p := range inStock {
		if soldByID[p.ID] < 5 {
			slow = append(slow, p)
		}
	}
	sort.SliceStable(slow, func(i, j int) bool {
		return soldByID[slow[i].ID] < soldByID[slow[j].ID]
	})
	if len(slow) > maxSlowMovers {
		slow = slow[:maxSlowMovers]
	}

	out := make([]PromoSuggestion, len(slow))
	for i, p := range slow {
		out[i] = PromoSuggestion{
			ID:        p.ID,
			Name:      p.Name,
			Type:      PromoTypeStock,
			TotalSold: soldByID[p.ID],
		}
	}
	return out
}

func comboCards(inStock []domain.Product, soldByID map[string]int) []PromoSuggestion {
	type sold struct {
		id  string
		qty int
	}
	ranked := make([]sold, 0, len(soldByID))
	for id, qty := range soldByID {
		ranked = append(ranked, sold{id, qty})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].qty != ranked[j].qty {
			return ranked[i].qty > ranked[j].qty
		}
		return ranked[i].id < ranked[j].id
	})
	if len(ranked) > 8 {
		ranked = ranked[:8]
	}
	topIDs := make(map[string]bool, len(ranked))
	for _, s := range ranked {
		topIDs[s.id] = true
	}

	productText := func(p domain.Product) string {
		return domain.Normalize(p.Name) + " " + domain.Normalize(p.Category)
	}
	topMatches := func(keywords []string) bool {
		for _, p := range inStock {
			if topIDs[p.ID] && domain.ContainsAny(productText(p), keywords) {
				return true
			}
		}
		return false
	}
	findByKeywords := func(keywords []string) *domain.Product {
		for i := range inStock {
			if domain.ContainsAny(productText(inStock[i]), keywords) {
				return &inStock[i]
			}
		}
		return nil
	}

	var cards []PromoSuggestion

	if topMatches([]string{"cerveja", "heineken", "brahma", "skol", "bud"}) {
		card := PromoSuggestion{
			ID:          "combo-cerveja-gelo",
			Name:        "Combo cerveja + gelo",
			Description: "Sugestão: crie cupom para GELO (2kg/5kg) para aumentar o ticket.",
			Type:        PromoTypeSeasonal,
		}
		if ice := findByKeywords([]string{"gelo"}); ice != nil {
			card.ID = ice.ID
			card.Description = fmt.Sprintf("Sugestão: cupom em %s (gelo) para aumentar o ticket.", ice.Name)
		}
		cards = append(cards, card)
	}

	if topMatches([]string{"whisky", "vodka", "gin", "destil"}) {
		card := PromoSuggestion{
			ID:          "combo-destilado-mixer",
			Name:        "Combo destilado + mixer",
			Description: "Sugestão: incluir Energético/Tônica no catálogo e rodar cupom combo.",
			Type:        PromoTypeSeasonal,
		}
		if mixer := findByKeywords([]string{"energetico", "tonica"}); mixer != nil {
			card.ID = mixer.ID
			card.Description = "Sugestão: desconto em MIXERS (energético/tônica) para vender junto."
		}
		cards = append(cards, card)
	}

	return cards
}

// seasonalCards returns promotion windows on the Brazilian retail
// calendar for the given instant.
func seasonalCards(now time.Time) []PromoSuggestion {
	m := now.Month()
	var cards []PromoSuggestion

	if m == time.December || m <= time.March {
		cards = append(cards, PromoSuggestion{
			ID:          "sazonal-verao",
			Name:        "Promoção de Verão",
			Description: "Foco em bebidas geladas: cervejas, água, refrigerantes e energéticos + gelo.",
			Type:        PromoTypeSeasonal,
		})
	}
	if m == time.February || m == time.March {
		cards = append(cards, PromoSuggestion{
			ID:          "sazonal-carnaval",
			Name:        "Especial Carnaval",
			Description: "Sugestão: combos (cerveja + gelo) e desconto progressivo em packs.",
			Type:        PromoTypeSeasonal,
		})
	}
	if m == time.March || m == time.April {
		cards = append(cards, PromoSuggestion{
			ID:          "sazonal-pascoa",
			Name:        "Ação Páscoa",
			Description: "Sugestão: combos de bebidas + snacks. Se vender chocolate/vinho, destaque aqui.",
			Type:        PromoTypeSeasonal,
		})
	}
	if m == time.June {
		cards = append(cards, PromoSuggestion{
			ID:          "sazonal-saojoao",
			Name:        "Especial São João",
			Description: "Sugestão: combos de churrasco (carvão + gelo + bebidas) e destilados.",
			Type:        PromoTypeSeasonal,
		})
	}
	if m == time.December {
		cards = append(cards, PromoSuggestion{
			ID:          "sazonal-natal",
			Name:        "Natal & Ano Novo",
			Description: "Sugestão: destaque bebidas premium + gelo e desconto em combos para confraternização.",
			Type:        PromoTypeSeasonal,
		})
	}
	return cards
}
