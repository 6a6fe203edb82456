package analytics

import (
	"testing"
	"time"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

func TestSuggestPromotionsSlowMovers(t *testing.T) {
	now := time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC)
	products := []domain.Product{
		catalogProduct("dust", "Vinho Encalhado", 40.00, 8),
		catalogProduct("slow", "Licor", 25.00, 4),
		catalogProduct("hot", "Cerveja Lata", 5.00, 100),
		catalogProduct("out", "Cachaça", 15.00, 0), // no stock, never suggested
	}
	orders := []domain.Order{
		orderWith(now.AddDate(0, 0, -5), item("hot", 30), item("slow", 2)),
	}

	got := SuggestPromotions(products, orders, now)

	var stock []PromoSuggestion
	for _, s := range got {
		if s.Type == PromoTypeStock {
			stock = append(stock, s)
		}
	}
	if len(stock) != 2 {
		t.Fatalf("slow movers = %d, want 2", len(stock))
	}
	// Least sold first.
	if stock[0].ID != "dust" || stock[0].TotalSold != 0 {
		t.Errorf("first slow mover = %+v, want dust with 0 sold", stock[0])
	}
	if stock[1].ID != "slow" || stock[1].TotalSold != 2 {
		t.Errorf("second slow mover = %+v, want slow with 2 sold", stock[1])
	}
	for _, s := range stock {
		if s.ID == "out" {
			t.Error("out-of-stock product suggested")
		}
	}
}

func TestSuggestPromotionsCombos(t *testing.T) {
	now := time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC)
	products := []domain.Product{
		catalogProduct("beer", "Cerveja Skol", 5.00, 100),
		catalogProduct("ice", "Gelo 5kg", 10.00, 20),
		catalogProduct("vodka", "Vodka", 30.00, 10),
	}
	orders := []domain.Order{
		orderWith(now.AddDate(0, 0, -2), item("beer", 50), item("vodka", 10)),
	}

	got := SuggestPromotions(products, orders, now)

	var beerCombo, spiritCombo *PromoSuggestion
	for i := range got {
		switch got[i].Name {
		case "Combo cerveja + gelo":
			beerCombo = &got[i]
		case "Combo destilado + mixer":
			spiritCombo = &got[i]
		}
	}
	if beerCombo == nil {
		t.Fatal("beer combo missing")
	}
	// The ice product exists, so the card points straight at it.
	if beerCombo.ID != "ice" {
		t.Errorf("beer combo id = %s, want ice", beerCombo.ID)
	}
	if spiritCombo == nil {
		t.Fatal("spirits combo missing")
	}
	// No mixer in the catalog, so the card keeps its generic id.
	if spiritCombo.ID != "combo-destilado-mixer" {
		t.Errorf("spirits combo id = %s", spiritCombo.ID)
	}
}

func TestSuggestPromotionsSeasonal(t *testing.T) {
	cases := []struct {
		month time.Month
		want  []string
	}{
		{time.January, []string{"sazonal-verao"}},
		{time.March, []string{"sazonal-verao", "sazonal-carnaval", "sazonal-pascoa"}},
		{time.June, []string{"sazonal-saojoao"}},
		{time.August, nil},
		{time.December, []string{"sazonal-verao", "sazonal-natal"}},
	}
	for _, tc := range cases {
		t.Run(tc.month.String(), func(t *testing.T) {
			now := time.Date(2026, tc.month, 10, 12, 0, 0, 0, time.UTC)
			got := seasonalCards(now)
			if len(got) != len(tc.want) {
				t.Fatalf("cards = %d, want %d", len(got), len(tc.want))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Errorf("cards[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSuggestPromotionsCap(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	var products []domain.Product
	for i := 0; i < 30; i++ {
		products = append(products, catalogProduct(
			string(rune('a'+i)), "Produto", 3.00, 5))
	}

	got := SuggestPromotions(products, nil, now)
	if len(got) > maxSuggestions {
		t.Errorf("len = %d, want <= %d", len(got), maxSuggestions)
	}

	var stock int
	for _, s := range got {
		if s.Type == PromoTypeStock {
			stock++
		}
	}
	if stock > maxSlowMovers {
		t.Errorf("slow movers = %d, want <= %d", stock, maxSlowMovers)
	}
}
