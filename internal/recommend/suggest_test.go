package recommend

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

func product(id, name, category string, price float64, featured bool) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       name,
		Category:   category,
		Price:      decimal.NewFromFloat(price),
		IsFeatured: featured,
		IsActive:   true,
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestSuggestBeerPullsIce(t *testing.T) {
	catalog := []domain.Product{
		product("beer", "Skol Lata 350ml", "Cervejas", 4.50, false),
		product("ice", "Gelo em Cubos 2kg", "Gelo & Carvão", 8.00, false),
		product("snack", "Amendoim Torrado", "Petiscos", 6.00, false),
		product("soap", "Sabão em Pó", "Conveniência", 12.00, false),
	}

	got := Suggest(catalog, []string{"beer"}, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "ice" {
		t.Errorf("top suggestion = %s, want ice", got[0].ID)
	}
	if got[1].ID != "snack" {
		t.Errorf("second suggestion = %s, want snack", got[1].ID)
	}
	// Zero-score products fill the remaining slots after scored ones.
	if got[2].ID != "soap" {
		t.Errorf("third suggestion = %s, want soap", got[2].ID)
	}
}

func TestSuggestSpiritsPullMixers(t *testing.T) {
	catalog := []domain.Product{
		product("vodka", "Vodka Smirnoff 998ml", "Destilados", 35.00, false),
		product("tonic", "Água Tônica 350ml", "Conveniência", 5.00, false),
		product("candy", "Bala de Menta", "Conveniência", 2.00, false),
	}

	got := Suggest(catalog, []string{"vodka"}, 2)
	if got[0].ID != "tonic" {
		t.Errorf("top suggestion = %s, want tonic", got[0].ID)
	}
	// Same category as nothing in the cart, but still +10 for convenience.
	if got[1].ID != "candy" {
		t.Errorf("second suggestion = %s, want candy", got[1].ID)
	}
}

func TestSuggestRulesAreAdditive(t *testing.T) {
	catalog := []domain.Product{
		product("beer", "Brahma Duplo Malte", "Cervejas", 5.00, false),
		product("snack1", "Batata Chips", "Petiscos", 7.00, false),
		product("snack2", "Petisco Misto", "Petiscos", 7.00, true),
	}

	// Both snacks score 35 for the beer in the cart; the featured one
	// collects +6 more and wins despite equal price.
	got := Suggest(catalog, []string{"beer"}, 2)
	if got[0].ID != "snack2" {
		t.Errorf("top suggestion = %s, want featured snack2", got[0].ID)
	}
}

func TestSuggestTieBreaks(t *testing.T) {
	catalog := []domain.Product{
		product("beer", "Heineken Long Neck", "Cervejas", 7.00, false),
		product("cheap", "Amendoim", "Petiscos", 4.00, false),
		product("dear", "Tábua de Frios", "Petiscos", 30.00, false),
	}

	got := Suggest(catalog, []string{"beer"}, 2)
	if got[0].ID != "cheap" || got[1].ID != "dear" {
		t.Errorf("equal scores should order by price asc, got %v", ids(got))
	}
}

func TestSuggestFallbackWhenNothingScores(t *testing.T) {
	// An unresolvable cart id produces no signals. With no featured
	// products nothing scores, so every candidate comes back price-asc.
	catalog := []domain.Product{
		product("soap", "Sabão em Pó", "Conveniência", 12.00, false),
		product("match", "Fósforo", "Conveniência", 2.00, false),
		product("spark", "Acendedor", "Conveniência", 9.00, false),
	}

	got := Suggest(catalog, []string{"ghost"}, 3)
	want := []string{"match", "spark", "soap"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("fallback order = %v, want %v", ids(got), want)
		}
	}
}

func TestSuggestFeaturedScoresWithoutSignals(t *testing.T) {
	// The featured bonus applies regardless of cart signals, so the
	// featured product ranks first and the rest backfill after it.
	catalog := []domain.Product{
		product("plain", "Fósforo", "Conveniência", 2.00, false),
		product("star", "Acendedor", "Conveniência", 9.00, true),
	}

	got := Suggest(catalog, []string{"ghost"}, 5)
	if len(got) != 2 || got[0].ID != "star" || got[1].ID != "plain" {
		t.Errorf("want [star plain], got %v", ids(got))
	}
}

func TestSuggestEmptyCartShowcases(t *testing.T) {
	// No cart means no signals: the whole catalog comes back featured
	// first, then cheapest first, up to limit.
	catalog := []domain.Product{
		product("soap", "Sabão em Pó", "Conveniência", 12.00, false),
		product("match", "Fósforo", "Conveniência", 2.00, false),
		product("star", "Acendedor", "Conveniência", 9.00, true),
		product("beer", "Skol Lata 350ml", "Cervejas", 4.50, false),
	}

	got := Suggest(catalog, nil, 4)
	want := []string{"star", "match", "beer", "soap"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func TestSuggestNeverReturnsCartItems(t *testing.T) {
	catalog := []domain.Product{
		product("beer1", "Skol", "Cervejas", 4.00, false),
		product("beer2", "Brahma", "Cervejas", 4.50, false),
	}
	got := Suggest(catalog, []string{"beer1"}, 5)
	for _, p := range got {
		if p.ID == "beer1" {
			t.Fatal("cart item returned as suggestion")
		}
	}
}

func TestSuggestAccentInsensitiveSignals(t *testing.T) {
	catalog := []domain.Product{
		product("coal", "CARVÃO Vegetal 3kg", "Gelo & Carvão", 15.00, false),
		product("beer", "Cerveja Lata", "Cervejas", 4.00, false),
		product("soda", "Refrigerante Guaraná 2L", "Conveniência", 9.00, false),
	}
	got := Suggest(catalog, []string{"coal"}, 2)
	if got[0].ID != "beer" {
		t.Errorf("coal cart should pull beer first (+25), got %s", got[0].ID)
	}
	if got[1].ID != "soda" {
		t.Errorf("coal cart should pull soda second (+20), got %s", got[1].ID)
	}
}

func TestSuggestLimitAndEmptyInputs(t *testing.T) {
	catalog := []domain.Product{
		product("a", "Item A", "Conveniência", 1.00, false),
		product("b", "Item B", "Conveniência", 2.00, false),
		product("c", "Item C", "Conveniência", 3.00, false),
	}

	t.Run("limit truncates", func(t *testing.T) {
		if got := Suggest(catalog, nil, 2); len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})
	t.Run("zero limit", func(t *testing.T) {
		if got := Suggest(catalog, nil, 0); got != nil {
			t.Errorf("want nil, got %v", ids(got))
		}
	})
	t.Run("empty catalog", func(t *testing.T) {
		if got := Suggest(nil, []string{"a"}, 4); len(got) != 0 {
			t.Errorf("want empty, got %v", ids(got))
		}
	})
}
