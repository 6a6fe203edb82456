package recommend

// Signal is a categorical hint derived from the cart contents.
type Signal string

const (
	SignalBeer      Signal = "beer"
	SignalSpirits   Signal = "spirits"
	SignalSoftDrink Signal = "soft_drink"
	SignalSnacks    Signal = "snacks"
	SignalIceCoal   Signal = "ice_coal"
)

// Rule maps a signal to the keywords that trigger it and the canonical
// catalog category that triggers it on its own.
type Rule struct {
	Keywords []string
	Category string
}

// Taxonomy is the keyword/category table the scorer matches against. Both
// sides of every comparison are diacritics-normalized, so "energético" and
// "energetico" are the same keyword and don't need to be listed twice.
type Taxonomy map[Signal]Rule

// DefaultTaxonomy covers the store's Portuguese-language catalog.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		SignalBeer: {
			Keywords: []string{"cerveja", "lager", "pilsen", "ipa", "heineken", "brahma", "skol", "bud"},
			Category: "Cervejas",
		},
		SignalSpirits: {
			Keywords: []string{"whisky", "vodka", "gin", "rum", "tequila", "destil"},
			Category: "Destilados",
		},
		SignalSoftDrink: {
			Keywords: []string{"refrigerante", "refri", "coca", "guarana", "fanta", "sprite", "energetico", "agua", "suco"},
			Category: "Conveniência",
		},
		SignalSnacks: {
			Keywords: []string{"petisco", "salgadinho", "amendoim", "batata", "chips", "aperitivo"},
			Category: "Petiscos",
		},
		SignalIceCoal: {
			Keywords: []string{"gelo", "carvao"},
			Category: "Gelo & Carvão",
		},
	}
}

// Candidate keyword sets used by the cross-sell rules. Spirits pair with
// mixers; snacks and ice buyers pair with soft drinks.
var (
	mixerKeywords     = []string{"energetico", "tonica", "agua", "refrigerante", "limao"}
	softDrinkKeywords = []string{"refrigerante", "refri", "agua", "energetico"}
)
