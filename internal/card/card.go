// Package card defines the canonical card record and the rules that derive it
// from one spreadsheet row.
package card

// CardType is the card category.
type CardType string

const (
	Monster CardType = "monster"
	Spell   CardType = "spell"
	Trap    CardType = "trap"
)

// Card is the canonical record written for every source row.
// Field order matches the JSON output.
type Card struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Attribute    string   `json:"attribute"`
	Star         int64    `json:"star"`
	Type         string   `json:"type"`
	Effect       string   `json:"effect"`
	ATK          int64    `json:"atk"`
	DEF          int64    `json:"def"`
	Icon         string   `json:"icon"`
	ArtLink      string   `json:"art_link"`
	FinalCardArt string   `json:"final_card_art"`
	CardType     CardType `json:"card_type"`
	ExtraDeck    int      `json:"extra_deck"`

	// SpellTrapType holds the raw spell/trap cell. Nil when the cell is
	// missing, which drops the key from the output.
	SpellTrapType *string `json:"spell_trap_type,omitempty"`
}

// Document is the top-level JSON object written per spreadsheet.
type Document struct {
	Cards []Card `json:"cards"`
}
