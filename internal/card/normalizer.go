// =============================================================================
// Card Sheet Converter - Row Normalizer
// =============================================================================
//
// The normalizer turns one spreadsheet row into a canonical Card. It never
// looks at headers: the column mapping is resolved once per sheet and handed
// in, so every row is a plain index lookup.
//
// FIELD RULES:
//   - Text fields are trimmed. Missing text becomes "" (icon becomes the
//     configured default icon).
//   - id and star must be integers when present. A bad value is a row error.
//   - atk and def are lenient. Bad values become 0, values of 100 or more are
//     divided by 100 (2500 -> 25).
//   - card_type and extra_deck are derived by keyword search.
//
// =============================================================================

package card

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/cardsheet/internal/columns"
	"github.com/ginjaninja78/cardsheet/internal/config"
)

// statScale is the divisor applied to stats written in the long form.
const statScale = 100

// Normalizer builds cards from rows of a single sheet.
type Normalizer struct {
	mapping     columns.Mapping
	keywords    []string
	defaultIcon string
}

// NewNormalizer creates a normalizer for a sheet whose columns were resolved
// into mapping.
func NewNormalizer(mapping columns.Mapping, cfg *config.Config) *Normalizer {
	keywords := make([]string, 0, len(cfg.ExtraDeckKeywords))
	for _, kw := range cfg.ExtraDeckKeywords {
		keywords = append(keywords, strings.ToLower(kw))
	}

	return &Normalizer{
		mapping:     mapping,
		keywords:    keywords,
		defaultIcon: cfg.DefaultIcon,
	}
}

// Normalize converts one data row.
//
// PARAMETERS:
//   - row: The cell texts of the row, in column order.
//   - position: The 1-based position of the row among the sheet's data rows.
//     It becomes the card id when the sheet has no usable id cell.
//
// RETURNS:
//   - The card, or an error naming the row and field when id or star holds
//     something that is not a number.
func (n *Normalizer) Normalize(row []string, position int) (Card, error) {
	cell := func(field string) Cell {
		return Lookup(row, n.mapping, field)
	}

	id, err := cell(config.FieldID).Int()
	if err != nil {
		return Card{}, fmt.Errorf("row %d: id: %w", position, err)
	}
	if !id.Valid {
		id.SetValid(int64(position))
	}

	star, err := cell(config.FieldStar).Int()
	if err != nil {
		return Card{}, fmt.Errorf("row %d: star: %w", position, err)
	}

	typeAbility := cell(config.FieldTypeAbility)
	spellTrap := cell(config.FieldSpellTrap)

	return Card{
		ID:            id.Int64,
		Name:          cell(config.FieldName).StringOr(""),
		Attribute:     cell(config.FieldAttribute).StringOr(""),
		Star:          star.Int64,
		Type:          typeAbility.StringOr(""),
		Effect:        cell(config.FieldEffect).StringOr(""),
		ATK:           NormalizeStat(cell(config.FieldATK)),
		DEF:           NormalizeStat(cell(config.FieldDEF)),
		Icon:          cell(config.FieldIcon).StringOr(n.defaultIcon),
		ArtLink:       cell(config.FieldArtLink).StringOr(""),
		FinalCardArt:  cell(config.FieldFinalCardArt).StringOr(""),
		CardType:      ClassifyCardType(spellTrap),
		ExtraDeck:     IsExtraDeck(typeAbility, n.keywords),
		SpellTrapType: spellTrap.Ptr(),
	}, nil
}

// NormalizeStat converts an ATK or DEF cell. Missing or unparseable values
// yield 0. Values of 100 or more are floor-divided by 100.
func NormalizeStat(c Cell) int64 {
	v, err := c.Int()
	if err != nil || !v.Valid {
		return 0
	}
	if v.Int64 >= statScale {
		return v.Int64 / statScale
	}
	return v.Int64
}

// ClassifyCardType derives the card category from the spell/trap cell.
// Spell keywords are checked before trap keywords.
func ClassifyCardType(c Cell) CardType {
	if c.Missing() {
		return Monster
	}

	s := strings.ToLower(c.String.String)
	switch {
	case strings.Contains(s, "spell"), strings.Contains(s, "magia"):
		return Spell
	case strings.Contains(s, "trap"), strings.Contains(s, "trappola"):
		return Trap
	default:
		return Monster
	}
}

// IsExtraDeck returns 1 when the type/ability text contains any of the
// lower-cased keywords, otherwise 0.
func IsExtraDeck(c Cell, keywords []string) int {
	if c.Missing() {
		return 0
	}

	s := strings.ToLower(c.String.String)
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return 1
		}
	}
	return 0
}
