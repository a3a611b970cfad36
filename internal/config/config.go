// =============================================================================
// Card Sheet Converter - Configuration Module
// =============================================================================
//
// This module holds the conversion settings: which header texts are accepted
// for each canonical card field, which keywords mark an Extra Deck card, the
// icon placeholder, and which file extensions are treated as spreadsheets.
//
// CONFIGURATION SOURCES:
//   1. Built-in defaults (Default): the table every conversion starts from
//   2. Optional override file (--config): YAML (.yaml/.yml) or TOML (.toml)
//
// An override file only needs to name what it changes. A field listed under
// "columns" replaces the built-in alias list for that field; unlisted fields
// keep their defaults.
//
// EXAMPLE (YAML):
//   columns:
//     name: ["Card Name", "Name"]
//   extra_deck_keywords: ["fusion", "synchro"]
//   extensions: [".xlsx", ".xlsm", ".xls", ".csv"]
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ginjaninja78/cardsheet/internal/table"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CANONICAL FIELDS
// =============================================================================

// Canonical field names. These are the logical card attributes the converter
// always outputs, independent of the header text in the source sheet.
const (
	FieldName         = "name"
	FieldAttribute    = "attribute"
	FieldStar         = "star"
	FieldSpellTrap    = "spell_trap"
	FieldIcon         = "icon"
	FieldArtLink      = "art_link"
	FieldTypeAbility  = "type_ability"
	FieldEffect       = "effect"
	FieldATK          = "atk"
	FieldDEF          = "def"
	FieldFinalCardArt = "final_card_art"
	FieldID           = "id"
)

// Fields lists the canonical fields in a stable order.
// Anything that iterates the alias table goes through this slice so output
// (and resolution) never depends on map iteration order.
var Fields = []string{
	FieldName,
	FieldAttribute,
	FieldStar,
	FieldSpellTrap,
	FieldIcon,
	FieldArtLink,
	FieldTypeAbility,
	FieldEffect,
	FieldATK,
	FieldDEF,
	FieldFinalCardArt,
	FieldID,
}

// DefaultIcon is the sentinel written when a card has no icon value.
const DefaultIcon = "NO ICON"

// DefaultJSONIndent is the indentation used in generated documents.
const DefaultJSONIndent = 2

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the conversion settings.
type Config struct {
	// Columns maps a canonical field name to its accepted header aliases,
	// in priority order. The first alias present in a sheet wins.
	Columns map[string][]string `yaml:"columns" toml:"columns"`

	// ExtraDeckKeywords are matched case-insensitively as substrings of the
	// type/ability text. Any hit flags the card as Extra Deck.
	ExtraDeckKeywords []string `yaml:"extra_deck_keywords" toml:"extra_deck_keywords"`

	// DefaultIcon replaces a missing icon cell.
	// Default: "NO ICON"
	DefaultIcon string `yaml:"default_icon" toml:"default_icon"`

	// Extensions are the file extensions picked up by discovery.
	// Compared case-insensitively, each must start with a dot.
	// Default: .xlsx, .xls, .xlsm
	Extensions []string `yaml:"extensions" toml:"extensions"`

	// JSONIndent is the number of spaces per indentation level.
	// Default: 2
	JSONIndent int `yaml:"json_indent" toml:"json_indent"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Columns: map[string][]string{
			FieldName:         {"Name", "name", "Nome"},
			FieldAttribute:    {"Attribute", "attribute", "Attributo"},
			FieldStar:         {"Star", "star", "Stelle", "Level"},
			FieldSpellTrap:    {"Spell/Trap", "spell/trap", "Magia/Trappola"},
			FieldIcon:         {"Icon", "icon", "Icona"},
			FieldArtLink:      {"Art Link", "art_link", "Link Arte", "Image"},
			FieldTypeAbility:  {"Type Ability", "type_ability", "Type", "Tipo Abilità"},
			FieldEffect:       {"Effect", "effect", "Effetto"},
			FieldATK:          {"ATK", "atk", "Attack"},
			FieldDEF:          {"DEF", "def", "Defense"},
			FieldFinalCardArt: {"Final Card Art", "final_card_art", "Final Art", "final_art_link", "Final Card"},
			FieldID:           {"ID", "id", "Id", "Card ID"},
		},
		ExtraDeckKeywords: []string{"equilibrium", "chaos", "synchro", "xyz"},
		DefaultIcon:       DefaultIcon,
		Extensions:        []string{".xlsx", ".xls", ".xlsm"},
		JSONIndent:        DefaultJSONIndent,
	}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads an override file and merges it over the built-in defaults.
//
// PARAMETERS:
//   - path: The override file. The decoder is chosen by extension:
//     .yaml/.yml use YAML, .toml uses TOML. An empty path returns Default().
//
// RETURNS:
//   - The merged, validated configuration.
//   - An error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var override Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &override); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}

	cfg := Default()
	applyOverride(cfg, &override)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyOverride copies every setting present in override onto cfg.
// Extensions are lower-cased so discovery can compare directly.
func applyOverride(cfg, override *Config) {
	for field, aliases := range override.Columns {
		cfg.Columns[field] = aliases
	}
	if override.ExtraDeckKeywords != nil {
		cfg.ExtraDeckKeywords = override.ExtraDeckKeywords
	}
	if override.DefaultIcon != "" {
		cfg.DefaultIcon = override.DefaultIcon
	}
	if override.Extensions != nil {
		exts := make([]string, len(override.Extensions))
		for i, ext := range override.Extensions {
			exts[i] = strings.ToLower(strings.TrimSpace(ext))
		}
		cfg.Extensions = exts
	}
	if override.JSONIndent != 0 {
		cfg.JSONIndent = override.JSONIndent
	}
}

// Validate checks a configuration for settings the converter cannot use.
// It does not mutate the configuration.
func Validate(cfg *Config) error {
	known := make(map[string]bool, len(Fields))
	for _, f := range Fields {
		known[f] = true
	}

	for field, aliases := range cfg.Columns {
		if !known[field] {
			return fmt.Errorf("columns: unknown field %q", field)
		}
		if len(aliases) == 0 {
			return fmt.Errorf("columns: field %q has no aliases", field)
		}
		for _, a := range aliases {
			if strings.TrimSpace(a) == "" {
				return fmt.Errorf("columns: field %q has an empty alias", field)
			}
		}
	}

	for _, kw := range cfg.ExtraDeckKeywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("extra_deck_keywords: empty keyword")
		}
	}

	if len(cfg.Extensions) == 0 {
		return fmt.Errorf("extensions: at least one extension is required")
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("extensions: %q must start with a dot", ext)
		}
		if !table.Supported(ext) {
			return fmt.Errorf("extensions: no reader for %q", ext)
		}
	}

	if cfg.JSONIndent < 0 {
		return fmt.Errorf("json_indent: must not be negative (got %d)", cfg.JSONIndent)
	}

	return nil
}

// Aliases returns the alias list for a canonical field.
func (c *Config) Aliases(field string) []string {
	return c.Columns[field]
}

// AcceptsExtension reports whether a path has one of the configured
// spreadsheet extensions. The comparison ignores case.
func (c *Config) AcceptsExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, accepted := range c.Extensions {
		if ext == accepted {
			return true
		}
	}
	return false
}
