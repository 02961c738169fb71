package document

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/matzehuels/anchorlayout/pkg/measure"
)

// Format names.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// ErrDuplicateID is returned when two entries of a document share an ID.
var ErrDuplicateID = errors.New("duplicate widget ID")

// ParentID is the connection target alias for the container.
const ParentID = "parent"

// Document is the serialized form of one container.
type Document struct {
	ID         string `json:"id" toml:"id"`
	Width      int    `json:"width,omitempty" toml:"width,omitempty"`
	Height     int    `json:"height,omitempty" toml:"height,omitempty"`
	Horizontal string `json:"horizontal,omitempty" toml:"horizontal,omitempty"`
	Vertical   string `json:"vertical,omitempty" toml:"vertical,omitempty"`
	MinWidth   int    `json:"min_width,omitempty" toml:"min_width,omitempty"`
	MaxWidth   int    `json:"max_width,omitempty" toml:"max_width,omitempty"`
	MinHeight  int    `json:"min_height,omitempty" toml:"min_height,omitempty"`
	MaxHeight  int    `json:"max_height,omitempty" toml:"max_height,omitempty"`

	Widgets    []Widget                `json:"widgets,omitempty" toml:"widget,omitempty"`
	Guidelines []Guideline             `json:"guidelines,omitempty" toml:"guideline,omitempty"`
	Barriers   []Barrier               `json:"barriers,omitempty" toml:"barrier,omitempty"`
	Measure    map[string]measure.Size `json:"measure,omitempty" toml:"measure,omitempty"`
}

// Widget is one regular child.
type Widget struct {
	ID     string `json:"id" toml:"id"`
	Width  int    `json:"width,omitempty" toml:"width,omitempty"`
	Height int    `json:"height,omitempty" toml:"height,omitempty"`

	// Horizontal and Vertical are dimension behaviours: "fixed", "wrap",
	// "match_constraint" or "match_parent".
	Horizontal string `json:"horizontal,omitempty" toml:"horizontal,omitempty"`
	Vertical   string `json:"vertical,omitempty" toml:"vertical,omitempty"`

	MinWidth  int `json:"min_width,omitempty" toml:"min_width,omitempty"`
	MaxWidth  int `json:"max_width,omitempty" toml:"max_width,omitempty"`
	MinHeight int `json:"min_height,omitempty" toml:"min_height,omitempty"`
	MaxHeight int `json:"max_height,omitempty" toml:"max_height,omitempty"`

	// MatchHorizontal and MatchVertical refine match_constraint axes:
	// "spread", "wrap", "percent" or "ratio".
	MatchHorizontal string   `json:"match_horizontal,omitempty" toml:"match_horizontal,omitempty"`
	MatchVertical   string   `json:"match_vertical,omitempty" toml:"match_vertical,omitempty"`
	PercentWidth    *float64 `json:"percent_width,omitempty" toml:"percent_width,omitempty"`
	PercentHeight   *float64 `json:"percent_height,omitempty" toml:"percent_height,omitempty"`
	MatchMinWidth   int      `json:"match_min_width,omitempty" toml:"match_min_width,omitempty"`
	MatchMaxWidth   int      `json:"match_max_width,omitempty" toml:"match_max_width,omitempty"`
	MatchMinHeight  int      `json:"match_min_height,omitempty" toml:"match_min_height,omitempty"`
	MatchMaxHeight  int      `json:"match_max_height,omitempty" toml:"match_max_height,omitempty"`

	// Ratio is "w:h" or a number, optionally prefixed "W," or "H," to name
	// the side derived from the other.
	Ratio string `json:"ratio,omitempty" toml:"ratio,omitempty"`

	HorizontalBias       *float64 `json:"horizontal_bias,omitempty" toml:"horizontal_bias,omitempty"`
	VerticalBias         *float64 `json:"vertical_bias,omitempty" toml:"vertical_bias,omitempty"`
	HorizontalChainStyle string   `json:"horizontal_chain_style,omitempty" toml:"horizontal_chain_style,omitempty"`
	VerticalChainStyle   string   `json:"vertical_chain_style,omitempty" toml:"vertical_chain_style,omitempty"`
	HorizontalWeight     *float64 `json:"horizontal_weight,omitempty" toml:"horizontal_weight,omitempty"`
	VerticalWeight       *float64 `json:"vertical_weight,omitempty" toml:"vertical_weight,omitempty"`

	Visibility string `json:"visibility,omitempty" toml:"visibility,omitempty"`

	// Baseline is the distance from the top edge to the text baseline.
	Baseline *int `json:"baseline,omitempty" toml:"baseline,omitempty"`

	Connect []Connection `json:"connect,omitempty" toml:"connect,omitempty"`
}

// Connection attaches one anchor of a widget to "target.anchor".
type Connection struct {
	From       string `json:"from" toml:"from"`
	To         string `json:"to" toml:"to"`
	Margin     int    `json:"margin,omitempty" toml:"margin,omitempty"`
	GoneMargin *int   `json:"gone_margin,omitempty" toml:"gone_margin,omitempty"`
}

// Guideline is a helper line. Exactly one of Begin, End or Percent is set.
type Guideline struct {
	ID          string   `json:"id" toml:"id"`
	Orientation string   `json:"orientation" toml:"orientation"`
	Begin       *int     `json:"begin,omitempty" toml:"begin,omitempty"`
	End         *int     `json:"end,omitempty" toml:"end,omitempty"`
	Percent     *float64 `json:"percent,omitempty" toml:"percent,omitempty"`
}

// Barrier follows the extreme side of its referenced widgets.
type Barrier struct {
	ID         string   `json:"id" toml:"id"`
	Side       string   `json:"side" toml:"side"`
	Margin     int      `json:"margin,omitempty" toml:"margin,omitempty"`
	Refs       []string `json:"refs" toml:"refs"`
	AllowsGone bool     `json:"allows_gone,omitempty" toml:"allows_gone,omitempty"`
}

// FormatFromPath infers the document format from a file extension.
// Unknown extensions default to TOML.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}
