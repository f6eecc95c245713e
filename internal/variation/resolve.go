// Package variation resolves a partial attribute selection to the price and
// stock of a product variation.
package variation

import "github.com/fairyhunter13/cryzo-storefront/internal/model"

// Level reports how loosely a resolution matched.
type Level int

const (
	// LevelBase means the product has no variations and base values were used.
	LevelBase Level = iota
	// LevelExact matched storage, grade, color and origin.
	LevelExact
	// LevelNoGrade matched storage, color and origin.
	LevelNoGrade
	// LevelStorageOrigin matched storage and origin.
	LevelStorageOrigin
	// LevelOrigin matched origin only.
	LevelOrigin
	// LevelFirst fell back to the first variation in list order.
	LevelFirst
)

func (l Level) String() string {
	switch l {
	case LevelBase:
		return "base"
	case LevelExact:
		return "exact"
	case LevelNoGrade:
		return "no_grade"
	case LevelStorageOrigin:
		return "storage_origin"
	case LevelOrigin:
		return "origin"
	case LevelFirst:
		return "first"
	default:
		return "unknown"
	}
}

// Resolved is the outcome of a resolution.
type Resolved struct {
	Price     float64          `json:"price"`
	Stock     int64            `json:"stock"`
	Level     Level            `json:"-"`
	Variation *model.Variation `json:"variation,omitempty"`
}

type fields struct {
	storage, grade, color, origin bool
}

// relaxation holds the fixed precedence: grade goes first, then color, then
// storage. Origin is kept until the last level.
var relaxation = []struct {
	level Level
	keep  fields
}{
	{LevelExact, fields{storage: true, grade: true, color: true, origin: true}},
	{LevelNoGrade, fields{storage: true, color: true, origin: true}},
	{LevelStorageOrigin, fields{storage: true, origin: true}},
	{LevelOrigin, fields{origin: true}},
}

func eq(want, got string) bool {
	return want == "" || want == got
}

func matches(v model.Variation, sel model.Selection, f fields) bool {
	if f.storage && !eq(sel.Storage, v.Storage) {
		return false
	}
	if f.grade && !eq(sel.Grade, v.Grade) {
		return false
	}
	if f.color && !eq(sel.Color, v.Color) {
		return false
	}
	if f.origin && !eq(sel.Origin, v.Origin) {
		return false
	}
	return true
}

// Resolve returns the price and stock for sel. A product without variations
// resolves to its base price and stock. Otherwise the first variation matching
// at the strictest level wins; when nothing matches, the first variation is
// used so a price is always available.
func Resolve(p model.Product, sel model.Selection) Resolved {
	if len(p.Variations) == 0 {
		return Resolved{Price: p.PriceUSD, Stock: p.Stock, Level: LevelBase}
	}
	for _, r := range relaxation {
		for i := range p.Variations {
			if matches(p.Variations[i], sel, r.keep) {
				v := p.Variations[i]
				return Resolved{Price: v.Price, Stock: v.Stock, Level: r.level, Variation: &v}
			}
		}
	}
	v := p.Variations[0]
	return Resolved{Price: v.Price, Stock: v.Stock, Level: LevelFirst, Variation: &v}
}

// DefaultColor is preselected when neither the product nor its first
// variation names a color.
const DefaultColor = "Black"

// DefaultSelection is the selection a product card opens with: storage from
// the base product, the rest from the first variation.
func DefaultSelection(p model.Product) model.Selection {
	sel := model.Selection{Storage: p.Storage, Grade: p.Grade, Color: p.Color, Origin: p.Origin}
	if sel.Color == "" {
		sel.Color = DefaultColor
	}
	if len(p.Variations) == 0 {
		return sel
	}
	first := p.Variations[0]
	if first.Grade != "" {
		sel.Grade = first.Grade
	}
	if first.Color != "" {
		sel.Color = first.Color
	}
	if first.Origin != "" {
		sel.Origin = first.Origin
	}
	return sel
}

// Merge overlays the non-empty fields of override onto base.
func Merge(base, override model.Selection) model.Selection {
	if override.Storage != "" {
		base.Storage = override.Storage
	}
	if override.Grade != "" {
		base.Grade = override.Grade
	}
	if override.Color != "" {
		base.Color = override.Color
	}
	if override.Origin != "" {
		base.Origin = override.Origin
	}
	return base
}
