package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Modification is an optional change to a menu item: a price delta plus
// per-ingredient amount deltas (deltas may be negative).
type Modification struct {
	name             string
	priceDelta       decimal.Decimal
	ingredientDeltas map[string]int
}

// NewModification creates a modification. The deltas map is copied.
func NewModification(name string, priceDelta decimal.Decimal, deltas map[string]int) (*Modification, error) {
	if name == "" {
		return nil, fmt.Errorf("modification name is required: %w", ErrInvalidArgument)
	}
	return &Modification{
		name:             name,
		priceDelta:       priceDelta,
		ingredientDeltas: copyAmounts(deltas),
	}, nil
}

func (m *Modification) Name() string                { return m.name }
func (m *Modification) PriceDelta() decimal.Decimal { return m.priceDelta }

// IngredientDeltas returns a copy of the per-ingredient deltas.
func (m *Modification) IngredientDeltas() map[string]int {
	return copyAmounts(m.ingredientDeltas)
}

// MenuItem is a catalog entry. It is not mutated once the menu is loaded.
type MenuItem struct {
	name          string
	price         decimal.Decimal
	requirements  map[string]int
	modifications map[string]*Modification
}

// NewMenuItem creates a menu item. The requirements map is copied.
func NewMenuItem(name string, price decimal.Decimal, requirements map[string]int) (*MenuItem, error) {
	if name == "" {
		return nil, fmt.Errorf("menu item name is required: %w", ErrInvalidArgument)
	}
	return &MenuItem{
		name:          name,
		price:         price,
		requirements:  copyAmounts(requirements),
		modifications: make(map[string]*Modification),
	}, nil
}

func (i *MenuItem) Name() string           { return i.name }
func (i *MenuItem) Price() decimal.Decimal { return i.price }

// Requirements returns a copy of the ingredient amounts one serving needs.
func (i *MenuItem) Requirements() map[string]int {
	return copyAmounts(i.requirements)
}

// AddModification registers a modification under its name.
func (i *MenuItem) AddModification(mod *Modification) error {
	if _, exists := i.modifications[mod.Name()]; exists {
		return fmt.Errorf("modification %q on %q: %w", mod.Name(), i.name, ErrDuplicateKey)
	}
	i.modifications[mod.Name()] = mod
	return nil
}

// Modification looks up a modification offered for this item.
func (i *MenuItem) Modification(name string) (*Modification, bool) {
	mod, ok := i.modifications[name]
	return mod, ok
}

// Modifications returns the item's modifications ordered by name.
func (i *MenuItem) Modifications() []*Modification {
	mods := make([]*Modification, 0, len(i.modifications))
	for _, mod := range i.modifications {
		mods = append(mods, mod)
	}
	sort.Slice(mods, func(a, b int) bool { return mods[a].name < mods[b].name })
	return mods
}

// Menu is the restaurant's catalog of items keyed by name.
type Menu struct {
	items map[string]*MenuItem
}

func NewMenu() *Menu {
	return &Menu{items: make(map[string]*MenuItem)}
}

func (m *Menu) add(item *MenuItem) error {
	if _, exists := m.items[item.Name()]; exists {
		return fmt.Errorf("menu item %q: %w", item.Name(), ErrDuplicateKey)
	}
	m.items[item.Name()] = item
	return nil
}

// Item looks up a menu item by name.
func (m *Menu) Item(name string) (*MenuItem, bool) {
	item, ok := m.items[name]
	return item, ok
}

// Items returns every menu item ordered by name.
func (m *Menu) Items() []*MenuItem {
	items := make([]*MenuItem, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, item)
	}
	sort.Slice(items, func(a, b int) bool { return items[a].name < items[b].name })
	return items
}

func copyAmounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
