package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Dish is one ordered serving of a menu item within an order.
type Dish struct {
	id           int
	order        *Order
	item         *MenuItem
	mods         []*Modification
	price        decimal.Decimal
	requirements map[string]int
	filled       bool
}

// NewDish creates a dish with its own copy of the item's requirements, so
// modifications never touch the catalog.
func NewDish(id int, item *MenuItem) *Dish {
	return &Dish{
		id:           id,
		item:         item,
		price:        item.Price(),
		requirements: item.Requirements(),
	}
}

func (d *Dish) ID() int                { return d.id }
func (d *Dish) Item() *MenuItem        { return d.item }
func (d *Dish) Order() *Order          { return d.order }
func (d *Dish) Price() decimal.Decimal { return d.price }
func (d *Dish) IsFilled() bool         { return d.filled }

// Modifications returns the applied modifications in the order they were added.
func (d *Dish) Modifications() []*Modification {
	return append([]*Modification(nil), d.mods...)
}

// Requirements returns a copy of the dish's resolved ingredient amounts.
// Entries may be negative when a modification removes more than the base.
func (d *Dish) Requirements() map[string]int {
	return copyAmounts(d.requirements)
}

// AddModification applies one of the item's modifications to this dish.
func (d *Dish) AddModification(mod *Modification) error {
	if d.order != nil && d.order.placed {
		return fmt.Errorf("modify dish %d after placement: %w", d.id, ErrInvalidTransition)
	}
	if offered, ok := d.item.Modification(mod.Name()); !ok || offered != mod {
		return fmt.Errorf("modification %q for %q: %w", mod.Name(), d.item.Name(), ErrNotFound)
	}
	for _, applied := range d.mods {
		if applied.Name() == mod.Name() {
			return fmt.Errorf("modification %q on dish %d: %w", mod.Name(), d.id, ErrDuplicateKey)
		}
	}
	d.mods = append(d.mods, mod)
	d.price = d.price.Add(mod.PriceDelta())
	for ingredient, delta := range mod.ingredientDeltas {
		d.requirements[ingredient] += delta
	}
	return nil
}

func (d *Dish) fill() {
	d.filled = true
}

// Order groups the dishes requested for one table. Its composition is closed
// once it has been placed.
type Order struct {
	table  *Table
	dishes map[int]*Dish
	placed bool
}

func NewOrder(table *Table) *Order {
	return &Order{
		table:  table,
		dishes: make(map[int]*Dish),
	}
}

func (o *Order) Table() *Table { return o.table }

// AddDish adds a dish under its id.
func (o *Order) AddDish(d *Dish) error {
	if o.placed {
		return fmt.Errorf("add dish %d after placement: %w", d.ID(), ErrInvalidTransition)
	}
	if d.order != nil {
		return fmt.Errorf("dish %d already belongs to an order: %w", d.ID(), ErrInvalidArgument)
	}
	if _, exists := o.dishes[d.ID()]; exists {
		return fmt.Errorf("dish %d: %w", d.ID(), ErrDuplicateKey)
	}
	o.dishes[d.ID()] = d
	d.order = o
	return nil
}

// Dish looks up a dish by id.
func (o *Order) Dish(id int) (*Dish, bool) {
	d, ok := o.dishes[id]
	return d, ok
}

// Dishes returns the order's dishes ordered by id.
func (o *Order) Dishes() []*Dish {
	dishes := make([]*Dish, 0, len(o.dishes))
	for _, d := range o.dishes {
		dishes = append(dishes, d)
	}
	sort.Slice(dishes, func(a, b int) bool { return dishes[a].id < dishes[b].id })
	return dishes
}

// IsFilled reports whether every dish is filled. An empty order is filled.
func (o *Order) IsFilled() bool {
	for _, d := range o.dishes {
		if !d.filled {
			return false
		}
	}
	return true
}
