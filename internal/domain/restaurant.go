package domain

import (
	"fmt"
	"sort"
	"sync"
)

// Restaurant is the aggregate root and the only writer of order, table and
// inventory state. Each exported operation is applied under one lock, and the
// events it records are collected with Drain.
type Restaurant struct {
	mu        sync.Mutex
	menu      *Menu
	inventory *Inventory
	tables    []*Table
	staff     *staff
	unseen    map[*Dish]struct{}
	ready     map[*Order]struct{}
	orders    map[*Order]OrderStatus
	pending   []Event
}

// NewRestaurant creates a restaurant with tables numbered 1..numTables.
func NewRestaurant(numTables int) (*Restaurant, error) {
	if numTables < 0 {
		return nil, fmt.Errorf("table count %d: %w", numTables, ErrInvalidArgument)
	}
	r := &Restaurant{
		menu:      NewMenu(),
		inventory: NewInventory(),
		tables:    make([]*Table, numTables),
		staff:     newStaff(),
		unseen:    make(map[*Dish]struct{}),
		ready:     make(map[*Order]struct{}),
		orders:    make(map[*Order]OrderStatus),
	}
	for i := range r.tables {
		r.tables[i] = newTable(i + 1)
	}
	r.inventory.OnRestock(func(ev RestockNeeded) { r.record(ev) })
	return r, nil
}

func (r *Restaurant) record(ev Event) {
	r.pending = append(r.pending, ev)
}

// Drain returns and clears the events recorded since the last call.
func (r *Restaurant) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.pending
	r.pending = nil
	return events
}

// Hire registers an employee name under a role.
func (r *Restaurant) Hire(role Role, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.staff.hire(role, name)
}

// HasStaff reports whether name is registered under role.
func (r *Restaurant) HasStaff(role Role, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.staff.has(role, name)
}

// Cook looks up a registered cook.
func (r *Restaurant) Cook(name string) (*Cook, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cook, ok := r.staff.cooks[name]
	return cook, ok
}

// AddIngredient registers an ingredient in the ledger.
func (r *Restaurant) AddIngredient(name string, threshold, starting int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inventory.Register(name, threshold, starting)
}

// AddMenuItem adds an item to the menu. Every ingredient the item or its
// modifications mention must already be in the ledger.
func (r *Restaurant) AddMenuItem(item *MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ingredient := range item.requirements {
		if !r.inventory.Has(ingredient) {
			return fmt.Errorf("menu item %q ingredient %q: %w", item.Name(), ingredient, ErrNotFound)
		}
	}
	for _, mod := range item.modifications {
		for ingredient := range mod.ingredientDeltas {
			if !r.inventory.Has(ingredient) {
				return fmt.Errorf("modification %q ingredient %q: %w", mod.Name(), ingredient, ErrNotFound)
			}
		}
	}
	return r.menu.add(item)
}

// Menu returns the catalog. It is only read once loading is done.
func (r *Restaurant) Menu() *Menu { return r.menu }

// Table looks up a table by number.
func (r *Restaurant) Table(number int) (*Table, bool) {
	if number < 1 || number > len(r.tables) {
		return nil, false
	}
	return r.tables[number-1], true
}

// NumTables returns how many tables the restaurant has.
func (r *Restaurant) NumTables() int { return len(r.tables) }

func (r *Restaurant) ownsTable(t *Table) bool {
	owned, ok := r.Table(t.Number())
	return ok && owned == t
}

// Amount returns the current amount of an ingredient.
func (r *Restaurant) Amount(ingredient string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inventory.Amount(ingredient)
}

// Threshold returns the restock threshold of an ingredient.
func (r *Restaurant) Threshold(ingredient string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inventory.Threshold(ingredient)
}

// HasIngredient reports whether the ledger tracks the ingredient.
func (r *Restaurant) HasIngredient(ingredient string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inventory.Has(ingredient)
}

// InventorySnapshot returns a copy of every ledger entry.
func (r *Restaurant) InventorySnapshot() []IngredientLevel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inventory.Snapshot()
}

// OrderStatus returns the lifecycle status of a placed order.
func (r *Restaurant) OrderStatus(o *Order) (OrderStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status, ok := r.orders[o]
	return status, ok
}

// DishStatus returns where a dish is in the kitchen. Dishes of an order that
// was never placed are unseen.
func (r *Restaurant) DishStatus(d *Dish) DishStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case d.filled:
		return DishStatusPrepared
	case r.requirePlaced(d) != nil, r.isUnseen(d):
		return DishStatusUnseen
	default:
		return DishStatusSeen
	}
}

func (r *Restaurant) isUnseen(d *Dish) bool {
	_, ok := r.unseen[d]
	return ok
}

// UnseenDishes returns dishes still waiting for a cook, ordered by dish id.
func (r *Restaurant) UnseenDishes() []*Dish {
	r.mu.Lock()
	defer r.mu.Unlock()
	dishes := make([]*Dish, 0, len(r.unseen))
	for d := range r.unseen {
		dishes = append(dishes, d)
	}
	sort.Slice(dishes, func(a, b int) bool { return dishes[a].id < dishes[b].id })
	return dishes
}

// ReadyOrders returns the orders awaiting delivery.
func (r *Restaurant) ReadyOrders() []*Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders := make([]*Order, 0, len(r.ready))
	for o := range r.ready {
		orders = append(orders, o)
	}
	return orders
}

// PlaceOrder submits an order to the kitchen. Its dishes become unseen and
// its composition is closed.
func (r *Restaurant) PlaceOrder(server string, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.staff.require(RoleServer, server); err != nil {
		return err
	}
	if o.table == nil || !r.ownsTable(o.table) {
		return fmt.Errorf("order table: %w", ErrNotFound)
	}
	if _, exists := r.orders[o]; exists {
		return fmt.Errorf("order already placed: %w", ErrDuplicateKey)
	}
	o.placed = true
	r.orders[o] = StatusPlaced
	for _, d := range o.dishes {
		r.unseen[d] = struct{}{}
	}
	r.record(OrderPlaced{Server: server, Order: o})
	if o.IsFilled() {
		r.markReady(o)
	}
	return nil
}

// SeeDish claims one dish for a cook.
func (r *Restaurant) SeeDish(cook *Cook, d *Dish) error {
	return r.SeeDishes(cook, []*Dish{d})
}

// SeeDishes claims dishes for a cook. Nothing changes unless every dish can
// be claimed.
func (r *Restaurant) SeeDishes(cook *Cook, dishes []*Dish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireCook(cook); err != nil {
		return err
	}
	for _, d := range dishes {
		if err := r.requirePlaced(d); err != nil {
			return err
		}
		if d.filled {
			return fmt.Errorf("see dish %d already prepared: %w", d.id, ErrInvalidTransition)
		}
	}
	for _, d := range dishes {
		delete(r.unseen, d)
		cook.making[d] = struct{}{}
		r.record(DishSeen{Cook: cook.name, Dish: d})
	}
	return nil
}

// PrepareDish completes one dish the cook has seen.
func (r *Restaurant) PrepareDish(cook *Cook, d *Dish) error {
	return r.PrepareDishes(cook, []*Dish{d})
}

// PrepareDishes completes dishes the cook has seen, consuming their
// ingredients. Availability of every ingredient across all dishes is checked
// before anything is subtracted, so a failure leaves the ledger, the dishes
// and the cook untouched.
func (r *Restaurant) PrepareDishes(cook *Cook, dishes []*Dish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireCook(cook); err != nil {
		return err
	}
	total := make(map[string]int)
	seen := make(map[*Dish]struct{}, len(dishes))
	for _, d := range dishes {
		if _, dup := seen[d]; dup {
			return fmt.Errorf("dish %d listed twice: %w", d.id, ErrDuplicateKey)
		}
		seen[d] = struct{}{}
		if !cook.Holds(d) {
			return fmt.Errorf("cook %q dish %d: %w", cook.name, d.id, ErrNotSeenByCook)
		}
		if d.filled {
			return fmt.Errorf("prepare dish %d twice: %w", d.id, ErrInvalidTransition)
		}
		for ingredient, amount := range d.requirements {
			if amount > 0 {
				total[ingredient] += amount
			}
		}
	}
	if err := r.inventory.ensureAvailable(total); err != nil {
		return err
	}
	for _, d := range dishes {
		for _, ingredient := range sortedKeys(d.requirements) {
			amount := d.requirements[ingredient]
			if amount <= 0 {
				continue
			}
			if _, err := r.inventory.Subtract(ingredient, amount); err != nil {
				return err
			}
		}
		// блюдо готово: снимаем его со всех поваров
		for _, c := range r.staff.cooks {
			delete(c.making, d)
		}
		d.fill()
		r.record(DishPrepared{Cook: cook.name, Dish: d})
		if r.orders[d.order] == StatusPlaced && d.order.IsFilled() {
			r.markReady(d.order)
		}
	}
	return nil
}

func (r *Restaurant) markReady(o *Order) {
	r.orders[o] = StatusReady
	r.ready[o] = struct{}{}
	r.record(OrderReady{Order: o})
}

// DeliverOrder hands a ready order to its table. Rejected dishes are dropped;
// the rest are added to the table's bill.
func (r *Restaurant) DeliverOrder(server string, o *Order, rejected []*Dish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.staff.require(RoleServer, server); err != nil {
		return err
	}
	if err := r.transition(o, StatusDelivered); err != nil {
		return err
	}
	skip := make(map[*Dish]struct{}, len(rejected))
	for _, d := range rejected {
		if d.order != o {
			return fmt.Errorf("rejected dish %d is not in the order: %w", d.id, ErrNotFound)
		}
		if _, dup := skip[d]; dup {
			return fmt.Errorf("rejected dish %d: %w", d.id, ErrDuplicateKey)
		}
		skip[d] = struct{}{}
	}
	var delivered []*Dish
	for _, d := range o.Dishes() {
		if _, no := skip[d]; no {
			continue
		}
		o.table.receive(d)
		delivered = append(delivered, d)
	}
	delete(r.ready, o)
	r.orders[o] = StatusDelivered
	r.record(OrderDelivered{Server: server, Order: o, Delivered: delivered, Rejected: append([]*Dish(nil), rejected...)})
	return nil
}

// PayForDishes settles a table and clears its bill.
func (r *Restaurant) PayForDishes(table int) (Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.Table(table)
	if !ok {
		return Bill{}, fmt.Errorf("table %d: %w", table, ErrNotFound)
	}
	bill := t.pay()
	for o, status := range r.orders {
		if o.table == t && status == StatusDelivered {
			r.orders[o] = StatusPaid
		}
	}
	r.record(BillPaid{Bill: bill})
	return bill, nil
}

// CheckInventory lets a manager read the ledger.
func (r *Restaurant) CheckInventory(manager string) ([]IngredientLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.staff.require(RoleManager, manager); err != nil {
		return nil, err
	}
	levels := r.inventory.Snapshot()
	r.record(InventoryChecked{Manager: manager, Levels: levels})
	return levels, nil
}

// ReceiveIngredients adds a delivery to the ledger.
func (r *Restaurant) ReceiveIngredients(receiver, ingredient string, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.staff.require(RoleReceiver, receiver); err != nil {
		return err
	}
	if err := r.inventory.Add(ingredient, amount); err != nil {
		return err
	}
	r.record(IngredientsReceived{Receiver: receiver, Ingredient: ingredient, Amount: amount})
	return nil
}

func (r *Restaurant) requireCook(cook *Cook) error {
	if cook == nil || r.staff.cooks[cook.name] != cook {
		return fmt.Errorf("cook: %w", ErrNotFound)
	}
	return nil
}

func (r *Restaurant) requirePlaced(d *Dish) error {
	if d.order == nil {
		return fmt.Errorf("dish %d has no order: %w", d.id, ErrInvalidTransition)
	}
	if _, ok := r.orders[d.order]; !ok {
		return fmt.Errorf("dish %d order not placed: %w", d.id, ErrInvalidTransition)
	}
	return nil
}

func (r *Restaurant) transition(o *Order, to OrderStatus) error {
	from, ok := r.orders[o]
	if !ok {
		return fmt.Errorf("order not placed: %w", ErrNotFound)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("order %s -> %s: %w", from, to, ErrInvalidTransition)
	}
	return nil
}
