package domain

import (
	"fmt"
	"sort"
)

// IngredientLevel is a read-only copy of one ledger entry.
type IngredientLevel struct {
	Name      string
	Threshold int
	Amount    int
}

type stockEntry struct {
	threshold int
	amount    int
}

// Inventory is the ingredient ledger. Amounts only change through Add and
// Subtract and never go negative.
type Inventory struct {
	entries   map[string]*stockEntry
	onRestock func(RestockNeeded)
}

func NewInventory() *Inventory {
	return &Inventory{entries: make(map[string]*stockEntry)}
}

// OnRestock sets the function called whenever an ingredient needs restocking.
func (inv *Inventory) OnRestock(fn func(RestockNeeded)) {
	inv.onRestock = fn
}

// Register adds a new ingredient. Starting below the threshold raises an
// initial restock signal.
func (inv *Inventory) Register(name string, threshold, starting int) error {
	if name == "" {
		return fmt.Errorf("ingredient name is required: %w", ErrInvalidArgument)
	}
	if threshold < 0 || starting < 0 {
		return fmt.Errorf("ingredient %q threshold %d starting %d: %w", name, threshold, starting, ErrInvalidArgument)
	}
	if _, exists := inv.entries[name]; exists {
		return fmt.Errorf("ingredient %q: %w", name, ErrDuplicateKey)
	}
	inv.entries[name] = &stockEntry{threshold: threshold, amount: starting}
	if starting < threshold {
		inv.signal(RestockNeeded{Ingredient: name, Threshold: threshold, Amount: starting, Initial: true})
	}
	return nil
}

// Has reports whether the ingredient is tracked.
func (inv *Inventory) Has(name string) bool {
	_, ok := inv.entries[name]
	return ok
}

func (inv *Inventory) entry(name string) (*stockEntry, error) {
	e, ok := inv.entries[name]
	if !ok {
		return nil, fmt.Errorf("ingredient %q: %w", name, ErrNotFound)
	}
	return e, nil
}

// Add increases the current amount. Adding never raises a restock signal.
func (inv *Inventory) Add(name string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("add %d of %q: %w", amount, name, ErrInvalidArgument)
	}
	e, err := inv.entry(name)
	if err != nil {
		return err
	}
	e.amount += amount
	return nil
}

// Subtract decreases the current amount. It returns false without mutating
// anything when less than amount is available. Crossing from at-or-above the
// threshold to below it raises exactly one restock signal.
func (inv *Inventory) Subtract(name string, amount int) (bool, error) {
	if amount < 0 {
		return false, fmt.Errorf("subtract %d of %q: %w", amount, name, ErrInvalidArgument)
	}
	e, err := inv.entry(name)
	if err != nil {
		return false, err
	}
	if e.amount < amount {
		return false, nil
	}
	before := e.amount
	e.amount -= amount
	if before >= e.threshold && e.amount < e.threshold {
		inv.signal(RestockNeeded{Ingredient: name, Threshold: e.threshold, Amount: e.amount})
	}
	return true, nil
}

// Amount returns the current amount of an ingredient.
func (inv *Inventory) Amount(name string) (int, error) {
	e, err := inv.entry(name)
	if err != nil {
		return 0, err
	}
	return e.amount, nil
}

// Threshold returns the restock trigger point of an ingredient.
func (inv *Inventory) Threshold(name string) (int, error) {
	e, err := inv.entry(name)
	if err != nil {
		return 0, err
	}
	return e.threshold, nil
}

// Snapshot returns every ledger entry ordered by ingredient name.
func (inv *Inventory) Snapshot() []IngredientLevel {
	levels := make([]IngredientLevel, 0, len(inv.entries))
	for name, e := range inv.entries {
		levels = append(levels, IngredientLevel{Name: name, Threshold: e.threshold, Amount: e.amount})
	}
	sort.Slice(levels, func(a, b int) bool { return levels[a].Name < levels[b].Name })
	return levels
}

// ensureAvailable checks that every positive requirement can be subtracted.
func (inv *Inventory) ensureAvailable(requirements map[string]int) error {
	for _, name := range sortedKeys(requirements) {
		need := requirements[name]
		e, err := inv.entry(name)
		if err != nil {
			return err
		}
		if need > 0 && e.amount < need {
			return fmt.Errorf("need %d of %q, have %d: %w", need, name, e.amount, ErrInsufficientIngredient)
		}
	}
	return nil
}

func (inv *Inventory) signal(ev RestockNeeded) {
	if inv.onRestock != nil {
		inv.onRestock(ev)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
