package domain

import "github.com/shopspring/decimal"

// surcharge is applied to every bill subtotal (12% tax).
var surcharge = decimal.RequireFromString("1.12")

// Table owns the dishes it has received and not yet paid for.
type Table struct {
	number   int
	received []*Dish
	subtotal decimal.Decimal
}

func newTable(number int) *Table {
	return &Table{number: number, subtotal: decimal.Zero}
}

func (t *Table) Number() int { return t.number }

// Subtotal is the sum of prices of received, unpaid dishes.
func (t *Table) Subtotal() decimal.Decimal { return t.subtotal }

// Received returns the dishes delivered to this table since the last payment.
func (t *Table) Received() []*Dish {
	return append([]*Dish(nil), t.received...)
}

// TableSnapshot is a read-only copy of a table's unpaid state.
type TableSnapshot struct {
	Number   int
	Dishes   []*Dish
	Subtotal decimal.Decimal
}

func (t *Table) Snapshot() TableSnapshot {
	return TableSnapshot{Number: t.number, Dishes: t.Received(), Subtotal: t.subtotal}
}

func (t *Table) receive(d *Dish) {
	t.received = append(t.received, d)
	t.subtotal = t.subtotal.Add(d.Price())
}

func (t *Table) pay() Bill {
	bill := NewBill(t.number, t.received, t.subtotal)
	t.received = nil
	t.subtotal = decimal.Zero
	return bill
}

// Bill is the settlement of a table.
type Bill struct {
	Table    int
	Dishes   []*Dish
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}

// NewBill computes the total as the subtotal plus surcharge, rounded half to
// even at two decimal places.
func NewBill(table int, dishes []*Dish, subtotal decimal.Decimal) Bill {
	return Bill{
		Table:    table,
		Dishes:   append([]*Dish(nil), dishes...),
		Subtotal: subtotal,
		Total:    subtotal.Mul(surcharge).RoundBank(2),
	}
}
