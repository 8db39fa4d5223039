// Package console renders domain events as the operator-facing text log.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/YelzhanWeb/restaurant/internal/domain"
)

const dateLayout = "Mon Jan 02 15:04:05 MST 2006"

var billRule = strings.Repeat("*", 83)

// Reporter writes one message per domain event.
type Reporter struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w, now: time.Now}
}

// Handle implements interfaces.EventHandler.
func (r *Reporter) Handle(_ context.Context, ev domain.Event) error {
	var b strings.Builder
	switch e := ev.(type) {
	case domain.OrderPlaced:
		fmt.Fprintf(&b, "Order for table %d has been placed by Server: %s\n", e.Order.Table().Number(), e.Server)
		writeDishes(&b, e.Order.Dishes())
	case domain.DishSeen:
		fmt.Fprintf(&b, "%s placed by table %d has been seen by Cook: %s\n\n",
			e.Dish.Item().Name(), e.Dish.Order().Table().Number(), e.Cook)
	case domain.DishPrepared:
		fmt.Fprintf(&b, "%s for table %d has been prepared by Cook: %s",
			e.Dish.Item().Name(), e.Dish.Order().Table().Number(), e.Cook)
		if mods := e.Dish.Modifications(); len(mods) > 0 {
			b.WriteString(" with\n")
			for _, m := range mods {
				fmt.Fprintf(&b, "\t- %s\t", m.Name())
			}
		}
		b.WriteString("\n\n")
	case domain.OrderDelivered:
		fmt.Fprintf(&b, "Order has been delivered to table : %d by %s\n", e.Order.Table().Number(), e.Server)
		writeDishes(&b, e.Order.Dishes())
		if len(e.Rejected) > 0 {
			b.WriteString("Rejected:\n")
			for _, d := range e.Rejected {
				fmt.Fprintf(&b, "%s\n", d.Item().Name())
			}
			b.WriteString("\n")
		}
	case domain.BillPaid:
		r.writeBill(&b, e.Bill)
	case domain.InventoryChecked:
		b.WriteString("INVENTORY\n")
		for _, level := range e.Levels {
			fmt.Fprintf(&b, "Item: %s\nThreshold: %d\nCurrent amount: %d\n", level.Name, level.Threshold, level.Amount)
		}
		b.WriteString("\n")
	case domain.IngredientsReceived:
		fmt.Fprintf(&b, "%d units of %s has been received by %s\n\n", e.Amount, e.Ingredient, e.Receiver)
	default:
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := io.WriteString(r.w, b.String())
	return err
}

func writeDishes(b *strings.Builder, dishes []*domain.Dish) {
	b.WriteString("Dishes:\n")
	for _, d := range dishes {
		b.WriteString(d.Item().Name())
		b.WriteString("\t")
		for _, m := range d.Modifications() {
			fmt.Fprintf(b, "\t- %s\t", m.Name())
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (r *Reporter) writeBill(b *strings.Builder, bill domain.Bill) {
	b.WriteString("HERE IS YOUR BILL\n\n")
	fmt.Fprintf(b, "Table No: %d\n", bill.Table)
	fmt.Fprintf(b, "DATE: %s\n\n", r.now().Format(dateLayout))
	b.WriteString("Dishes:\n")
	for _, d := range bill.Dishes {
		fmt.Fprintf(b, "%s\t%s\n", d.Item().Name(), d.Item().Price().StringFixedBank(2))
		for _, m := range d.Modifications() {
			fmt.Fprintf(b, "\t- %s\t%s\n", m.Name(), m.PriceDelta().StringFixedBank(2))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "Sub-Total: \t%s\n", bill.Subtotal.StringFixedBank(2))
	fmt.Fprintf(b, "Total: \t%s\n", bill.Total.StringFixedBank(2))
	b.WriteString(billRule + "\n")
	b.WriteString("THANK YOU! COME AGAIN SOON!\n")
	b.WriteString("Please keep a copy of this for your records.\n\n")
}
