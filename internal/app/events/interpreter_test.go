package events

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/restaurant/internal/app/descriptor"
	"github.com/YelzhanWeb/restaurant/internal/domain"
)

const (
	restaurantTxt = "Tables: 2\nCooks: Alice, Bob\nServers: Sam\nManagers: Mia\nReceivers: Rex\n\n"

	ingredientsTxt = "Bun\nThreshold: 2\nStarting: 10\n\nPatty\nThreshold: 2\nStarting: 10\n\nPotato\nThreshold: 2\nStarting: 4\n"

	menuTxt = "Burger\n8.00\n1 Bun\n1 Patty\nMod\nCheese\n0.75\n\nFries\n3.00\n3 Potato\n"
)

func newRestaurant(t *testing.T) *domain.Restaurant {
	t.Helper()
	rest, err := descriptor.ParseRestaurant("restaurant.txt", strings.NewReader(restaurantTxt))
	require.NoError(t, err)
	require.NoError(t, descriptor.LoadIngredients("ingredients.txt", strings.NewReader(ingredientsTxt), rest))
	require.NoError(t, descriptor.LoadMenu("menu.txt", strings.NewReader(menuTxt), rest))
	rest.Drain()
	return rest
}

func interpreter(t *testing.T, rest *domain.Restaurant, text string) *Interpreter {
	t.Helper()
	lines, err := descriptor.ReadLines(strings.NewReader(text))
	require.NoError(t, err)
	return New("events.txt", lines, rest)
}

// runAll steps until the end of the stream or the first error.
func runAll(in *Interpreter) ([]Applied, error) {
	var applied []Applied
	for {
		a, err := in.Step()
		if errors.Is(err, io.EOF) {
			return applied, nil
		}
		if err != nil {
			return applied, err
		}
		applied = append(applied, a)
	}
}

func failedAt(t *testing.T, err error) int {
	t.Helper()
	var le *descriptor.LineError
	require.True(t, errors.As(err, &le), "expected a LineError, got %v", err)
	assert.Equal(t, "events.txt", le.File)
	return le.Line
}

const placed = `Order 1
Table: 1
Server: Sam
Dish 1
Burger
Cheese
Dish 2
Fries

Seen
Cook: Alice
Order: 1
Dishes: 1, 2

`

func TestInterpreter(t *testing.T) {
	suite := spec.New("Interpreter suite", spec.Report(report.Terminal{}))
	suite("Interpreter", testInterpreter)
	suite.Run(t)
}

func testInterpreter(t *testing.T, describe spec.G, it spec.S) {
	var rest *domain.Restaurant

	it.Before(func() {
		rest = newRestaurant(t)
	})

	describe("a full dine-in cycle", func() {
		it("applies every block in order", func() {
			in := interpreter(t, rest, placed+`Filled
Cook: Alice
Order: 1
Dishes: 1, 2

Delivered
Server: Sam
Order: 1
Rejected: 2

Paid
Table: 1

Checked
Manager: Mia

Received
Receiver: Rex
5 Potato
2 Bun
`)
			applied, err := runAll(in)
			require.NoError(t, err)
			assert.Equal(t, []Applied{
				{Label: LabelOrder, Line: 1},
				{Label: LabelSeen, Line: 10},
				{Label: LabelFilled, Line: 15},
				{Label: LabelDelivered, Line: 20},
				{Label: LabelPaid, Line: 25},
				{Label: LabelChecked, Line: 28},
				{Label: LabelReceived, Line: 31},
			}, applied)

			order, ok := in.Order(1)
			require.True(t, ok)
			status, _ := rest.OrderStatus(order)
			assert.Equal(t, domain.StatusPaid, status)

			var bill domain.Bill
			for _, ev := range rest.Drain() {
				if paid, ok := ev.(domain.BillPaid); ok {
					bill = paid.Bill
				}
			}
			assert.Equal(t, "8.75", bill.Subtotal.StringFixed(2))
			assert.Equal(t, "9.80", bill.Total.StringFixed(2))

			potato, _ := rest.Amount("Potato")
			assert.Equal(t, 6, potato)
			bun, _ := rest.Amount("Bun")
			assert.Equal(t, 11, bun)
		})

		it("accepts end of input in place of the last blank line", func() {
			in := interpreter(t, rest, "Order 1\nTable: 2\nServer: Sam\nDish 1\nFries")
			applied, err := runAll(in)
			require.NoError(t, err)
			assert.Len(t, applied, 1)
			assert.Len(t, rest.UnseenDishes(), 1)
		})

		it("delivers without a rejected line", func() {
			in := interpreter(t, rest, placed+"Filled\nCook: Alice\nOrder: 1\nDishes: 1, 2\n\nDelivered\nServer: Sam\nOrder: 1\n\n")
			_, err := runAll(in)
			require.NoError(t, err)
			table, _ := rest.Table(1)
			assert.Equal(t, "11.75", table.Subtotal().StringFixed(2))
		})
	})

	describe("failures", func() {
		cases := []struct {
			name   string
			events string
			line   int
			is     error
		}{
			{"unknown event", "Cooked\n", 1, descriptor.ErrSyntax},
			{"bad order id", "Order x\nTable: 1\nServer: Sam\n\n", 1, descriptor.ErrSyntax},
			{"unknown table", "Order 1\nTable: 9\nServer: Sam\n\n", 2, domain.ErrNotFound},
			{"unknown server", "Order 1\nTable: 1\nServer: Nobody\n\n", 3, domain.ErrNotFound},
			{"unknown item", "Order 1\nTable: 1\nServer: Sam\nDish 1\nPizza\n\n", 5, domain.ErrNotFound},
			{"unknown modification", "Order 1\nTable: 1\nServer: Sam\nDish 1\nFries\nCheese\n\n", 6, domain.ErrNotFound},
			{"duplicate dish", "Order 1\nTable: 1\nServer: Sam\nDish 1\nFries\nDish 1\nFries\n\n", 6, domain.ErrDuplicateKey},
			{"duplicate order", "Order 1\nTable: 1\nServer: Sam\n\nOrder 1\nTable: 2\nServer: Sam\n\n", 5, domain.ErrDuplicateKey},
			{"unknown cook", placed + "Filled\nCook: Zed\nOrder: 1\nDishes: 1\n\n", 16, domain.ErrNotFound},
			{"unknown order", placed + "Filled\nCook: Alice\nOrder: 7\nDishes: 1\n\n", 17, domain.ErrNotFound},
			{"unknown dish", placed + "Filled\nCook: Alice\nOrder: 1\nDishes: 1, 3\n\n", 18, domain.ErrNotFound},
			{"prepared by another cook", placed + "Filled\nCook: Bob\nOrder: 1\nDishes: 1\n\n", 18, domain.ErrNotSeenByCook},
			{"missing terminator", placed + "Filled\nCook: Alice\nOrder: 1\nDishes: 1\nPaid\n", 19, descriptor.ErrSyntax},
			{"delivered before ready", placed + "Delivered\nServer: Sam\nOrder: 1\n\n", 17, domain.ErrInvalidTransition},
			{"rejected twice", placed + "Filled\nCook: Alice\nOrder: 1\nDishes: 1, 2\n\nDelivered\nServer: Sam\nOrder: 1\nRejected: 2, 2\n\n", 23, domain.ErrDuplicateKey},
			{"bad rejected line", placed + "Filled\nCook: Alice\nOrder: 1\nDishes: 1, 2\n\nDelivered\nServer: Sam\nOrder: 1\nDishes: 2\n\n", 23, descriptor.ErrSyntax},
			{"unknown paid table", "Paid\nTable: 3\n\n", 2, domain.ErrNotFound},
			{"not a manager", "Checked\nManager: Sam\n\n", 2, domain.ErrNotFound},
			{"unknown ingredient received", "Received\nReceiver: Rex\n1 Bun\n4 Caviar\n\n", 4, domain.ErrNotFound},
			{"negative amount received", "Received\nReceiver: Rex\n-4 Bun\n\n", 3, domain.ErrInvalidArgument},
			{"truncated block", "Seen\nCook: Alice\n", 3, io.ErrUnexpectedEOF},
		}
		for _, tc := range cases {
			it("reports "+tc.name+" at its line", func() {
				_, err := runAll(interpreter(t, rest, tc.events))
				require.Error(t, err)
				assert.Equal(t, tc.line, failedAt(t, err))
				assert.ErrorIs(t, err, tc.is)
			})
		}

		it("leaves the ledger untouched when a received block fails", func() {
			_, err := runAll(interpreter(t, rest, "Received\nReceiver: Rex\n1 Bun\n4 Caviar\n\n"))
			require.Error(t, err)
			bun, _ := rest.Amount("Bun")
			assert.Equal(t, 10, bun)
		})

		it("leaves every dish unseen when a seen block fails", func() {
			_, err := runAll(interpreter(t, rest, "Order 1\nTable: 1\nServer: Sam\nDish 1\nFries\n\nSeen\nCook: Alice\nOrder: 1\nDishes: 1, 4\n\n"))
			require.Error(t, err)
			assert.Len(t, rest.UnseenDishes(), 1)
		})
	})
}
