// Package events interprets the event stream of a simulation run against a
// restaurant, one labeled block at a time.
package events

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/YelzhanWeb/restaurant/internal/app/descriptor"
	"github.com/YelzhanWeb/restaurant/internal/domain"
)

// Label is the first line of an event block.
type Label string

const (
	LabelOrder     Label = "Order"
	LabelSeen      Label = "Seen"
	LabelFilled    Label = "Filled"
	LabelDelivered Label = "Delivered"
	LabelPaid      Label = "Paid"
	LabelChecked   Label = "Checked"
	LabelReceived  Label = "Received"
)

const (
	orderPrefix = "Order "
	dishPrefix  = "Dish "
)

// Applied describes an event block that took effect.
type Applied struct {
	Label Label
	Line  int
}

// Interpreter applies event blocks in file order. Every reference in a block
// is resolved before the block changes any state; the first failure is
// returned as a *descriptor.LineError and the interpreter must not be used
// afterwards.
type Interpreter struct {
	cursor *descriptor.Cursor
	rest   *domain.Restaurant
	orders map[int]*domain.Order
}

func New(file string, lines []string, rest *domain.Restaurant) *Interpreter {
	return &Interpreter{
		cursor: descriptor.NewCursor(file, lines),
		rest:   rest,
		orders: make(map[int]*domain.Order),
	}
}

// Order returns an order placed by an earlier event.
func (in *Interpreter) Order(id int) (*domain.Order, bool) {
	o, ok := in.orders[id]
	return o, ok
}

// Step applies the next event block. It returns io.EOF once the stream is
// exhausted.
func (in *Interpreter) Step() (Applied, error) {
	c := in.cursor
	if c.Done() {
		return Applied{}, io.EOF
	}
	header, _ := c.Next()
	line := c.Line()

	var err error
	var label Label
	switch {
	case strings.HasPrefix(header, orderPrefix):
		label = LabelOrder
		err = in.order(strings.TrimPrefix(header, orderPrefix))
	case header == string(LabelSeen):
		label = LabelSeen
		err = in.kitchen(in.rest.SeeDishes)
	case header == string(LabelFilled):
		label = LabelFilled
		err = in.kitchen(in.rest.PrepareDishes)
	case header == string(LabelDelivered):
		label = LabelDelivered
		err = in.delivered()
	case header == string(LabelPaid):
		label = LabelPaid
		err = in.paid()
	case header == string(LabelChecked):
		label = LabelChecked
		err = in.checked()
	case header == string(LabelReceived):
		label = LabelReceived
		err = in.received()
	default:
		err = c.Fail(fmt.Errorf("unknown event %q: %w", header, descriptor.ErrSyntax))
	}
	if err != nil {
		return Applied{}, err
	}
	return Applied{Label: label, Line: line}, nil
}

func (in *Interpreter) order(rawID string) error {
	c := in.cursor
	headerLine := c.Line()
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return c.Fail(fmt.Errorf("order id %q: %w", rawID, descriptor.ErrSyntax))
	}
	if _, exists := in.orders[id]; exists {
		return c.Fail(fmt.Errorf("order %d: %w", id, domain.ErrDuplicateKey))
	}

	table, err := in.table()
	if err != nil {
		return err
	}
	server, err := in.staff("Server: ", domain.RoleServer)
	if err != nil {
		return err
	}

	order := domain.NewOrder(table)
	for {
		line, ok := c.Peek()
		if !ok {
			break
		}
		c.Next()
		if line == "" {
			break
		}
		if err := in.dish(order, line); err != nil {
			return err
		}
	}

	if err := in.rest.PlaceOrder(server, order); err != nil {
		return c.FailAt(headerLine, err)
	}
	in.orders[id] = order
	return nil
}

// dish reads one "Dish <id>" sub-block: the id line, the item name and any
// modification names.
func (in *Interpreter) dish(order *domain.Order, line string) error {
	c := in.cursor
	rawID, ok := strings.CutPrefix(line, dishPrefix)
	if !ok {
		return c.Fail(fmt.Errorf("expected %q: %w", dishPrefix, descriptor.ErrSyntax))
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return c.Fail(fmt.Errorf("dish id %q: %w", rawID, descriptor.ErrSyntax))
	}
	if _, exists := order.Dish(id); exists {
		return c.Fail(fmt.Errorf("dish %d: %w", id, domain.ErrDuplicateKey))
	}

	name, err := c.Next()
	if err != nil {
		return err
	}
	item, ok := in.rest.Menu().Item(name)
	if !ok {
		return c.Fail(fmt.Errorf("menu item %q: %w", name, domain.ErrNotFound))
	}
	dish := domain.NewDish(id, item)

	for {
		next, ok := c.Peek()
		if !ok || next == "" || strings.HasPrefix(next, dishPrefix) {
			break
		}
		c.Next()
		mod, ok := item.Modification(next)
		if !ok {
			return c.Fail(fmt.Errorf("modification %q for %q: %w", next, name, domain.ErrNotFound))
		}
		if err := dish.AddModification(mod); err != nil {
			return c.Fail(err)
		}
	}
	if err := order.AddDish(dish); err != nil {
		return c.Fail(err)
	}
	return nil
}

func (in *Interpreter) kitchen(apply func(*domain.Cook, []*domain.Dish) error) error {
	c := in.cursor
	name, err := c.Field("Cook: ")
	if err != nil {
		return err
	}
	cook, ok := in.rest.Cook(name)
	if !ok {
		return c.Fail(fmt.Errorf("cook %q: %w", name, domain.ErrNotFound))
	}
	order, err := in.orderRef()
	if err != nil {
		return err
	}
	dishes, err := in.dishRefs(order, "Dishes: ")
	if err != nil {
		return err
	}
	dishesLine := c.Line()
	if err := c.Terminator(); err != nil {
		return err
	}
	if err := apply(cook, dishes); err != nil {
		return c.FailAt(dishesLine, err)
	}
	return nil
}

func (in *Interpreter) delivered() error {
	c := in.cursor
	server, err := in.staff("Server: ", domain.RoleServer)
	if err != nil {
		return err
	}
	order, err := in.orderRef()
	if err != nil {
		return err
	}
	orderLine := c.Line()

	var rejected []*domain.Dish
	if next, ok := c.Peek(); ok && next != "" {
		rejected, err = in.dishRefs(order, "Rejected: ")
		if err != nil {
			return err
		}
		seen := make(map[*domain.Dish]struct{}, len(rejected))
		for _, d := range rejected {
			if _, dup := seen[d]; dup {
				return c.Fail(fmt.Errorf("rejected dish %d: %w", d.ID(), domain.ErrDuplicateKey))
			}
			seen[d] = struct{}{}
		}
	}
	if err := c.Terminator(); err != nil {
		return err
	}
	if err := in.rest.DeliverOrder(server, order, rejected); err != nil {
		return c.FailAt(orderLine, err)
	}
	return nil
}

func (in *Interpreter) paid() error {
	c := in.cursor
	table, err := in.table()
	if err != nil {
		return err
	}
	tableLine := c.Line()
	if err := c.Terminator(); err != nil {
		return err
	}
	if _, err := in.rest.PayForDishes(table.Number()); err != nil {
		return c.FailAt(tableLine, err)
	}
	return nil
}

func (in *Interpreter) checked() error {
	c := in.cursor
	manager, err := in.staff("Manager: ", domain.RoleManager)
	if err != nil {
		return err
	}
	managerLine := c.Line()
	if err := c.Terminator(); err != nil {
		return err
	}
	if _, err := in.rest.CheckInventory(manager); err != nil {
		return c.FailAt(managerLine, err)
	}
	return nil
}

type delivery struct {
	ingredient string
	amount     int
	line       int
}

func (in *Interpreter) received() error {
	c := in.cursor
	receiver, err := in.staff("Receiver: ", domain.RoleReceiver)
	if err != nil {
		return err
	}

	var deliveries []delivery
	for {
		line, ok := c.Peek()
		if !ok {
			break
		}
		c.Next()
		if line == "" {
			break
		}
		amount, ingredient, err := descriptor.ParseAmount(line)
		if err != nil {
			return c.Fail(err)
		}
		if amount < 0 {
			return c.Fail(fmt.Errorf("received %d of %q: %w", amount, ingredient, domain.ErrInvalidArgument))
		}
		if !in.rest.HasIngredient(ingredient) {
			return c.Fail(fmt.Errorf("ingredient %q: %w", ingredient, domain.ErrNotFound))
		}
		deliveries = append(deliveries, delivery{ingredient: ingredient, amount: amount, line: c.Line()})
	}

	for _, d := range deliveries {
		if err := in.rest.ReceiveIngredients(receiver, d.ingredient, d.amount); err != nil {
			return c.FailAt(d.line, err)
		}
	}
	return nil
}

func (in *Interpreter) table() (*domain.Table, error) {
	c := in.cursor
	number, err := c.IntField("Table: ")
	if err != nil {
		return nil, err
	}
	table, ok := in.rest.Table(number)
	if !ok {
		return nil, c.Fail(fmt.Errorf("table %d: %w", number, domain.ErrNotFound))
	}
	return table, nil
}

func (in *Interpreter) staff(prefix string, role domain.Role) (string, error) {
	c := in.cursor
	name, err := c.Field(prefix)
	if err != nil {
		return "", err
	}
	if !in.rest.HasStaff(role, name) {
		return "", c.Fail(fmt.Errorf("%s %q: %w", role, name, domain.ErrNotFound))
	}
	return name, nil
}

func (in *Interpreter) orderRef() (*domain.Order, error) {
	c := in.cursor
	id, err := c.IntField("Order: ")
	if err != nil {
		return nil, err
	}
	order, ok := in.orders[id]
	if !ok {
		return nil, c.Fail(fmt.Errorf("order %d: %w", id, domain.ErrNotFound))
	}
	return order, nil
}

func (in *Interpreter) dishRefs(order *domain.Order, prefix string) ([]*domain.Dish, error) {
	c := in.cursor
	value, err := c.Field(prefix)
	if err != nil {
		return nil, err
	}
	ids, err := descriptor.ParseIDs(value)
	if err != nil {
		return nil, c.Fail(err)
	}
	dishes := make([]*domain.Dish, 0, len(ids))
	for _, id := range ids {
		d, ok := order.Dish(id)
		if !ok {
			return nil, c.Fail(fmt.Errorf("dish %d: %w", id, domain.ErrNotFound))
		}
		dishes = append(dishes, d)
	}
	return dishes, nil
}
