package domain

// EventKind names a domain event.
type EventKind string

const (
	KindOrderPlaced         EventKind = "order_placed"
	KindDishSeen            EventKind = "dish_seen"
	KindDishPrepared        EventKind = "dish_prepared"
	KindOrderReady          EventKind = "order_ready"
	KindOrderDelivered      EventKind = "order_delivered"
	KindBillPaid            EventKind = "bill_paid"
	KindInventoryChecked    EventKind = "inventory_checked"
	KindIngredientsReceived EventKind = "ingredients_received"
	KindRestockNeeded       EventKind = "restock_needed"
)

// Event is a fact recorded by the Restaurant after a state change.
type Event interface {
	Kind() EventKind
}

type OrderPlaced struct {
	Server string
	Order  *Order
}

type DishSeen struct {
	Cook string
	Dish *Dish
}

type DishPrepared struct {
	Cook string
	Dish *Dish
}

type OrderReady struct {
	Order *Order
}

type OrderDelivered struct {
	Server    string
	Order     *Order
	Delivered []*Dish
	Rejected  []*Dish
}

type BillPaid struct {
	Bill Bill
}

type InventoryChecked struct {
	Manager string
	Levels  []IngredientLevel
}

type IngredientsReceived struct {
	Receiver   string
	Ingredient string
	Amount     int
}

// RestockNeeded is raised when an ingredient drops below its threshold, or
// starts below it when Initial is set.
type RestockNeeded struct {
	Ingredient string
	Threshold  int
	Amount     int
	Initial    bool
}

func (OrderPlaced) Kind() EventKind         { return KindOrderPlaced }
func (DishSeen) Kind() EventKind            { return KindDishSeen }
func (DishPrepared) Kind() EventKind        { return KindDishPrepared }
func (OrderReady) Kind() EventKind          { return KindOrderReady }
func (OrderDelivered) Kind() EventKind      { return KindOrderDelivered }
func (BillPaid) Kind() EventKind            { return KindBillPaid }
func (InventoryChecked) Kind() EventKind    { return KindInventoryChecked }
func (IngredientsReceived) Kind() EventKind { return KindIngredientsReceived }
func (RestockNeeded) Kind() EventKind       { return KindRestockNeeded }
