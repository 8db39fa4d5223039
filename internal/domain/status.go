package domain

// OrderStatus is the lifecycle position of a placed order.
type OrderStatus string

const (
	StatusPlaced    OrderStatus = "placed"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusPaid      OrderStatus = "paid"
)

// DishStatus is the kitchen position of a single dish.
type DishStatus string

const (
	DishStatusUnseen   DishStatus = "unseen"
	DishStatusSeen     DishStatus = "seen"
	DishStatusPrepared DishStatus = "prepared"
)

var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:    {StatusReady},
	StatusReady:     {StatusDelivered},
	StatusDelivered: {StatusPaid},
	StatusPaid:      {},
}

// CanTransition reports whether an order may move from one status to the next.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
