package models

import "time"

// Order event types published on the message broker.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
	EventOrderDeleted       = "order.deleted"
)

// OrderEvent is the message body of every order event.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId,omitempty"`
	Status     string    `json:"status,omitempty"`
	TotalPrice float64   `json:"totalPrice,omitempty"`
	ItemCount  int       `json:"itemCount,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
