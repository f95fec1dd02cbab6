package models

import "time"

// Order statuses. Pending is assigned when the client does not send one.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// OrderItem is a quantity of a single product within one order.
type OrderItem struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Quantity  int      `json:"quantity" gorm:"not null" bson:"quantity" validate:"gt=0"`
	ProductID string   `json:"productId" gorm:"type:varchar(36);index;not null" bson:"product" validate:"required"`
	Product   *Product `json:"product,omitempty" gorm:"-" bson:"-"`
}

// Order represents a customer order. OrderItemIDs keeps the request order of
// the line items; OrderItems and User are only filled when the order is
// populated for a response.
type Order struct {
	ID               string       `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	OrderItemIDs     []string     `json:"orderItemIds" gorm:"serializer:json" bson:"orderItems"`
	OrderItems       []OrderItem  `json:"orderItems,omitempty" gorm:"-" bson:"-"`
	ShippingAddress  string       `json:"shippingAddress" gorm:"not null" bson:"shippingAddress" validate:"required"`
	ShippingAddress2 string       `json:"shippingAddress2,omitempty" bson:"shippingAddress2,omitempty"`
	City             string       `json:"city" gorm:"not null" bson:"city" validate:"required"`
	Zip              string       `json:"zip,omitempty" bson:"zip,omitempty"`
	Country          string       `json:"country" gorm:"not null" bson:"country" validate:"required"`
	Phone            string       `json:"phone" gorm:"not null" bson:"phone" validate:"required"`
	Status           string       `json:"status" gorm:"not null;default:Pending" bson:"status" validate:"required,orderstatus"`
	TotalPrice       float64      `json:"totalPrice" bson:"totalPrice"`
	UserID           string       `json:"userId" gorm:"type:varchar(36);index" bson:"user" validate:"required"`
	User             *UserSummary `json:"user,omitempty" gorm:"-" bson:"-"`
	DateOrdered      time.Time    `json:"dateOrdered" gorm:"index" bson:"dateOrdered"`
}

// OrderLineRequest is one requested line of a new order.
type OrderLineRequest struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// OrderRequest is the body accepted when placing an order.
type OrderRequest struct {
	OrderItems       []OrderLineRequest `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress  string             `json:"shippingAddress" validate:"required"`
	ShippingAddress2 string             `json:"shippingAddress2"`
	City             string             `json:"city" validate:"required"`
	Zip              string             `json:"zip"`
	Country          string             `json:"country" validate:"required"`
	Phone            string             `json:"phone" validate:"required"`
	Status           string             `json:"status" validate:"omitempty,orderstatus"`
	User             string             `json:"user" validate:"required"`
}

// OrderStatuses lists every status an order may hold.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValidOrderStatus reports whether status is one of OrderStatuses.
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}
