package payloads

import "time"

// OrderCreatedEvent is published once per placed order.
type OrderCreatedEvent struct {
	OrderID        uint64             `json:"orderId"`
	OrderNumber    string             `json:"orderNumber"`
	UserID         uint64             `json:"userId"`
	DeliveryMethod string             `json:"deliveryMethod"`
	PaymentMethod  string             `json:"paymentMethod"`
	Subtotal       string             `json:"subtotal"`
	ShippingCost   string             `json:"shippingCost"`
	Total          string             `json:"total"`
	Items          []OrderCreatedItem `json:"items"`
	CreatedAt      time.Time          `json:"createdAt"`
}

type OrderCreatedItem struct {
	ProductID uint64 `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}
