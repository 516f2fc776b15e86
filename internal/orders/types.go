package orders

import "time"

// Status is the status of an order as reported by the portal.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusConfirmed Status = "CONFIRMED"
	StatusKitchen   Status = "KITCHEN"
	StatusDelivery  Status = "DELIVERY"
	StatusDelivered Status = "DELIVERED"
)

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "DELIVERY"
	DeliveryTypePickup   DeliveryType = "PICKUP"
)

// Summary is what the order list of the portal tells about an order.
type Summary struct {
	Id        string    `json:"id"`
	OrderCode string    `json:"orderCode"`
	Status    Status    `json:"status"`
	OrderTime time.Time `json:"orderTime"`
	// DeliveryTime is only set when the portal gives a delivery time that differs from
	// the order time.
	DeliveryTime  *time.Time `json:"deliveryTime,omitempty"`
	AmountInCents int64      `json:"amountInCents"`
	City          string     `json:"city"`
	Address       string     `json:"address"`
	Distance      *string    `json:"distance,omitempty"`
}

// Detail is what the details page of an order adds to its Summary.
type Detail struct {
	DeliveryType       DeliveryType `json:"deliveryType"`
	IsAsap             bool         `json:"isAsap"`
	PaymentDescription string       `json:"paymentDescription"`
	CustomerName       string       `json:"customerName"`
	Notes              string       `json:"notes"`
	// PhoneNumber is a heuristic, it is the last line of the customer's address block
	// if that line looks like a phone number.
	PhoneNumber *string  `json:"phoneNumber,omitempty"`
	Products    []string `json:"products"`
}

// Order is a Summary with its Detail merged in, Detail stays nil when the details could
// not be fetched.
type Order struct {
	Summary
	*Detail
}

// Merge adds the given details to the order.
func (o *Order) Merge(detail Detail) {
	o.Detail = &detail
}

// HasDetail reports whether the details of the order were merged.
func (o Order) HasDetail() bool {
	return o.Detail != nil
}
