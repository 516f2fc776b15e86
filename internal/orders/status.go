package orders

import "strings"

// Target is a status an order can be moved to.
type Target string

const (
	TargetConfirmed  Target = "confirmed"
	TargetKitchen    Target = "kitchen"
	TargetInDelivery Target = "in_delivery"
	TargetDelivered  Target = "delivered"
)

const (
	DefaultFoodPreparationMinutes = 15
	DefaultDeliveryTimeMinutes    = 30
)

// ParseTarget accepts the target statuses in any letter case.
func ParseTarget(status string) (Target, error) {
	target := Target(strings.ToLower(strings.TrimSpace(status)))
	switch target {
	case TargetConfirmed, TargetKitchen, TargetInDelivery, TargetDelivered:
		return target, nil
	}
	return "", NewError(
		InvalidStatus,
		"Invalid status %q, expected one of confirmed, kitchen, in_delivery or delivered",
		status,
	)
}

// StatusTransition asks to move an order to a new status.
type StatusTransition struct {
	OrderId string
	Target  Target
	// FoodPreparationMinutes and DeliveryTimeMinutes are only used when confirming,
	// zero means the default.
	FoodPreparationMinutes int
	DeliveryTimeMinutes    int
}

// NewStatusTransition validates the arguments of a status update, it performs the same
// checks as Validate.
func NewStatusTransition(orderId, status string, foodPreparationMinutes, deliveryTimeMinutes int) (StatusTransition, error) {
	target, err := ParseTarget(status)
	if err != nil {
		return StatusTransition{}, err
	}
	t := StatusTransition{
		OrderId:                orderId,
		Target:                 target,
		FoodPreparationMinutes: foodPreparationMinutes,
		DeliveryTimeMinutes:    deliveryTimeMinutes,
	}
	return t.withDefaults(), t.Validate()
}

func (t StatusTransition) withDefaults() StatusTransition {
	if t.FoodPreparationMinutes <= 0 {
		t.FoodPreparationMinutes = DefaultFoodPreparationMinutes
	}
	if t.DeliveryTimeMinutes <= 0 {
		t.DeliveryTimeMinutes = DefaultDeliveryTimeMinutes
	}
	return t
}

// Validate fails with INVALID_STATUS or NO_ORDER_ID.
func (t StatusTransition) Validate() error {
	if _, err := ParseTarget(string(t.Target)); err != nil {
		return err
	}
	if strings.TrimSpace(t.OrderId) == "" {
		return NewError(NoOrderId, "No order id given, cannot update the status")
	}
	return nil
}

// Durations returns the food preparation and delivery durations with defaults applied.
func (t StatusTransition) Durations() (foodPreparation, deliveryTime int) {
	d := t.withDefaults()
	return d.FoodPreparationMinutes, d.DeliveryTimeMinutes
}
