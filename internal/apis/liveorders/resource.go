package liveorders

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kozmoz/thuisbezorgd-scraper/internal/orders"
	"github.com/kozmoz/thuisbezorgd-scraper/lib/htmlutil"
)

type remoteCustomer struct {
	FullName     string `json:"full_name"`
	Street       string `json:"street"`
	StreetNumber string `json:"street_number"`
	PhoneNumber  string `json:"phone_number"`
	CompanyName  string `json:"company_name"`
	Postcode     string `json:"postcode"`
	City         string `json:"city"`
}

type remotePayment struct {
	Method            string  `json:"method"`
	PaysWith          float64 `json:"pays_with"`
	AlreadyPaidAmount float64 `json:"already_paid_amount"`
}

type remoteSpecification struct {
	Name string `json:"name"`
}

type remoteProduct struct {
	Name           string                `json:"name"`
	CategoryName   string                `json:"category_name"`
	Quantity       int                   `json:"quantity"`
	Remarks        string                `json:"remarks"`
	Specifications []remoteSpecification `json:"specifications"`
}

// remoteOrder is an order as the api returns it.
type remoteOrder struct {
	Id                              flexibleId      `json:"id"`
	PublicReference                 string          `json:"public_reference"`
	Status                          string          `json:"status"`
	PlacedDate                      string          `json:"placed_date"`
	DeliveryType                    string          `json:"delivery_type"`
	RequestedTime                   *string         `json:"requested_time"`
	PaymentType                     string          `json:"payment_type"`
	RestaurantEstimatedDeliveryTime *string         `json:"restaurant_estimated_delivery_time"`
	Remarks                         string          `json:"remarks"`
	CustomerTotal                   float64         `json:"customer_total"`
	Customer                        remoteCustomer  `json:"customer"`
	Payment                         remotePayment   `json:"payment"`
	Products                        []remoteProduct `json:"products"`
}

func mapStatus(status string) orders.Status {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized == string(orders.TargetInDelivery) {
		return orders.StatusDelivery
	}
	return orders.Status(strings.ToUpper(normalized))
}

func parseTimestamp(value *string, location *time.Location) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	parsed = parsed.In(location)
	return &parsed, nil
}

func formatEuro(amount float64) string {
	return "€ " + strings.Replace(fmt.Sprintf("%.2f", amount), ".", ",", 1)
}

func paymentDescription(order remoteOrder) string {
	method := order.Payment.Method
	if method == "" {
		method = order.PaymentType
	}
	switch strings.ToLower(method) {
	case "online":
		return "Paid electronically"
	case "cash":
		if order.Payment.PaysWith > 0 {
			return "Customer pays with " + formatEuro(order.Payment.PaysWith)
		}
		return "Customer pays in cash"
	}
	return method
}

func productLine(product remoteProduct) string {
	line := fmt.Sprintf("%dx %s", product.Quantity, strings.TrimSpace(product.Name))

	var specifications []string
	for _, spec := range product.Specifications {
		name := strings.TrimSpace(spec.Name)
		if name != "" {
			specifications = append(specifications, name)
		}
	}
	if len(specifications) > 0 {
		line += fmt.Sprintf(" (%s)", strings.Join(specifications, ", "))
	}

	remarks := htmlutil.CollapseWhitespace(product.Remarks)
	if remarks != "" {
		line += " " + remarks
	}
	return line
}

func formatAddress(customer remoteCustomer) string {
	street := strings.TrimSpace(fmt.Sprintf("%s %s", customer.Street, customer.StreetNumber))
	parts := []string{}
	for _, part := range []string{strings.TrimSpace(customer.Postcode), street} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// toOrder maps an order of the api onto an Order, the api embeds the details so the
// result always has them. A placed date that cannot be read falls back to `now`, the
// returned warnings describe what could not be read.
func (o remoteOrder) toOrder(now time.Time) (orders.Order, []error) {
	var warnings []error
	location := now.Location()

	orderTime := now
	placed, err := parseTimestamp(&o.PlacedDate, location)
	switch {
	case err != nil:
		warnings = append(warnings, fmt.Errorf("order %s: placed date: %w", o.Id, err))
	case placed == nil:
		warnings = append(warnings, fmt.Errorf("order %s: no placed date", o.Id))
	default:
		orderTime = *placed
	}

	requested, err := parseTimestamp(o.RequestedTime, location)
	if err != nil {
		warnings = append(warnings, fmt.Errorf("order %s: requested time: %w", o.Id, err))
	}
	estimated, err := parseTimestamp(o.RestaurantEstimatedDeliveryTime, location)
	if err != nil {
		warnings = append(warnings, fmt.Errorf("order %s: estimated delivery time: %w", o.Id, err))
	}

	deliveryTime := estimated
	if deliveryTime == nil {
		deliveryTime = requested
	}
	if deliveryTime != nil && deliveryTime.Equal(orderTime) {
		deliveryTime = nil
	}

	amount := int64(math.Round(o.CustomerTotal * 100))
	if amount < 0 {
		warnings = append(warnings, fmt.Errorf("order %s: negative total %v", o.Id, o.CustomerTotal))
		amount = 0
	}

	var phoneNumber *string
	if phone := strings.TrimSpace(o.Customer.PhoneNumber); phone != "" {
		phoneNumber = &phone
	}

	products := make([]string, len(o.Products))
	for i, product := range o.Products {
		products[i] = productLine(product)
	}

	order := orders.Order{
		Summary: orders.Summary{
			Id:            string(o.Id),
			OrderCode:     strings.TrimSpace(o.PublicReference),
			Status:        mapStatus(o.Status),
			OrderTime:     orderTime,
			DeliveryTime:  deliveryTime,
			AmountInCents: amount,
			City:          strings.TrimSpace(o.Customer.City),
			Address:       formatAddress(o.Customer),
		},
	}
	order.Merge(orders.Detail{
		DeliveryType:       orders.DeliveryType(strings.ToUpper(strings.TrimSpace(o.DeliveryType))),
		IsAsap:             requested == nil,
		PaymentDescription: paymentDescription(o),
		CustomerName:       strings.TrimSpace(o.Customer.FullName),
		Notes:              htmlutil.CollapseWhitespace(o.Remarks),
		PhoneNumber:        phoneNumber,
		Products:           products,
	})

	return order, warnings
}
