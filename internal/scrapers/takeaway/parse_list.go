package takeaway

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kozmoz/thuisbezorgd-scraper/internal/orders"

	"github.com/PuerkitoBio/goquery"
)

const noOrdersMessage = "No orders yet"

// HasNoOrders reports whether the orders page tells there are no orders at all.
func HasNoOrders(body string) bool {
	return strings.Contains(body, noOrdersMessage)
}

// ParseOrderList reads the order rows of the orders page. Every row is a
// `<tbody rel="#o<id>" class="... status-<name>">`. Times are `HH:mm` and are placed on the
// day of `now`. Rows that could not be read completely are still returned, what went wrong
// is described in the returned warnings.
func ParseOrderList(doc *goquery.Document, now time.Time) ([]orders.Summary, []error) {
	var summaries []orders.Summary
	var warnings []error

	doc.Find("tbody[rel]").Each(func(_ int, row *goquery.Selection) {
		rel, _ := row.Attr("rel")
		id := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rel), "#o"))
		if id == "" {
			warnings = append(warnings, fmt.Errorf("order row without id: %q", rel))
			return
		}

		status, ok := statusFromClass(row.AttrOr("class", ""))
		if !ok {
			warnings = append(warnings, fmt.Errorf("order %s: no status class in %q", id, row.AttrOr("class", "")))
			status = orders.StatusNew
		}

		orderTimeText := strings.TrimSpace(row.Find("td.time").First().Text())
		orderTime, err := parseClock(orderTimeText, now)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("order %s: order time: %w", id, err))
			orderTime = now
		}

		var deliveryTime *time.Time
		deliveryTimeText := strings.TrimSpace(row.Find("td.time-delivery").First().Text())
		if deliveryTimeText != "" {
			parsed, err := parseClock(deliveryTimeText, now)
			if err != nil {
				warnings = append(warnings, fmt.Errorf("order %s: delivery time: %w", id, err))
			} else if !parsed.Equal(orderTime) {
				deliveryTime = &parsed
			}
		}

		amountText := row.Find("td.amount").First().Text()
		amount, err := parseCents(amountText)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("order %s: amount: %w", id, err))
		}

		summaries = append(summaries, orders.Summary{
			Id:            id,
			OrderCode:     strings.TrimSpace(row.Find("td.order-code").First().Text()),
			Status:        status,
			OrderTime:     orderTime,
			DeliveryTime:  deliveryTime,
			AmountInCents: amount,
			City:          strings.TrimSpace(row.Find("td.city").First().Text()),
			Address:       trimAddress(row.Find("td[colspan='2']").First().Text()),
			Distance:      parseDistance(row.Find("td.distance").First().Text()),
		})
	})

	return summaries, warnings
}

// statusFromClass returns the uppercased name of the first `status-<name>` class token.
func statusFromClass(class string) (orders.Status, bool) {
	for _, token := range strings.Fields(class) {
		name, found := strings.CutPrefix(token, "status-")
		if found && name != "" {
			return orders.Status(strings.ToUpper(name)), true
		}
	}
	return "", false
}

// parseClock parses `HH:mm` and places it on the day of `now`, in its location. An order
// placed at 23:58 and read after midnight ends up on the wrong day.
func parseClock(text string, now time.Time) (time.Time, error) {
	parsed, err := time.Parse("15:04", text)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0,
		now.Location(),
	), nil
}

var nonDigits = regexp.MustCompile(`[^0-9]+`)

// parseCents turns an amount like "€ 15,45" into 1545.
func parseCents(text string) (int64, error) {
	digits := nonDigits.ReplaceAllString(text, "")
	if digits == "" {
		return 0, fmt.Errorf("no digits in %q", text)
	}
	return strconv.ParseInt(digits, 10, 64)
}

func trimAddress(text string) string {
	return strings.Trim(text, ", \t\r\n\u00a0")
}

var whitespace = regexp.MustCompile(`\s+`)

// parseDistance turns "1,2 km" into "1.2km".
func parseDistance(text string) *string {
	distance := whitespace.ReplaceAllString(strings.ReplaceAll(text, ",", "."), "")
	if distance == "" {
		return nil
	}
	return &distance
}
