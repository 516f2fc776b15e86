package takeaway

import (
	"regexp"
	"strings"

	"github.com/kozmoz/thuisbezorgd-scraper/internal/orders"
	"github.com/kozmoz/thuisbezorgd-scraper/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var phoneNumberPattern = regexp.MustCompile(`^[0-9 ()+-]{10,16}$`)

// ParseOrderDetails reads the details page of a single order.
func ParseOrderDetails(doc *goquery.Document) orders.Detail {
	details := doc.Find("#order_details")
	content := details.Find(".content > p")

	detail := orders.Detail{
		DeliveryType: orders.DeliveryType(strings.ToUpper(strings.TrimSpace(
			details.Find(".summary .order-info-heading td").First().Text(),
		))),
		IsAsap:             strings.Contains(details.Find("#delivery_time").Text(), "a.s.a.p"),
		PaymentDescription: strings.TrimSpace(details.Find(".content p:nth-child(2)").First().Text()),
		CustomerName:       strings.TrimSpace(htmlutil.FirstText(content)),
		Notes:              htmlutil.CollapseWhitespace(details.Find(".notes").Text()),
		Products:           parseProducts(doc.Find("table.products tbody tr")),
	}

	// the last line of the name and address block, when it looks like a phone number
	lines := htmlutil.Lines(content)
	if len(lines) > 0 {
		last := lines[len(lines)-1]
		if phoneNumberPattern.MatchString(last) {
			detail.PhoneNumber = &last
		}
	}

	return detail
}

// parseProducts returns one line per product, a row of exactly two cells holds the
// side dishes or remarks of the product above it.
func parseProducts(rows *goquery.Selection) []string {
	products := []string{}
	rows.Each(func(_ int, row *goquery.Selection) {
		text := htmlutil.CollapseWhitespace(row.Text())
		if row.Find("td").Length() == 2 && len(products) > 0 {
			products[len(products)-1] += " " + text
			return
		}
		products = append(products, text)
	})
	return products
}
