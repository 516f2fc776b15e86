package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kozmoz/thuisbezorgd-scraper/pkg/thuisbezorgd"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func formatCents(cents int64) string {
	return fmt.Sprintf("€ %d,%02d", cents/100, cents%100)
}

func formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}

func renderOrders(list []thuisbezorgd.Order) {
	t := newTable()
	t.AppendHeader(table.Row{"Id", "Code", "Status", "Ordered", "Delivery", "Amount", "Type", "Customer", "Address", "Products"})
	for _, o := range list {
		var deliveryType, customer, products string
		if o.HasDetail() {
			deliveryType = string(o.DeliveryType)
			customer = o.CustomerName
			products = strings.Join(o.Products, "\n")
		}
		t.AppendRow(table.Row{
			o.Id,
			o.OrderCode,
			o.Status,
			formatClock(&o.OrderTime),
			formatClock(o.DeliveryTime),
			formatCents(o.AmountInCents),
			deliveryType,
			customer,
			fmt.Sprintf("%s\n%s", o.Address, o.City),
			products,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "", "", "Orders", len(list)})
	t.Render()
}
