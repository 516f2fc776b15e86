package orderstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/kozmoz/thuisbezorgd-scraper/internal/db"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/orders"
)

// Store exports scraped orders into a sqlite or libsql database.
type Store struct {
	qry    *db.Queries
	makeTx db.MakeTx
}

func NewStore(database *sql.DB) Store {
	return Store{
		qry:    db.New(database),
		makeTx: db.NewMakeTx(database),
	}
}

// Init creates the tables if they do not exist yet.
func Init(ctx context.Context, database *sql.DB) error {
	_, err := database.ExecContext(ctx, db.Schema)
	return err
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func (s Store) Push(ctx context.Context, fetchedAt time.Time, list []orders.Order) error {
	txqry, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		return err
	}
	defer discard()

	for _, order := range list {
		params := db.UpsertOrderParams{
			ID:            order.Id,
			OrderCode:     order.OrderCode,
			Status:        string(order.Status),
			OrderTime:     order.OrderTime.Unix(),
			AmountInCents: order.AmountInCents,
			City:          order.City,
			Address:       order.Address,
			Distance:      nullString(order.Distance),
			FetchedAt:     fetchedAt.Unix(),
		}
		if order.DeliveryTime != nil {
			params.DeliveryTime = sql.NullInt64{Int64: order.DeliveryTime.Unix(), Valid: true}
		}
		if order.HasDetail() {
			var asap int64
			if order.IsAsap {
				asap = 1
			}
			deliveryType := string(order.DeliveryType)
			params.DeliveryType = nullString(&deliveryType)
			params.IsAsap = sql.NullInt64{Int64: asap, Valid: true}
			params.PaymentDescription = nullString(&order.PaymentDescription)
			params.CustomerName = nullString(&order.CustomerName)
			params.Notes = nullString(&order.Notes)
			params.PhoneNumber = nullString(order.PhoneNumber)
		}

		err := txqry.UpsertOrder(ctx, params)
		if err != nil {
			return err
		}
		err = txqry.DeleteOrderProducts(ctx, order.Id)
		if err != nil {
			return err
		}
		if !order.HasDetail() {
			continue
		}
		for i, product := range order.Products {
			err := txqry.CreateOrderProduct(ctx, db.CreateOrderProductParams{
				OrderID:     order.Id,
				Position:    int64(i),
				Description: product,
			})
			if err != nil {
				return err
			}
		}
	}

	return commit()
}

func optionalString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	out := value.String
	return &out
}

// Pull returns every stored order, ordered by order time.
func (s Store) Pull(ctx context.Context) ([]orders.Order, error) {
	rows, err := s.qry.GetOrders(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]orders.Order, len(rows))
	for i, r := range rows {
		order := orders.Order{
			Summary: orders.Summary{
				Id:            r.ID,
				OrderCode:     r.OrderCode,
				Status:        orders.Status(r.Status),
				OrderTime:     time.Unix(r.OrderTime, 0),
				AmountInCents: r.AmountInCents,
				City:          r.City,
				Address:       r.Address,
				Distance:      optionalString(r.Distance),
			},
		}
		if r.DeliveryTime.Valid {
			deliveryTime := time.Unix(r.DeliveryTime.Int64, 0)
			order.DeliveryTime = &deliveryTime
		}

		if r.DeliveryType.Valid {
			products, err := s.qry.GetOrderProducts(ctx, r.ID)
			if err != nil {
				return nil, err
			}
			if products == nil {
				products = []string{}
			}
			order.Merge(orders.Detail{
				DeliveryType:       orders.DeliveryType(r.DeliveryType.String),
				IsAsap:             r.IsAsap.Int64 == 1,
				PaymentDescription: r.PaymentDescription.String,
				CustomerName:       r.CustomerName.String,
				Notes:              r.Notes.String,
				PhoneNumber:        optionalString(r.PhoneNumber),
				Products:           products,
			})
		}

		out[i] = order
	}

	return out, nil
}
