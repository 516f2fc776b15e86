package orders

import (
	"context"
	"testing"
	"time"

	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

type fakeSession struct{}

func (fakeSession) Describe() string { return "fake" }

type fakePortal struct {
	calls     []string
	loginErr  error
	ordersErr error
	orders    []Order
}

func (p *fakePortal) Login(ctx context.Context, creds Credentials) (Session, error) {
	p.calls = append(p.calls, "login")
	if p.loginErr != nil {
		return nil, p.loginErr
	}
	return fakeSession{}, nil
}

func (p *fakePortal) Orders(ctx context.Context, session Session) ([]Order, error) {
	p.calls = append(p.calls, "orders")
	return p.orders, p.ordersErr
}

func (p *fakePortal) UpdateStatus(ctx context.Context, session Session, transition StatusTransition) error {
	p.calls = append(p.calls, "update:"+string(transition.Target))
	return nil
}

var creds = Credentials{Username: "pizza", Password: "secret"}

func TestServiceGetOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("no credentials", func(t *testing.T) {
		portal := &fakePortal{}
		_, err := NewService(portal, telemetry.NewTestAPI()).GetOrders(ctx, Credentials{})
		require.ErrorIs(t, err, ErrNoCredentials)
		require.Empty(t, portal.calls)
	})

	t.Run("login fails", func(t *testing.T) {
		portal := &fakePortal{loginErr: NewHttpError(401, "unauthorized")}
		_, err := NewService(portal, telemetry.NewTestAPI()).GetOrders(ctx, creds)
		require.ErrorIs(t, err, ErrHttp)
		require.Equal(t, []string{"login"}, portal.calls)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		portal := &fakePortal{}
		result, err := NewService(portal, telemetry.NewTestAPI()).GetOrders(ctx, creds)
		require.NoError(t, err)
		require.NotNil(t, result)
		require.Len(t, result, 0)
		require.Equal(t, []string{"login", "orders"}, portal.calls)
	})

	t.Run("listing failure returns no orders", func(t *testing.T) {
		portal := &fakePortal{
			orders:    []Order{{Summary: Summary{Id: "1", OrderTime: time.Now()}}},
			ordersErr: NewHttpError(500, "boom"),
		}
		result, err := NewService(portal, telemetry.NewTestAPI()).GetOrders(ctx, creds)
		require.ErrorIs(t, err, ErrHttp)
		require.Nil(t, result)
	})
}

func TestServiceUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid status never reaches the portal", func(t *testing.T) {
		portal := &fakePortal{}
		err := NewService(portal, telemetry.NewTestAPI()).UpdateStatus(ctx, creds, StatusTransition{
			OrderId: "1234",
			Target:  "bogus",
		})
		require.ErrorIs(t, err, ErrInvalidStatus)
		require.Empty(t, portal.calls)
	})

	t.Run("missing order id never reaches the portal", func(t *testing.T) {
		portal := &fakePortal{}
		err := NewService(portal, telemetry.NewTestAPI()).UpdateStatus(ctx, creds, StatusTransition{
			Target: TargetKitchen,
		})
		require.ErrorIs(t, err, ErrNoOrderId)
		require.Empty(t, portal.calls)
	})

	t.Run("logs in before updating", func(t *testing.T) {
		portal := &fakePortal{}
		err := NewService(portal, telemetry.NewTestAPI()).UpdateStatus(ctx, creds, StatusTransition{
			OrderId: "1234",
			Target:  TargetKitchen,
		})
		require.NoError(t, err)
		require.Equal(t, []string{"login", "update:kitchen"}, portal.calls)
	})
}

func TestOrderMerge(t *testing.T) {
	order := Order{Summary: Summary{Id: "1"}}
	require.False(t, order.HasDetail())

	order.Merge(Detail{CustomerName: "Janneke", Products: []string{"1 Pizza"}})
	require.True(t, order.HasDetail())
	require.Equal(t, "Janneke", order.CustomerName)
	require.Equal(t, "1", order.Id)
}
