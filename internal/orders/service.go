package orders

import (
	"context"
	"fmt"

	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/assert"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/orders")

const (
	report_service_get_orders    = "service.get-orders"
	report_service_update_status = "service.update-status"
)

// Service runs the top-level operations against a Portal. Every call logs in from scratch,
// nothing is shared between calls.
type Service struct {
	portal Portal
	tel    telemetry.API
}

func NewService(portal Portal, tel telemetry.API) Service {
	assert.NotNil(portal)
	assert.NotNil(tel)

	return Service{
		portal: portal,
		tel:    telemetry.NewScopedAPI("orders", tel),
	}
}

// GetOrders logs in and returns all open orders. Either every order of the list is
// returned or an error, though individual orders may lack their details.
func (s Service) GetOrders(ctx context.Context, creds Credentials) ([]Order, error) {
	ctx, span := tracer.Start(ctx, "service:GetOrders")
	defer span.End()

	err := creds.Check()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.tel.ReportDebug(report_service_get_orders, "login", creds.Username)
	session, err := s.portal.Login(ctx, creds)
	if err != nil {
		s.tel.ReportBroken(report_service_get_orders, fmt.Errorf("login: %w", err))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	s.tel.ReportDebug(report_service_get_orders, "logged in", session.Describe())

	result, err := s.portal.Orders(ctx, session)
	if err != nil {
		s.tel.ReportBroken(report_service_get_orders, fmt.Errorf("orders: %w", err))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if result == nil {
		result = []Order{}
	}

	missingDetails := 0
	for _, o := range result {
		if !o.HasDetail() {
			missingDetails++
		}
	}
	s.tel.ReportCount(report_service_get_orders, int64(len(result)))
	span.SetAttributes(
		attribute.Int("orders", len(result)),
		attribute.Int("orders_without_detail", missingDetails),
	)

	return result, nil
}

// UpdateStatus validates the transition, logs in and moves the order to its target
// status. Invalid arguments are rejected before anything is sent to the portal.
func (s Service) UpdateStatus(ctx context.Context, creds Credentials, transition StatusTransition) error {
	ctx, span := tracer.Start(ctx, "service:UpdateStatus")
	defer span.End()

	err := transition.Validate()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	err = creds.Check()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(
		attribute.String("order_id", transition.OrderId),
		attribute.String("target", string(transition.Target)),
	)

	session, err := s.portal.Login(ctx, creds)
	if err != nil {
		s.tel.ReportBroken(report_service_update_status, fmt.Errorf("login: %w", err))
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	s.tel.ReportDebug(report_service_update_status, "logged in", session.Describe())

	err = s.portal.UpdateStatus(ctx, session, transition)
	if err != nil {
		s.tel.ReportBroken(
			report_service_update_status,
			fmt.Errorf("update status: %w", err),
			transition.OrderId,
			transition.Target,
		)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
