package liveorders

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kozmoz/thuisbezorgd-scraper/internal/orders"
)

// Login exchanges the credentials for an access token and then resolves the restaurant
// the token belongs to.
func (p *Portal) Login(ctx context.Context, creds orders.Credentials) (orders.Session, error) {
	err := creds.Check()
	if err != nil {
		return nil, err
	}

	accessToken, err := p.authenticate(ctx, creds)
	if err != nil {
		p.tel.ReportBroken(report_client_login, err)
		return nil, err
	}
	restaurantId, err := p.restaurant(ctx, accessToken)
	if err != nil {
		p.tel.ReportBroken(report_client_get_restaurant, err)
		return nil, err
	}

	return &Session{
		AccessToken:  accessToken,
		RestaurantId: restaurantId,
	}, nil
}

func (p *Portal) authenticate(ctx context.Context, creds orders.Credentials) (string, error) {
	const action = "Thuisbezorgd.nl SSO service"

	p.tel.ReportDebug("authenticate", creds.Username)
	res, err := p.send(
		ctx,
		http.MethodPost,
		"/api/sso/auth-by-credentials",
		p.headers,
		map[string]string{
			"username": creds.Username,
			"password": creds.Password,
		},
		action,
	)
	if err != nil {
		return "", err
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	err = decodeJSON(res, action, &body)
	if err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", orders.NewError(orders.ParseError, "%s did not return an access token", action)
	}
	return body.AccessToken, nil
}

func (p *Portal) restaurant(ctx context.Context, accessToken string) (int64, error) {
	const action = "Thuisbezorgd.nl restaurant service"

	if accessToken == "" {
		return 0, orders.NewError(orders.AccessTokenRequired, "No access token, cannot access Thuisbezorgd.nl API")
	}

	p.tel.ReportDebug("resolve restaurant")
	res, err := p.send(
		ctx,
		http.MethodGet,
		"/api/restaurant",
		p.headers.With("Authorization", "Bearer "+accessToken),
		nil,
		action,
	)
	if err != nil {
		return 0, err
	}

	var body struct {
		Reference *flexibleId `json:"reference"`
	}
	err = decodeJSON(res, action, &body)
	if err != nil {
		return 0, err
	}
	if body.Reference == nil || *body.Reference == "" {
		return 0, orders.NewHttpError(res.StatusCode(), "Unable to resolve restaurant, %s returned no reference", action)
	}
	id, err := body.Reference.Int64()
	if err != nil {
		return 0, orders.NewError(orders.ParseError, "Unable to resolve restaurant, reference %q is not a number", string(*body.Reference))
	}
	return id, nil
}

// Orders lists the open orders of the restaurant, the list is requested only after its
// preflight succeeded.
func (p *Portal) Orders(ctx context.Context, session orders.Session) ([]orders.Order, error) {
	const action = "Thuisbezorgd.nl orders service"
	const path = "/api/orders"

	s, err := p.session(session)
	if err != nil {
		return nil, err
	}
	headers := p.authorized(s)

	err = p.preflight(ctx, http.MethodGet, path, headers)
	if err != nil {
		return nil, err
	}
	res, err := p.send(ctx, http.MethodGet, path, headers, nil, action)
	if err != nil {
		p.tel.ReportBroken(report_client_get_orders, err)
		return nil, err
	}

	var list []remoteOrder
	err = decodeJSON(res, action, &list)
	if err != nil {
		p.tel.ReportBroken(report_client_get_orders, err)
		return nil, err
	}

	now := p.time.Now()
	out := make([]orders.Order, len(list))
	for i, remote := range list {
		order, warnings := remote.toOrder(now)
		for _, w := range warnings {
			p.tel.ReportWarning(report_client_get_orders, w)
		}
		out[i] = order
	}
	p.tel.ReportCount(report_client_get_orders, int64(len(out)))

	return out, nil
}

type confirmRequest struct {
	FoodPreparationDuration int `json:"food_preparation_duration"`
	DeliveryTimeDuration    int `json:"delivery_time_duration"`
}

type patchRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order to the target status. Confirming takes two calls, the
// order has to be marked as received before it can be confirmed, the other targets are
// a single patch of the order.
func (p *Portal) UpdateStatus(ctx context.Context, session orders.Session, transition orders.StatusTransition) error {
	err := transition.Validate()
	if err != nil {
		return err
	}
	s, err := p.session(session)
	if err != nil {
		return err
	}

	orderPath := "/api/orders/" + url.PathEscape(transition.OrderId)
	p.tel.ReportDebug("update status", transition.OrderId, transition.Target)

	if transition.Target != orders.TargetConfirmed {
		return p.mutate(
			ctx, s,
			http.MethodPatch,
			orderPath,
			patchRequest{Status: string(transition.Target)},
			fmt.Sprintf("Updating order %s to %s", transition.OrderId, transition.Target),
		)
	}

	err = p.mutate(
		ctx, s,
		http.MethodPost,
		orderPath+"/mark-as-received",
		nil,
		fmt.Sprintf("Marking order %s as received", transition.OrderId),
	)
	if err != nil {
		return err
	}

	foodPreparation, deliveryTime := transition.Durations()
	return p.mutate(
		ctx, s,
		http.MethodPost,
		orderPath+"/confirm",
		confirmRequest{
			FoodPreparationDuration: foodPreparation,
			DeliveryTimeDuration:    deliveryTime,
		},
		fmt.Sprintf("Confirming order %s", transition.OrderId),
	)
}
