// Package liveorders talks to the JSON api behind the live orders app of the portal.
package liveorders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/assert"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/chrono"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/telemetry"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/orders"
	"github.com/kozmoz/thuisbezorgd-scraper/lib/restyutil"
	oteltelemetry "github.com/kozmoz/thuisbezorgd-scraper/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseUrl = "https://live-orders-api.takeaway.com"
	DefaultOrigin  = "https://live-orders.takeaway.com"
)

const (
	report_client_login          = "client.login"
	report_client_get_restaurant = "client.get-restaurant"
	report_client_get_orders     = "client.get-orders"
	report_client_update_status  = "client.update-status"
	report_client_preflight      = "client.preflight"
)

type Options struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// Origin is sent with every preflight, it defaults to DefaultOrigin.
	Origin    string
	UserAgent string
	// DumpOutput receives every request/response pair when set.
	DumpOutput restyutil.InstrumentOutput
}

// Session is an access token together with the restaurant it gives access to.
type Session struct {
	AccessToken  string
	RestaurantId int64
}

func (s *Session) Describe() string {
	return fmt.Sprintf("api session (restaurant %d)", s.RestaurantId)
}

// Portal reads and updates orders through the live orders api.
type Portal struct {
	opts Options
	http *resty.Client
	time chrono.API
	tel  telemetry.API

	headers restyutil.Headers
}

var _ orders.Portal = (*Portal)(nil)

func NewPortal(opts Options, clock chrono.API, tel telemetry.API) *Portal {
	assert.NotNil(clock)
	assert.NotNil(tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	opts.BaseUrl = strings.TrimSuffix(opts.BaseUrl, "/")
	if opts.Origin == "" {
		opts.Origin = DefaultOrigin
	}

	tel = telemetry.NewScopedAPI("liveorders_api", tel)

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	httpClient.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(httpClient, tel)
	oteltelemetry.InstrumentResty(httpClient, "internal/apis/liveorders")
	restyutil.InstrumentClient(httpClient, opts.DumpOutput)

	return &Portal{
		opts: opts,
		http: httpClient,
		time: clock,
		tel:  tel,
		headers: restyutil.NewHeaders(map[string]string{
			"User-Agent":      opts.UserAgent,
			"Accept":          "application/json, text/plain, */*",
			"Accept-Encoding": "gzip",
			"Accept-Language": "nl-NL,nl;q=0.9",
		}),
	}
}

var allowedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPatch:   true,
	http.MethodOptions: true,
}

// authorized returns the headers of a call on behalf of the restaurant of the session.
func (p *Portal) authorized(s *Session) restyutil.Headers {
	return p.headers.
		With("Authorization", "Bearer "+s.AccessToken).
		With("X-Restaurant-Id", fmt.Sprint(s.RestaurantId))
}

// send performs a single request, body is marshalled as json when it is not nil. Only
// transport failures are returned as errors, the response is checked by the caller.
func (p *Portal) send(
	ctx context.Context,
	method, path string,
	headers restyutil.Headers,
	body any,
	action string,
) (*resty.Response, error) {
	if !allowedMethods[method] {
		return nil, orders.NewError(orders.InvalidHttpMethod, "Unsupported http method %q", method)
	}

	req := p.http.R().
		SetContext(ctx).
		SetHeaders(headers.Map())
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("json marshal: %w", err)
		}
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(encoded)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		return nil, orders.NewTransportError(err, action)
	}
	return res, nil
}

// decodeJSON demands a 200 response with a non-empty json body.
func decodeJSON(res *resty.Response, action string, out any) error {
	if res.StatusCode() != http.StatusOK {
		return orders.NewHttpError(
			res.StatusCode(),
			"%s failed with status code %d",
			action, res.StatusCode(),
		)
	}
	contentType := res.Header().Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return orders.NewHttpError(
			res.StatusCode(),
			"%s failed, we expected a JSON response but received %q",
			action, contentType,
		)
	}
	body := bytes.TrimSpace(res.Body())
	if len(body) == 0 {
		return orders.NewHttpError(
			res.StatusCode(),
			"%s failed, we expected JSON content but received an empty body",
			action,
		)
	}
	err := json.Unmarshal(body, out)
	if err != nil {
		return orders.NewError(
			orders.ParseError,
			"%s failed, we expected JSON content but received %q",
			action, string(body),
		)
	}
	return nil
}

// preflight asks the api whether `method` may be sent to `path` with the given headers,
// the way a browser does before a cross origin request.
func (p *Portal) preflight(ctx context.Context, method, path string, headers restyutil.Headers) error {
	var names []string
	for name := range headers.Map() {
		switch name {
		case "Authorization", "X-Restaurant-Id", "Content-Type":
			names = append(names, strings.ToLower(name))
		}
	}
	slices.Sort(names)

	action := fmt.Sprintf("Preflight of %s %s", method, path)
	res, err := p.send(
		ctx,
		http.MethodOptions,
		path,
		p.headers.
			With("Access-Control-Request-Method", method).
			With("Access-Control-Request-Headers", strings.Join(names, ",")).
			With("Origin", p.opts.Origin),
		nil,
		action,
	)
	if err != nil {
		p.tel.ReportBroken(report_client_preflight, err, method, path)
		return err
	}
	if !res.IsSuccess() {
		p.tel.ReportBroken(report_client_preflight, res.Status(), method, path)
		return orders.NewHttpError(res.StatusCode(), "%s failed with status code %d", action, res.StatusCode())
	}
	return nil
}

// mutate sends a state changing call preceded by its own preflight, a failed preflight
// means the call itself is never sent.
func (p *Portal) mutate(ctx context.Context, s *Session, method, path string, body any, action string) error {
	headers := p.authorized(s)
	if body != nil {
		headers = headers.With("Content-Type", "application/json")
	}

	err := p.preflight(ctx, method, path, headers)
	if err != nil {
		return err
	}

	res, err := p.send(ctx, method, path, headers, body, action)
	if err != nil {
		p.tel.ReportBroken(report_client_update_status, err, method, path)
		return err
	}
	if !res.IsSuccess() {
		return orders.NewHttpError(res.StatusCode(), "%s failed with status code %d", action, res.StatusCode())
	}
	return nil
}

func (p *Portal) session(session orders.Session) (*Session, error) {
	s, ok := session.(*Session)
	if !ok || s == nil || s.AccessToken == "" {
		return nil, orders.NewError(orders.AccessTokenRequired, "No access token, cannot access Thuisbezorgd.nl API")
	}
	if s.RestaurantId == 0 {
		return nil, orders.NewError(orders.RestaurantIdRequired, "No restaurant reference, cannot access Thuisbezorgd.nl API")
	}
	return s, nil
}
