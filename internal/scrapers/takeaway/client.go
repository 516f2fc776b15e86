// Package takeaway scrapes the server rendered restaurant portal at orders.takeaway.com,
// the older of the two ways of reading orders.
package takeaway

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/assert"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/chrono"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/telemetry"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/orders"
	"github.com/kozmoz/thuisbezorgd-scraper/lib/restyutil"
	oteltelemetry "github.com/kozmoz/thuisbezorgd-scraper/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseUrl = "https://orders.takeaway.com"

const (
	report_client_login         = "client.login"
	report_client_get_orders    = "client.get-orders"
	report_client_get_details   = "client.get-details"
	report_client_update_status = "client.update-status"
	report_count_details_failed = "client.details-failed"
)

type Options struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl   string
	UserAgent string
	// DumpOutput receives every request/response pair when set.
	DumpOutput restyutil.InstrumentOutput
}

// Session is a logged in portal session, the cookies live in the jar of its http client.
type Session struct {
	Cookie string
	Key    string

	http *resty.Client
}

func (s *Session) Describe() string {
	return fmt.Sprintf("legacy session (key %s)", s.Key)
}

// Portal reads orders by scraping the html pages of the portal.
type Portal struct {
	baseUrl *url.URL
	opts    Options
	time    chrono.API
	tel     telemetry.API

	htmlHeaders restyutil.Headers
	formHeaders restyutil.Headers
}

var _ orders.Portal = (*Portal)(nil)

func NewPortal(opts Options, clock chrono.API, tel telemetry.API) (*Portal, error) {
	assert.NotNil(clock)
	assert.NotNil(tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	opts.BaseUrl = strings.TrimSuffix(opts.BaseUrl, "/")
	parsedBaseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	htmlHeaders := restyutil.NewHeaders(map[string]string{
		"User-Agent":      opts.UserAgent,
		"Accept":          "text/html",
		"Accept-Language": "en-US",
	})
	formHeaders := htmlHeaders.Merge(restyutil.NewHeaders(map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
		"Origin":       opts.BaseUrl,
		"Referer":      opts.BaseUrl + "/",
	}))

	return &Portal{
		baseUrl:     parsedBaseUrl,
		opts:        opts,
		time:        clock,
		tel:         telemetry.NewScopedAPI("takeaway_scraper", tel),
		htmlHeaders: htmlHeaders,
		formHeaders: formHeaders,
	}, nil
}

// newHttpClient creates the client of a single session, cookies are never shared
// between sessions.
func (p *Portal) newHttpClient() (*resty.Client, error) {
	httpClient := resty.New()
	httpClient.SetBaseURL(p.opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(p.baseUrl.Hostname()))
	httpClient.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(httpClient, p.tel)
	oteltelemetry.InstrumentResty(httpClient, "internal/scrapers/takeaway")
	restyutil.InstrumentClient(httpClient, p.opts.DumpOutput)

	return httpClient, nil
}

func (p *Portal) session(session orders.Session) (*Session, error) {
	s, ok := session.(*Session)
	if !ok || s == nil || s.http == nil {
		return nil, orders.NewError(orders.NoCredentials, "No portal session, log in first")
	}
	return s, nil
}

func parseDocument(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// Login opens the landing page for the session cookie and the anti forgery key and then
// posts the credentials. The portal answers a failed login with the login page and an
// error message, a successful one has no such message.
func (p *Portal) Login(ctx context.Context, creds orders.Credentials) (orders.Session, error) {
	err := creds.Check()
	if err != nil {
		return nil, err
	}

	httpClient, err := p.newHttpClient()
	if err != nil {
		return nil, err
	}

	p.tel.ReportDebug("open landing page", p.opts.BaseUrl)
	res, err := httpClient.R().
		SetContext(ctx).
		SetHeaders(p.htmlHeaders.Map()).
		Get("/")
	if err != nil {
		p.tel.ReportBroken(report_client_login, fmt.Errorf("landing page request: %w", err))
		return nil, orders.NewTransportError(err, "start session")
	}
	if res.StatusCode() != http.StatusOK {
		return nil, orders.NewHttpError(
			res.StatusCode(),
			"Accessing %s to start session failed with status code %d",
			p.opts.BaseUrl, res.StatusCode(),
		)
	}

	doc, err := parseDocument(res.Body())
	if err != nil {
		p.tel.ReportBroken(report_client_login, fmt.Errorf("parse landing page: %w", err))
		return nil, orders.NewError(orders.ParseError, "Cannot read the landing page: %s", err.Error())
	}
	key := strings.TrimSpace(doc.Find(`input[name="key"]`).AttrOr("value", ""))
	if key == "" {
		p.tel.ReportWarning(report_client_login, fmt.Errorf("no key on the landing page"))
	}

	var cookies []string
	for _, cookie := range httpClient.GetClient().Jar.Cookies(p.baseUrl) {
		cookies = append(cookies, fmt.Sprintf("%s=%s", cookie.Name, cookie.Value))
	}

	p.tel.ReportDebug("post credentials", creds.Username)
	res, err = httpClient.R().
		SetContext(ctx).
		SetHeaders(p.formHeaders.Map()).
		SetFormData(map[string]string{
			"key":      key,
			"login":    "true",
			"language": "en",
			"username": creds.Username,
			"password": creds.Password,
		}).
		Post("/")
	if err != nil {
		p.tel.ReportBroken(report_client_login, fmt.Errorf("login request: %w", err))
		return nil, orders.NewTransportError(err, "log in")
	}
	if res.IsError() {
		return nil, orders.NewHttpError(res.StatusCode(), "Logging in failed with status code %d", res.StatusCode())
	}

	doc, err = parseDocument(res.Body())
	if err != nil {
		p.tel.ReportBroken(report_client_login, fmt.Errorf("parse login response: %w", err))
		return nil, orders.NewError(orders.ParseError, "Cannot read the login response: %s", err.Error())
	}
	message := strings.TrimSpace(doc.Find("p.error").Text())
	if message != "" {
		p.tel.ReportWarning(report_client_login, message)
		return nil, orders.NewError(orders.LoginFailed, "Login failed with message: %s", message)
	}

	return &Session{
		Cookie: strings.Join(cookies, "; "),
		Key:    key,
		http:   httpClient,
	}, nil
}

// Orders reads the orders page and then the details page of every order on it. The
// details pages are fetched concurrently, an order whose details could not be fetched
// is returned without them.
func (p *Portal) Orders(ctx context.Context, session orders.Session) ([]orders.Order, error) {
	s, err := p.session(session)
	if err != nil {
		return nil, err
	}

	res, err := s.http.R().
		SetContext(ctx).
		SetHeaders(p.htmlHeaders.Map()).
		Get("/orders/orders")
	if err != nil {
		p.tel.ReportBroken(report_client_get_orders, fmt.Errorf("fetch: %w", err))
		return nil, orders.NewTransportError(err, "get the orders")
	}
	if res.StatusCode() != http.StatusOK {
		return nil, orders.NewHttpError(res.StatusCode(), "Getting the orders failed with status code %d", res.StatusCode())
	}

	body := res.String()
	if strings.TrimSpace(body) == "" {
		return nil, orders.NewHttpError(res.StatusCode(), "The response of the orders page is empty")
	}
	if HasNoOrders(body) {
		p.tel.ReportDebug("found the no orders message")
		return []orders.Order{}, nil
	}

	doc, err := parseDocument(res.Body())
	if err != nil {
		p.tel.ReportBroken(report_client_get_orders, fmt.Errorf("parse: %w", err))
		return nil, orders.NewError(orders.ParseError, "Cannot read the orders page: %s", err.Error())
	}
	summaries, warnings := ParseOrderList(doc, p.time.Now())
	for _, w := range warnings {
		p.tel.ReportWarning(report_client_get_orders, w)
	}

	out := make([]orders.Order, len(summaries))
	for i, summary := range summaries {
		out[i] = orders.Order{Summary: summary}
	}

	errs := orders.SettleAll(ctx, len(out), func(ctx context.Context, i int) error {
		detail, err := p.details(ctx, s, out[i].Id)
		if err != nil {
			return err
		}
		out[i].Merge(detail)
		return nil
	})

	var failed int64
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed++
		p.tel.ReportWarning(report_client_get_details, out[i].Id, err)
	}
	p.tel.ReportCount(report_count_details_failed, failed)

	return out, nil
}

func (p *Portal) details(ctx context.Context, s *Session, orderId string) (orders.Detail, error) {
	res, err := s.http.R().
		SetContext(ctx).
		SetHeaders(p.formHeaders.Map()).
		SetFormData(map[string]string{
			"id": orderId,
		}).
		Post("/orders/details")
	if err != nil {
		return orders.Detail{}, orders.NewTransportError(err, "get the order details")
	}
	if res.StatusCode() != http.StatusOK {
		return orders.Detail{}, orders.NewHttpError(res.StatusCode(), "Getting the order details failed with status code %d", res.StatusCode())
	}

	doc, err := parseDocument(res.Body())
	if err != nil {
		return orders.Detail{}, orders.NewError(orders.ParseError, "Cannot read the order details: %s", err.Error())
	}
	return ParseOrderDetails(doc), nil
}

// UpdateStatus posts the new status of the order in a single call, the html portal has
// no receipt or preflight steps.
func (p *Portal) UpdateStatus(ctx context.Context, session orders.Session, transition orders.StatusTransition) error {
	err := transition.Validate()
	if err != nil {
		return err
	}
	s, err := p.session(session)
	if err != nil {
		return err
	}

	p.tel.ReportDebug("update status", transition.OrderId, transition.Target)
	res, err := s.http.R().
		SetContext(ctx).
		SetHeaders(p.formHeaders.Map()).
		SetFormData(map[string]string{
			"key":    s.Key,
			"id":     transition.OrderId,
			"status": string(transition.Target),
		}).
		Post("/orders/status")
	if err != nil {
		p.tel.ReportBroken(report_client_update_status, fmt.Errorf("update request: %w", err))
		return orders.NewTransportError(err, "update the order status")
	}
	if res.IsError() {
		return orders.NewHttpError(res.StatusCode(), "Updating the status of order %s failed with status code %d", transition.OrderId, res.StatusCode())
	}

	doc, err := parseDocument(res.Body())
	if err != nil {
		return orders.NewError(orders.ParseError, "Cannot read the status update response: %s", err.Error())
	}
	message := strings.TrimSpace(doc.Find("p.error").Text())
	if message != "" {
		p.tel.ReportWarning(report_client_update_status, transition.OrderId, message)
		return orders.NewHttpError(res.StatusCode(), "Updating the status of order %s failed with message: %s", transition.OrderId, message)
	}
	return nil
}
