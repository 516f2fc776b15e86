// Package thuisbezorgd reads the open orders of a restaurant from the Thuisbezorgd.nl
// (takeaway.com) portal and updates their status.
package thuisbezorgd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kozmoz/thuisbezorgd-scraper/internal/apis/liveorders"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/chrono"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/telemetry"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/orders"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/scrapers/takeaway"
	"github.com/kozmoz/thuisbezorgd-scraper/lib/restyutil"
)

// Version is set at build time with
// -ldflags "-X github.com/kozmoz/thuisbezorgd-scraper/pkg/thuisbezorgd.Version=<version>".
var Version = "dev"

const Contact = "https://github.com/kozmoz/thuisbezorgd-scraper"

const DefaultTimeZone = "Europe/Amsterdam"

type (
	Order     = orders.Order
	Summary   = orders.Summary
	Detail    = orders.Detail
	Error     = orders.Error
	ErrorCode = orders.ErrorCode
	Status    = orders.Status
	Target    = orders.Target
)

// Variant selects which side of the portal is used.
type Variant string

const (
	// VariantApi uses the json api of the live orders app.
	VariantApi Variant = "api"
	// VariantLegacy scrapes the html pages of orders.takeaway.com.
	VariantLegacy Variant = "legacy"
)

type Config struct {
	Username string `json:"username"`
	Password string `json:"password"`

	// Verbose logs every step at debug level.
	Verbose bool    `json:"verbose"`
	Variant Variant `json:"variant"`
	// BaseUrl overrides the default host of the variant.
	BaseUrl   string `json:"base_url"`
	UserAgent string `json:"user_agent"`
	// TimeZone is the zone order times without a date are read in.
	TimeZone string `json:"time_zone"`
	// DumpHttpDir receives a file for every http request/response pair when set.
	DumpHttpDir string `json:"dump_http_dir"`
}

func DefaultUserAgent() string {
	return fmt.Sprintf("thuisbezorgd-scraper/%s (%s)", Version, Contact)
}

func (c Config) credentials() orders.Credentials {
	return orders.Credentials{Username: c.Username, Password: c.Password}
}

func (c Config) telemetry() telemetry.API {
	if !c.Verbose {
		return telemetry.SlogAPI{}
	}
	return telemetry.SlogAPI{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})),
	}
}

// NewPortal creates the portal implementation the config asks for.
func NewPortal(cfg Config, tel telemetry.API) (orders.Portal, error) {
	zone := cfg.TimeZone
	if zone == "" {
		zone = DefaultTimeZone
	}
	clock, err := chrono.NewStandardImpl(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone: %w", err)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent()
	}

	var dump restyutil.InstrumentOutput
	if cfg.DumpHttpDir != "" {
		output, err := restyutil.NewFilesystemOutput(cfg.DumpHttpDir)
		if err != nil {
			return nil, fmt.Errorf("create http dump directory: %w", err)
		}
		slog.Info("writing http messages", "dir", output.Directory())
		dump = output
	}

	switch cfg.Variant {
	case "", VariantApi:
		return liveorders.NewPortal(liveorders.Options{
			BaseUrl:    cfg.BaseUrl,
			UserAgent:  userAgent,
			DumpOutput: dump,
		}, clock, tel), nil
	case VariantLegacy:
		return takeaway.NewPortal(takeaway.Options{
			BaseUrl:    cfg.BaseUrl,
			UserAgent:  userAgent,
			DumpOutput: dump,
		}, clock, tel)
	}
	return nil, fmt.Errorf("unknown variant %q, expected %q or %q", cfg.Variant, VariantApi, VariantLegacy)
}

// Scrape logs in and returns every open order, an empty list when there are none.
func Scrape(ctx context.Context, cfg Config) ([]Order, error) {
	return scrapeWith(ctx, cfg, cfg.telemetry())
}

func scrapeWith(ctx context.Context, cfg Config, tel telemetry.API) ([]Order, error) {
	err := cfg.credentials().Check()
	if err != nil {
		return nil, err
	}
	portal, err := NewPortal(cfg, tel)
	if err != nil {
		return nil, err
	}
	return orders.NewService(portal, tel).GetOrders(ctx, cfg.credentials())
}

// UpdateStatus moves an order to "confirmed", "kitchen", "in_delivery" or "delivered".
// The durations are only used when confirming, zero means 15 minutes for preparing the
// food and 30 for delivering it.
func UpdateStatus(
	ctx context.Context,
	cfg Config,
	orderId, status string,
	foodPreparationMinutes, deliveryTimeMinutes int,
) error {
	return updateStatusWith(ctx, cfg, cfg.telemetry(), orderId, status, foodPreparationMinutes, deliveryTimeMinutes)
}

func updateStatusWith(
	ctx context.Context,
	cfg Config,
	tel telemetry.API,
	orderId, status string,
	foodPreparationMinutes, deliveryTimeMinutes int,
) error {
	transition, err := orders.NewStatusTransition(orderId, status, foodPreparationMinutes, deliveryTimeMinutes)
	if err != nil {
		return err
	}
	err = cfg.credentials().Check()
	if err != nil {
		return err
	}
	portal, err := NewPortal(cfg, tel)
	if err != nil {
		return err
	}
	return orders.NewService(portal, tel).UpdateStatus(ctx, cfg.credentials(), transition)
}
