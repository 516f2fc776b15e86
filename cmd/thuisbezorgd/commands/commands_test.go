package commands

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/kozmoz/thuisbezorgd-scraper/internal/orders"

	"github.com/stretchr/testify/require"
)

func TestNewErrorOutput(t *testing.T) {
	out := newErrorOutput(fmt.Errorf("scrape: %w", orders.NewHttpError(http.StatusUnauthorized, "Login failed")))
	require.Equal(t, errorOutput{
		ErrorCode:      orders.HttpError,
		ErrorMessage:   "Login failed",
		HttpStatusCode: http.StatusUnauthorized,
	}, out)

	out = newErrorOutput(fmt.Errorf("unknown format"))
	require.Equal(t, "unknown format", out.ErrorMessage)
	require.Zero(t, out.HttpStatusCode)
}

func TestFormatCents(t *testing.T) {
	require.Equal(t, "€ 10,01", formatCents(1001))
	require.Equal(t, "€ 0,05", formatCents(5))
}
