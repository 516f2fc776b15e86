package orders

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsConnectionError(t *testing.T) {
	for _, msg := range []string{
		"socket hang up",
		"There is a ECONNRESET",
		"Any SSLV3_ALERT_HANDSHAKE_FAILURE Error",
		"read tcp 10.0.0.2:5000: read: connection reset by peer",
	} {
		require.True(t, IsConnectionError(msg), msg)
	}

	for _, msg := range []string{"EACCES", "ENOENT", "ENOTFOUND", ""} {
		require.False(t, IsConnectionError(msg), msg)
	}
}

func TestNewTransportError(t *testing.T) {
	err := NewTransportError(fmt.Errorf("Post \"https://x\": socket hang up"), "login")
	require.Equal(t, HttpErrorConnection, err.Code)

	err = NewTransportError(fmt.Errorf("dial tcp: lookup x: no such host"), "login")
	require.Equal(t, HttpError, err.Code)
}

func TestErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("update status: %w", NewError(RestaurantIdRequired, "no restaurant"))

	require.ErrorIs(t, wrapped, ErrNoCredentials)
	require.False(t, errors.Is(wrapped, ErrHttp))
	require.Equal(t, RestaurantIdRequired, CodeOf(wrapped))

	require.ErrorIs(t, NewHttpError(500, "boom"), ErrHttp)
	require.False(t, errors.Is(NewHttpError(500, "boom"), ErrNoCredentials))
	require.Equal(t, ErrorCode(""), CodeOf(fmt.Errorf("plain")))
}

func TestCredentialsCheck(t *testing.T) {
	require.ErrorIs(t, Credentials{}.Check(), ErrNoCredentials)
	require.ErrorIs(t, Credentials{Username: "pizza"}.Check(), ErrNoCredentials)
	require.ErrorIs(t, Credentials{Password: "secret"}.Check(), ErrNoCredentials)
	require.NoError(t, Credentials{Username: "pizza", Password: "secret"}.Check())
}
