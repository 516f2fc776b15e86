package takeaway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/chrono"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/components/telemetry"
	"github.com/kozmoz/thuisbezorgd-scraper/internal/orders"
	"github.com/kozmoz/thuisbezorgd-scraper/lib/restyutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "embed"
)

//go:embed testdata/landing.html
var landingPage []byte

//go:embed testdata/login_failed.html
var loginFailedPage []byte

var creds = orders.Credentials{Username: "restaurant", Password: "secret"}

type fakePortal struct {
	t testing.TB

	mutex      sync.Mutex
	calls      []string
	loginPage  []byte
	ordersPage []byte
	// details maps order ids to their details page, ids that are missing get a 500
	details      map[string][]byte
	statusUpdate map[string]string
}

func (f *fakePortal) record(call string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePortal) Calls() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakePortal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.record(r.Method + " " + r.URL.Path)

	if r.URL.Path != "/" {
		cookie, err := r.Cookie("PHPSESSID")
		if err != nil || cookie.Value != "session-1" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
	}

	w.Header().Set("content-type", "text/html; charset=utf-8")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "session-1", Path: "/"})
		w.Write(landingPage)
	case r.Method == http.MethodPost && r.URL.Path == "/":
		valid := assert.NoError(f.t, r.ParseForm()) &&
			assert.Equal(f.t, "a1b2c3d4e5f6", r.PostForm.Get("key")) &&
			assert.Equal(f.t, "true", r.PostForm.Get("login")) &&
			assert.Equal(f.t, "en", r.PostForm.Get("language")) &&
			assert.Equal(f.t, creds.Username, r.PostForm.Get("username"))
		if !valid {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("password") != creds.Password {
			w.Write(loginFailedPage)
			return
		}
		w.Write(f.loginPage)
	case r.Method == http.MethodGet && r.URL.Path == "/orders/orders":
		w.Write(f.ordersPage)
	case r.Method == http.MethodPost && r.URL.Path == "/orders/details":
		if !assert.NoError(f.t, r.ParseForm()) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		page, ok := f.details[r.PostForm.Get("id")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(page)
	case r.Method == http.MethodPost && r.URL.Path == "/orders/status":
		valid := assert.NoError(f.t, r.ParseForm()) &&
			assert.Equal(f.t, "a1b2c3d4e5f6", r.PostForm.Get("key"))
		if !valid {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mutex.Lock()
		f.statusUpdate[r.PostForm.Get("id")] = r.PostForm.Get("status")
		f.mutex.Unlock()
		w.Write([]byte("<html><body><p>ok</p></body></html>"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakePortal(t testing.TB) *fakePortal {
	return &fakePortal{
		t:            t,
		loginPage:    []byte("<html><body><h1>Orders</h1></body></html>"),
		ordersPage:   ordersPage,
		details:      map[string][]byte{},
		statusUpdate: map[string]string{},
	}
}

func newTestPortal(t testing.TB, fake *fakePortal) (*Portal, *telemetry.TestAPI) {
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	tel := telemetry.NewTestAPI()
	portal, err := NewPortal(
		Options{BaseUrl: server.URL, UserAgent: "thuisbezorgd-scraper/test"},
		chrono.FixedImpl{At: time.Date(2024, 3, 1, 21, 0, 0, 0, time.UTC)},
		tel,
	)
	require.NoError(t, err)
	return portal, tel
}

func TestLogin(t *testing.T) {
	fake := newFakePortal(t)
	portal, _ := newTestPortal(t, fake)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	session, err := portal.Login(ctx, creds)
	require.NoError(t, err)

	legacy, ok := session.(*Session)
	require.True(t, ok)
	require.Equal(t, "a1b2c3d4e5f6", legacy.Key)
	require.Equal(t, "PHPSESSID=session-1", legacy.Cookie)
	require.Equal(t, []string{"GET /", "POST /"}, fake.Calls())
}

func TestLoginFailed(t *testing.T) {
	fake := newFakePortal(t)
	portal, tel := newTestPortal(t, fake)

	_, err := portal.Login(context.Background(), orders.Credentials{
		Username: creds.Username,
		Password: "wrong",
	})
	require.ErrorIs(t, err, orders.ErrLoginFailed)
	require.Contains(t, err.Error(), "Enter your username and password")
	require.Len(t, tel.Reports("warning", report_client_login), 1)
}

func TestLoginWithoutCredentials(t *testing.T) {
	fake := newFakePortal(t)
	portal, _ := newTestPortal(t, fake)

	_, err := portal.Login(context.Background(), orders.Credentials{Username: "restaurant"})
	require.ErrorIs(t, err, orders.ErrNoCredentials)
	require.Empty(t, fake.Calls())
}

func TestOrders(t *testing.T) {
	fake := newFakePortal(t)
	fake.details["NPPP75771O"] = detailsDeliveryPage
	fake.details["NPPP757711"] = detailsPickupPage
	portal, tel := newTestPortal(t, fake)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	session, err := portal.Login(ctx, creds)
	require.NoError(t, err)
	list, err := portal.Orders(ctx, session)
	require.NoError(t, err)
	require.Len(t, list, 3)

	require.True(t, list[0].HasDetail())
	require.Equal(t, "Janneke", list[0].CustomerName)
	require.Equal(t, orders.DeliveryTypeDelivery, list[0].DeliveryType)

	require.True(t, list[1].HasDetail())
	require.Equal(t, orders.DeliveryTypePickup, list[1].DeliveryType)

	// the third details page fails, the order is kept without details
	require.False(t, list[2].HasDetail())
	require.Equal(t, "ELMNZZ", list[2].OrderCode)
	require.Len(t, tel.Reports("warning", report_client_get_details), 1)

	detailCalls := 0
	for _, call := range fake.Calls() {
		if call == "POST /orders/details" {
			detailCalls++
		}
	}
	require.Equal(t, 3, detailCalls)
}

func TestOrdersEmpty(t *testing.T) {
	fake := newFakePortal(t)
	fake.ordersPage = ordersEmptyPage
	portal, _ := newTestPortal(t, fake)

	session, err := portal.Login(context.Background(), creds)
	require.NoError(t, err)
	list, err := portal.Orders(context.Background(), session)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
	require.Equal(t, []string{"GET /", "POST /", "GET /orders/orders"}, fake.Calls())
}

func TestOrdersEmptyBody(t *testing.T) {
	fake := newFakePortal(t)
	fake.ordersPage = []byte{}
	portal, _ := newTestPortal(t, fake)

	session, err := portal.Login(context.Background(), creds)
	require.NoError(t, err)
	_, err = portal.Orders(context.Background(), session)
	require.ErrorIs(t, err, orders.ErrHttp)
}

func TestOrdersWithoutSession(t *testing.T) {
	fake := newFakePortal(t)
	portal, _ := newTestPortal(t, fake)

	_, err := portal.Orders(context.Background(), nil)
	require.ErrorIs(t, err, orders.ErrNoCredentials)
	require.Empty(t, fake.Calls())
}

func TestUpdateStatus(t *testing.T) {
	fake := newFakePortal(t)
	portal, _ := newTestPortal(t, fake)

	session, err := portal.Login(context.Background(), creds)
	require.NoError(t, err)

	transition, err := orders.NewStatusTransition("NPPP75771O", "KITCHEN", 0, 0)
	require.NoError(t, err)
	err = portal.UpdateStatus(context.Background(), session, transition)
	require.NoError(t, err)

	require.Equal(t, map[string]string{"NPPP75771O": "kitchen"}, fake.statusUpdate)
	require.Equal(t, []string{"GET /", "POST /", "POST /orders/status"}, fake.Calls())
}

func TestOrdersWritesRedactedHttpMessages(t *testing.T) {
	fake := newFakePortal(t)
	fake.details["NPPP75771O"] = detailsDeliveryPage
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	output, err := restyutil.NewFilesystemOutput(t.TempDir())
	require.NoError(t, err)
	portal, err := NewPortal(
		Options{BaseUrl: server.URL, UserAgent: "thuisbezorgd-scraper/test", DumpOutput: output},
		chrono.FixedImpl{At: time.Date(2024, 3, 1, 21, 0, 0, 0, time.UTC)},
		telemetry.NewTestAPI(),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	session, err := portal.Login(ctx, creds)
	require.NoError(t, err)
	_, err = portal.Orders(ctx, session)
	require.NoError(t, err)

	entries, err := os.ReadDir(output.Directory())
	require.NoError(t, err)
	require.Len(t, entries, len(fake.Calls()))

	var loginMessages int
	for _, entry := range entries {
		contents, err := os.ReadFile(filepath.Join(output.Directory(), entry.Name()))
		require.NoError(t, err)
		require.NotContains(t, string(contents), creds.Password, entry.Name())
		require.NotContains(t, string(contents), "session-1", entry.Name())
		if strings.Contains(string(contents), "password=<redacted>") {
			loginMessages++
		}
	}
	require.Equal(t, 1, loginMessages)
}
