package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id, contents string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.messages[id] = contents
}

func TestInstrumentClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("pong"))
	}))
	defer server.Close()

	output := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, output)

	_, err := client.R().
		SetHeader("Authorization", "Bearer secret-token").
		SetFormData(map[string]string{"id": "42"}).
		Post(server.URL + "/ping")
	require.NoError(t, err)

	message, ok := output.messages["1"]
	require.True(t, ok)
	require.Contains(t, message, "POST "+server.URL+"/ping")
	require.Contains(t, message, "id=42")
	require.Contains(t, message, "pong")
	require.Contains(t, message, "Authorization: <redacted>")
	require.NotContains(t, message, "secret-token")
}

func TestInstrumentClientWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	output := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, output)

	_, err := client.R().Get(server.URL + "/")
	require.NoError(t, err)
	_, err = client.R().Execute(http.MethodOptions, server.URL+"/api/orders")
	require.NoError(t, err)

	require.Contains(t, output.messages["1"], "GET "+server.URL+"/")
	require.Contains(t, output.messages["1"], "<html></html>")
	require.Contains(t, output.messages["2"], "OPTIONS "+server.URL+"/api/orders")
}

func TestInstrumentClientRedactsBodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"access_token": "token-1", "token_type": "Bearer", "nested": [{"password": "again"}]}`))
	}))
	defer server.Close()

	output := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, output)

	_, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"username": "restaurant", "password": "hunter2"}).
		Post(server.URL + "/api/sso/auth-by-credentials")
	require.NoError(t, err)
	_, err = client.R().
		SetFormData(map[string]string{"key": "a1b2c3", "username": "restaurant", "password": "hunter2"}).
		Post(server.URL + "/")
	require.NoError(t, err)

	for _, id := range []string{"1", "2"} {
		message := output.messages[id]
		require.Contains(t, message, "restaurant")
		require.Contains(t, message, "Bearer")
		require.NotContains(t, message, "hunter2")
		require.NotContains(t, message, "token-1")
		require.NotContains(t, message, "again")
	}
	require.NotContains(t, output.messages["2"], "a1b2c3")
	require.Contains(t, output.messages["2"], "password=<redacted>")
}

func TestRedactBody(t *testing.T) {
	require.Equal(t, `{"amount":10.01,"password":"<redacted>"}`, redactBody("application/json", []byte(`{"password": "x", "amount": 10.01}`)))
	require.Equal(t, "id=42&key=<redacted>", redactBody("application/x-www-form-urlencoded", []byte("key=abc&id=42")))
	require.Equal(t, "not json", redactBody("application/json", []byte("not json")))
	require.Equal(t, `<input name="q">`, redactBody("text/html", []byte(`<input name="q">`)))
}

func TestFilesystemOutputKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "orders.json")
	require.NoError(t, os.WriteFile(existing, []byte("[]"), 0600))

	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	require.FileExists(t, existing)
	require.Equal(t, dir, filepath.Dir(output.Directory()))

	output.Write("1", "message")
	contents, err := os.ReadFile(filepath.Join(output.Directory(), "1"))
	require.NoError(t, err)
	require.Equal(t, "message", string(contents))

	second, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	require.NotEqual(t, output.Directory(), second.Directory())
}

func TestInstrumentClientNilOutput(t *testing.T) {
	client := resty.New()
	InstrumentClient(client, nil)
}
