package execute

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonServer(t *testing.T, status int, reply string, inspect func(body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if inspect != nil {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			inspect(body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func requireBackendKind(t *testing.T, err error, kind BackendKind) *BackendError {
	t.Helper()
	require.Error(t, err)
	var berr *BackendError
	require.True(t, errors.As(err, &berr), "want *BackendError, got %T: %v", err, err)
	assert.Equal(t, kind, berr.Kind)
	return berr
}

func TestRustBackend_RequestShape(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"success":true,"stdout":"Hello\n","stderr":""}`, func(body map[string]any) {
		assert.Equal(t, map[string]any{
			"channel":   "stable",
			"mode":      "debug",
			"edition":   "2021",
			"crateType": "bin",
			"tests":     false,
			"code":      "fn main() { println!(\"Hello\"); }\n",
			"backtrace": false,
		}, body)
	})

	b := NewRustBackend(RustConfig{Endpoint: srv.URL}, srv.Client())
	res, err := b.Execute(context.Background(), Request{Code: "fn main() { println!(\"Hello\"); }\n"})
	require.NoError(t, err)
	assert.Equal(t, "Hello\n", res.Output)
}

func TestNormalizeRust(t *testing.T) {
	str := func(s string) *string { return &s }
	yes, no := true, false

	tests := []struct {
		name string
		resp rustResponse
		want string
	}{
		{name: "error wins", resp: rustResponse{Error: str("compiler exploded"), Success: &yes, Stdout: str("x")}, want: "compiler exploded"},
		{name: "success uses stdout", resp: rustResponse{Success: &yes, Stdout: str("out"), Stderr: str("warn")}, want: "out"},
		{name: "success without stdout", resp: rustResponse{Success: &yes}, want: missingStdout},
		{name: "failure uses stderr", resp: rustResponse{Success: &no, Stdout: str(""), Stderr: str("error[E0425]")}, want: "error[E0425]"},
		{name: "failure without stderr", resp: rustResponse{Success: &no}, want: missingStderr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := normalizeRust(tt.resp)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Output)
		})
	}

	_, err := normalizeRust(rustResponse{})
	requireBackendKind(t, err, KindAPIError)
}

func TestGenericBackend_RequestShape(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"success":true,"data":{"output":"Hello\n"}}`, func(body map[string]any) {
		assert.Equal(t, map[string]any{
			"code":     "print(\"Hello\")\n",
			"codeId":   "",
			"input":    "",
			"language": "py",
		}, body)
	})

	b := NewGenericBackend(GenericConfig{Endpoint: srv.URL}, srv.Client())
	res, err := b.Execute(context.Background(), Request{Language: "py", Code: "print(\"Hello\")\n"})
	require.NoError(t, err)
	assert.Equal(t, "Hello\n", res.Output)
}

func TestGenericBackend_Normalization(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantKind BackendKind
		wantMsg  string
	}{
		{name: "reported failure", reply: `{"success":false,"data":{"output":"Traceback"}}`, wantKind: KindFailed, wantMsg: "ERROR: Code failed."},
		{name: "success flag absent", reply: `{"data":{"output":"x"}}`, wantKind: KindAPIError, wantMsg: "ERROR: API Error."},
		{name: "output missing", reply: `{"success":true,"data":{}}`, wantKind: KindMissingField},
		{name: "data missing", reply: `{"success":true}`, wantKind: KindMissingField},
		{name: "not json", reply: `<html>oops</html>`, wantKind: KindMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := jsonServer(t, http.StatusOK, tt.reply, nil)
			b := NewGenericBackend(GenericConfig{Endpoint: srv.URL}, srv.Client())

			_, err := b.Execute(context.Background(), Request{Language: "py", Code: "x"})
			berr := requireBackendKind(t, err, tt.wantKind)
			assert.Equal(t, BackendGeneric, berr.Backend)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, berr.UserMessage())
			}
			assert.NotContains(t, berr.UserMessage(), "Traceback")
		})
	}
}

func TestPostJSON_Status(t *testing.T) {
	srv := jsonServer(t, http.StatusBadGateway, `{"success":true,"data":{"output":"x"}}`, nil)
	b := NewGenericBackend(GenericConfig{Endpoint: srv.URL}, srv.Client())

	_, err := b.Execute(context.Background(), Request{Language: "py", Code: "x"})
	requireBackendKind(t, err, KindStatus)
}

func TestPostJSON_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	b := NewRustBackend(RustConfig{Endpoint: srv.URL, Timeout: 50 * time.Millisecond}, srv.Client())
	_, err := b.Execute(context.Background(), Request{Code: "fn main() {}"})
	berr := requireBackendKind(t, err, KindTimeout)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "ERROR: Execution timed out.", berr.UserMessage())
}

func TestPostJSON_Transport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	b := NewGenericBackend(GenericConfig{Endpoint: url, Timeout: time.Second}, nil)
	_, err := b.Execute(context.Background(), Request{Language: "c", Code: "int main(){}"})
	berr := requireBackendKind(t, err, KindTransport)
	assert.False(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, "ERROR: Could not reach the execution service.", berr.UserMessage())
}

func TestNewBackends_Defaults(t *testing.T) {
	r := NewRustBackend(RustConfig{}, nil)
	assert.Equal(t, DefaultRustEndpoint, r.config.Endpoint)
	assert.Equal(t, DefaultRustEdition, r.config.Edition)
	assert.Equal(t, DefaultTimeout, r.config.Timeout)
	assert.Equal(t, BackendRust, r.Name())

	g := NewGenericBackend(GenericConfig{}, nil)
	assert.Equal(t, DefaultGenericEndpoint, g.config.Endpoint)
	assert.Equal(t, DefaultTimeout, g.config.Timeout)
	assert.Equal(t, BackendGeneric, g.Name())
}
