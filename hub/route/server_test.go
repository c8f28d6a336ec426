package route

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/portseek/portseek/component/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubResolve(pid int) ([]string, error) {
	switch pid {
	case 4312:
		return []string{"3000", "8080"}, nil
	case 5000:
		return nil, nil
	case 7777:
		return nil, fmt.Errorf("%w: /proc/7777/fd", ports.ErrAccessDenied)
	case 9999:
		return nil, fmt.Errorf("%w: pid 9999", ports.ErrProcessNotFound)
	default:
		return nil, ports.ErrInvalidPID
	}
}

func doRequest(t *testing.T, target string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router(stubResolve).ServeHTTP(rec, req)

	body := map[string]any{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Result(), body
}

func TestGetPorts(t *testing.T) {
	resp, body := doRequest(t, "/ports/4312")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4312), body["pid"])
	assert.Equal(t, []any{"3000", "8080"}, body["ports"])
}

func TestGetPortsEmpty(t *testing.T) {
	resp, body := doRequest(t, "/ports/5000")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, body["ports"])
}

func TestGetPortsNotFound(t *testing.T) {
	resp, body := doRequest(t, "/ports/9999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ErrNotFound.Message, body["message"])
}

func TestGetPortsAccessDenied(t *testing.T) {
	resp, body := doRequest(t, "/ports/7777")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, ErrForbidden.Message, body["message"])
}

func TestUnknownRoute(t *testing.T) {
	resp, body := doRequest(t, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ErrNotFound.Message, body["message"])
}

func TestGetPortsBadPID(t *testing.T) {
	resp, _ := doRequest(t, "/ports/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, "/ports/-1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthentication(t *testing.T) {
	serverSecret = "hunter2"
	t.Cleanup(func() { serverSecret = "" })

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	router(stubResolve).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req.Header.Set("Authorization", "Bearer hunter2")
	rec = httptest.NewRecorder()
	router(stubResolve).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-Id"))
}
