package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestWithComponentReplacesTag(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewJSONHandler(&buf, nil)})

	logger.With(FieldSession, "s1").WithComponent(ComponentDashboard).Info("hello")

	recs := records(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, ComponentDashboard, recs[0][FieldComponent])
	assert.Equal(t, "s1", recs[0][FieldSession])
	assert.NotContains(t, buf.String(), `"component":"app"`)
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewJSONHandler(&buf, nil)})

	handler := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).Info("inside")
		})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	recs := records(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "req_1", recs[0][FieldRequestID])
	assert.Equal(t, ComponentApp, recs[0][FieldComponent])
}

func TestLogHTTPEndLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Handler: slog.NewJSONHandler(&buf, nil)}))
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard?refresh=1", nil)

	sl.LogHTTPEnd(r.Context(), r, http.StatusOK, 3, "192.0.2.1")
	sl.LogHTTPEnd(r.Context(), r, http.StatusNotFound, 3, "192.0.2.1")
	sl.LogHTTPEnd(r.Context(), r, http.StatusBadGateway, 3, "192.0.2.1")

	recs := records(t, &buf)
	require.Len(t, recs, 3)
	assert.Equal(t, "INFO", recs[0]["level"])
	assert.Equal(t, "WARN", recs[1]["level"])
	assert.Equal(t, "ERROR", recs[2]["level"])
	assert.Equal(t, "refresh=1", recs[0][FieldQuery])
	assert.EqualValues(t, 502, recs[2][FieldStatusCode])
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotNil(t, FromContext(r.Context()))
}
