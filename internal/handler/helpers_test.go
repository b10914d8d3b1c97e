package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/featureserv/internal/domain"
	"github.com/pkordes/featureserv/internal/handler"
)

const testBaseURL = "http://localhost:5000"

// mockFeatureServicer is a test double for handler.FeatureServicer.
// Set only the method fields your test needs.
type mockFeatureServicer struct {
	list    func(ctx context.Context) (domain.FeatureCollection, error)
	getByID func(ctx context.Context, id int64) (domain.Feature, error)
}

func (m *mockFeatureServicer) List(ctx context.Context) (domain.FeatureCollection, error) {
	return m.list(ctx)
}
func (m *mockFeatureServicer) GetByID(ctx context.Context, id int64) (domain.Feature, error) {
	return m.getByID(ctx, id)
}

// mockBufferServicer is a test double for handler.BufferServicer.
type mockBufferServicer struct {
	buffer func(ctx context.Context, fc domain.FeatureCollection, distance float64, opts domain.BufferOptions) (domain.FeatureCollection, error)
}

func (m *mockBufferServicer) Buffer(ctx context.Context, fc domain.FeatureCollection, d float64, o domain.BufferOptions) (domain.FeatureCollection, error) {
	return m.buffer(ctx, fc, d, o)
}

// compile-time checks: mocks must satisfy the handler interfaces.
var (
	_ handler.FeatureServicer = (*mockFeatureServicer)(nil)
	_ handler.BufferServicer  = (*mockBufferServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into its chi router.
// Nil services are fine for routes that do not touch them.
func newHTTPHandler(features handler.FeatureServicer, buffer handler.BufferServicer) http.Handler {
	return handler.NewServer(features, buffer, testBaseURL, nil).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func featureFixture(id int) domain.Feature {
	return domain.Feature{
		Type:       domain.TypeFeature,
		Geometry:   json.RawMessage(`{"type":"Point","coordinates":[1,2]}`),
		Properties: domain.Properties{"id": json.Number(strconv.Itoa(id)), "name": "fixture"},
	}
}
