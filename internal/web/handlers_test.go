package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/ust_basket/internal/domain"
	"github.com/vitos/ust_basket/internal/metrics"
	"github.com/vitos/ust_basket/internal/usecase"
	"go.uber.org/zap"
)

type mockSource struct {
	records []domain.SecurityRecord
	err     error
	classes []domain.SecurityClass
}

func (m *mockSource) FetchSecurities(ctx context.Context, class domain.SecurityClass) ([]domain.SecurityRecord, error) {
	m.classes = append(m.classes, class)
	return m.records, m.err
}

var twoYearNote = domain.SecurityRecord{
	CUSIP:        "912828XXX",
	Term:         "2-Year",
	MaturityDate: "2028-12-01T00:00:00",
	IssueDate:    "2026-12-01T00:00:00",
	InterestRate: "3.875000",
	LowYield:     "3.912000",
}

func newTestServer(t *testing.T, source *mockSource) *Server {
	t.Helper()
	require.NoError(t, InitTemplates("templates"))
	m := metrics.NewMetrics("test")
	svc := usecase.NewBasketService(source, nil, m, zap.NewNop())
	return NewServer(0, svc, m, zap.NewNop())
}

func postForm(s *Server, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersForm(t *testing.T) {
	s := newTestServer(t, &mockSource{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, code := range []string{"TU", "FV", "TY", "TN", "US", "UB"} {
		assert.Contains(t, body, `value="`+code+`"`)
	}
	assert.Contains(t, body, `name="expiration"`)
}

func TestPostRendersBasket(t *testing.T) {
	source := &mockSource{records: []domain.SecurityRecord{twoYearNote}}
	s := newTestServer(t, source)

	rec := postForm(s, url.Values{"futCon": {"TU"}, "expiration": {"2026-12"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "TUZ6")
	assert.Contains(t, body, "912828XXX")
	assert.Contains(t, body, "2028-12-01")
	assert.Contains(t, body, "3.91")
	assert.Equal(t, []domain.SecurityClass{domain.ClassNote}, source.classes)
}

func TestPostEmptyBasketIsNotAnError(t *testing.T) {
	s := newTestServer(t, &mockSource{})
	rec := postForm(s, url.Values{"futCon": {"FV"}, "expiration": {"2026-12"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No eligible securities")
}

func TestPostFetchFailureIsVisible(t *testing.T) {
	s := newTestServer(t, &mockSource{err: errors.New("connection refused")})
	rec := postForm(s, url.Values{"futCon": {"US"}})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Could not compute the basket")
	assert.NotContains(t, body, "No eligible securities")
}

func TestPostInvalidContract(t *testing.T) {
	source := &mockSource{}
	s := newTestServer(t, source)
	rec := postForm(s, url.Values{"futCon": {"ZN"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, source.classes, "no fetch for an unknown contract")
}

func TestPostInvalidExpiration(t *testing.T) {
	s := newTestServer(t, &mockSource{})
	rec := postForm(s, url.Values{"futCon": {"TU"}, "expiration": {"December"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBasketJSON(t *testing.T) {
	s := newTestServer(t, &mockSource{records: []domain.SecurityRecord{twoYearNote, twoYearNote}})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/basket?contract=tu&expiration=2026-12", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var basket domain.Basket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &basket))
	assert.Equal(t, "TUZ6", basket.Name)
	require.Len(t, basket.Entries, 1)
	assert.Equal(t, "912828XXX", basket.Entries[0].CUSIP)
	assert.Equal(t, 2, basket.Entries[0].CouponsPerYear)
}

func TestBasketJSONFetchError(t *testing.T) {
	s := newTestServer(t, &mockSource{err: errors.New("timeout")})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/basket?contract=UB", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestContractsJSON(t *testing.T) {
	s := newTestServer(t, &mockSource{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contracts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var specs []domain.ContractSpec
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &specs))
	require.Len(t, specs, 6)
	assert.Equal(t, "TU", specs[0].Code)
	assert.Equal(t, domain.ClassBond, specs[5].Class)
}

func TestRequestsJSONWithoutStore(t *testing.T) {
	s := newTestServer(t, &mockSource{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/requests", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRequestsJSONInvalidLimit(t *testing.T) {
	s := newTestServer(t, &mockSource{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/requests?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t, &mockSource{})
	postForm(s, url.Values{"futCon": {"TU"}, "expiration": {"2026-12"}})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_basket_requests_total{contract="TU",status="ok"} 1`)
}
