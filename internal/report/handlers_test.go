package report_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-report/internal/report"
	"github.com/noah-isme/sales-report/internal/sales"
)

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRouter(svc *report.Service, maxBody int64) http.Handler {
	r := chi.NewRouter()
	r.With(middleware.RequestSize(maxBody)).Route("/api/v1/reports", (&report.Handler{Svc: svc}).Routes)
	return r
}

func post(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestSellersReturnsReport(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	sample, err := os.ReadFile("../dataset/testdata/sample.json")
	require.NoError(t, err)

	rr := post(t, newRouter(svc, 1<<20), "/api/v1/reports/sellers", string(sample))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Data report.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data.Reports, 2)
	require.Equal(t, 1, body.Data.Stats.SkippedItems)

	leader := body.Data.Reports[0]
	require.Equal(t, "seller_1", leader.SellerID)
	require.Equal(t, "Alexey Petrov", leader.Name)
	require.Equal(t, 290.0, leader.Revenue)
	// 2*100*0.95 + 100*0.9 - 2*50 - 30
	require.Equal(t, 150.0, leader.Profit)
	require.Equal(t, 22.5, leader.Bonus)
	require.Len(t, leader.TopProducts, 2)
	require.Equal(t, "SKU_001", leader.TopProducts[0].SKU)

	last := body.Data.Reports[1]
	require.Equal(t, "seller_2", last.SellerID)
	require.Equal(t, 45.5, last.Profit)
	require.Equal(t, 0.0, last.Bonus)
}

func TestSellersTrimsTopProducts(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	sample, err := os.ReadFile("../dataset/testdata/sample.json")
	require.NoError(t, err)

	rr := post(t, newRouter(svc, 1<<20), "/api/v1/reports/sellers?top=1", string(sample))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data report.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data.Reports[0].TopProducts, 1)
	require.Equal(t, "SKU_001", body.Data.Reports[0].TopProducts[0].SKU)
}

func TestSellersSkipsBlankSKUAndAcceptsReturns(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	ds := threeSellers()
	ds.PurchaseRecords[0].Items = append(ds.PurchaseRecords[0].Items,
		sales.Item{SKU: "", Quantity: 2, SalePrice: 10},
		sales.Item{SKU: "SKU_001", Quantity: -1, SalePrice: 100, Discount: 150},
	)

	rr := post(t, newRouter(svc, 1<<20), "/api/v1/reports/sellers", mustJSON(t, ds))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Data report.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, 1, body.Data.Stats.SkippedItems)
	require.Equal(t, 5, body.Data.Stats.Items)
	require.Len(t, body.Data.Reports, 3)
}

func TestSellersErrors(t *testing.T) {
	emptySellers := threeSellers()
	emptySellers.Sellers = nil
	orphan := threeSellers()
	orphan.PurchaseRecords[2].SellerID = "ghost"

	cases := []struct {
		name   string
		target string
		body   string
		status int
		code   string
	}{
		{"malformed json", "/api/v1/reports/sellers", `{"sellers":`, http.StatusBadRequest, "INVALID_DATA"},
		{"empty sellers", "/api/v1/reports/sellers", mustJSON(t, emptySellers), http.StatusBadRequest, "INVALID_DATA"},
		{"orphan record", "/api/v1/reports/sellers", mustJSON(t, orphan), http.StatusUnprocessableEntity, "ORPHAN_RECORD"},
		{"top out of range", "/api/v1/reports/sellers?top=11", mustJSON(t, threeSellers()), http.StatusBadRequest, "BAD_REQUEST"},
		{"top not a number", "/api/v1/reports/sellers?top=abc", mustJSON(t, threeSellers()), http.StatusBadRequest, "BAD_REQUEST"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newService(t, nil, nil)
			rr := post(t, newRouter(svc, 1<<20), tc.target, tc.body)
			require.Equal(t, tc.status, rr.Code, rr.Body.String())
			require.Equal(t, tc.code, decodeError(t, rr).Error.Code)
		})
	}
}

func TestSellersMissingPolicy(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	svc.Policies.Revenue = nil

	rr := post(t, newRouter(svc, 1<<20), "/api/v1/reports/sellers", mustJSON(t, threeSellers()))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "POLICY_NOT_CONFIGURED", decodeError(t, rr).Error.Code)
}

func TestSellersBodyTooLarge(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	body := mustJSON(t, threeSellers())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/sellers", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	newRouter(svc, 16).ServeHTTP(rr, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestSellersServiceNotConfigured(t *testing.T) {
	rr := post(t, newRouter(nil, 1<<20), "/api/v1/reports/sellers", "{}")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "REPORT_NOT_CONFIGURED", decodeError(t, rr).Error.Code)
}
