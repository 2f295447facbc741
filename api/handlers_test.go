/*
handlers_test.go - HTTP handler tests

Tests for:
- Employee and product CRUD through the router
- Quote pricing end to end (store -> factory -> engine -> JSON)
- Error mapping (validation 400, unknown product type 400, not found 404)
- Quote metrics
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/benefits-pricing/catalog"
	"github.com/warp/benefits-pricing/store/sqlite"
)

type testServer struct {
	handler *Handler
	router  http.Handler
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	metrics := NewMetrics("benefits_pricing", prometheus.NewRegistry())
	h := NewHandler(store, metrics, zerolog.Nop())
	h.newID = func() string { return "quote-1" }
	h.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	return &testServer{handler: h, router: NewRouter(h, RouterOptions{})}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) seed(t *testing.T, scenario string) {
	t.Helper()
	require.NoError(t, s.handler.Seed(context.Background(), scenario))
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func employeeOnly(coverage float64) SelectedOptionsDTO {
	return SelectedOptionsDTO{
		FamilyMembersToCover: []string{"ee"},
		CoverageLevel:        []CoverageLevelDTO{{Role: "ee", Coverage: coverage}},
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestCreateEmployee_ThenGet(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/employees", CreateEmployeeRequest{
		ID:       "emp-42",
		Name:     "Riley Park",
		Email:    "riley@example.com",
		Salary:   65000,
		HireDate: "2024-09-01",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/api/employees/emp-42", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	emp := decode[EmployeeDTO](t, rr)
	assert.Equal(t, "Riley Park", emp.Name)
	assert.Equal(t, 65000.0, emp.Salary)
	assert.Equal(t, "2024-09-01", emp.HireDate)
}

func TestCreateEmployee_GeneratesID(t *testing.T) {
	s := setupTestServer(t)
	s.handler.newID = func() string { return "generated-id" }

	rr := s.do(t, http.MethodPost, "/api/employees", CreateEmployeeRequest{Name: "No Id", Salary: 1})

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "generated-id", decode[EmployeeDTO](t, rr).ID)
}

func TestCreateEmployee_ValidationFailure(t *testing.T) {
	// GIVEN: No name, a malformed email and a negative salary
	// THEN: 400 listing each failing field by its JSON name
	s := setupTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/employees", CreateEmployeeRequest{Email: "not-an-email", Salary: -1})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode[ErrorResponse](t, rr)
	assert.Equal(t, codeValidation, resp.Code)
	details, ok := resp.Details.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "CreateEmployeeRequest.name")
	assert.Contains(t, details, "CreateEmployeeRequest.email")
	assert.Contains(t, details, "CreateEmployeeRequest.salary")
}

func TestCreateEmployee_MalformedBody(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/employees", `{"name": `)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetEmployee_NotFound(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodGet, "/api/employees/missing", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, codeNotFound, decode[ErrorResponse](t, rr).Code)
}

func TestDeleteEmployee(t *testing.T) {
	s := setupTestServer(t)
	s.seed(t, "standard-catalog")

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/employees/emp-001", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/employees/emp-001", nil).Code)
}

// =============================================================================
// PRODUCTS
// =============================================================================

func TestCreateProduct_ThenGet(t *testing.T) {
	s := setupTestServer(t)
	var req CreateProductRequest
	require.NoError(t, json.Unmarshal([]byte(catalog.CommuterJSON("commuter", "Commuter Benefits", 75)), &req.Config))

	rr := s.do(t, http.MethodPost, "/api/products", req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/api/products/commuter", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	product := decode[ProductDTO](t, rr)
	assert.Equal(t, "commuter", product.ProductType)
	assert.True(t, product.Supported)
	assert.Len(t, product.Config.Costs, 2)
	assert.Equal(t, 1, product.Version)
}

func TestCreateProduct_UnknownTypeStoredAsUnsupported(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/products", `{"config": {"id": "dental", "name": "Dental", "type": "dental"}}`)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	product := decode[ProductDTO](t, rr)
	assert.Equal(t, "dental", product.ProductType)
	assert.False(t, product.Supported)
}

func TestCreateProduct_ValidationFailure(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/products",
		`{"config": {"id": "x", "type": "commuter", "employer_contribution": {"mode": "bananas", "contribution": 5}}}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, codeValidation, decode[ErrorResponse](t, rr).Code)
}

func TestListProducts_AfterScenario(t *testing.T) {
	s := setupTestServer(t)
	s.seed(t, "unsupported-product")

	rr := s.do(t, http.MethodGet, "/api/products", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	products := decode[[]ProductDTO](t, rr)
	require.Len(t, products, 4)
	supported := 0
	for _, p := range products {
		if p.Supported {
			supported++
		}
	}
	assert.Equal(t, 3, supported)
}

func TestDeleteProduct(t *testing.T) {
	s := setupTestServer(t)
	s.seed(t, "standard-catalog")

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/products/ltd", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/products/ltd", nil).Code)
}

// =============================================================================
// QUOTES
// =============================================================================

func TestCreateQuote_Prices(t *testing.T) {
	tests := []struct {
		name         string
		productID    string
		options      SelectedOptionsDTO
		raw          float64
		contribution float64
		price        float64
	}{
		{
			name:         "voluntary life employee only",
			productID:    catalog.VoluntaryLifeID,
			options:      employeeOnly(125000),
			raw:          43.75,
			contribution: 4.375,
			price:        39.37,
		},
		{
			name:      "voluntary life employee and spouse",
			productID: catalog.VoluntaryLifeID,
			options: SelectedOptionsDTO{
				FamilyMembersToCover: []string{"ee", "sp"},
				CoverageLevel: []CoverageLevelDTO{
					{Role: "ee", Coverage: 200000},
					{Role: "sp", Coverage: 75000},
				},
			},
			raw:          79,
			contribution: 7.9,
			price:        71.09,
		},
		{
			name:         "long-term disability",
			productID:    catalog.LongTermDisabilityID,
			options:      employeeOnly(125000),
			raw:          32.04,
			contribution: 10,
			price:        22.04,
		},
		{
			name:         "commuter parking ignores contribution",
			productID:    catalog.CommuterID,
			options:      SelectedOptionsDTO{Benefit: "parking"},
			raw:          175,
			contribution: 75,
			price:        175,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestServer(t)
			s.seed(t, "standard-catalog")

			rr := s.do(t, http.MethodPost, "/api/employees/emp-001/quotes", QuoteRequest{
				ProductID:       tt.productID,
				SelectedOptions: tt.options,
			})

			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			q := decode[QuoteDTO](t, rr)
			assert.Equal(t, "quote-1", q.ID)
			assert.Equal(t, "emp-001", q.EmployeeID)
			assert.Equal(t, tt.productID, q.ProductID)
			assert.Equal(t, tt.raw, q.RawPrice)
			assert.Equal(t, tt.contribution, q.EmployerContribution)
			assert.Equal(t, tt.price, q.Price)
			assert.Equal(t, "2025-06-01T12:00:00Z", q.QuotedAt)
		})
	}
}

func TestCreateQuote_LTDDependsOnSalary(t *testing.T) {
	// GIVEN: Employees at three salary levels
	// THEN: LTD price scales with salary (80% insured, 0.05 per 100, minus 10)
	s := setupTestServer(t)
	s.seed(t, "salary-bands")

	want := map[string]float64{
		"emp-entry":  6,
		"emp-mid":    22.04,
		"emp-senior": 50,
	}
	for empID, price := range want {
		rr := s.do(t, http.MethodPost, "/api/employees/"+empID+"/quotes", QuoteRequest{
			ProductID:       catalog.LongTermDisabilityID,
			SelectedOptions: employeeOnly(0),
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, price, decode[QuoteDTO](t, rr).Price, empID)
	}
}

func TestCreateQuote_UnknownProductType(t *testing.T) {
	// GIVEN: A stored vision product
	// WHEN: It is quoted
	// THEN: 400 with the engine's message, counted as unknown_product_type
	s := setupTestServer(t)
	s.seed(t, "unsupported-product")

	rr := s.do(t, http.MethodPost, "/api/employees/emp-001/quotes", QuoteRequest{ProductID: "vision"})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode[ErrorResponse](t, rr)
	assert.Equal(t, "Unknown product type: vision", resp.Error)
	assert.Equal(t, codeUnknownProductType, resp.Code)

	m := s.handler.Metrics
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("vision", resultUnknownProductType)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("vision", resultOK)))
}

func TestCreateQuote_NotFound(t *testing.T) {
	s := setupTestServer(t)
	s.seed(t, "standard-catalog")

	rr := s.do(t, http.MethodPost, "/api/employees/nobody/quotes", QuoteRequest{ProductID: catalog.CommuterID})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Employee not found", decode[ErrorResponse](t, rr).Error)

	rr = s.do(t, http.MethodPost, "/api/employees/emp-001/quotes", QuoteRequest{ProductID: "nothing"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Product not found", decode[ErrorResponse](t, rr).Error)
}

func TestCreateQuote_InvalidOptions(t *testing.T) {
	s := setupTestServer(t)
	s.seed(t, "standard-catalog")

	tests := []struct {
		name    string
		options SelectedOptionsDTO
	}{
		{"unknown role", SelectedOptionsDTO{FamilyMembersToCover: []string{"grandparent"}}},
		{"negative coverage", SelectedOptionsDTO{CoverageLevel: []CoverageLevelDTO{{Role: "ee", Coverage: -5}}}},
		{"duplicate role", SelectedOptionsDTO{CoverageLevel: []CoverageLevelDTO{
			{Role: "ee", Coverage: 1000},
			{Role: "ee", Coverage: 2000},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/api/employees/emp-001/quotes", QuoteRequest{
				ProductID:       catalog.VoluntaryLifeID,
				SelectedOptions: tt.options,
			})
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, codeValidation, decode[ErrorResponse](t, rr).Code)
		})
	}
}

func TestCreateQuote_RecordsMetrics(t *testing.T) {
	s := setupTestServer(t)
	s.seed(t, "standard-catalog")

	for i := 0; i < 3; i++ {
		rr := s.do(t, http.MethodPost, "/api/employees/emp-001/quotes", QuoteRequest{
			ProductID:       catalog.CommuterID,
			SelectedOptions: SelectedOptionsDTO{Benefit: "train"},
		})
		require.Equal(t, http.StatusOK, rr.Code)
	}

	m := s.handler.Metrics
	assert.Equal(t, 3.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("commuter", resultOK)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.QuotePrice))

	rr := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `benefits_pricing_quotes_total{product_type="commuter",result="ok"} 3`)
}

func TestPreviewQuote(t *testing.T) {
	// GIVEN: An inline LTD product and employee, nothing stored
	// THEN: Priced the same as the stored equivalent
	s := setupTestServer(t)

	body := `{
		"product": ` + catalog.LongTermDisabilityJSON("ltd-preview", "LTD Preview", 10) + `,
		"employee": {"id": "candidate", "salary": 80100},
		"selected_options": {"family_members_to_cover": ["ee"]}
	}`
	rr := s.do(t, http.MethodPost, "/api/quotes/preview", body)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	q := decode[QuoteDTO](t, rr)
	assert.Equal(t, 22.04, q.Price)
	assert.Equal(t, "longTermDisability", q.ProductType)

	products := decode[[]ProductDTO](t, s.do(t, http.MethodGet, "/api/products", nil))
	assert.Empty(t, products)
}

func TestPreviewQuote_UnknownType(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/quotes/preview", `{"product": {"id": "v", "type": "vision"}}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Unknown product type: vision", decode[ErrorResponse](t, rr).Error)
}

// =============================================================================
// SCENARIOS & HEALTH
// =============================================================================

func TestScenarios_LoadAndReset(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]ScenarioDTO](t, rr), len(scenarios))

	rr = s.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "salary-bands"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	current := decode[ScenarioDTO](t, s.do(t, http.MethodGet, "/api/scenarios/current", nil))
	assert.Equal(t, "salary-bands", current.ID)
	assert.Len(t, decode[[]EmployeeDTO](t, s.do(t, http.MethodGet, "/api/employees", nil)), 3)
	assert.Len(t, decode[[]ProductDTO](t, s.do(t, http.MethodGet, "/api/products", nil)), 3)

	rr = s.do(t, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]EmployeeDTO](t, s.do(t, http.MethodGet, "/api/employees", nil)))
	assert.Equal(t, "null", strings.TrimSpace(s.do(t, http.MethodGet, "/api/scenarios/current", nil).Body.String()))
}

func TestScenarios_LoadReplacesPreviousData(t *testing.T) {
	s := setupTestServer(t)
	s.seed(t, "salary-bands")
	s.seed(t, "standard-catalog")

	employees := decode[[]EmployeeDTO](t, s.do(t, http.MethodGet, "/api/employees", nil))
	require.Len(t, employees, 1)
	assert.Equal(t, "emp-001", employees[0].ID)
}

func TestScenarios_Unknown(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Error(t, s.handler.Seed(context.Background(), "nope"))
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
}
