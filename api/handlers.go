/*
handlers.go - HTTP API handlers for the benefits pricing engine

PURPOSE:
  Exposes the pricing engine via REST API. Handles HTTP request/response,
  JSON serialization and validation, and delegates pricing to pricing.Engine.

ENDPOINTS:
  Employees:
    GET    /api/employees               List all employees
    POST   /api/employees               Create employee
    GET    /api/employees/{id}          Get employee details
    DELETE /api/employees/{id}          Remove employee

  Products:
    GET    /api/products                List all products
    POST   /api/products                Create or replace product from JSON
    GET    /api/products/{id}           Get product details
    DELETE /api/products/{id}           Remove product

  Quotes:
    POST   /api/employees/{id}/quotes   Price a stored product for an employee
    POST   /api/quotes/preview          Price an inline product and employee

  Scenarios:
    GET    /api/scenarios               List demo scenarios
    POST   /api/scenarios/load          Load a demo scenario
    POST   /api/scenarios/reset         Clear all data

REQUEST FLOW (quotes):
  1. Decode and validate the request
  2. Load employee and product config from the store
  3. Parse the config via the product factory
  4. engine.Quote(product, employee, options)
  5. Record metrics, serialize the quote

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, unknown product type
  - 404: Employee or product not found
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/benefits-pricing/factory"
	"github.com/warp/benefits-pricing/pricing"
	"github.com/warp/benefits-pricing/store/sqlite"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeValidation         = "validation_failed"
	codeUnknownProductType = "unknown_product_type"
	codeNotFound           = "not_found"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store          *sqlite.Store
	ProductFactory *factory.ProductFactory
	Engine         *pricing.Engine
	Metrics        *Metrics
	Logger         zerolog.Logger

	validate *validator.Validate
	now      func() time.Time
	newID    func() string

	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a handler with the standard pricing engine.
// metrics may be nil.
func NewHandler(store *sqlite.Store, metrics *Metrics, logger zerolog.Logger) *Handler {
	return &Handler{
		Store:          store,
		ProductFactory: factory.NewProductFactory(),
		Engine:         pricing.NewEngine(),
		Metrics:        metrics,
		Logger:         logger,
		validate:       newValidator(),
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.internalError(w, r, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeCodedError(w, http.StatusNotFound, "Employee not found", codeNotFound, nil)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates or replaces an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	emp := sqlite.Employee{
		ID:     req.ID,
		Name:   req.Name,
		Email:  req.Email,
		Salary: decimal.NewFromFloat(req.Salary),
	}
	if emp.ID == "" {
		emp.ID = h.newID()
	}
	if req.HireDate != "" {
		// format already checked by the validator
		emp.HireDate, _ = time.Parse("2006-01-02", req.HireDate)
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.internalError(w, r, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// DeleteEmployee removes an employee.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Store.DeleteEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.internalError(w, r, "Failed to delete employee", err)
		return
	}
	if !deleted {
		writeCodedError(w, http.StatusNotFound, "Employee not found", codeNotFound, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

// ListProducts returns all products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListProducts(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to list products", err)
		return
	}

	dtos := make([]ProductDTO, 0, len(records))
	for _, rec := range records {
		dto, err := h.toProductDTO(rec)
		if err != nil {
			h.Logger.Warn().Err(err).Str("product_id", rec.ID).Msg("skipping unreadable product config")
			continue
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProduct returns a single product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.internalError(w, r, "Failed to get product", err)
		return
	}
	if rec == nil {
		writeCodedError(w, http.StatusNotFound, "Product not found", codeNotFound, nil)
		return
	}

	dto, err := h.toProductDTO(*rec)
	if err != nil {
		h.internalError(w, r, "Failed to read product config", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// CreateProduct stores a product definition. Products of a type the engine
// cannot price are accepted and flagged as unsupported.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	record, err := h.saveProduct(r.Context(), req.Config)
	if err != nil {
		h.internalError(w, r, "Failed to create product", err)
		return
	}

	dto, err := h.toProductDTO(*record)
	if err != nil {
		h.internalError(w, r, "Failed to read product config", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Store.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.internalError(w, r, "Failed to delete product", err)
		return
	}
	if !deleted {
		writeCodedError(w, http.StatusNotFound, "Product not found", codeNotFound, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) saveProduct(ctx context.Context, pj factory.ProductJSON) (*sqlite.ProductRecord, error) {
	product := h.ProductFactory.FromJSON(pj)
	configJSON, err := h.ProductFactory.MarshalProduct(product)
	if err != nil {
		return nil, err
	}

	if err := h.Store.SaveProduct(ctx, sqlite.ProductRecord{
		ID:          product.ID,
		Name:        product.Name,
		ProductType: string(product.Type()),
		ConfigJSON:  configJSON,
	}); err != nil {
		return nil, err
	}
	return h.Store.GetProduct(ctx, product.ID)
}

func (h *Handler) toProductDTO(rec sqlite.ProductRecord) (ProductDTO, error) {
	product, err := h.ProductFactory.ParseProduct(rec.ConfigJSON)
	if err != nil {
		return ProductDTO{}, err
	}
	return ProductDTO{
		ID:          rec.ID,
		Name:        rec.Name,
		ProductType: rec.ProductType,
		Supported:   product.Type().IsKnown(),
		Config:      h.ProductFactory.ToJSON(product),
		Version:     rec.Version,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
	}, nil
}

// =============================================================================
// QUOTE HANDLERS
// =============================================================================

// CreateQuote prices a stored product for a stored employee.
func (h *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := chi.URLParam(r, "id")

	var req QuoteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	emp, err := h.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		h.internalError(w, r, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeCodedError(w, http.StatusNotFound, "Employee not found", codeNotFound, nil)
		return
	}

	rec, err := h.Store.GetProduct(ctx, req.ProductID)
	if err != nil {
		h.internalError(w, r, "Failed to get product", err)
		return
	}
	if rec == nil {
		writeCodedError(w, http.StatusNotFound, "Product not found", codeNotFound, nil)
		return
	}

	product, err := h.ProductFactory.ParseProduct(rec.ConfigJSON)
	if err != nil {
		h.internalError(w, r, "Failed to read product config", err)
		return
	}

	h.quote(w, r, product, toPricingEmployee(*emp), req.SelectedOptions)
}

// PreviewQuote prices an inline product and employee. Nothing is stored.
func (h *Handler) PreviewQuote(w http.ResponseWriter, r *http.Request) {
	var req PreviewQuoteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	product := h.ProductFactory.FromJSON(req.Product)
	emp := pricing.Employee{
		ID:     req.Employee.ID,
		Name:   req.Employee.Name,
		Salary: decimal.NewFromFloat(req.Employee.Salary),
	}

	h.quote(w, r, product, emp, req.SelectedOptions)
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request, product pricing.Product, emp pricing.Employee, opts SelectedOptionsDTO) {
	productType := string(product.Type())
	log := h.Logger.With().
		Str("product_id", product.ID).
		Str("product_type", productType).
		Str("employee_id", emp.ID).
		Logger()

	q, err := h.Engine.Quote(product, emp, opts.toPricing())
	if err != nil {
		if pricing.IsUnknownProductType(err) {
			h.Metrics.ObserveQuote(productType, resultUnknownProductType, 0)
			log.Warn().Err(err).Msg("quote rejected")
			writeCodedError(w, http.StatusBadRequest, err.Error(), codeUnknownProductType, nil)
			return
		}
		h.Metrics.ObserveQuote(productType, resultError, 0)
		h.internalError(w, r, "Failed to price product", err)
		return
	}

	h.Metrics.ObserveQuote(productType, resultOK, q.Price)
	log.Debug().
		Str("raw_price", q.RawPrice.String()).
		Str("employer_contribution", q.EmployerContribution.String()).
		Float64("price", q.Price).
		Msg("quote priced")

	writeJSON(w, http.StatusOK, toQuoteDTO(h.newID(), emp.ID, q, h.now()))
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports whether the store is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeAndValidate decodes the JSON body into dst and validates it. On
// failure it writes a 400 and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeCodedError(w, http.StatusBadRequest, "Validation failed", codeValidation, fieldErrors(verrs))
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return false
	}
	return true
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return fields
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.Logger.Error().Err(err).Str("path", r.URL.Path).Msg(message)
	writeError(w, http.StatusInternalServerError, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeCodedError(w http.ResponseWriter, status int, message, code string, details any) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code, Details: details})
}
