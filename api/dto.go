/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the pricing model (decimal money, typed rates) from the external API
  contract (plain numbers, string enums).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Employee:  EmployeeDTO, CreateEmployeeRequest
  Product:   ProductDTO, CreateProductRequest (wrap factory.ProductJSON)
  Quote:     QuoteRequest, PreviewQuoteRequest, SelectedOptionsDTO, QuoteDTO
  Scenarios: ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Request types carry go-playground/validator tags. Handlers call
  h.validate.Struct(req) after decoding; failures return 400 with the
  failing fields in ErrorResponse.Details.

MONEY:
  Amounts cross the wire as float64 and are converted to decimal once, on
  the way in. Quote prices are already truncated to cents.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/benefits-pricing/factory"
	"github.com/warp/benefits-pricing/pricing"
	"github.com/warp/benefits-pricing/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	Salary    float64 `json:"salary"`
	HireDate  string  `json:"hire_date,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
// An empty ID gets a generated one.
type CreateEmployeeRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Salary   float64 `json:"salary" validate:"gte=0"`
	HireDate string  `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
}

// ProductDTO represents a stored product in API responses.
type ProductDTO struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	ProductType string              `json:"product_type"`
	Supported   bool                `json:"supported"`
	Config      factory.ProductJSON `json:"config"`
	Version     int                 `json:"version"`
	CreatedAt   string              `json:"created_at,omitempty"`
}

// CreateProductRequest is the request to create or replace a product.
type CreateProductRequest struct {
	Config factory.ProductJSON `json:"config"`
}

// CoverageLevelDTO is one elected coverage amount.
type CoverageLevelDTO struct {
	Role     string  `json:"role" validate:"required,oneof=ee sp ch"`
	Coverage float64 `json:"coverage" validate:"gte=0"`
}

// SelectedOptionsDTO carries an employee's elections.
type SelectedOptionsDTO struct {
	FamilyMembersToCover []string           `json:"family_members_to_cover" validate:"dive,oneof=ee sp ch"`
	CoverageLevel        []CoverageLevelDTO `json:"coverage_level" validate:"unique=Role,dive"`
	Benefit              string             `json:"benefit,omitempty"`
}

// QuoteRequest prices a stored product for a stored employee.
type QuoteRequest struct {
	ProductID       string             `json:"product_id" validate:"required"`
	SelectedOptions SelectedOptionsDTO `json:"selected_options"`
}

// PreviewEmployeeDTO is the employee data a preview quote needs.
type PreviewEmployeeDTO struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Salary float64 `json:"salary" validate:"gte=0"`
}

// PreviewQuoteRequest prices an inline product without touching storage.
type PreviewQuoteRequest struct {
	Product         factory.ProductJSON `json:"product"`
	Employee        PreviewEmployeeDTO  `json:"employee"`
	SelectedOptions SelectedOptionsDTO  `json:"selected_options"`
}

// QuoteDTO is a priced product. Quotes are not stored; ID identifies the
// response for logs and support.
type QuoteDTO struct {
	ID                   string  `json:"id"`
	EmployeeID           string  `json:"employee_id,omitempty"`
	ProductID            string  `json:"product_id"`
	ProductType          string  `json:"product_type"`
	RawPrice             float64 `json:"raw_price"`
	EmployerContribution float64 `json:"employer_contribution"`
	Price                float64 `json:"price"`
	QuotedAt             string  `json:"quoted_at"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:     e.ID,
		Name:   e.Name,
		Email:  e.Email,
		Salary: e.Salary.InexactFloat64(),
	}
	if !e.HireDate.IsZero() {
		dto.HireDate = e.HireDate.Format("2006-01-02")
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toPricingEmployee(e sqlite.Employee) pricing.Employee {
	return pricing.Employee{
		ID:     e.ID,
		Name:   e.Name,
		Email:  e.Email,
		Salary: e.Salary,
	}
}

func (o SelectedOptionsDTO) toPricing() pricing.SelectedOptions {
	opts := pricing.SelectedOptions{Benefit: pricing.BenefitKind(o.Benefit)}
	for _, role := range o.FamilyMembersToCover {
		opts.FamilyMembersToCover = append(opts.FamilyMembersToCover, pricing.Role(role))
	}
	for _, level := range o.CoverageLevel {
		opts.CoverageLevel = append(opts.CoverageLevel, pricing.CoverageLevel{
			Role:     pricing.Role(level.Role),
			Coverage: decimal.NewFromFloat(level.Coverage),
		})
	}
	return opts
}

func toQuoteDTO(id, employeeID string, q pricing.Quote, at time.Time) QuoteDTO {
	return QuoteDTO{
		ID:                   id,
		EmployeeID:           employeeID,
		ProductID:            q.ProductID,
		ProductType:          string(q.ProductType),
		RawPrice:             q.RawPrice.InexactFloat64(),
		EmployerContribution: q.EmployerContribution.InexactFloat64(),
		Price:                q.Price,
		QuotedAt:             at.UTC().Format(time.RFC3339),
	}
}
