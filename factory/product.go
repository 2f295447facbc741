/*
Package factory provides JSON to Go product conversion.

PURPOSE:
  Converts JSON product definitions into pricing.Product values. Benefits
  administrators maintain rate tables as JSON, and the factory turns them
  into the typed rate variants the pricing engine dispatches on.

JSON SCHEMA:
  Voluntary life (per-role rates, cost per cost_divisor units of coverage):
  {
    "id": "vol-life",
    "name": "Voluntary Life",
    "type": "voluntaryLife",
    "employer_contribution": {"mode": "percentage", "contribution": 10},
    "costs": [
      {"role": "ee", "price": 0.35, "cost_divisor": 1000},
      {"role": "sp", "price": 0.12, "cost_divisor": 1000}
    ]
  }

  Long-term disability (rate against insured salary):
  {
    "id": "ltd",
    "type": "longTermDisability",
    "employer_contribution": {"mode": "dollars", "contribution": 10},
    "coverage_percentage": 80,
    "cost": {"price": 0.05, "cost_divisor": 100}
  }

  Commuter (flat price per benefit):
  {
    "id": "commuter",
    "type": "commuter",
    "employer_contribution": {"mode": "dollars", "contribution": 75},
    "costs": [
      {"type": "train", "price": 9.75},
      {"type": "parking", "price": 175}
    ]
  }

CONTRIBUTION UNITS:
  percentage: whole percent in JSON (10 = 10%), a fraction in Go (0.10)
  dollars:    amount, unchanged

UNKNOWN TYPES:
  A "type" the engine does not know is NOT a parse error. It becomes
  pricing.UnknownRates so the engine can report it when the product is
  priced. Only malformed JSON fails here.

USAGE:
  f := factory.NewProductFactory()
  product, err := f.ParseProduct(catalog.VoluntaryLifeJSON("vol-life", "Voluntary Life", 10))
  price, err := pricing.ProductPrice(product, employee, options)

SEE ALSO:
  - pricing/types.go: Product and Rates definitions
  - catalog/products.go: preset product JSON
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/benefits-pricing/pricing"
)

var hundred = decimal.NewFromInt(100)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ProductJSON is the JSON representation of a product.
// Validation tags are checked by the API layer, not by the factory.
type ProductJSON struct {
	ID                   string            `json:"id" validate:"required"`
	Name                 string            `json:"name"`
	Type                 string            `json:"type" validate:"required"`
	EmployerContribution *ContributionJSON `json:"employer_contribution,omitempty"`

	// voluntaryLife, commuter
	Costs []CostJSON `json:"costs,omitempty" validate:"dive"`

	// longTermDisability
	CoveragePercentage *float64  `json:"coverage_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Cost               *CostJSON `json:"cost,omitempty"`
}

// ContributionJSON represents the employer contribution.
type ContributionJSON struct {
	Mode         string  `json:"mode" validate:"required,oneof=percentage dollars"`
	Contribution float64 `json:"contribution" validate:"gte=0"`
}

// CostJSON is one rate table row. Role is set for voluntary life, Type for
// commuter, neither for long-term disability.
type CostJSON struct {
	Role        string  `json:"role,omitempty"`
	Type        string  `json:"type,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	CostDivisor float64 `json:"cost_divisor,omitempty" validate:"gte=0"`
}

// =============================================================================
// PRODUCT FACTORY
// =============================================================================

// ProductFactory converts JSON products to pricing.Product.
type ProductFactory struct{}

// NewProductFactory creates a new product factory.
func NewProductFactory() *ProductFactory {
	return &ProductFactory{}
}

// ParseProduct parses a JSON string into a Product.
func (f *ProductFactory) ParseProduct(jsonStr string) (pricing.Product, error) {
	var pj ProductJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return pricing.Product{}, fmt.Errorf("failed to parse product JSON: %w", err)
	}

	return f.FromJSON(pj), nil
}

// ParseCatalog parses a JSON array of products.
func (f *ProductFactory) ParseCatalog(data []byte) ([]pricing.Product, error) {
	var pjs []ProductJSON
	if err := json.Unmarshal(data, &pjs); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}

	products := make([]pricing.Product, 0, len(pjs))
	for _, pj := range pjs {
		products = append(products, f.FromJSON(pj))
	}
	return products, nil
}

// FromJSON converts ProductJSON to pricing.Product.
func (f *ProductFactory) FromJSON(pj ProductJSON) pricing.Product {
	product := pricing.Product{
		ID:   pj.ID,
		Name: pj.Name,
	}

	if pj.EmployerContribution != nil {
		product.EmployerContribution = parseContribution(*pj.EmployerContribution)
	}

	switch pricing.ProductType(pj.Type) {
	case pricing.ProductVoluntaryLife:
		rates := &pricing.VoluntaryLifeRates{}
		for _, c := range pj.Costs {
			rates.Costs = append(rates.Costs, pricing.RoleCost{
				Role:        pricing.Role(c.Role),
				Price:       decimal.NewFromFloat(c.Price),
				CostDivisor: decimal.NewFromFloat(c.CostDivisor),
			})
		}
		product.Rates = rates

	case pricing.ProductLongTermDisability:
		rates := &pricing.LongTermDisabilityRates{}
		if pj.CoveragePercentage != nil {
			rates.CoveragePercentage = decimal.NewFromFloat(*pj.CoveragePercentage)
		}
		if pj.Cost != nil {
			rates.Cost = pricing.UnitCost{
				Price:       decimal.NewFromFloat(pj.Cost.Price),
				CostDivisor: decimal.NewFromFloat(pj.Cost.CostDivisor),
			}
		}
		product.Rates = rates

	case pricing.ProductCommuter:
		rates := &pricing.CommuterRates{}
		for _, c := range pj.Costs {
			rates.Costs = append(rates.Costs, pricing.BenefitCost{
				Benefit: pricing.BenefitKind(c.Type),
				Price:   decimal.NewFromFloat(c.Price),
			})
		}
		product.Rates = rates

	default:
		product.Rates = pricing.UnknownRates{Type: pj.Type}
	}

	return product
}

// ToJSON converts a Product to ProductJSON.
func (f *ProductFactory) ToJSON(product pricing.Product) ProductJSON {
	pj := ProductJSON{
		ID:   product.ID,
		Name: product.Name,
		Type: string(product.Type()),
	}

	if product.EmployerContribution.Mode != "" {
		pj.EmployerContribution = &ContributionJSON{
			Mode:         string(product.EmployerContribution.Mode),
			Contribution: contributionToJSON(product.EmployerContribution),
		}
	}

	switch r := product.Rates.(type) {
	case *pricing.VoluntaryLifeRates:
		for _, c := range r.Costs {
			pj.Costs = append(pj.Costs, CostJSON{
				Role:        string(c.Role),
				Price:       c.Price.InexactFloat64(),
				CostDivisor: c.CostDivisor.InexactFloat64(),
			})
		}
	case *pricing.LongTermDisabilityRates:
		pct := r.CoveragePercentage.InexactFloat64()
		pj.CoveragePercentage = &pct
		pj.Cost = &CostJSON{
			Price:       r.Cost.Price.InexactFloat64(),
			CostDivisor: r.Cost.CostDivisor.InexactFloat64(),
		}
	case *pricing.CommuterRates:
		for _, c := range r.Costs {
			pj.Costs = append(pj.Costs, CostJSON{
				Type:  string(c.Benefit),
				Price: c.Price.InexactFloat64(),
			})
		}
	}

	return pj
}

// MarshalProduct renders a Product as its JSON definition.
func (f *ProductFactory) MarshalProduct(product pricing.Product) (string, error) {
	data, err := json.Marshal(f.ToJSON(product))
	if err != nil {
		return "", fmt.Errorf("failed to marshal product: %w", err)
	}
	return string(data), nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseContribution(cj ContributionJSON) pricing.EmployerContribution {
	value := decimal.NewFromFloat(cj.Contribution)
	mode := pricing.ContributionMode(cj.Mode)
	if mode == pricing.ContributionPercentage {
		value = value.Div(hundred)
	}
	return pricing.EmployerContribution{Mode: mode, Value: value}
}

func contributionToJSON(c pricing.EmployerContribution) float64 {
	if c.Mode == pricing.ContributionPercentage {
		return c.Value.Mul(hundred).InexactFloat64()
	}
	return c.Value.InexactFloat64()
}
