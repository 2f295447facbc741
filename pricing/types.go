/*
Package pricing computes per-employee premiums for voluntary benefit products.

PURPOSE:
  Turns an employee's elections and a product's rate tables into the price
  the employee sees. The same pipeline runs for every product family:

    rate calculator -> raw price
    contribution    -> employer subsidy for that raw price
    formatter       -> final price, truncated to cents

KEY CONCEPTS IN THIS FILE (types.go):
  - Product: immutable configuration (rates + employer contribution)
  - Rates: sealed sum type, one variant per product family plus UnknownRates
  - SelectedOptions: what the employee elected for a single pricing request
  - Employee: attributes read by calculators that depend on the employee

DESIGN PRINCIPLES:
  1. Precision: rates, raw prices and contributions are decimal.Decimal;
     only the displayed price is a float64
  2. Purity: nothing here is mutated by the engine
  3. Closed set: Rates has an unexported marker, so only this package
     defines product families

USAGE:
  product := pricing.Product{
      ID:   "vol-life",
      EmployerContribution: pricing.Percentage(decimal.RequireFromString("0.10")),
      Rates: &pricing.VoluntaryLifeRates{Costs: []pricing.RoleCost{
          {Role: pricing.RoleEmployee, Price: decimal.RequireFromString("0.35"), CostDivisor: decimal.NewFromInt(1000)},
      }},
  }
  price, err := pricing.ProductPrice(product, employee, options)

SEE ALSO:
  - engine.go: dispatcher
  - rates.go: per-product calculators
  - factory/product.go: JSON product definitions
*/
package pricing

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PRODUCT TYPE
// =============================================================================

// ProductType is the discriminator carried by product configurations.
type ProductType string

const (
	ProductVoluntaryLife      ProductType = "voluntaryLife"
	ProductLongTermDisability ProductType = "longTermDisability"
	ProductCommuter           ProductType = "commuter"
)

// KnownProductTypes lists the product families the engine can price.
func KnownProductTypes() []ProductType {
	return []ProductType{ProductVoluntaryLife, ProductLongTermDisability, ProductCommuter}
}

// IsKnown reports whether t names a product family the engine can price.
func (t ProductType) IsKnown() bool {
	switch t {
	case ProductVoluntaryLife, ProductLongTermDisability, ProductCommuter:
		return true
	}
	return false
}

// =============================================================================
// ROLES, COVERAGE, BENEFITS
// =============================================================================

// Role identifies a covered person relative to the employee.
type Role string

const (
	RoleEmployee Role = "ee"
	RoleSpouse   Role = "sp"
	RoleChild    Role = "ch"
)

// CoverageLevel is the coverage amount elected for one role.
type CoverageLevel struct {
	Role     Role
	Coverage decimal.Decimal
}

// BenefitKind is the commuter sub-selection.
type BenefitKind string

const (
	BenefitTrain   BenefitKind = "train"
	BenefitParking BenefitKind = "parking"
)

// SelectedOptions holds the employee's elections for one pricing request.
type SelectedOptions struct {
	FamilyMembersToCover []Role
	CoverageLevel        []CoverageLevel
	Benefit              BenefitKind
}

// Covers reports whether role is among the family members to cover.
func (o SelectedOptions) Covers(role Role) bool {
	for _, r := range o.FamilyMembersToCover {
		if r == role {
			return true
		}
	}
	return false
}

// CoverageFor returns the elected coverage for role.
func (o SelectedOptions) CoverageFor(role Role) (decimal.Decimal, bool) {
	return coverageFor(role, o.CoverageLevel)
}

func coverageFor(role Role, levels []CoverageLevel) (decimal.Decimal, bool) {
	for _, l := range levels {
		if l.Role == role {
			return l.Coverage, true
		}
	}
	return decimal.Zero, false
}

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee carries the attributes calculators may read. Only long-term
// disability reads Salary today.
type Employee struct {
	ID     string
	Name   string
	Email  string
	Salary decimal.Decimal
}

// =============================================================================
// EMPLOYER CONTRIBUTION
// =============================================================================

type ContributionMode string

const (
	// ContributionPercentage: Value is a fraction of the raw price (0.10 = 10%).
	ContributionPercentage ContributionMode = "percentage"
	// ContributionDollars: Value is a flat amount.
	ContributionDollars ContributionMode = "dollars"
)

// EmployerContribution is the employer's subsidy configuration for a product.
type EmployerContribution struct {
	Mode  ContributionMode
	Value decimal.Decimal
}

// Percentage builds a percentage-mode contribution from a fraction.
func Percentage(fraction decimal.Decimal) EmployerContribution {
	return EmployerContribution{Mode: ContributionPercentage, Value: fraction}
}

// Dollars builds a dollars-mode contribution.
func Dollars(amount decimal.Decimal) EmployerContribution {
	return EmployerContribution{Mode: ContributionDollars, Value: amount}
}

// =============================================================================
// RATES - one variant per product family
// =============================================================================

// Rates is the product-specific rate data. The set of implementations is
// closed: VoluntaryLifeRates, LongTermDisabilityRates, CommuterRates and
// UnknownRates.
type Rates interface {
	ProductType() ProductType
	sealed()
}

// RoleCost is the voluntary life price per CostDivisor units of coverage.
type RoleCost struct {
	Role        Role
	Price       decimal.Decimal
	CostDivisor decimal.Decimal
}

// VoluntaryLifeRates prices coverage per covered role.
type VoluntaryLifeRates struct {
	Costs []RoleCost
}

func (*VoluntaryLifeRates) ProductType() ProductType { return ProductVoluntaryLife }
func (*VoluntaryLifeRates) sealed()                  {}

// CostFor returns the rate configured for role.
func (r *VoluntaryLifeRates) CostFor(role Role) (RoleCost, bool) {
	return costFor(role, r.Costs)
}

func costFor(role Role, costs []RoleCost) (RoleCost, bool) {
	for _, c := range costs {
		if c.Role == role {
			return c, true
		}
	}
	return RoleCost{}, false
}

// UnitCost is a price per CostDivisor units.
type UnitCost struct {
	Price       decimal.Decimal
	CostDivisor decimal.Decimal
}

// LongTermDisabilityRates prices against the employee's salary.
// CoveragePercentage is in whole percent (80 = 80% of salary is insured).
type LongTermDisabilityRates struct {
	CoveragePercentage decimal.Decimal
	Cost               UnitCost
}

func (*LongTermDisabilityRates) ProductType() ProductType { return ProductLongTermDisability }
func (*LongTermDisabilityRates) sealed()                  {}

// BenefitCost is the flat monthly price of a commuter benefit.
type BenefitCost struct {
	Benefit BenefitKind
	Price   decimal.Decimal
}

// CommuterRates maps benefit kinds to flat prices.
type CommuterRates struct {
	Costs []BenefitCost
}

func (*CommuterRates) ProductType() ProductType { return ProductCommuter }
func (*CommuterRates) sealed()                  {}

// PriceFor returns the flat price for benefit.
func (r *CommuterRates) PriceFor(benefit BenefitKind) (decimal.Decimal, bool) {
	for _, c := range r.Costs {
		if c.Benefit == benefit {
			return c.Price, true
		}
	}
	return decimal.Zero, false
}

// UnknownRates is produced when a product definition names a type the engine
// does not know. Pricing it always fails with UnknownProductTypeError.
type UnknownRates struct {
	Type string
}

func (u UnknownRates) ProductType() ProductType { return ProductType(u.Type) }
func (UnknownRates) sealed()                    {}

// Compile-time checks
var (
	_ Rates = (*VoluntaryLifeRates)(nil)
	_ Rates = (*LongTermDisabilityRates)(nil)
	_ Rates = (*CommuterRates)(nil)
	_ Rates = UnknownRates{}
)

// =============================================================================
// PRODUCT
// =============================================================================

// Product is an immutable benefit product configuration.
type Product struct {
	ID                   string
	Name                 string
	EmployerContribution EmployerContribution
	Rates                Rates
}

// Type returns the product's discriminator. A product without rates has an
// empty type.
func (p Product) Type() ProductType {
	if p.Rates == nil {
		return ""
	}
	return p.Rates.ProductType()
}

// =============================================================================
// QUOTE - result of pricing one product for one employee
// =============================================================================

// Quote is the breakdown behind a final price.
type Quote struct {
	ProductID            string
	ProductType          ProductType
	RawPrice             decimal.Decimal
	EmployerContribution decimal.Decimal
	Price                float64
}
