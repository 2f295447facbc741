/*
rates.go - Per-product rate calculators

PURPOSE:
  One calculator per product family. Each turns elections and rate tables
  (plus employee attributes where relevant) into a raw, unformatted price.
  Contribution and formatting happen later in the engine.

PRODUCT FAMILIES:
  voluntaryLife:      sum over elected coverage levels of
                      coverage * price / costDivisor for that role
  longTermDisability: salary * coveragePercentage/100 * price / costDivisor,
                      only when the employee ("ee") is covered
  commuter:           flat price of the selected benefit (train, parking)

PRECISION:
  Multiplication happens before division so that exact inputs stay exact.

SEE ALSO:
  - engine.go: picks the calculator for a product
  - types.go: rate table shapes
*/
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// =============================================================================
// CALCULATOR INTERFACES
// =============================================================================

// RateCalculator computes raw prices for every product family.
type RateCalculator interface {
	VoluntaryLife(rates *VoluntaryLifeRates, opts SelectedOptions) decimal.Decimal
	LongTermDisability(rates *LongTermDisabilityRates, emp Employee, opts SelectedOptions) decimal.Decimal
	Commuter(rates *CommuterRates, emp Employee, opts SelectedOptions) decimal.Decimal
}

// RolePricer prices voluntary life coverage for a single covered role.
type RolePricer interface {
	PricePerRole(role Role, coverageLevel []CoverageLevel, costs []RoleCost) decimal.Decimal
}

// RolePricerFunc adapts a function to RolePricer.
type RolePricerFunc func(role Role, coverageLevel []CoverageLevel, costs []RoleCost) decimal.Decimal

func (f RolePricerFunc) PricePerRole(role Role, coverageLevel []CoverageLevel, costs []RoleCost) decimal.Decimal {
	return f(role, coverageLevel, costs)
}

// StandardRates is the production RateCalculator.
// PerRole defaults to VoluntaryLifePricePerRole when nil.
type StandardRates struct {
	PerRole RolePricer
}

var _ RateCalculator = StandardRates{}

func (s StandardRates) VoluntaryLife(rates *VoluntaryLifeRates, opts SelectedOptions) decimal.Decimal {
	perRole := s.PerRole
	if perRole == nil {
		perRole = RolePricerFunc(VoluntaryLifePricePerRole)
	}
	return voluntaryLifePrice(perRole, rates, opts)
}

func (StandardRates) LongTermDisability(rates *LongTermDisabilityRates, emp Employee, opts SelectedOptions) decimal.Decimal {
	return LongTermDisabilityPrice(rates, emp, opts)
}

func (StandardRates) Commuter(rates *CommuterRates, emp Employee, opts SelectedOptions) decimal.Decimal {
	return CommuterPrice(rates, emp, opts)
}

// =============================================================================
// VOLUNTARY LIFE
// =============================================================================

// VoluntaryLifePricePerRole returns the raw price for one covered person:
// coverage elected for role, divided into cost units, times the role's rate.
// A role missing from either table contributes zero.
func VoluntaryLifePricePerRole(role Role, coverageLevel []CoverageLevel, costs []RoleCost) decimal.Decimal {
	coverage, ok := coverageFor(role, coverageLevel)
	if !ok {
		return decimal.Zero
	}
	cost, ok := costFor(role, costs)
	if !ok || cost.CostDivisor.IsZero() {
		return decimal.Zero
	}
	return coverage.Mul(cost.Price).Div(cost.CostDivisor)
}

// VoluntaryLifePrice sums the per-role price over every elected coverage
// level. FamilyMembersToCover is not consulted.
func VoluntaryLifePrice(rates *VoluntaryLifeRates, opts SelectedOptions) decimal.Decimal {
	return voluntaryLifePrice(RolePricerFunc(VoluntaryLifePricePerRole), rates, opts)
}

func voluntaryLifePrice(perRole RolePricer, rates *VoluntaryLifeRates, opts SelectedOptions) decimal.Decimal {
	total := decimal.Zero
	for _, level := range opts.CoverageLevel {
		total = total.Add(perRole.PricePerRole(level.Role, opts.CoverageLevel, rates.Costs))
	}
	return total
}

// =============================================================================
// LONG-TERM DISABILITY
// =============================================================================

// LongTermDisabilityPrice returns the raw monthly premium for the employee's
// insured salary. Nothing is charged unless the employee is covered.
func LongTermDisabilityPrice(rates *LongTermDisabilityRates, emp Employee, opts SelectedOptions) decimal.Decimal {
	if !opts.Covers(RoleEmployee) || rates.Cost.CostDivisor.IsZero() {
		return decimal.Zero
	}
	eligibleSalary := emp.Salary.Mul(rates.CoveragePercentage)
	return eligibleSalary.Mul(rates.Cost.Price).Div(hundred.Mul(rates.Cost.CostDivisor))
}

// =============================================================================
// COMMUTER
// =============================================================================

// CommuterPrice returns the flat price of the selected benefit, or zero when
// the benefit is not offered. The employee does not affect the price.
func CommuterPrice(rates *CommuterRates, _ Employee, opts SelectedOptions) decimal.Decimal {
	price, _ := rates.PriceFor(opts.Benefit)
	return price
}
