/*
engine.go - Product price dispatcher

PURPOSE:
  The single entry point for pricing. Picks the rate calculator for the
  product's family, asks the contribution calculator for the employer
  subsidy, and formats the result.

FLOW:
  1. Type switch on product.Rates -> raw price
  2. Contribution(product.EmployerContribution, raw)   (exactly once)
  3. Format(...)                                       (exactly once)

  Rate and contribution math is exact (decimal). Only the final display
  value is a float64.

COMBINATION RULE:
  voluntaryLife, longTermDisability: Format(raw - contribution)
  commuter:                          Format(raw)

  The commuter contribution is computed but not applied. Commuter benefits
  are charged at face value until product owners say otherwise.

DEPENDENCY INJECTION:
  Rates, Contribution and Formatter are fields so callers (and tests) can
  substitute instrumented implementations. Nil fields use the standard ones.

SEE ALSO:
  - rates.go: per-product calculators
  - contribution.go, format.go: the two post-processing steps
*/
package pricing

import "github.com/shopspring/decimal"

// Engine prices products. The zero value is ready to use.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	Rates        RateCalculator
	Contribution ContributionCalculator
	Formatter    Formatter
}

// NewEngine returns an engine wired with the standard calculators.
func NewEngine() *Engine {
	return &Engine{
		Rates:        StandardRates{},
		Contribution: StandardContribution{},
		Formatter:    TruncatingFormatter{},
	}
}

var defaultEngine = NewEngine()

// ProductPrice prices a product with the standard calculators.
func ProductPrice(product Product, emp Employee, opts SelectedOptions) (float64, error) {
	return defaultEngine.ProductPrice(product, emp, opts)
}

// ProductPrice returns the final, formatted price of product for emp.
func (e *Engine) ProductPrice(product Product, emp Employee, opts SelectedOptions) (float64, error) {
	q, err := e.Quote(product, emp, opts)
	if err != nil {
		return 0, err
	}
	return q.Price, nil
}

// Quote prices a product and returns the full breakdown.
func (e *Engine) Quote(product Product, emp Employee, opts SelectedOptions) (Quote, error) {
	rates := e.rates()

	var raw decimal.Decimal
	applyContribution := true

	switch r := product.Rates.(type) {
	case *VoluntaryLifeRates:
		raw = rates.VoluntaryLife(r, opts)
	case *LongTermDisabilityRates:
		raw = rates.LongTermDisability(r, emp, opts)
	case *CommuterRates:
		raw = rates.Commuter(r, emp, opts)
		applyContribution = false
	case UnknownRates:
		return Quote{}, &UnknownProductTypeError{Type: r.Type}
	default:
		// product without rates
		return Quote{}, &UnknownProductTypeError{Type: string(product.Type())}
	}

	contribution := e.contribution().EmployerContribution(product.EmployerContribution, raw)

	net := raw
	if applyContribution {
		net = raw.Sub(contribution)
	}
	display, _ := net.Float64()

	return Quote{
		ProductID:            product.ID,
		ProductType:          product.Type(),
		RawPrice:             raw,
		EmployerContribution: contribution,
		Price:                e.formatter().FormatPrice(display),
	}, nil
}

func (e *Engine) rates() RateCalculator {
	if e.Rates == nil {
		return StandardRates{}
	}
	return e.Rates
}

func (e *Engine) contribution() ContributionCalculator {
	if e.Contribution == nil {
		return StandardContribution{}
	}
	return e.Contribution
}

func (e *Engine) formatter() Formatter {
	if e.Formatter == nil {
		return TruncatingFormatter{}
	}
	return e.Formatter
}
