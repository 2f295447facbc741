package pricing

import "github.com/shopspring/decimal"

// ContributionCalculator computes the employer subsidy for a raw price.
type ContributionCalculator interface {
	EmployerContribution(config EmployerContribution, rawPrice decimal.Decimal) decimal.Decimal
}

// StandardContribution implements both contribution modes.
type StandardContribution struct{}

func (StandardContribution) EmployerContribution(config EmployerContribution, rawPrice decimal.Decimal) decimal.Decimal {
	return EmployerContributionAmount(config, rawPrice)
}

// EmployerContributionAmount returns the subsidy amount.
//
// Percentage mode scales with rawPrice; dollars mode returns config.Value as-is
// and is not capped at rawPrice. Unknown modes contribute nothing.
func EmployerContributionAmount(config EmployerContribution, rawPrice decimal.Decimal) decimal.Decimal {
	switch config.Mode {
	case ContributionPercentage:
		return rawPrice.Mul(config.Value)
	case ContributionDollars:
		return config.Value
	default:
		return decimal.Zero
	}
}
