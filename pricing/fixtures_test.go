package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/benefits-pricing/pricing"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, got.Equal(dec(want)), "expected %s, got %s", want, got)
}

func testEmployee() pricing.Employee {
	return pricing.Employee{
		ID:     "emp-1",
		Name:   "Test Employee",
		Email:  "test@example.com",
		Salary: dec("80100"),
	}
}

func voluntaryLifeProduct() pricing.Product {
	return pricing.Product{
		ID:                   "vol-life",
		Name:                 "Voluntary Life",
		EmployerContribution: pricing.Percentage(dec("0.10")),
		Rates: &pricing.VoluntaryLifeRates{Costs: []pricing.RoleCost{
			{Role: pricing.RoleEmployee, Price: dec("0.35"), CostDivisor: dec("1000")},
			{Role: pricing.RoleSpouse, Price: dec("0.12"), CostDivisor: dec("1000")},
			{Role: pricing.RoleChild, Price: dec("0.05"), CostDivisor: dec("1000")},
		}},
	}
}

func longTermDisabilityProduct() pricing.Product {
	return pricing.Product{
		ID:                   "ltd",
		Name:                 "Long Term Disability",
		EmployerContribution: pricing.Dollars(dec("10")),
		Rates: &pricing.LongTermDisabilityRates{
			CoveragePercentage: dec("80"),
			Cost:               pricing.UnitCost{Price: dec("0.05"), CostDivisor: dec("100")},
		},
	}
}

func commuterProduct() pricing.Product {
	return pricing.Product{
		ID:                   "commuter",
		Name:                 "Commuter Benefits",
		EmployerContribution: pricing.Dollars(dec("75")),
		Rates: &pricing.CommuterRates{Costs: []pricing.BenefitCost{
			{Benefit: pricing.BenefitTrain, Price: dec("9.75")},
			{Benefit: pricing.BenefitParking, Price: dec("175")},
		}},
	}
}

func employeeOnly(coverage string) pricing.SelectedOptions {
	return pricing.SelectedOptions{
		FamilyMembersToCover: []pricing.Role{pricing.RoleEmployee},
		CoverageLevel: []pricing.CoverageLevel{
			{Role: pricing.RoleEmployee, Coverage: dec(coverage)},
		},
	}
}

func employeeAndSpouse(eeCoverage, spCoverage string) pricing.SelectedOptions {
	return pricing.SelectedOptions{
		FamilyMembersToCover: []pricing.Role{pricing.RoleEmployee, pricing.RoleSpouse},
		CoverageLevel: []pricing.CoverageLevel{
			{Role: pricing.RoleEmployee, Coverage: dec(eeCoverage)},
			{Role: pricing.RoleSpouse, Coverage: dec(spCoverage)},
		},
	}
}

func commuterBenefit(b pricing.BenefitKind) pricing.SelectedOptions {
	return pricing.SelectedOptions{Benefit: b}
}
