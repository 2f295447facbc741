/*
Package catalog provides pre-built benefit product definitions.

PURPOSE:
  Ready-to-use JSON product definitions for the three supported product
  families, plus a sample employee and elections used for demos and seeding.
  The JSON builders are the source of truth; StandardProducts parses them
  through the factory so seeded products and stored configs never drift.

AVAILABLE PRODUCTS:
  VoluntaryLifeJSON:       Per-role life rates, percentage subsidy
  LongTermDisabilityJSON:  Salary-based disability rate, flat subsidy
  CommuterJSON:            Flat train and parking prices, flat subsidy

EXAMPLE:
  jsonStr := catalog.VoluntaryLifeJSON("vol-life", "Voluntary Life", 10)
  product, err := factory.NewProductFactory().ParseProduct(jsonStr)
*/
package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/warp/benefits-pricing/factory"
	"github.com/warp/benefits-pricing/pricing"
)

// Standard product IDs used by StandardProducts.
const (
	VoluntaryLifeID      = "vol-life"
	LongTermDisabilityID = "ltd"
	CommuterID           = "commuter"
)

// VoluntaryLifeJSON returns JSON for a voluntary life product with employee,
// spouse and child rates per 1000 of coverage. contributionPct is whole percent.
func VoluntaryLifeJSON(id, name string, contributionPct float64) string {
	pj := map[string]interface{}{
		"id":   id,
		"name": name,
		"type": string(pricing.ProductVoluntaryLife),
		"employer_contribution": map[string]interface{}{
			"mode":         string(pricing.ContributionPercentage),
			"contribution": contributionPct,
		},
		"costs": []map[string]interface{}{
			{"role": "ee", "price": 0.35, "cost_divisor": 1000},
			{"role": "sp", "price": 0.12, "cost_divisor": 1000},
			{"role": "ch", "price": 0.05, "cost_divisor": 1000},
		},
	}
	b, _ := json.MarshalIndent(pj, "", "  ")
	return string(b)
}

// LongTermDisabilityJSON returns JSON for an LTD product insuring 80% of
// salary at 0.05 per 100 insured, with a flat dollar subsidy.
func LongTermDisabilityJSON(id, name string, contributionDollars float64) string {
	pj := map[string]interface{}{
		"id":   id,
		"name": name,
		"type": string(pricing.ProductLongTermDisability),
		"employer_contribution": map[string]interface{}{
			"mode":         string(pricing.ContributionDollars),
			"contribution": contributionDollars,
		},
		"coverage_percentage": 80,
		"cost":                map[string]interface{}{"price": 0.05, "cost_divisor": 100},
	}
	b, _ := json.MarshalIndent(pj, "", "  ")
	return string(b)
}

// CommuterJSON returns JSON for a commuter product with train and parking
// benefits.
func CommuterJSON(id, name string, contributionDollars float64) string {
	pj := map[string]interface{}{
		"id":   id,
		"name": name,
		"type": string(pricing.ProductCommuter),
		"employer_contribution": map[string]interface{}{
			"mode":         string(pricing.ContributionDollars),
			"contribution": contributionDollars,
		},
		"costs": []map[string]interface{}{
			{"type": "train", "price": 9.75},
			{"type": "parking", "price": 175},
		},
	}
	b, _ := json.MarshalIndent(pj, "", "  ")
	return string(b)
}

// StandardProductJSON returns the JSON definitions of the standard catalog,
// keyed by product ID.
func StandardProductJSON() map[string]string {
	return map[string]string{
		VoluntaryLifeID:      VoluntaryLifeJSON(VoluntaryLifeID, "Voluntary Life", 10),
		LongTermDisabilityID: LongTermDisabilityJSON(LongTermDisabilityID, "Long Term Disability", 10),
		CommuterID:           CommuterJSON(CommuterID, "Commuter Benefits", 75),
	}
}

// StandardProducts returns the standard catalog in a stable order.
func StandardProducts() []pricing.Product {
	f := factory.NewProductFactory()
	defs := StandardProductJSON()

	var products []pricing.Product
	for _, id := range []string{VoluntaryLifeID, LongTermDisabilityID, CommuterID} {
		product, err := f.ParseProduct(defs[id])
		if err != nil {
			// builders above always produce valid JSON
			panic(err)
		}
		products = append(products, product)
	}
	return products
}

// SampleEmployee returns the demo employee.
func SampleEmployee() pricing.Employee {
	return pricing.Employee{
		ID:     "emp-001",
		Name:   "Jordan Rivera",
		Email:  "jordan.rivera@example.com",
		Salary: decimal.NewFromInt(80100),
	}
}

// SampleOptions returns a reasonable election for a product type: the
// employee alone at 125000 for life and disability, train for commuter.
func SampleOptions(pt pricing.ProductType) pricing.SelectedOptions {
	switch pt {
	case pricing.ProductCommuter:
		return pricing.SelectedOptions{Benefit: pricing.BenefitTrain}
	default:
		return pricing.SelectedOptions{
			FamilyMembersToCover: []pricing.Role{pricing.RoleEmployee},
			CoverageLevel: []pricing.CoverageLevel{
				{Role: pricing.RoleEmployee, Coverage: decimal.NewFromInt(125000)},
			},
		}
	}
}
