package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/benefits-pricing/catalog"
	"github.com/warp/benefits-pricing/pricing"
)

func TestStandardProducts_OnePerFamily(t *testing.T) {
	products := catalog.StandardProducts()

	require.Len(t, products, 3)
	assert.Equal(t, pricing.ProductVoluntaryLife, products[0].Type())
	assert.Equal(t, pricing.ProductLongTermDisability, products[1].Type())
	assert.Equal(t, pricing.ProductCommuter, products[2].Type())
}

func TestStandardProducts_SamplePrices(t *testing.T) {
	// GIVEN: The sample employee (salary 80100) with sample elections
	// THEN: Prices match the published rate sheet
	want := map[string]float64{
		catalog.VoluntaryLifeID:      39.37,
		catalog.LongTermDisabilityID: 22.04,
		catalog.CommuterID:           9.75,
	}
	emp := catalog.SampleEmployee()

	for _, product := range catalog.StandardProducts() {
		price, err := pricing.ProductPrice(product, emp, catalog.SampleOptions(product.Type()))
		require.NoError(t, err)
		assert.Equal(t, want[product.ID], price, product.ID)
	}
}

func TestStandardProductJSON_KeyedByID(t *testing.T) {
	defs := catalog.StandardProductJSON()

	assert.Len(t, defs, 3)
	assert.Contains(t, defs[catalog.CommuterID], `"commuter"`)
	assert.Contains(t, defs[catalog.VoluntaryLifeID], `"percentage"`)
}
