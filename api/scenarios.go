/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Populates the database with a product catalog and employees so the
  quote endpoints can be exercised without hand-written setup.

AVAILABLE SCENARIOS:
  standard-catalog:    Voluntary life, LTD and commuter plus one employee
  salary-bands:        Standard catalog with employees across salary bands
  unsupported-product: Standard catalog plus a vision product the engine
                       cannot price (quotes for it return 400)

HOW SCENARIOS WORK:
  1. Reset database (clear all data)
  2. Create products via the catalog JSON builders and the factory
  3. Create employees

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "salary-bands"}

NOTE:
  Scenarios reset the database. Only use in development/demo environments.
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/benefits-pricing/catalog"
	"github.com/warp/benefits-pricing/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "standard-catalog",
		Name:        "Standard Catalog",
		Description: "Voluntary life, long-term disability and commuter with one employee",
	},
	{
		ID:          "salary-bands",
		Name:        "Salary Bands",
		Description: "Standard catalog with employees at three salary levels (LTD is salary-based)",
	},
	{
		ID:          "unsupported-product",
		Name:        "Unsupported Product",
		Description: "Standard catalog plus a vision product the engine cannot price",
	},
}

var scenarioLoaders = map[string]func(h *Handler, ctx context.Context) error{
	"standard-catalog":    (*Handler).loadStandardCatalogScenario,
	"salary-bands":        (*Handler).loadSalaryBandsScenario,
	"unsupported-product": (*Handler).loadUnsupportedProductScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if _, ok := scenarioLoaders[req.ScenarioID]; !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err := h.Seed(r.Context(), req.ScenarioID); err != nil {
		h.internalError(w, r, "Failed to load scenario", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.internalError(w, r, "Failed to reset database", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Seed resets the database and loads the named scenario.
func (h *Handler) Seed(ctx context.Context, scenarioID string) error {
	load, ok := scenarioLoaders[scenarioID]
	if !ok {
		return fmt.Errorf("unknown scenario %q", scenarioID)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	h.currentScenario = ""

	if err := load(h, ctx); err != nil {
		return fmt.Errorf("scenario %s: %w", scenarioID, err)
	}

	h.currentScenario = scenarioID
	h.Logger.Info().Str("scenario", scenarioID).Msg("scenario loaded")
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadStandardCatalogScenario(ctx context.Context) error {
	if err := h.createStandardProducts(ctx); err != nil {
		return err
	}

	emp := catalog.SampleEmployee()
	return h.Store.SaveEmployee(ctx, sqlite.Employee{
		ID:       emp.ID,
		Name:     emp.Name,
		Email:    emp.Email,
		Salary:   emp.Salary,
		HireDate: time.Date(time.Now().Year(), time.January, 6, 0, 0, 0, 0, time.UTC),
	})
}

func (h *Handler) loadSalaryBandsScenario(ctx context.Context) error {
	if err := h.createStandardProducts(ctx); err != nil {
		return err
	}

	hired := time.Date(time.Now().Year()-2, time.March, 1, 0, 0, 0, 0, time.UTC)
	employees := []sqlite.Employee{
		{ID: "emp-entry", Name: "Casey Entry", Email: "casey@example.com", Salary: decimal.NewFromInt(40000), HireDate: hired},
		{ID: "emp-mid", Name: "Morgan Mid", Email: "morgan@example.com", Salary: decimal.NewFromInt(80100), HireDate: hired},
		{ID: "emp-senior", Name: "Sam Senior", Email: "sam@example.com", Salary: decimal.NewFromInt(150000), HireDate: hired},
	}
	for _, emp := range employees {
		if err := h.Store.SaveEmployee(ctx, emp); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadUnsupportedProductScenario(ctx context.Context) error {
	if err := h.loadStandardCatalogScenario(ctx); err != nil {
		return err
	}
	return h.createProductFromJSON(ctx, `{"id": "vision", "name": "Vision", "type": "vision"}`)
}

func (h *Handler) createStandardProducts(ctx context.Context) error {
	defs := catalog.StandardProductJSON()
	for _, id := range []string{catalog.VoluntaryLifeID, catalog.LongTermDisabilityID, catalog.CommuterID} {
		if err := h.createProductFromJSON(ctx, defs[id]); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) createProductFromJSON(ctx context.Context, jsonStr string) error {
	product, err := h.ProductFactory.ParseProduct(jsonStr)
	if err != nil {
		return err
	}
	_, err = h.saveProduct(ctx, h.ProductFactory.ToJSON(product))
	return err
}
