package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/config"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/model"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/sync"
)

// erpProduct is the ERP endpoint's wire format for one product row.
type erpProduct struct {
	Codigo       string          `json:"Codigo"`
	Descripcion  string          `json:"Descripcion"`
	Unidad       string          `json:"Unidad"`
	Precio       decimal.Decimal `json:"Precio"`
	PrecioConImp decimal.Decimal `json:"PrecioConImp"`
	Existencia   decimal.Decimal `json:"Existencia"`
	Almacen      string          `json:"Almacen"`
}

// Extractor pulls the full product snapshot from the ERP HTTP endpoint and
// maps it into source items. Rows failing the validity rule (empty SKU or
// non-positive price) are dropped here, before the engine ever sees them.
type Extractor struct {
	endpointURL     string
	apiKey          string
	defaultLocation string
	client          *http.Client
	log             logrus.FieldLogger
}

// NewExtractor creates an ERP extractor from config.
func NewExtractor(cfg config.ERPConfig, log logrus.FieldLogger) *Extractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Extractor{
		endpointURL:     cfg.EndpointURL,
		apiKey:          cfg.APIKey,
		defaultLocation: cfg.DefaultLocation,
		client:          &http.Client{Timeout: timeout},
		log:             log,
	}
}

// Extract fetches and decodes the current product list. Transport, status and
// decode failures are all extraction errors, fatal to the cycle.
func (e *Extractor) Extract(ctx context.Context) ([]model.SourceItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpointURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sync.ErrExtraction, err)
	}
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("X-API-Key", e.apiKey)
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sync.ErrExtraction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: endpoint returned %d: %s",
			sync.ErrExtraction, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rows []erpProduct
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", sync.ErrExtraction, err)
	}

	items := make([]model.SourceItem, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		location := strings.TrimSpace(row.Almacen)
		if location == "" {
			location = e.defaultLocation
		}

		item := model.SourceItem{
			SKU:      strings.TrimSpace(row.Codigo),
			Location: location,
			Quantity: row.Existencia,
			Price:    row.Precio,
			Title:    strings.TrimSpace(row.Descripcion),
		}
		if !item.ValidForSync() {
			dropped++
			continue
		}
		items = append(items, item)
	}

	e.log.WithFields(logrus.Fields{
		"extracted": len(items),
		"dropped":   dropped,
		"elapsed":   time.Since(start),
	}).Info("ERP extraction complete")

	return items, nil
}
