package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/config"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/sync"
)

// Client talks to the Shopify Admin REST API. It implements the engine's
// RemoteUpdater port; every failure comes back as a *sync.RemoteCallError so
// the dispatcher can treat it as a per-item outcome.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     logrus.FieldLogger
}

// NewClient creates a Shopify Admin API client from config.
func NewClient(cfg config.ShopifyConfig, log logrus.FieldLogger) *Client {
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL(), "/"),
		token:   cfg.AccessToken,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a local server.
func NewClientWithBaseURL(baseURL, token string, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// SetQuantity sets the available quantity for an inventory item at a location
// via POST inventory_levels/set.json.
func (c *Client) SetQuantity(ctx context.Context, inventoryItemID, locationID string, quantity int64) error {
	payload := map[string]any{
		"inventory_item_id": numericID(inventoryItemID),
		"location_id":       numericID(locationID),
		"available":         quantity,
	}
	return c.post(ctx, "set_quantity", "/inventory_levels/set.json", payload, nil)
}

type productResponse struct {
	Product struct {
		ID       int64 `json:"id"`
		Variants []struct {
			ID              int64 `json:"id"`
			InventoryItemID int64 `json:"inventory_item_id"`
		} `json:"variants"`
	} `json:"product"`
}

// CreateCatalogEntry creates a product with its default variant via POST
// products.json and returns the assigned identifiers.
func (c *Client) CreateCatalogEntry(ctx context.Context, title string) (sync.CatalogEntry, error) {
	payload := map[string]any{
		"product": map[string]any{
			"title":  title,
			"status": "active",
		},
	}

	var resp productResponse
	if err := c.post(ctx, "create_catalog_entry", "/products.json", payload, &resp); err != nil {
		return sync.CatalogEntry{}, err
	}
	if len(resp.Product.Variants) == 0 {
		return sync.CatalogEntry{}, &sync.RemoteCallError{
			Op:  "create_catalog_entry",
			Err: fmt.Errorf("product %d created without a variant", resp.Product.ID),
		}
	}

	return sync.CatalogEntry{
		ProductGID:       strconv.FormatInt(resp.Product.ID, 10),
		VariantGID:       strconv.FormatInt(resp.Product.Variants[0].ID, 10),
		InventoryItemGID: strconv.FormatInt(resp.Product.Variants[0].InventoryItemID, 10),
	}, nil
}

// EnableTracking attaches SKU and price to a variant and turns on Shopify
// inventory management via PUT variants/{id}.json.
func (c *Client) EnableTracking(ctx context.Context, variantID, sku string, price decimal.Decimal) error {
	payload := map[string]any{
		"variant": map[string]any{
			"id":                   numericID(variantID),
			"sku":                  sku,
			"price":                price.StringFixed(2),
			"inventory_management": "shopify",
		},
	}
	path := fmt.Sprintf("/variants/%s.json", variantID)
	return c.do(ctx, http.MethodPut, "enable_tracking", path, payload, nil)
}

type inventoryLevelResponse struct {
	InventoryLevel struct {
		InventoryItemID   int64  `json:"inventory_item_id"`
		LocationID        int64  `json:"location_id"`
		AdminGraphqlAPIID string `json:"admin_graphql_api_id"`
	} `json:"inventory_level"`
}

// ActivateInventory connects an inventory item to a location via POST
// inventory_levels/connect.json and returns the level identifier.
func (c *Client) ActivateInventory(ctx context.Context, inventoryItemID, locationID string) (string, error) {
	payload := map[string]any{
		"inventory_item_id": numericID(inventoryItemID),
		"location_id":       numericID(locationID),
	}

	var resp inventoryLevelResponse
	if err := c.post(ctx, "activate_inventory", "/inventory_levels/connect.json", payload, &resp); err != nil {
		return "", err
	}

	levelID := resp.InventoryLevel.AdminGraphqlAPIID
	if levelID == "" {
		levelID = fmt.Sprintf("%d:%d", resp.InventoryLevel.InventoryItemID, resp.InventoryLevel.LocationID)
	}
	return levelID, nil
}

func (c *Client) post(ctx context.Context, op, path string, payload, dest any) error {
	return c.do(ctx, http.MethodPost, op, path, payload, dest)
}

func (c *Client) do(ctx context.Context, method, op, path string, payload, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &sync.RemoteCallError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &sync.RemoteCallError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &sync.RemoteCallError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &sync.RemoteCallError{
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(respBody))),
		}
	}

	if dest != nil {
		if err := json.Unmarshal(respBody, dest); err != nil {
			return &sync.RemoteCallError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// numericID renders a cached identifier the way the REST API expects it.
// Identifiers are stored as text in the cache but are numeric on the wire.
func numericID(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

var _ sync.RemoteUpdater = (*Client)(nil)

