// Package shopify is a minimal Shopify Admin REST client covering the
// publication and product endpoints used to manage the Google & YouTube
// sales channel.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/petebuzzell-ad/rudis-documentation/internal/config"
	"github.com/petebuzzell-ad/rudis-documentation/internal/logging"
)

// Metafield flag set by Shopify Flow to mark products for channel exclusion.
const (
	MetafieldNamespace = "custom"
	MetafieldKey       = "google_ads_exclude"
)

const (
	requestTimeout = 30 * time.Second
	maxRetries     = 4
	pageLimit      = 250
)

// ErrPublicationNotFound is returned when no sales channel matches the
// Google & YouTube name lookup and no publication ID is configured.
var ErrPublicationNotFound = errors.New("google & youtube publication not found, set GOOGLE_YOUTUBE_PUBLICATION_ID manually")

// Client handles interactions with the Shopify Admin API.
type Client struct {
	baseURL       string
	token         string
	apiVersion    string
	publicationID string
	http          *http.Client
}

// NewClient creates a Shopify Admin API client from configuration. Requests
// retry on 429 and 5xx responses with backoff; Shopify rate limits REST
// calls to 2/sec on standard plans.
func NewClient(cfg config.ShopifyConfig) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.HTTPClient.Timeout = requestTimeout
	rc.Logger = nil

	return &Client{
		baseURL:       "https://" + cfg.Store,
		token:         cfg.AccessToken,
		apiVersion:    cfg.APIVersion,
		publicationID: cfg.PublicationID,
		http:          rc.StandardClient(),
	}
}

// Publication is a sales channel.
type Publication struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductSummary is the slim product listing returned by the products
// endpoint when only identity fields are requested.
type ProductSummary struct {
	ID     int64  `json:"id"`
	Handle string `json:"handle"`
	Title  string `json:"title"`
}

// do issues an authenticated request against the versioned Admin API and
// decodes the JSON response into out. The response headers are returned for
// callers that paginate via the Link header.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (http.Header, error) {
	u := fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, c.apiVersion, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	logging.Debug("shopify api request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(detail)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decoding %s response: %w", path, err)
		}
	}
	return resp.Header, nil
}

// ResolvePublication returns the Google & YouTube publication ID. A
// configured ID wins; otherwise the sales channels are listed and matched
// by name, case-insensitively, on "google" or "youtube".
func (c *Client) ResolvePublication(ctx context.Context) (string, error) {
	if c.publicationID != "" {
		return c.publicationID, nil
	}

	var result struct {
		Publications []Publication `json:"publications"`
	}
	if _, err := c.do(ctx, http.MethodGet, "publications.json", nil, nil, &result); err != nil {
		return "", err
	}

	for _, pub := range result.Publications {
		name := strings.ToLower(pub.Name)
		if strings.Contains(name, "google") || strings.Contains(name, "youtube") {
			return fmt.Sprintf("%d", pub.ID), nil
		}
	}
	return "", ErrPublicationNotFound
}

var pageInfoRe = regexp.MustCompile(`page_info=([^&>]+)`)

// nextPageInfo extracts the cursor for the next page from a Link header, or
// "" when this is the last page.
func nextPageInfo(link string) string {
	for _, part := range strings.Split(link, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		if m := pageInfoRe.FindStringSubmatch(part); m != nil {
			return m[1]
		}
	}
	return ""
}

// Products lists every product in the catalog, identity fields only,
// following cursor pagination to the end.
func (c *Client) Products(ctx context.Context) ([]ProductSummary, error) {
	var products []ProductSummary
	pageInfo := ""

	for {
		query := url.Values{}
		query.Set("limit", fmt.Sprintf("%d", pageLimit))
		query.Set("fields", "id,handle,title")
		if pageInfo != "" {
			query.Set("page_info", pageInfo)
		}

		var page struct {
			Products []ProductSummary `json:"products"`
		}
		headers, err := c.do(ctx, http.MethodGet, "products.json", query, nil, &page)
		if err != nil {
			return nil, err
		}
		products = append(products, page.Products...)

		pageInfo = nextPageInfo(headers.Get("Link"))
		if pageInfo == "" {
			return products, nil
		}
	}
}

// productPublication returns the product publication record ID for a product
// on a channel, or found=false when the product is not published there.
func (c *Client) productPublication(ctx context.Context, publicationID, productID string) (id int64, found bool, err error) {
	query := url.Values{}
	query.Set("product_id", productID)

	var result struct {
		ProductPublications []struct {
			ID int64 `json:"id"`
		} `json:"product_publications"`
	}
	path := fmt.Sprintf("publications/%s/product_publications.json", publicationID)
	if _, err := c.do(ctx, http.MethodGet, path, query, nil, &result); err != nil {
		return 0, false, err
	}
	if len(result.ProductPublications) == 0 {
		return 0, false, nil
	}
	return result.ProductPublications[0].ID, true, nil
}

// IsPublished reports whether the product is published to the channel.
func (c *Client) IsPublished(ctx context.Context, publicationID, productID string) (bool, error) {
	_, found, err := c.productPublication(ctx, publicationID, productID)
	return found, err
}

// Unpublish removes the product from the channel. Returns false, nil when
// the product was not published there, so batch callers can count no-ops
// separately from failures.
func (c *Client) Unpublish(ctx context.Context, publicationID, productID string) (bool, error) {
	pubID, found, err := c.productPublication(ctx, publicationID, productID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	path := fmt.Sprintf("publications/%s/product_publications/%d.json", publicationID, pubID)
	if _, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

// Publish adds the product to the channel.
func (c *Client) Publish(ctx context.Context, publicationID, productID string) error {
	payload := map[string]any{
		"product_publication": map[string]any{
			"product_id": productID,
		},
	}
	path := fmt.Sprintf("publications/%s/product_publications.json", publicationID)
	_, err := c.do(ctx, http.MethodPost, path, nil, payload, nil)
	return err
}

// ProductMetafield reads the channel exclusion flag for a product. Returns
// nil when the metafield is not set.
func (c *Client) ProductMetafield(ctx context.Context, productID string) (*bool, error) {
	query := url.Values{}
	query.Set("namespace", MetafieldNamespace)
	query.Set("key", MetafieldKey)

	var result struct {
		Metafields []struct {
			Value any `json:"value"`
		} `json:"metafields"`
	}
	path := fmt.Sprintf("products/%s/metafields.json", productID)
	if _, err := c.do(ctx, http.MethodGet, path, query, nil, &result); err != nil {
		return nil, err
	}
	if len(result.Metafields) == 0 {
		return nil, nil
	}

	v := result.Metafields[0].Value == "true" || result.Metafields[0].Value == true
	return &v, nil
}

// ProductsWithMetafield lists products whose exclusion flag matches exclude.
// Products without the metafield are skipped. This walks the whole catalog
// with one metafield read per product.
func (c *Client) ProductsWithMetafield(ctx context.Context, exclude bool) ([]ProductSummary, error) {
	all, err := c.Products(ctx)
	if err != nil {
		return nil, err
	}

	var matched []ProductSummary
	for _, product := range all {
		value, err := c.ProductMetafield(ctx, fmt.Sprintf("%d", product.ID))
		if err != nil {
			return nil, err
		}
		if value != nil && *value == exclude {
			matched = append(matched, product)
		}
	}
	return matched, nil
}
