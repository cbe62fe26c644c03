package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront/internal/logger"
	"storefront/internal/metrics"
)

const (
	// Nominal cost budget; used when the response omits throttle status.
	nominalCostBudget = 1000
	throttleThreshold = 200
	throttleDelay     = 2 * time.Second
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrMissingData is returned for a successful response without a data payload.
	ErrMissingData = errors.New("response carried no data")
)

// GraphQLError collects the top-level errors of a GraphQL response.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql errors: " + strings.Join(e.Messages, "; ")
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Extensions *struct {
		Cost *struct {
			ThrottleStatus *struct {
				MaximumAvailable   float64 `json:"maximumAvailable"`
				CurrentlyAvailable float64 `json:"currentlyAvailable"`
				RestoreRate        float64 `json:"restoreRate"`
			} `json:"throttleStatus"`
		} `json:"cost"`
	} `json:"extensions"`
}

// availableCost returns the remaining query budget reported by the API.
func (r *graphQLResponse) availableCost() float64 {
	if r.Extensions == nil || r.Extensions.Cost == nil || r.Extensions.Cost.ThrottleStatus == nil {
		return nominalCostBudget
	}
	return r.Extensions.Cost.ThrottleStatus.CurrentlyAvailable
}

// Client talks to the Admin GraphQL API. Calls are strictly serial: the
// lock is held across the request and any throttle wait that follows it.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
	logger      *logger.Logger

	mu    sync.Mutex
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(shopDomain, accessToken, apiVersion string, timeout time.Duration, logger *logger.Logger) *Client {
	if !strings.Contains(shopDomain, ".") {
		shopDomain += ".myshopify.com"
	}
	return &Client{
		endpoint:    fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shopDomain, apiVersion),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.WithPrefix("shopify"),
		sleep:  sleepContext,
	}
}

// FetchPage fetches one page of products after cursor; an empty cursor
// starts from the beginning of the catalog.
func (c *Client) FetchPage(ctx context.Context, cursor string) (*ProductPage, error) {
	vars := map[string]interface{}{"cursor": nil}
	if cursor != "" {
		vars["cursor"] = cursor
	}

	var data productsData
	if err := c.do(ctx, productsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Products == nil {
		return nil, fmt.Errorf("failed to decode page: %w", ErrMissingData)
	}

	page := &ProductPage{
		Nodes:       data.Products.Nodes,
		HasNextPage: data.Products.PageInfo.HasNextPage,
	}
	if data.Products.PageInfo.EndCursor != nil {
		page.EndCursor = *data.Products.PageInfo.EndCursor
	}
	return page, nil
}

// FetchProduct fetches a single product by its global id. It returns
// ErrProductNotFound when the API reports no such product.
func (c *Client) FetchProduct(ctx context.Context, id string) (*ProductNode, error) {
	var data productData
	if err := c.do(ctx, productQuery, map[string]interface{}{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return data.Product, nil
}

func (c *Client) do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		gqlErr := &GraphQLError{}
		for _, e := range gqlResp.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return gqlErr
	}

	if len(gqlResp.Data) == 0 || bytes.Equal(gqlResp.Data, []byte("null")) {
		return ErrMissingData
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}

	if available := gqlResp.availableCost(); available < throttleThreshold {
		c.logger.Info("Rate limit low (%.0f points available), waiting %s", available, throttleDelay)
		metrics.ThrottleWait()
		if err := c.sleep(ctx, throttleDelay); err != nil {
			return fmt.Errorf("throttle wait interrupted: %w", err)
		}
	}

	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
