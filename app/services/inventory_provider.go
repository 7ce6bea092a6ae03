package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// InventoryProvider exposes the external charter inventory catalogue. All
// calls are authenticated per request with the caller's credentials.
type InventoryProvider interface {
	// Operators returns every charter operator visible to the credentials.
	Operators(ctx context.Context, creds ProviderCredentials) ([]CharterOperator, error)
	// Vessels returns the operator's fleet.
	Vessels(ctx context.Context, creds ProviderCredentials, operatorID int64) ([]CharterVessel, error)
	// OpenAvailability returns one page of open charter offers for the window.
	// Pages are 1-based; a page shorter than pageSize is the last one.
	OpenAvailability(ctx context.Context, creds ProviderCredentials, periodFrom, periodTo time.Time, page, pageSize int) ([]AvailabilityOffer, error)
}

// ProviderCredentials authenticate against the inventory API
type ProviderCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CharterOperator is a charter company listed by the provider
type CharterOperator struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	LocationIDs []int64 `json:"baseIds"`
}

// CharterVessel is one boat in an operator's fleet. Numeric fields are
// pointers because the catalogue omits them freely.
type CharterVessel struct {
	ID         int64    `json:"id"`
	OperatorID int64    `json:"companyId"`
	Name       string   `json:"name"`
	ModelID    *int64   `json:"yachtModelId,omitempty"`
	HullType   string   `json:"kind,omitempty"`
	Length     *float64 `json:"length,omitempty"`
	Cabins     *int     `json:"cabins,omitempty"`
	Heads      *int     `json:"wc,omitempty"`
	BuildYear  *int     `json:"buildYear,omitempty"`
	BaseID     *int64   `json:"homeBaseId,omitempty"`
}

// AvailabilityOffer is one open charter window. Price stays a raw vendor
// string here; callers parse it and decide what to do with garbage.
type AvailabilityOffer struct {
	VesselID   int64    `json:"yachtId"`
	PeriodFrom string   `json:"periodFrom"`
	PeriodTo   string   `json:"periodTo"`
	Price      string   `json:"price"`
	Currency   string   `json:"currency"`
	LocationID *int64   `json:"locationFromId,omitempty"`
	Length     *float64 `json:"length,omitempty"`
	Cabins     *int     `json:"cabins,omitempty"`
	Heads      *int     `json:"wc,omitempty"`
	BuildYear  *int     `json:"buildYear,omitempty"`
	HullType   string   `json:"kind,omitempty"`
}

// NausysClient implements InventoryProvider against the Nausys-style REST API
type NausysClient struct {
	baseURL string
	client  *resty.Client
}

// NewNausysClient creates a new inventory API client
func NewNausysClient(baseURL string, timeout time.Duration) *NausysClient {
	client := resty.New()
	client.SetTimeout(timeout)

	return &NausysClient{
		baseURL: baseURL,
		client:  client,
	}
}

type operatorsResponse struct {
	Companies []CharterOperator `json:"companies"`
}

type vesselsResponse struct {
	Yachts []CharterVessel `json:"yachts"`
}

type availabilityRequest struct {
	ProviderCredentials
	PeriodFrom string `json:"periodFrom"`
	PeriodTo   string `json:"periodTo"`
	Page       int    `json:"page"`
	PageSize   int    `json:"resultsPerPage"`
}

type availabilityResponse struct {
	Offers []AvailabilityOffer `json:"freeYachts"`
}

// Operators returns every charter operator visible to the credentials
func (c *NausysClient) Operators(ctx context.Context, creds ProviderCredentials) ([]CharterOperator, error) {
	var result operatorsResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(creds).
		SetResult(&result).
		Post(c.baseURL + "/catalogue/v6/charterCompanies")
	if err != nil {
		return nil, fmt.Errorf("inventory operators request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("inventory operators request returned status %d", resp.StatusCode())
	}

	return result.Companies, nil
}

// Vessels returns the operator's fleet
func (c *NausysClient) Vessels(ctx context.Context, creds ProviderCredentials, operatorID int64) ([]CharterVessel, error) {
	var result vesselsResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(creds).
		SetResult(&result).
		Post(fmt.Sprintf("%s/catalogue/v6/yachts/%d", c.baseURL, operatorID))
	if err != nil {
		return nil, fmt.Errorf("inventory vessels request failed for operator %d: %w", operatorID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("inventory vessels request for operator %d returned status %d", operatorID, resp.StatusCode())
	}

	return result.Yachts, nil
}

// OpenAvailability returns one page of open charter offers for the window
func (c *NausysClient) OpenAvailability(ctx context.Context, creds ProviderCredentials, periodFrom, periodTo time.Time, page, pageSize int) ([]AvailabilityOffer, error) {
	var result availabilityResponse

	body := availabilityRequest{
		ProviderCredentials: creds,
		PeriodFrom:          periodFrom.Format("02.01.2006"),
		PeriodTo:            periodTo.Format("02.01.2006"),
		Page:                page,
		PageSize:            pageSize,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post(c.baseURL + "/charter/v6/freeYachtsSearch")
	if err != nil {
		return nil, fmt.Errorf("inventory availability request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("inventory availability request returned status %d", resp.StatusCode())
	}

	return result.Offers, nil
}
