// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"resty.dev/v3"

	apimodel "github.com/platform-engineering-labs/panier/internal/api/model"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

type Client struct {
	endpoint string
	resty    *resty.Client
}

func NewClient(cfg pkgmodel.APIConfig, clientID string, net *http.Client) *Client {
	client := resty.New()

	if net != nil {
		client = resty.NewWithClient(net)
	}

	if clientID != "" {
		client.SetHeader(apimodel.ClientIDHeader, clientID)
	}

	endpoint := cfg.URL
	if cfg.Port != 0 {
		endpoint = fmt.Sprintf("%s:%d", cfg.URL, cfg.Port)
	}

	return &Client{
		endpoint: endpoint,
		resty:    client,
	}
}

// NewClientForEndpoint targets a full base URL such as the one of an httptest server.
func NewClientForEndpoint(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		resty:    resty.New(),
	}
}

func (c *Client) Close() error {
	return c.resty.Close()
}

func (c *Client) Health(ctx context.Context) (*apimodel.Health, error) {
	health, _, err := send[apimodel.Health](ctx, c, http.MethodGet, HealthRoute, nil, nil, http.StatusOK)
	return health, err
}

func (c *Client) WaitOnAvailable(ctx context.Context) error {
	for {
		if _, err := c.Health(ctx); err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
}

func (c *Client) FindPanier(ctx context.Context, id int64) (*pkgmodel.Panier, error) {
	panier, _, err := send[pkgmodel.Panier](ctx, c, http.MethodGet, fmt.Sprintf("%s/%d", PaniersRoute, id), nil, nil, http.StatusOK)
	return panier, err
}

func (c *Client) QueryPaniers(ctx context.Context, opts pkgmodel.QueryOptions) (*apimodel.Page[*pkgmodel.Panier], error) {
	return sendPage[*pkgmodel.Panier](ctx, c, PaniersRoute, opts)
}

func (c *Client) CreatePanier(ctx context.Context, panier *pkgmodel.Panier) (*pkgmodel.Panier, error) {
	created, _, err := send[pkgmodel.Panier](ctx, c, http.MethodPost, PaniersRoute, panier, nil, http.StatusCreated)
	return created, err
}

func (c *Client) UpdatePanier(ctx context.Context, panier *pkgmodel.Panier) (*pkgmodel.Panier, error) {
	if panier.ID == nil {
		return nil, fmt.Errorf("cannot update a panier without id")
	}
	updated, _, err := send[pkgmodel.Panier](ctx, c, http.MethodPut, fmt.Sprintf("%s/%d", PaniersRoute, *panier.ID), panier, nil, http.StatusOK)
	return updated, err
}

func (c *Client) PartialUpdatePanier(ctx context.Context, panier *pkgmodel.Panier) (*pkgmodel.Panier, error) {
	if panier.ID == nil {
		return nil, fmt.Errorf("cannot update a panier without id")
	}
	updated, _, err := send[pkgmodel.Panier](ctx, c, http.MethodPatch, fmt.Sprintf("%s/%d", PaniersRoute, *panier.ID), panier, nil, http.StatusOK)
	return updated, err
}

func (c *Client) DeletePanier(ctx context.Context, id int64) error {
	_, _, err := send[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("%s/%d", PaniersRoute, id), nil, nil, http.StatusNoContent)
	return err
}

func (c *Client) QueryComptes(ctx context.Context, opts pkgmodel.QueryOptions) (*apimodel.Page[*pkgmodel.Compte], error) {
	return sendPage[*pkgmodel.Compte](ctx, c, ComptesRoute, opts)
}

func (c *Client) CreateCompte(ctx context.Context, compte *pkgmodel.Compte) (*pkgmodel.Compte, error) {
	created, _, err := send[pkgmodel.Compte](ctx, c, http.MethodPost, ComptesRoute, compte, nil, http.StatusCreated)
	return created, err
}

func (c *Client) QuerySystemePaiements(ctx context.Context, opts pkgmodel.QueryOptions) (*apimodel.Page[*pkgmodel.SystemePaiement], error) {
	return sendPage[*pkgmodel.SystemePaiement](ctx, c, SystemePaiementsRoute, opts)
}

func (c *Client) CreateSystemePaiement(ctx context.Context, systemePaiement *pkgmodel.SystemePaiement) (*pkgmodel.SystemePaiement, error) {
	created, _, err := send[pkgmodel.SystemePaiement](ctx, c, http.MethodPost, SystemePaiementsRoute, systemePaiement, nil, http.StatusCreated)
	return created, err
}

func sendPage[T any](ctx context.Context, c *Client, route string, opts pkgmodel.QueryOptions) (*apimodel.Page[T], error) {
	query := map[string]string{}
	if opts.Size > 0 {
		query["page"] = strconv.Itoa(opts.Page)
		query["size"] = strconv.Itoa(opts.Size)
	}

	items, header, err := send[[]T](ctx, c, http.MethodGet, route, nil, query, http.StatusOK)
	if err != nil {
		return nil, err
	}

	page := &apimodel.Page[T]{Items: *items, TotalCount: len(*items)}
	if total, err := strconv.Atoi(header.Get(apimodel.TotalCountHeader)); err == nil {
		page.TotalCount = total
	}

	return page, nil
}

// send performs the request and decodes the body into T when the response carries the
// expected status. 4xx answers are returned as *apimodel.ErrorResponse.
func send[T any](ctx context.Context, c *Client, method, route string, body any, query map[string]string, expected int) (*T, http.Header, error) {
	req := c.resty.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, c.endpoint+route)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, nil, syscall.ECONNREFUSED
		}

		return nil, nil, fmt.Errorf("failed to %s %s: %w", method, route, err)
	}

	//nolint:errcheck
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode() != expected {
		return nil, nil, parseErrorResponse(resp.StatusCode(), bodyBytes)
	}

	var result T
	if len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, &result); err != nil {
			return nil, nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return &result, resp.Header(), nil
}

func parseErrorResponse(status int, body []byte) error {
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		var errResp apimodel.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.ErrorType != "" {
			errResp.Status = status
			return &errResp
		}
	}

	return fmt.Errorf("unexpected response code from the panier agent: %d - %s", status, string(body))
}

// PanierService exposes the create and update operations of the client to the editor.
type PanierService struct {
	Client *Client
}

func (s PanierService) Create(ctx context.Context, panier *pkgmodel.Panier) (*pkgmodel.Panier, error) {
	return s.Client.CreatePanier(ctx, panier)
}

func (s PanierService) Update(ctx context.Context, panier *pkgmodel.Panier) (*pkgmodel.Panier, error) {
	return s.Client.UpdatePanier(ctx, panier)
}

type CompteService struct {
	Client *Client
}

func (s CompteService) Query(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.Compte, error) {
	page, err := s.Client.QueryComptes(ctx, opts)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

type SystemePaiementService struct {
	Client *Client
}

func (s SystemePaiementService) Query(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.SystemePaiement, error) {
	page, err := s.Client.QuerySystemePaiements(ctx, opts)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}
