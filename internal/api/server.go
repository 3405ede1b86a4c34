// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/platform-engineering-labs/panier"
	apimodel "github.com/platform-engineering-labs/panier/internal/api/model"
	"github.com/platform-engineering-labs/panier/internal/datastore"
	"github.com/platform-engineering-labs/panier/internal/logging"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

const (
	BasePath              = "/api"
	PaniersRoute          = BasePath + "/paniers"
	PanierRoute           = PaniersRoute + "/:id"
	ComptesRoute          = BasePath + "/comptes"
	CompteRoute           = ComptesRoute + "/:id"
	SystemePaiementsRoute = BasePath + "/systeme-paiements"
	SystemePaiementRoute  = SystemePaiementsRoute + "/:id"

	HealthRoute  = BasePath + "/health"
	MetricsRoute = "/metrics"
)

type Server struct {
	echo         *echo.Echo
	datastore    datastore.Datastore
	ctx          context.Context
	serverConfig *pkgmodel.ServerConfig
	metrics      *Metrics
}

func NewServer(ctx context.Context, ds datastore.Datastore, serverConfig *pkgmodel.ServerConfig, metrics *Metrics) *Server {
	server := &Server{
		datastore:    ds,
		ctx:          ctx,
		serverConfig: serverConfig,
		metrics:      metrics,
	}

	server.echo = server.configureEcho()

	return server
}

// Handler exposes the routed API, for serving it from a test server.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves the API until the server context is canceled
func (s *Server) Start() {
	go func() {
		listen := fmt.Sprintf(":%d", s.serverConfig.Port)

		var err error
		if s.serverConfig.TLSCert != "" && s.serverConfig.TLSKey != "" {
			err = s.echo.StartTLS(listen, s.serverConfig.TLSCert, s.serverConfig.TLSKey)
		} else {
			err = s.echo.Start(listen)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.echo.Logger.Error(err)
		}
	}()
	<-s.ctx.Done()
	s.Stop(false)
}

// Stop gracefully shuts down the server, waiting for ongoing requests to complete
func (s *Server) Stop(_ bool) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	slog.Info("API server received shutdown")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		slog.Info("API server error when shutting down", "error", err)
	}
	slog.Info("API Server successfully shutdown")
}

func (s *Server) configureEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Logger = logging.NewEchoLogger()
	e.StdLogger = log.Default()

	if s.metrics != nil {
		e.Use(s.metrics.Middleware())
		e.GET(MetricsRoute, echo.WrapHandler(s.metrics.Handler()))
	}

	e.GET(PaniersRoute, s.QueryPaniers)
	e.GET(PanierRoute, s.GetPanier)
	e.POST(PaniersRoute, s.CreatePanier)
	e.PUT(PanierRoute, s.UpdatePanier)
	e.PATCH(PanierRoute, s.PartialUpdatePanier)
	e.DELETE(PanierRoute, s.DeletePanier)

	e.GET(ComptesRoute, s.QueryComptes)
	e.GET(CompteRoute, s.GetCompte)
	e.POST(ComptesRoute, s.CreateCompte)

	e.GET(SystemePaiementsRoute, s.QuerySystemePaiements)
	e.GET(SystemePaiementRoute, s.GetSystemePaiement)
	e.POST(SystemePaiementsRoute, s.CreateSystemePaiement)

	e.GET(HealthRoute, s.Health)

	return e
}

func (s *Server) QueryPaniers(c echo.Context) error {
	opts, err := queryOptions(c)
	if err != nil {
		return apiError(c, http.StatusBadRequest, apimodel.InvalidQuery, apimodel.PanierEntity, err.Error())
	}

	ctx := c.Request().Context()
	paniers, err := s.datastore.QueryPaniers(ctx, opts)
	if err != nil {
		return err
	}
	total, err := s.datastore.CountPaniers(ctx)
	if err != nil {
		return err
	}

	c.Response().Header().Set(apimodel.TotalCountHeader, strconv.Itoa(total))
	return c.JSON(http.StatusOK, paniers)
}

func (s *Server) GetPanier(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return apiError(c, http.StatusBadRequest, apimodel.IDInvalid, apimodel.PanierEntity, err.Error())
	}

	panier, err := s.datastore.LoadPanier(c.Request().Context(), id)
	if errors.Is(err, datastore.ErrNotFound) {
		return apiError(c, http.StatusNotFound, apimodel.IDNotFound, apimodel.PanierEntity, "")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, panier)
}

func (s *Server) CreatePanier(c echo.Context) error {
	var panier pkgmodel.Panier
	if err := decodeBody(c, &panier); err != nil {
		return apiError(c, http.StatusBadRequest, apimodel.InvalidBody, apimodel.PanierEntity, err.Error())
	}
	if panier.ID != nil {
		return apiError(c, http.StatusBadRequest, apimodel.IDExists, apimodel.PanierEntity, "A new panier cannot already have an ID")
	}

	return s.storePanier(c, &panier, http.StatusCreated)
}

func (s *Server) UpdatePanier(c echo.Context) error {
	var panier pkgmodel.Panier
	if err := decodeBody(c, &panier); err != nil {
		return apiError(c, http.StatusBadRequest, apimodel.InvalidBody, apimodel.PanierEntity, err.Error())
	}
	if ok, err := s.checkPanierExists(c, &panier); !ok {
		return err
	}

	return s.storePanier(c, &panier, http.StatusOK)
}

// PartialUpdatePanier only changes the relationships present in the body.
func (s *Server) PartialUpdatePanier(c echo.Context) error {
	var patch pkgmodel.Panier
	if err := decodeBody(c, &patch); err != nil {
		return apiError(c, http.StatusBadRequest, apimodel.InvalidBody, apimodel.PanierEntity, err.Error())
	}
	if ok, err := s.checkPanierExists(c, &patch); !ok {
		return err
	}

	existing, err := s.datastore.LoadPanier(c.Request().Context(), *patch.ID)
	if err != nil {
		return err
	}
	if patch.MadeBy != nil {
		existing.MadeBy = patch.MadeBy
	}
	if patch.PaidBy != nil {
		existing.PaidBy = patch.PaidBy
	}

	return s.storePanier(c, existing, http.StatusOK)
}

func (s *Server) DeletePanier(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return apiError(c, http.StatusBadRequest, apimodel.IDInvalid, apimodel.PanierEntity, err.Error())
	}

	err = s.datastore.DeletePanier(c.Request().Context(), id)
	if errors.Is(err, datastore.ErrNotFound) {
		return apiError(c, http.StatusNotFound, apimodel.IDNotFound, apimodel.PanierEntity, "")
	}
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// checkPanierExists validates the id of an update body against the path and the datastore.
// When it reports false the error response has already been written.
func (s *Server) checkPanierExists(c echo.Context, panier *pkgmodel.Panier) (bool, error) {
	if panier.ID == nil {
		return false, apiError(c, http.StatusBadRequest, apimodel.IDNull, apimodel.PanierEntity, "Invalid id")
	}

	id, err := pathID(c)
	if err != nil || id != *panier.ID {
		return false, apiError(c, http.StatusBadRequest, apimodel.IDInvalid, apimodel.PanierEntity, "Invalid ID")
	}

	_, err = s.datastore.LoadPanier(c.Request().Context(), id)
	if errors.Is(err, datastore.ErrNotFound) {
		return false, apiError(c, http.StatusNotFound, apimodel.IDNotFound, apimodel.PanierEntity, "Entity not found")
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *Server) storePanier(c echo.Context, panier *pkgmodel.Panier, status int) error {
	ctx := c.Request().Context()

	if key := panier.MadeBy.Key(); key != nil {
		if _, err := s.datastore.LoadCompte(ctx, *key); errors.Is(err, datastore.ErrNotFound) {
			return apiError(c, http.StatusBadRequest, apimodel.ReferenceNotFound, apimodel.CompteEntity, fmt.Sprintf("compte %d does not exist", *key))
		} else if err != nil {
			return err
		}
	}
	if key := panier.PaidBy.Key(); key != nil {
		if _, err := s.datastore.LoadSystemePaiement(ctx, *key); errors.Is(err, datastore.ErrNotFound) {
			return apiError(c, http.StatusBadRequest, apimodel.ReferenceNotFound, apimodel.SystemePaiementEntity, fmt.Sprintf("systeme paiement %d does not exist", *key))
		} else if err != nil {
			return err
		}
	}

	stored, err := s.datastore.StorePanier(ctx, panier)
	if errors.Is(err, datastore.ErrNotFound) {
		return apiError(c, http.StatusNotFound, apimodel.IDNotFound, apimodel.PanierEntity, "Entity not found")
	}
	if err != nil {
		return err
	}

	slog.Debug("Stored panier", "id", *stored.ID, "status", status)

	if status == http.StatusCreated {
		c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("%s/%d", PaniersRoute, *stored.ID))
	}

	return c.JSON(status, stored)
}

func (s *Server) QueryComptes(c echo.Context) error {
	opts, err := queryOptions(c)
	if err != nil {
		return apiError(c, http.StatusBadRequest, apimodel.InvalidQuery, apimodel.CompteEntity, err.Error())
	}

	ctx := c.Request().Context()
	comptes, err := s.datastore.QueryComptes(ctx, opts)
	if err != nil {
		return err
	}
	total, err := s.datastore.CountComptes(ctx)
	if err != nil {
		return err
	}

	c.Response().Header().Set(apimodel.TotalCountHeader, strconv.Itoa(total))
	return c.JSON(http.StatusOK, comptes)
}

func (s *Server) GetCompte(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return apiError(c, http.StatusBadRequest, apimodel.IDInvalid, apimodel.CompteEntity, err.Error())
	}

	compte, err := s.datastore.LoadCompte(c.Request().Context(), id)
	if errors.Is(err, datastore.ErrNotFound) {
		return apiError(c, http.StatusNotFound, apimodel.IDNotFound, apimodel.CompteEntity, "")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, compte)
}

func (s *Server) CreateCompte(c echo.Context) error {
	var compte pkgmodel.Compte
	if err := decodeBody(c, &compte); err != nil {
		return apiError(c, http.StatusBadRequest, apimodel.InvalidBody, apimodel.CompteEntity, err.Error())
	}
	if compte.ID != nil {
		return apiError(c, http.StatusBadRequest, apimodel.IDExists, apimodel.CompteEntity, "A new compte cannot already have an ID")
	}

	stored, err := s.datastore.StoreCompte(c.Request().Context(), &compte)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("%s/%d", ComptesRoute, *stored.ID))
	return c.JSON(http.StatusCreated, stored)
}

func (s *Server) QuerySystemePaiements(c echo.Context) error {
	opts, err := queryOptions(c)
	if err != nil {
		return apiError(c, http.StatusBadRequest, apimodel.InvalidQuery, apimodel.SystemePaiementEntity, err.Error())
	}

	ctx := c.Request().Context()
	systemePaiements, err := s.datastore.QuerySystemePaiements(ctx, opts)
	if err != nil {
		return err
	}
	total, err := s.datastore.CountSystemePaiements(ctx)
	if err != nil {
		return err
	}

	c.Response().Header().Set(apimodel.TotalCountHeader, strconv.Itoa(total))
	return c.JSON(http.StatusOK, systemePaiements)
}

func (s *Server) GetSystemePaiement(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return apiError(c, http.StatusBadRequest, apimodel.IDInvalid, apimodel.SystemePaiementEntity, err.Error())
	}

	systemePaiement, err := s.datastore.LoadSystemePaiement(c.Request().Context(), id)
	if errors.Is(err, datastore.ErrNotFound) {
		return apiError(c, http.StatusNotFound, apimodel.IDNotFound, apimodel.SystemePaiementEntity, "")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, systemePaiement)
}

func (s *Server) CreateSystemePaiement(c echo.Context) error {
	var systemePaiement pkgmodel.SystemePaiement
	if err := decodeBody(c, &systemePaiement); err != nil {
		return apiError(c, http.StatusBadRequest, apimodel.InvalidBody, apimodel.SystemePaiementEntity, err.Error())
	}
	if systemePaiement.ID != nil {
		return apiError(c, http.StatusBadRequest, apimodel.IDExists, apimodel.SystemePaiementEntity, "A new systeme paiement cannot already have an ID")
	}

	stored, err := s.datastore.StoreSystemePaiement(c.Request().Context(), &systemePaiement)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("%s/%d", SystemePaiementsRoute, *stored.ID))
	return c.JSON(http.StatusCreated, stored)
}

func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, apimodel.Health{Status: "UP", Version: panier.Version})
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return id, nil
}

func queryOptions(c echo.Context) (pkgmodel.QueryOptions, error) {
	var opts pkgmodel.QueryOptions
	for key, target := range map[string]*int{"page": &opts.Page, "size": &opts.Size} {
		raw := strings.TrimSpace(c.QueryParam(key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("%s must be a non-negative integer", key)
		}
		*target = n
	}
	return opts, nil
}

func decodeBody(c echo.Context, v any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode body: %w", err)
	}
	return nil
}

func apiError(c echo.Context, status int, errorType apimodel.APIError, entityName string, message string) error {
	return c.JSON(status, apimodel.ErrorResponse{
		ErrorType:  errorType,
		EntityName: entityName,
		Message:    message,
	})
}
