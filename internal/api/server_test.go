// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apimodel "github.com/platform-engineering-labs/panier/internal/api/model"
	"github.com/platform-engineering-labs/panier/internal/datastore"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

func newTestServer(t *testing.T) (*Server, datastore.Datastore) {
	t.Helper()

	metrics := NewMetrics()
	t.Cleanup(func() { metrics.Shutdown(context.Background()) })

	ds, err := datastore.NewDatastoreSQLite(context.Background(), &pkgmodel.DatastoreConfig{
		DatastoreType: pkgmodel.SqliteDatastore,
		Sqlite:        pkgmodel.SqliteConfig{FilePath: ":memory:"},
	}, datastore.WithMeterProvider(metrics.MeterProvider()))
	require.NoError(t, err)
	t.Cleanup(ds.Close)

	return NewServer(context.Background(), ds, &pkgmodel.ServerConfig{Port: 0}, metrics), ds
}

func serve(s *Server, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apimodel.ErrorResponse {
	t.Helper()

	var resp apimodel.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func seedReferences(t *testing.T, ds datastore.Datastore) (*pkgmodel.Compte, *pkgmodel.SystemePaiement) {
	t.Helper()

	compte, err := ds.StoreCompte(context.Background(), &pkgmodel.Compte{Login: "alice"})
	require.NoError(t, err)
	systemePaiement, err := ds.StoreSystemePaiement(context.Background(), &pkgmodel.SystemePaiement{Name: "card"})
	require.NoError(t, err)

	return compte, systemePaiement
}

func TestServer_CreatePanier(t *testing.T) {
	s, ds := newTestServer(t)
	compte, systemePaiement := seedReferences(t, ds)

	rec := serve(s, http.MethodPost, PaniersRoute, &pkgmodel.Panier{
		MadeBy: &pkgmodel.Compte{ID: compte.ID},
		PaidBy: &pkgmodel.SystemePaiement{ID: systemePaiement.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created pkgmodel.Panier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.ID)
	assert.Equal(t, fmt.Sprintf("%s/%d", PaniersRoute, *created.ID), rec.Header().Get("Location"))
	assert.Equal(t, "alice", created.MadeBy.Login)
	assert.Equal(t, "card", created.PaidBy.Name)
}

func TestServer_CreatePanierWithIDIsRejected(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, http.MethodPost, PaniersRoute, &pkgmodel.Panier{ID: pkgmodel.ID(123)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apimodel.IDExists, decodeError(t, rec).ErrorType)
}

func TestServer_CreatePanierWithUnknownReference(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, http.MethodPost, PaniersRoute, &pkgmodel.Panier{MadeBy: &pkgmodel.Compte{ID: pkgmodel.ID(42)}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, apimodel.ReferenceNotFound, resp.ErrorType)
	assert.Equal(t, apimodel.CompteEntity, resp.EntityName)
}

func TestServer_GetPanier(t *testing.T) {
	s, ds := newTestServer(t)
	stored, err := ds.StorePanier(context.Background(), &pkgmodel.Panier{})
	require.NoError(t, err)

	rec := serve(s, http.MethodGet, fmt.Sprintf("%s/%d", PaniersRoute, *stored.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var found pkgmodel.Panier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Equal(t, *stored.ID, *found.ID)

	rec = serve(s, http.MethodGet, PaniersRoute+"/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apimodel.IDNotFound, decodeError(t, rec).ErrorType)

	rec = serve(s, http.MethodGet, PaniersRoute+"/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apimodel.IDInvalid, decodeError(t, rec).ErrorType)
}

func TestServer_UpdatePanier(t *testing.T) {
	s, ds := newTestServer(t)
	compte, _ := seedReferences(t, ds)
	stored, err := ds.StorePanier(context.Background(), &pkgmodel.Panier{})
	require.NoError(t, err)

	rec := serve(s, http.MethodPut, fmt.Sprintf("%s/%d", PaniersRoute, *stored.ID), &pkgmodel.Panier{
		ID:     stored.ID,
		MadeBy: &pkgmodel.Compte{ID: compte.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated pkgmodel.Panier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, *compte.ID, *updated.MadeBy.ID)
	assert.Nil(t, updated.PaidBy)
}

func TestServer_UpdatePanierValidatesID(t *testing.T) {
	s, ds := newTestServer(t)
	stored, err := ds.StorePanier(context.Background(), &pkgmodel.Panier{})
	require.NoError(t, err)
	route := fmt.Sprintf("%s/%d", PaniersRoute, *stored.ID)

	rec := serve(s, http.MethodPut, route, &pkgmodel.Panier{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apimodel.IDNull, decodeError(t, rec).ErrorType)

	rec = serve(s, http.MethodPut, route, &pkgmodel.Panier{ID: pkgmodel.ID(*stored.ID + 1)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apimodel.IDInvalid, decodeError(t, rec).ErrorType)

	rec = serve(s, http.MethodPut, PaniersRoute+"/999", &pkgmodel.Panier{ID: pkgmodel.ID(999)})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apimodel.IDNotFound, decodeError(t, rec).ErrorType)
}

func TestServer_PartialUpdatePanierKeepsAbsentRelationships(t *testing.T) {
	s, ds := newTestServer(t)
	compte, systemePaiement := seedReferences(t, ds)
	stored, err := ds.StorePanier(context.Background(), &pkgmodel.Panier{MadeBy: &pkgmodel.Compte{ID: compte.ID}})
	require.NoError(t, err)

	rec := serve(s, http.MethodPatch, fmt.Sprintf("%s/%d", PaniersRoute, *stored.ID), &pkgmodel.Panier{
		ID:     stored.ID,
		PaidBy: &pkgmodel.SystemePaiement{ID: systemePaiement.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var patched pkgmodel.Panier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	require.NotNil(t, patched.MadeBy)
	assert.Equal(t, *compte.ID, *patched.MadeBy.ID)
	require.NotNil(t, patched.PaidBy)
	assert.Equal(t, *systemePaiement.ID, *patched.PaidBy.ID)
}

func TestServer_DeletePanier(t *testing.T) {
	s, ds := newTestServer(t)
	stored, err := ds.StorePanier(context.Background(), &pkgmodel.Panier{})
	require.NoError(t, err)
	route := fmt.Sprintf("%s/%d", PaniersRoute, *stored.ID)

	rec := serve(s, http.MethodDelete, route, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(s, http.MethodDelete, route, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_QueryPaniersSetsTotalCount(t *testing.T) {
	s, ds := newTestServer(t)
	for range 3 {
		_, err := ds.StorePanier(context.Background(), &pkgmodel.Panier{})
		require.NoError(t, err)
	}

	rec := serve(s, http.MethodGet, PaniersRoute+"?page=0&size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get(apimodel.TotalCountHeader))

	var paniers []*pkgmodel.Panier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &paniers))
	assert.Len(t, paniers, 2)

	rec = serve(s, http.MethodGet, PaniersRoute+"?size=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apimodel.InvalidQuery, decodeError(t, rec).ErrorType)
}

func TestServer_ReferenceEntities(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, http.MethodPost, ComptesRoute, &pkgmodel.Compte{Login: "bob"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var compte pkgmodel.Compte
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &compte))

	rec = serve(s, http.MethodGet, fmt.Sprintf("%s/%d", ComptesRoute, *compte.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, http.MethodPost, SystemePaiementsRoute, &pkgmodel.SystemePaiement{ID: pkgmodel.ID(1), Name: "cash"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apimodel.IDExists, decodeError(t, rec).ErrorType)

	rec = serve(s, http.MethodPost, SystemePaiementsRoute, &pkgmodel.SystemePaiement{Name: "cash"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(s, http.MethodGet, SystemePaiementsRoute, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get(apimodel.TotalCountHeader))
}

func TestServer_InvalidBody(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, PaniersRoute, strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apimodel.InvalidBody, decodeError(t, rec).ErrorType)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, http.MethodGet, HealthRoute, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, http.MethodGet, PaniersRoute+"/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(s, http.MethodGet, MetricsRoute, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `panier_api_requests_total{code="200",method="GET",route="/api/health"} 1`)
	assert.Contains(t, body, `panier_api_requests_total{code="404",method="GET",route="/api/paniers/:id"} 1`)
	assert.Contains(t, body, "panier_api_request_duration_seconds")
}

func TestServer_MetricsExposeDatastoreConnections(t *testing.T) {
	s, ds := newTestServer(t)
	seedReferences(t, ds)

	rec := serve(s, http.MethodGet, MetricsRoute, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "db_sql_connection_max_open")
	assert.Contains(t, body, "db_sql_connection_open")
	assert.Contains(t, body, `db_system="sqlite"`)
}
