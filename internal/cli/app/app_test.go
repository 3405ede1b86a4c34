// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-engineering-labs/panier/internal/api"
	apimodel "github.com/platform-engineering-labs/panier/internal/api/model"
	"github.com/platform-engineering-labs/panier/internal/cli/config"
	"github.com/platform-engineering-labs/panier/internal/datastore"
	"github.com/platform-engineering-labs/panier/internal/editor"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

func withAgent(t *testing.T) *App {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	require.NoError(t, config.Config.EnsureDataDirectory())
	require.NoError(t, config.Config.EnsureClientID())

	ds, err := datastore.NewDatastoreSQLite(context.Background(), &pkgmodel.DatastoreConfig{
		DatastoreType: pkgmodel.SqliteDatastore,
		Sqlite:        pkgmodel.SqliteConfig{FilePath: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(ds.Close)

	server := httptest.NewServer(api.NewServer(context.Background(), ds, &pkgmodel.ServerConfig{}, nil).Handler())
	t.Cleanup(server.Close)

	app := NewApp()
	app.Config.Cli.API = pkgmodel.APIConfig{URL: server.URL}
	return app
}

func TestApp_LoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing default file keeps defaults", func(t *testing.T) {
		app := NewApp()
		require.NoError(t, app.LoadConfig("", filepath.Join(dir, "absent.yaml")))
		assert.Equal(t, pkgmodel.DefaultConfig(), app.Config)
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		app := NewApp()
		assert.Error(t, app.LoadConfig(filepath.Join(dir, "absent.yaml"), ""))
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(dir, "panier.conf.yaml")
		content := `
agent:
  server:
    port: 8080
  datastore:
    datastoreType: postgres
  logging:
    consoleLogLevel: WARN
cli:
  api:
    port: 8080
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		app := NewApp()
		require.NoError(t, app.LoadConfig(path, ""))
		assert.Equal(t, 8080, app.Config.Agent.Server.Port)
		assert.Equal(t, pkgmodel.PostgresDatastore, app.Config.Agent.Datastore.DatastoreType)
		assert.Equal(t, slog.LevelWarn, app.Config.Agent.Logging.ConsoleLogLevel)
		assert.Equal(t, "localhost", app.Config.Agent.Datastore.Postgres.Host)
		assert.Equal(t, pkgmodel.DefaultConfig().Cli.API.URL, app.Config.Cli.API.URL)
		assert.Equal(t, 8080, app.Config.Cli.API.Port)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		path := filepath.Join(dir, "typo.yaml")
		require.NoError(t, os.WriteFile(path, []byte("agent:\n  sever:\n    port: 1\n"), 0600))

		app := NewApp()
		assert.Error(t, app.LoadConfig(path, ""))
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0600))

		app := NewApp()
		require.NoError(t, app.LoadConfig("", path))
		assert.Equal(t, pkgmodel.DefaultConfig(), app.Config)
	})
}

func TestApp_EditPanierCreatesAndUpdates(t *testing.T) {
	app := withAgent(t)
	ctx := context.Background()

	compte, err := app.CreateCompte(ctx, "alice")
	require.NoError(t, err)
	systemePaiement, err := app.CreateSystemePaiement(ctx, "card")
	require.NoError(t, err)

	created, err := app.EditPanier(ctx, nil, PanierChanges{MadeBy: Selection{Set: true, ID: compte.ID}})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, "alice", created.MadeBy.Login)
	assert.Nil(t, created.PaidBy)

	updated, err := app.EditPanier(ctx, created.ID, PanierChanges{PaidBy: Selection{Set: true, ID: systemePaiement.ID}})
	require.NoError(t, err)
	assert.Equal(t, *created.ID, *updated.ID)
	assert.Equal(t, "alice", updated.MadeBy.Login, "relationships that are not changed stay selected")
	assert.Equal(t, "card", updated.PaidBy.Name)

	cleared, err := app.EditPanier(ctx, created.ID, PanierChanges{MadeBy: Selection{Set: true}})
	require.NoError(t, err)
	assert.Nil(t, cleared.MadeBy)

	page, err := app.ListPaniers(ctx, pkgmodel.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
}

func TestApp_EditPanierRejectsUnknownSelection(t *testing.T) {
	app := withAgent(t)

	_, err := app.EditPanier(context.Background(), nil, PanierChanges{MadeBy: Selection{Set: true, ID: pkgmodel.ID(404)}})
	assert.ErrorContains(t, err, "not a selectable option")
}

func TestApp_EditMissingPanier(t *testing.T) {
	app := withAgent(t)

	_, err := app.EditPanier(context.Background(), pkgmodel.ID(404), PanierChanges{})
	assert.True(t, apimodel.IsAPIError(err, apimodel.IDNotFound))
	assert.NotErrorIs(t, err, editor.ErrSaveFailed, "the record is loaded before any save")
}

func TestApp_DeleteAndListReferences(t *testing.T) {
	app := withAgent(t)
	ctx := context.Background()

	created, err := app.EditPanier(ctx, nil, PanierChanges{})
	require.NoError(t, err)
	require.NoError(t, app.DeletePanier(ctx, *created.ID))

	_, err = app.FindPanier(ctx, *created.ID)
	assert.True(t, apimodel.IsAPIError(err, apimodel.IDNotFound))

	page, err := app.ListComptes(ctx, pkgmodel.QueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	systemePaiements, err := app.ListSystemePaiements(ctx, pkgmodel.QueryOptions{})
	require.NoError(t, err)
	assert.Zero(t, systemePaiements.TotalCount)
}

func TestApp_AgentNotRunning(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, config.Config.EnsureDataDirectory())
	require.NoError(t, config.Config.EnsureClientID())

	server := httptest.NewServer(nil)
	url := server.URL
	server.Close()

	app := NewApp()
	app.Config.Cli.API = pkgmodel.APIConfig{URL: url}

	_, err := app.ListPaniers(context.Background(), pkgmodel.QueryOptions{})
	assert.Error(t, err)
}

func TestApp_VersionMismatchOnlyWarns(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, config.Config.EnsureDataDirectory())
	require.NoError(t, config.Config.EnsureClientID())

	mux := http.NewServeMux()
	mux.HandleFunc(api.HealthRoute, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"UP","version":"99.0.0"}`))
	})
	mux.HandleFunc(api.ComptesRoute, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(apimodel.TotalCountHeader, "0")
		_, _ = w.Write([]byte(`[]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	app := NewApp()
	app.Config.Cli.API = pkgmodel.APIConfig{URL: server.URL}

	page, err := app.ListComptes(context.Background(), pkgmodel.QueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalCount)
}
