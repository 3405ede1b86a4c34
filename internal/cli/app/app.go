// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/platform-engineering-labs/panier"
	"github.com/platform-engineering-labs/panier/internal/api"
	apimodel "github.com/platform-engineering-labs/panier/internal/api/model"
	"github.com/platform-engineering-labs/panier/internal/cli/config"
	"github.com/platform-engineering-labs/panier/internal/cli/display"
	"github.com/platform-engineering-labs/panier/internal/editor"
	"github.com/platform-engineering-labs/panier/internal/util"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

type App struct {
	Config *pkgmodel.Config
}

func NewApp() *App {
	return &App{
		Config: pkgmodel.DefaultConfig(),
	}
}

// LoadConfig reads the YAML configuration over the defaults. An explicit path must exist, the
// default path may be missing.
func (a *App) LoadConfig(path string, defaultPath string) error {
	explicit := path != ""
	if !explicit {
		path = defaultPath
	}

	file, err := os.Open(util.ExpandHomePath(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			a.Config = pkgmodel.DefaultConfig()
			return nil
		}
		return fmt.Errorf("failed to load configuration from '%s': %w", path, err)
	}
	defer file.Close()

	cfg := pkgmodel.DefaultConfig()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to load configuration from '%s': %w", path, err)
	}

	a.Config = cfg
	return nil
}

func (a *App) client(ctx context.Context) (*api.Client, error) {
	clientID, err := config.Config.ClientID()
	if err != nil {
		return nil, err
	}

	client := api.NewClient(a.Config.Cli.API, clientID, nil)
	if err := a.runBeforeCommand(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

func (a *App) runBeforeCommand(ctx context.Context, client *api.Client) error {
	health, err := client.Health(ctx)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return fmt.Errorf("agent is not running; please start the agent and try again\n\n%s %s", display.Gold("Getting started:"), display.DocRoot)
		}
		return fmt.Errorf("error checking agent health: %v", err)
	}

	if health.Version != panier.Version {
		slog.Warn("Agent version differs from CLI version", "cli", panier.Version, "agent", health.Version)
		display.Warning(fmt.Sprintf("agent version %s differs from CLI version %s", health.Version, panier.Version))
	}

	return nil
}

func (a *App) ListPaniers(ctx context.Context, opts pkgmodel.QueryOptions) (*apimodel.Page[*pkgmodel.Panier], error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.QueryPaniers(ctx, opts)
}

func (a *App) ListComptes(ctx context.Context, opts pkgmodel.QueryOptions) (*apimodel.Page[*pkgmodel.Compte], error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.QueryComptes(ctx, opts)
}

func (a *App) ListSystemePaiements(ctx context.Context, opts pkgmodel.QueryOptions) (*apimodel.Page[*pkgmodel.SystemePaiement], error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.QuerySystemePaiements(ctx, opts)
}

func (a *App) FindPanier(ctx context.Context, id int64) (*pkgmodel.Panier, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.FindPanier(ctx, id)
}

func (a *App) DeletePanier(ctx context.Context, id int64) error {
	client, err := a.client(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.DeletePanier(ctx, id)
}

func (a *App) CreateCompte(ctx context.Context, login string) (*pkgmodel.Compte, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.CreateCompte(ctx, &pkgmodel.Compte{Login: login})
}

func (a *App) CreateSystemePaiement(ctx context.Context, name string) (*pkgmodel.SystemePaiement, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.CreateSystemePaiement(ctx, &pkgmodel.SystemePaiement{Name: name})
}

// Selection is a relationship change requested on the command line. Set false leaves the
// relationship as loaded, a nil ID clears it.
type Selection struct {
	Set bool
	ID  *int64
}

type PanierChanges struct {
	MadeBy Selection
	PaidBy Selection
}

// savingPanierService remembers what the agent answered to the editor's save.
type savingPanierService struct {
	api.PanierService
	saved *pkgmodel.Panier
}

func (s *savingPanierService) Create(ctx context.Context, panier *pkgmodel.Panier) (*pkgmodel.Panier, error) {
	saved, err := s.PanierService.Create(ctx, panier)
	s.saved = saved
	return saved, err
}

func (s *savingPanierService) Update(ctx context.Context, panier *pkgmodel.Panier) (*pkgmodel.Panier, error) {
	saved, err := s.PanierService.Update(ctx, panier)
	s.saved = saved
	return saved, err
}

// EditPanier opens the editor on the panier with the given id, or on a new panier when id is
// nil, applies the changes and saves.
func (a *App) EditPanier(ctx context.Context, id *int64, changes PanierChanges) (*pkgmodel.Panier, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	record := editor.StaticRecord(nil)
	if id != nil {
		record = editor.RecordProviderFunc(func(ctx context.Context) (*pkgmodel.Panier, error) {
			return client.FindPanier(ctx, *id)
		})
	}

	paniers := &savingPanierService{PanierService: api.PanierService{Client: client}}
	ed := editor.New(editor.Services{
		Paniers:          paniers,
		Comptes:          api.CompteService{Client: client},
		SystemePaiements: api.SystemePaiementService{Client: client},
	}, record, editor.NavigatorFunc(func() {
		slog.Debug("Panier saved, closing editor")
	}))

	if err := ed.Init(ctx); err != nil {
		return nil, err
	}

	if changes.MadeBy.Set {
		if err := ed.SetMadeBy(changes.MadeBy.ID); err != nil {
			return nil, err
		}
	}
	if changes.PaidBy.Set {
		if err := ed.SetPaidBy(changes.PaidBy.ID); err != nil {
			return nil, err
		}
	}

	if err := <-ed.Save(ctx); err != nil {
		return nil, err
	}

	return paniers.saved, nil
}
