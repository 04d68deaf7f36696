// Package app wires configuration, storage, and the estimators into the
// operations exposed by the CLI commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"lmp-shapers/internal/config"
	"lmp-shapers/internal/market"
	"lmp-shapers/internal/series"
	"lmp-shapers/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, errors.New("database.dsn not configured; cannot load price history")
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// loadSeries pulls a node's hourly prices covering [start, end] and
// re-expresses them in the market's contract convention.
//
// When the source convention differs from the contract convention the fetch
// extends one day below start: the timezone shift pulls late hours of the
// prior source day into the first contract day of the window.
func (a *App) loadSeries(ctx context.Context, store storage.LMPStore, nodeID string, desc market.Descriptor, start, end time.Time) (series.Series, error) {
	fetchStart := start
	if desc.Source != desc.Contract {
		fetchStart = start.AddDate(0, 0, -1)
	}

	if timeout := a.Config.Database.QueryTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rows, err := store.ListLMP(ctx, nodeID, a.Config.Estimator.PriceType, fetchStart, end)
	if err != nil {
		return nil, err
	}

	a.Logger.Debug().
		Str("node", nodeID).
		Time("from", fetchStart).
		Time("to", end).
		Int("rows", len(rows)).
		Msg("loaded price history")

	s := storage.ToSeries(rows)
	s, err = series.Convert(s, desc.Source, desc.Contract)
	if err != nil {
		return nil, err
	}
	return s.Between(start, end), nil
}

// resolveNode picks the pricing node for a run: the explicit flag value,
// else the configured hub override, else the market's built-in hub.
func (a *App) resolveNode(m market.Market, desc market.Descriptor, node string) (string, error) {
	if node != "" {
		return node, nil
	}
	resolved := a.Config.HubNode(string(m), desc.HubNode)
	if resolved == "" {
		return "", fmt.Errorf("no node given and no hub configured for %s", m)
	}
	return resolved, nil
}

// ShaperOptions configure a shaper estimation run.
type ShaperOptions struct {
	Market        string
	Node          string
	Mode          string
	EvalDate      time.Time
	LookbackYears int
	ClipQuantile  float64
	CSVPath       string
	PNGPath       string
}

// SplitterOptions configure a splitter estimation run.
type SplitterOptions struct {
	Market        string
	Node          string
	EvalDate      time.Time
	LookbackYears int
	ClipQuantile  float64
	CSVPath       string
}

// VolOptions configure a cash volatility run.
type VolOptions struct {
	Market        string
	Node          string
	EvalDate      time.Time
	LookbackYears int
	ZeroMean      bool
	CSVPath       string
}

// PVMOptions configure a price-volatility multiplier run.
type PVMOptions struct {
	Market        string
	Node          string
	Hub           string
	All           bool
	EvalDate      time.Time
	LookbackYears int
	ClipQuantile  float64
	ZeroMean      bool
	CSVPath       string
}

// ClassifyOptions configure the peak-block inspection command.
type ClassifyOptions struct {
	Market string
	Date   time.Time
}

func (a *App) defaults(lookback int, clip float64) (int, float64) {
	if lookback <= 0 {
		lookback = a.Config.Estimator.LookbackYears
	}
	if clip <= 0 {
		clip = a.Config.Estimator.ClipQuantile
	}
	return lookback, clip
}
