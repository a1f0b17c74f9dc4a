package main

import (
	"fmt"
	"os"

	"github.com/macsweep/macsweep/internal/boundary"
	"github.com/macsweep/macsweep/internal/classify"
	"github.com/macsweep/macsweep/internal/clean"
	"github.com/macsweep/macsweep/internal/history"
	"github.com/macsweep/macsweep/internal/scan"
	"github.com/macsweep/macsweep/internal/store"
)

// core bundles the long-lived subsystems every command needs. Close
// releases the backing store.
type core struct {
	store      *store.Store
	boundary   *boundary.Boundary
	classifier *classify.Classifier
	history    *history.Log
	scanner    *scan.Scanner
	cleaner    *clean.Cleaner
}

func (c *core) Close() error { return c.store.Close() }

func openCore(workers int) (*core, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	dbPath, err := store.DefaultPath()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	b, err := boundary.New()
	if err != nil {
		st.Close()
		return nil, err
	}

	cfg := scan.DefaultConfig(home)
	if workers > 0 {
		cfg.Workers = workers
	}

	cf := classify.New(st)
	h := history.NewLog(st, history.DefaultCapacity)
	return &core{
		store:      st,
		boundary:   b,
		classifier: cf,
		history:    h,
		scanner:    scan.New(cfg, b, cf),
		cleaner:    clean.New(b, h, nil, cfg.Workers),
	}, nil
}
