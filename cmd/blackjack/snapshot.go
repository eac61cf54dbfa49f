package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lox/blackjack/internal/snapshot"
)

// SnapshotCmd groups the saved game commands
type SnapshotCmd struct {
	Show  SnapshotShowCmd  `cmd:"" default:"1" help:"Print the saved game as JSON"`
	Clear SnapshotClearCmd `cmd:"" help:"Delete the saved game"`
}

type SnapshotShowCmd struct {
	ConfigFlags
}

func (c *SnapshotShowCmd) Run() error {
	return withStore(c.ConfigFlags, func(ctx context.Context, store snapshot.Store) error {
		return showSnapshot(ctx, store, os.Stdout)
	})
}

type SnapshotClearCmd struct {
	ConfigFlags
}

func (c *SnapshotClearCmd) Run() error {
	return withStore(c.ConfigFlags, func(ctx context.Context, store snapshot.Store) error {
		return clearSnapshot(ctx, store, os.Stdout)
	})
}

func withStore(flags ConfigFlags, fn func(context.Context, snapshot.Store) error) error {
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := context.Background()
	store, closeStore, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()
	return fn(ctx, store)
}

func showSnapshot(ctx context.Context, store snapshot.Store, out io.Writer) error {
	snap, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		_, err = fmt.Fprintln(out, "No saved game")
		return err
	}
	data, err := snapshot.Marshal(*snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}

func clearSnapshot(ctx context.Context, store snapshot.Store, out io.Writer) error {
	if err := store.Delete(ctx); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, "Saved game cleared")
	return err
}
