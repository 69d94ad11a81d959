package models

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Pinger checks that the backend API answers at all.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WaitReady polls until the backend answers and every model in required is
// present, or ctx ends.
func WaitReady(ctx context.Context, p Pinger, m Manager, required []string, interval time.Duration, log *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() error {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("backend not reachable: %w", err)
		}
		for _, name := range required {
			if err := m.Healthy(ctx, name); err != nil {
				return fmt.Errorf("model not present yet: %s: %w", name, err)
			}
		}
		return nil
	}

	// immediate attempt first
	err := check()
	for err != nil {
		log.Debug("backend not ready", "err", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
		case <-ticker.C:
			err = check()
		}
	}
	return nil
}

// Ensure checks that model is available and, when pull is set and m can pull,
// downloads it if it is missing.
func Ensure(ctx context.Context, m Manager, model string, pull bool, log *slog.Logger) error {
	err := m.Healthy(ctx, model)
	if err == nil || !errors.Is(err, ErrUnknownModel) {
		return err
	}
	p, ok := m.(Puller)
	if !pull || !ok {
		return fmt.Errorf("%s: %w", model, err)
	}

	log.Info("pulling missing model", "model", model)
	if err := p.Pull(ctx, model); err != nil {
		return fmt.Errorf("pull %s: %w", model, err)
	}
	return m.Healthy(ctx, model)
}
