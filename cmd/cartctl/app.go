package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nikolayk812/cartkv-demo/internal/cart"
	"github.com/nikolayk812/cartkv-demo/internal/config"
	"github.com/nikolayk812/cartkv-demo/internal/logger"
	"github.com/spf13/cobra"
)

const closeTimeout = 10 * time.Second

// session holds the cart store opened for a single command invocation.
type session struct {
	cfg          config.Config
	log          *slog.Logger
	store        *cart.Store
	closeStorage func() error
}

func run(ctx context.Context, args []string, out io.Writer) (err error) {
	sess := &session{}
	defer func() {
		err = errors.Join(err, sess.close())
	}()

	root := newRootCmd(sess)
	root.SetArgs(args)
	root.SetOut(out)

	return root.ExecuteContext(ctx)
}

func newRootCmd(sess *session) *cobra.Command {
	root := &cobra.Command{
		Use:           "cartctl",
		Short:         "Inspect and change the persisted shopping cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return sess.open(cmd)
		},
	}

	root.AddCommand(
		newListCmd(sess),
		newAddCmd(),
		newIncrementCmd(),
		newDecrementCmd(),
		newClearCmd(),
	)

	return root
}

func (s *session) open(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	s.cfg = cfg
	s.log = logger.New(logger.Options{Service: "cartctl", Env: cfg.AppEnv, Level: cfg.LogLevel})

	storage, closeStorage, err := openStorage(ctx, cfg, s.log)
	if err != nil {
		return fmt.Errorf("openStorage: %w", err)
	}
	s.closeStorage = closeStorage

	s.store, err = cart.New(storage,
		cart.WithKey(cfg.CartKey),
		cart.WithLogger(s.log),
		cart.WithWriteRetries(cfg.WriteRetries),
	)
	if err != nil {
		return fmt.Errorf("cart.New: %w", err)
	}

	select {
	case <-s.store.Loaded():
	case <-ctx.Done():
		return ctx.Err()
	}

	cmd.SetContext(cart.NewContext(ctx, s.store))
	return nil
}

// close flushes queued cart writes before releasing the storage backend.
func (s *session) close() error {
	var errs []error

	if s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()

		if err := s.store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("store.Close: %w", err))
		}
	}

	if s.closeStorage != nil {
		if err := s.closeStorage(); err != nil {
			errs = append(errs, fmt.Errorf("closeStorage: %w", err))
		}
	}

	return errors.Join(errs...)
}
