package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/edurisk/internal/config"
	"github.com/crimson-sun/edurisk/internal/model"
)

func newScoreCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "score [file|-]",
		Short: "Score NDJSON feature vectors ({\"studentId\":..., \"features\":{...}})",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			p, eng, err := buildPipeline(*cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			g, ctx := errgroup.WithContext(cmd.Context())
			reqs := make(chan model.ScoreRequest)
			g.Go(func() error {
				defer close(reqs)
				return decodeRequests(ctx, r, reqs)
			})
			g.Go(func() error { return p.Stream(ctx, reqs) })

			err = g.Wait()
			if cerr := p.Close(); err == nil {
				err = cerr
			}
			if n := p.Failed(); n > 0 {
				slog.Warn("some students need manual review", "count", n)
			}
			return err
		},
	}
}

// decodeRequests reads one ScoreRequest per JSON value until EOF.
func decodeRequests(ctx context.Context, r io.Reader, out chan<- model.ScoreRequest) error {
	dec := json.NewDecoder(r)
	for n := 1; ; n++ {
		var req model.ScoreRequest
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("request %d: %w", n, err)
		}
		select {
		case out <- req:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
