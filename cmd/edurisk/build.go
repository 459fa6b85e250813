package main

import (
	"fmt"

	"github.com/crimson-sun/edurisk/internal/config"
	"github.com/crimson-sun/edurisk/internal/engine"
	"github.com/crimson-sun/edurisk/internal/engine/augment"
	"github.com/crimson-sun/edurisk/internal/engine/classifier"
	"github.com/crimson-sun/edurisk/internal/engine/recommend"
	"github.com/crimson-sun/edurisk/internal/ingest"
	"github.com/crimson-sun/edurisk/internal/ingest/normalize"
	"github.com/crimson-sun/edurisk/internal/output"
	"github.com/crimson-sun/edurisk/internal/output/async"
	"github.com/crimson-sun/edurisk/internal/output/file"
	"github.com/crimson-sun/edurisk/internal/output/multi"
	"github.com/crimson-sun/edurisk/internal/output/stdout"
	"github.com/crimson-sun/edurisk/internal/pipeline"
)

func buildProcessor(cfg config.Config) (*ingest.Processor, error) {
	table := normalize.DefaultTable()
	if len(cfg.Ingest.Aliases) > 0 {
		var err error
		if table, err = table.Extend(cfg.Ingest.Aliases); err != nil {
			return nil, fmt.Errorf("ingest aliases: %w", err)
		}
	}
	return ingest.New(ingest.WithAliases(table)), nil
}

func buildEngine(cfg config.Config) *engine.Engine {
	aug := augment.Unavailable()
	if path := cfg.Engine.AugmentModel; path != "" {
		var opts []augment.Option
		if cfg.Engine.RuntimeLibrary != "" {
			opts = append(opts, augment.WithRuntimeLibrary(cfg.Engine.RuntimeLibrary))
		}
		aug = augment.Lazy(func() (augment.Augmentor, error) {
			return augment.Load(path, opts...)
		})
	}
	return engine.New(classifier.New(), recommend.Default(), aug,
		engine.WithConcurrency(cfg.Engine.Concurrency))
}

func buildOutput(cfg config.Config) (output.Output, error) {
	verbosity, err := output.ParseVerbosity(cfg.Output.Verbosity)
	if err != nil {
		return nil, err
	}

	fileOpts := []file.Option{file.WithMaxSize(cfg.Output.MaxSize)}
	if cfg.Output.Summary {
		fileOpts = append(fileOpts, file.WithSummary())
	}

	var out output.Output
	switch cfg.Output.Kind {
	case "file":
		out, err = file.New(cfg.Output.Path, verbosity, fileOpts...)
		if err != nil {
			return nil, err
		}
	case "both":
		f, err := file.New(cfg.Output.Path, verbosity, fileOpts...)
		if err != nil {
			return nil, err
		}
		out = multi.New(stdout.New(verbosity, cfg.Output.Pretty), f)
	default:
		out = stdout.New(verbosity, cfg.Output.Pretty)
	}

	if cfg.Output.AsyncBuffer > 0 {
		opts := []async.Option{async.WithBufferSize(cfg.Output.AsyncBuffer)}
		if cfg.Output.DropOnFull {
			opts = append(opts, async.WithDropOnFull())
		}
		out = async.New(out, opts...)
	}
	return out, nil
}

func buildPipeline(cfg config.Config) (*pipeline.Pipeline, *engine.Engine, error) {
	out, err := buildOutput(cfg)
	if err != nil {
		return nil, nil, err
	}
	eng := buildEngine(cfg)
	p := pipeline.New(eng, out,
		pipeline.WithFlushWindow(cfg.Pipeline.FlushWindow),
		pipeline.WithMaxBatch(cfg.Pipeline.MaxBatch),
	)
	return p, eng, nil
}
