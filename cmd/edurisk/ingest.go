package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/edurisk/internal/config"
	"github.com/crimson-sun/edurisk/internal/connector"
	"github.com/crimson-sun/edurisk/internal/ingest"
	"github.com/crimson-sun/edurisk/internal/model"
)

func newIngestCmd(cfg *config.Config) *cobra.Command {
	var (
		dataType    string
		qualityOnly bool
	)
	cmd := &cobra.Command{
		Use:   "ingest --type <students|attendance|assessments|fees> <file>",
		Short: "Validate one uploaded file and print the records and quality report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(dataType)
			if err != nil {
				return err
			}
			proc, err := buildProcessor(*cfg)
			if err != nil {
				return err
			}
			res, err := ingestFile(cmd.Context(), proc, args[0], kind, cfg.Ingest.ChunkSize)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			if cfg.Output.Pretty {
				enc.SetIndent("", "  ")
			}
			if qualityOnly {
				return enc.Encode(struct {
					Quality model.QualityReport `json:"quality"`
					Summary model.Summary       `json:"summary"`
				}{res.Quality, res.Summary})
			}
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&dataType, "type", "", "data type of the file")
	cmd.Flags().BoolVar(&qualityOnly, "quality-only", false, "omit records from the output")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// ingestFile streams path through the file connector into proc.
func ingestFile(ctx context.Context, proc *ingest.Processor, path string, kind model.Kind, chunkSize int) (model.IngestResult, error) {
	ctor, err := connector.Get("file")
	if err != nil {
		return model.IngestResult{}, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks, err := ctor().Stream(ctx, connector.Config{Provider: "file", Path: path, ChunkSize: chunkSize})
	if err != nil {
		return model.IngestResult{}, err
	}
	res, err := proc.ProcessStream(ctx, chunks, filepath.Base(path), kind)
	if err != nil {
		return model.IngestResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
