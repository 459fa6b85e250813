package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/edurisk/internal/aggregate"
	"github.com/crimson-sun/edurisk/internal/config"
	"github.com/crimson-sun/edurisk/internal/model"
)

func newAssessCmd(cfg *config.Config) *cobra.Command {
	files := map[model.Kind]*string{
		model.KindStudent:    new(string),
		model.KindAttendance: new(string),
		model.KindAssessment: new(string),
		model.KindFee:        new(string),
	}
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Ingest student data files, aggregate per student, and score everyone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			proc, err := buildProcessor(*cfg)
			if err != nil {
				return err
			}

			var records []model.Record
			for _, kind := range []model.Kind{model.KindStudent, model.KindAttendance, model.KindAssessment, model.KindFee} {
				path := *files[kind]
				if path == "" {
					continue
				}
				res, err := ingestFile(cmd.Context(), proc, path, kind, cfg.Ingest.ChunkSize)
				if err != nil {
					return err
				}
				if q := res.Quality; q.InvalidRecords > 0 {
					slog.Warn("rows dropped", "file", path, "invalid", q.InvalidRecords, "issues", q.Issues)
				}
				records = append(records, res.Records...)
			}
			if len(records) == 0 {
				return errors.New("no records: pass at least one of --students, --attendance, --assessments, --fees")
			}

			p, eng, err := buildPipeline(*cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			err = p.Score(cmd.Context(), aggregate.BuildAll(records, time.Now()))
			if cerr := p.Close(); err == nil {
				err = cerr
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(files[model.KindStudent], "students", "", "students file")
	f.StringVar(files[model.KindAttendance], "attendance", "", "attendance file")
	f.StringVar(files[model.KindAssessment], "assessments", "", "assessments file")
	f.StringVar(files[model.KindFee], "fees", "", "fees file")
	return cmd
}
