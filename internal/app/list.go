package app

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/netowner/netowner/internal/config"
	"github.com/netowner/netowner/internal/output"
	"github.com/netowner/netowner/internal/pipeline"
	"github.com/netowner/netowner/pkg/model"
)

// session is everything a command needs to take a snapshot.
type session struct {
	cfg       config.Config
	req       pipeline.Request
	log       *zap.Logger
	collector *pipeline.Collector
}

func (o *options) session(cmd *cobra.Command) (*session, error) {
	cfg, _, err := o.effectiveConfig(cmd)
	if err != nil {
		return nil, err
	}
	req, err := o.request(cfg)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, req: req, log: log, collector: newCollector(cfg, log)}, nil
}

func (s *session) collect(ctx context.Context) (model.Snapshot, error) {
	return s.collector.Collect(ctx, s.req)
}

func runList(cmd *cobra.Command, opts *options) error {
	s, err := opts.session(cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync() //nolint:errcheck

	snap, err := s.collect(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if s.cfg.Format == "json" {
		data, err := output.ToJSON(snap)
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		fmt.Fprintln(out, data)
		return nil
	}

	if len(snap.Records) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No matching sockets found")
		return nil
	}
	switch s.cfg.Format {
	case "short":
		output.RenderShort(out, snap.Records, s.cfg.Color)
	case "tree":
		output.PrintByOwner(out, snap.Records, s.cfg.Color)
	default:
		output.RenderTable(out, snap.Records, output.TableOptions{
			Color:      s.cfg.Color,
			CreateTime: lo.SomeBy(snap.Records, model.ListenerRecord.HasCreateTime),
		})
	}
	return nil
}
