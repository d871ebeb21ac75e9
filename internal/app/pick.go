package app

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/netowner/netowner/internal/output"
	"github.com/netowner/netowner/internal/source"
	"github.com/netowner/netowner/pkg/model"
)

// finder is replaced in tests.
var finder = func(records []model.ListenerRecord) (int, error) {
	return fuzzyfinder.Find(
		records,
		func(i int) string { return pickLabel(records[i]) },
		fuzzyfinder.WithPromptString("Select socket: "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i < 0 {
				return ""
			}
			var buf bytes.Buffer
			output.RenderDetail(&buf, records[i], false)
			return buf.String()
		}),
	)
}

func pickLabel(r model.ListenerRecord) string {
	return fmt.Sprintf("%-22s %-22s %-12s %6d %s", r.Local, r.Remote, r.State, r.ProcessID, source.Label(r))
}

func newPickCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Fuzzy-select a socket and show its details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync() //nolint:errcheck

			snap, err := s.collect(cmd.Context())
			if err != nil {
				return err
			}
			if len(snap.Records) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No matching sockets found")
				return nil
			}

			idx, err := finder(snap.Records)
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("selecting socket: %w", err)
			}
			output.RenderDetail(cmd.OutOrStdout(), snap.Records[idx], s.cfg.Color)
			return nil
		},
	}
	opts.bindListFlags(cmd)
	return cmd
}
