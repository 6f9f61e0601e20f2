package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mlhdclean/internal/catalog"
	"mlhdclean/internal/resolve"
)

type resolveTrace struct {
	Input       string `json:"input"`
	Known       bool   `json:"known"`
	Redirected  string `json:"redirected,omitempty"`
	Canonical   string `json:"canonical,omitempty"`
	RecordingID string `json:"recording_id"`
	ArtistIDs   string `json:"artist_ids"`
	ReleaseID   string `json:"release_id"`
}

// traceResolution runs each resolution step separately so the output can show
// which step changed the id.
func traceResolution(tables catalog.Lookup, raw string) resolveTrace {
	id := strings.TrimSpace(raw)
	trace := resolveTrace{Input: raw, Known: tables.Known(id)}

	current, redirected := resolve.Redirect(tables, id)
	if redirected {
		trace.Redirected = current
	}
	current, canonical := resolve.Canonical(tables, current)
	if canonical {
		trace.Canonical = current
	}
	credit, _ := resolve.Credit(tables, current)

	trace.RecordingID = current
	trace.ArtistIDs = credit.ArtistIDs
	trace.ReleaseID = credit.ReleaseID
	return trace
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resolve MBID...",
		Short: "Show how recording MBIDs resolve against the reference tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			tables, err := store.Load(cmd.Context())
			_ = store.Close()
			if err != nil {
				return err
			}

			traces := make([]resolveTrace, 0, len(args))
			for _, arg := range args {
				traces = append(traces, traceResolution(tables, arg))
			}

			if jsonOutput {
				return writeJSON(cmd, traces)
			}

			rows := make([][]string, 0, len(traces))
			for _, t := range traces {
				rows = append(rows, []string{
					t.Input,
					yesNo(t.Known),
					dashIfEmpty(t.Redirected),
					dashIfEmpty(t.Canonical),
					dashIfEmpty(t.ArtistIDs),
					dashIfEmpty(t.ReleaseID),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Input", "Known", "Redirect", "Canonical", "Artists", "Release"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func dashIfEmpty(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
