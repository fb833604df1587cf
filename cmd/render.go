package cmd

import (
	"fmt"
	"io"
	"strings"

	"livehl/internal/theme"
	"livehl/internal/view"

	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render FILE",
		Short: "Highlight FILE (or - for stdin) and print it with ANSI colours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, id, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			th, err := theme.Load(a.cfg.Theme)
			if err != nil {
				return err
			}
			if err := view.Render(cmd.Context(), cmd.OutOrStdout(), text, id, a.cfg, th, a.tracer.Tracer()); err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			return nil
		},
	}
}

func readStdin(cmd *cobra.Command) (string, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.ToValidUTF8(strings.ReplaceAll(string(data), "\r\n", "\n"), "�"), nil
}
