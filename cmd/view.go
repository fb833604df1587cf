package cmd

import (
	"fmt"

	"livehl/internal/log"
	"livehl/internal/mainloop"
	"livehl/internal/theme"
	"livehl/internal/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newViewCmd(a *app) *cobra.Command {
	var (
		follow    bool
		editorCmd string
	)

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Open FILE in a scrolling viewer that highlights what is on screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			text, id, err := a.load(cmd, path)
			if err != nil {
				return err
			}

			loop := mainloop.New()
			sess, err := view.NewSession(cmd.Context(), text, id, a.cfg, theme.MustLoad(a.cfg.Theme), loop.Post, a.tracer.Tracer())
			if err != nil {
				return err
			}
			defer sess.Close()

			opts := view.Options{EditorCmd: editorCmd}
			if path != "-" {
				opts.Path = path
			}
			if follow && opts.Path != "" {
				w, err := view.NewWatcher(path, view.DefaultDebounce)
				if err != nil {
					return err
				}
				defer func() {
					if err := w.Stop(); err != nil {
						log.ErrorErr(log.CatWatcher, "stopping watcher", err)
					}
				}()
				if opts.Changes, err = w.Start(); err != nil {
					return err
				}
			}

			m := view.NewModel(sess, loop, opts)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running viewer: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "reload when the file changes on disk")
	cmd.Flags().StringVar(&editorCmd, "editor-cmd", "", "editor command for the e key, supports {file} {line} {target}")
	return cmd
}
