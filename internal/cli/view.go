package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yildizm/MeetSum/internal/presenter"
	"github.com/yildizm/MeetSum/internal/ui"
)

var (
	viewNoTUI      bool
	viewWatch      bool
	viewTab        string
	viewOutputFile string
)

func newViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <result.json>",
		Short: "Show a saved analysis",
		Long: `Show an analysis previously saved with the download key or
'analyze -o json'. Both the raw backend response and the exported minutes
are accepted.

With --watch the view reloads whenever the file changes.

Examples:
  meetsum view meeting-analysis-1718000000000.json
  meetsum view --watch minutes.json
  meetsum view --no-tui -o markdown minutes.json`,
		Args: cobra.ExactArgs(1),
		RunE: runView,
	}

	cmd.Flags().BoolVar(&viewNoTUI, "no-tui", false, "disable terminal UI, output to stdout")
	cmd.Flags().BoolVarP(&viewWatch, "watch", "w", false, "reload when the file changes")
	cmd.Flags().StringVar(&viewTab, "tab", "", "only show this section (e.g. decisions)")
	cmd.Flags().StringVar(&viewOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	path := filepath.Clean(args[0])
	if err := validateFilePath(path); err != nil {
		return err
	}
	value, err := loadResultFile(path)
	if err != nil {
		return err
	}

	if shouldUseTUIMode(viewNoTUI, viewOutputFile) {
		var attach func(context.Context, *tea.Program)
		if viewWatch {
			w, err := newResultWatcher(path)
			if err != nil {
				return err
			}
			attach = func(ctx context.Context, p *tea.Program) {
				_ = w.Run(ctx,
					func(v any) { p.Send(ui.ResultMsg{Value: v, Source: path}) },
					func(err error) { p.Send(ui.ErrorMsg{Err: err}) })
			}
		}
		return runTUI(ui.Options{
			Presenter: newTerminalPresenter(GetGlobalConfig(), viewTab),
			Initial:   value,
			Source:    path,
		}, attach)
	}

	if err := writeResult(cmd, presenter.Unwrap(value), viewTab, viewOutputFile); err != nil {
		return err
	}
	if !viewWatch {
		return nil
	}

	w, err := newResultWatcher(path)
	if err != nil {
		return err
	}
	log := newLogger("view")
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Watching %s, press Ctrl+C to stop...\n", path)
	}
	return w.Run(ctx,
		func(v any) {
			if err := writeResult(cmd, presenter.Unwrap(v), viewTab, viewOutputFile); err != nil {
				log.Warn("failed to write result: %v", err)
			}
		},
		func(err error) { log.Warn("%v", err) })
}
