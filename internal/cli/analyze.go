package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yildizm/MeetSum/internal/client"
	"github.com/yildizm/MeetSum/internal/config"
	"github.com/yildizm/MeetSum/internal/credentials"
	"github.com/yildizm/MeetSum/internal/emoji"
	"github.com/yildizm/MeetSum/internal/export"
	"github.com/yildizm/MeetSum/internal/formatter"
	"github.com/yildizm/MeetSum/internal/logger"
	"github.com/yildizm/MeetSum/internal/presenter"
	"github.com/yildizm/MeetSum/internal/ui"
)

var (
	analyzeNoTUI      bool
	analyzeOutputFile string
	analyzeTab        string
	analyzeTimeout    time.Duration
	analyzeNoProgress bool
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <transcript.txt>",
		Short: "Analyze a meeting transcript",
		Long: `Upload a plain-text meeting transcript to the analysis backend and show
the minutes it returns.

On a terminal the results open in a tabbed view where they can be browsed,
copied and downloaded. With --no-tui, or when output is redirected, the
results are printed in the format selected with --output.

Examples:
  meetsum analyze standup.txt
  meetsum analyze --no-tui -o markdown standup.txt > minutes.md
  meetsum analyze --tab action_items --no-tui standup.txt
  meetsum analyze -o json --output-file minutes.json standup.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().BoolVar(&analyzeNoTUI, "no-tui", false, "disable terminal UI, output to stdout")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")
	cmd.Flags().StringVar(&analyzeTab, "tab", "", "only show this section (e.g. action_items)")
	cmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0, "request timeout (default from config)")
	cmd.Flags().BoolVar(&analyzeNoProgress, "no-progress", false, "do not draw the upload progress bar")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("analyze")

	clientCfg := resolveClientConfig(cfg, log)
	if cmd.Flags().Changed("timeout") {
		clientCfg.Timeout = analyzeTimeout
	}

	if err := validateFilePath(args[0]); err != nil {
		return err
	}
	up, err := client.LoadUpload(filepath.Clean(args[0]), clientCfg.MaxUploadBytes())
	if err != nil {
		return errors.New(client.UserMessage(err))
	}
	log.Debug("loaded %s (%d bytes)", up.Filename, up.Size())

	if shouldUseTUIMode(analyzeNoTUI, analyzeOutputFile) {
		c, err := client.New(clientCfg)
		if err != nil {
			return err
		}
		return runTUI(ui.Options{
			Presenter: newTerminalPresenter(cfg, analyzeTab),
			Analyzer:  c,
			Upload:    &up,
		}, nil)
	}

	opts := []client.Option{client.WithLogger(log)}
	if cfg.Output.ShowProgress && !analyzeNoProgress && stderrIsTerminal() {
		opts = append(opts, client.WithProgress(os.Stderr))
	}
	c, err := client.New(clientCfg, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resp, err := c.Analyze(ctx, up)
	if err != nil {
		return fmt.Errorf("analysis failed: %s", client.UserMessage(err))
	}
	log.InfoWithFields("analysis complete", []logger.Field{
		logger.F("file", up.Filename),
		logger.F("status", resp.StatusCode),
		logger.Duration(resp.Duration),
	})

	return writeResult(cmd, presenter.Unwrap(resp.Value), analyzeTab, analyzeOutputFile)
}

// resolveClientConfig fills the API key from the keyring when the config
// does not carry one.
func resolveClientConfig(cfg *config.Config, log *logger.Logger) *client.Config {
	clientCfg := cfg.ClientConfig()
	token, err := credentials.NewStore().Resolve(clientCfg.BaseURL, clientCfg.APIKey)
	if err != nil {
		log.Warn("could not read stored token: %v", err)
		return clientCfg
	}
	clientCfg.APIKey = token
	return clientCfg
}

// shouldUseTUIMode reports whether results go to the interactive view.
func shouldUseTUIMode(noTUI bool, outputFile string) bool {
	return !noTUI && outputFile == "" && getOutputFormat() == "text" && !isVerbose() && stdoutIsTerminal()
}

func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd())) // #nosec G115 -- fd fits in int
}

func newTerminalPresenter(cfg *config.Config, tab string) *presenter.Presenter {
	opts := append(cfg.PresenterOptions(), presenter.WithRenderer(presenter.TextRenderer{}))
	if tab != "" {
		opts = append(opts, presenter.WithDefaultTab(tab))
	}
	return presenter.New(opts...)
}

// runTUI runs the terminal view. attach, when set, may feed the program
// from another goroutine until its context is canceled.
func runTUI(opts ui.Options, attach func(ctx context.Context, p *tea.Program)) error {
	cfg := GetGlobalConfig()
	opts.Clipboard = export.NewOSC52Clipboard(os.Stdout)
	opts.DownloadDir = config.ExpandPath(cfg.Output.DownloadDir)
	opts.Theme = cfg.Output.Theme
	opts.Logger = newLogger("ui")

	// log lines would tear the alt screen
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(nil)

	program := tea.NewProgram(ui.New(opts), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if attach != nil {
		go attach(ctx, program)
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

// writeResult formats result and writes it to outputFile or stdout.
func writeResult(cmd *cobra.Command, result presenter.AnalysisResult, tab, outputFile string) error {
	cfg := GetGlobalConfig()
	opts := formatter.Options{
		TabOrder:   cfg.Presenter.Tabs,
		FieldOrder: cfg.Presenter.FieldOrder,
		Color:      useColor(cfg, outputFile),
		Emoji:      !emoji.IsEmojiDisabled(),
	}
	if tab != "" {
		result = selectSection(result, tab)
		opts.TabOrder = []string{tab}
	}

	f, err := formatter.New(getOutputFormat(), opts)
	if err != nil {
		return fmt.Errorf("failed to get formatter: %w", err)
	}
	output, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return handleOutputDestination(cmd, output, outputFile)
}

// selectSection keeps only the named section.
func selectSection(result presenter.AnalysisResult, tab string) presenter.AnalysisResult {
	out := presenter.AnalysisResult{}
	if v, ok := result[tab]; ok {
		out[tab] = v
	}
	return out
}

func useColor(cfg *config.Config, outputFile string) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch cfg.Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return outputFile == "" && stdoutIsTerminal()
	}
}

// handleOutputDestination writes output to file or stdout
func handleOutputDestination(cmd *cobra.Command, output []byte, outputFile string) error {
	if outputFile == "" {
		_, err := cmd.OutOrStdout().Write(output)
		return err
	}

	if err := validateOutputFilePath(outputFile); err != nil {
		return fmt.Errorf("invalid output file path: %w", err)
	}
	if err := writeOutputBytesToFile(output, outputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", outputFile)
	}
	return nil
}

func validateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}

func validateOutputFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	// #nosec G304 - path chosen by the user on the command line
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// Sync to ensure data is written
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
