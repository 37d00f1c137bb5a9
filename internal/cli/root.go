package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fmueller/transcribe/internal/clipboard"
	"github.com/fmueller/transcribe/internal/logging"
	"github.com/fmueller/transcribe/internal/platform"
	"github.com/fmueller/transcribe/internal/version"
	"github.com/fmueller/transcribe/internal/whisper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spf13/cobra"
)

type appState struct {
	verbose    bool
	jsonLogs   bool
	noProgress bool

	model        string
	modelDir     string
	language     string
	task         string
	engine       string
	output       string
	autoDownload bool

	copyToClipboard bool
	copyEmpty       bool
	silenceGate     bool
	silenceDBFS     float64

	logger *zap.Logger
	out    io.Writer

	transcribeFn func(ctx context.Context, inputPath string) (whisper.Result, error)
	engineRunFn  func(ctx context.Context, req whisper.Request) (whisper.Result, error)
	copyFn       func(ctx context.Context, value string) error
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(newAppState())
}

func newAppState() *appState {
	app := &appState{
		model:        whisper.DefaultModel,
		language:     "auto",
		task:         taskTranscribe,
		engine:       engineLocal,
		autoDownload: true,
		silenceDBFS:  -65,
		out:          os.Stdout,
	}
	app.copyFn = clipboard.CopyText
	return app
}

func newRootCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "transcribe <input-file>",
		Short:         "Transcribe or translate an audio/video file into a text file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Options{Verbose: app.verbose, JSON: app.jsonLogs})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			app.logger = logger
			app.language = sanitizeLanguage(app.language)
			if err := validateTask(app.task); err != nil {
				return err
			}
			return validateEngine(app.engine)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd.Context(), args[0])
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	bindLoggingFlags(cmd, app)
	bindProgressFlag(cmd, app)
	bindModelFlags(cmd, app)
	bindRequestFlags(cmd, app)
	bindCopyAndSilenceFlags(cmd, app)

	cmd.AddCommand(newSetupCmd(app))
	cmd.AddCommand(newModelsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func bindLoggingFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	cmd.Flags().BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
}

func bindProgressFlag(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
}

func bindModelFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVarP(&app.model, "model", "m", app.model, "Model size (tiny|base|small|medium|large|large-v2) or model file path")
	cmd.Flags().StringVar(&app.modelDir, "model-dir", app.modelDir, "Directory where models are stored")
	cmd.Flags().BoolVar(&app.autoDownload, "auto-download", app.autoDownload, "Automatically download missing models")
}

func bindRequestFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVarP(&app.output, "output", "o", app.output, "Destination path for the transcript (default: <input>_<task>.txt)")
	cmd.Flags().StringVar(&app.language, "language", app.language, "Spoken language ISO code (auto|en|de|...)")
	cmd.Flags().StringVar(&app.task, "task", app.task, "Task: transcribe (keep language) or translate (into English)")
	cmd.Flags().StringVar(&app.engine, "engine", app.engine, "Engine: local (bundled whisper-cli) or openai (hosted API)")
}

func bindCopyAndSilenceFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.copyToClipboard, "copy", app.copyToClipboard, "Copy the transcript to the clipboard")
	cmd.Flags().BoolVar(&app.copyEmpty, "copy-empty", app.copyEmpty, "Copy blank transcripts to clipboard")
	cmd.Flags().BoolVar(&app.silenceGate, "silence-gate", app.silenceGate, "Skip transcription of near-silent WAV input")
	cmd.Flags().Float64Var(&app.silenceDBFS, "silence-threshold-dbfs", app.silenceDBFS, "Silence gate threshold in dBFS")
}

func (a *appState) run(ctx context.Context, inputPath string) error {
	inputPath = filepath.Clean(inputPath)
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	outputPath := resolveOutputPath(inputPath, a.output, a.task)

	transcribeFn := a.transcribeFn
	if transcribeFn == nil {
		transcribeFn = a.transcribeInput
	}

	result, err := transcribeFn(ctx, inputPath)
	if err != nil {
		return err
	}

	if err := writeTranscript(outputPath, result.Text); err != nil {
		return err
	}
	a.log().Info("transcript saved",
		zap.String("output", outputPath),
		zap.String("language", result.Language),
		zap.Int("chars", len(result.Text)),
	)

	fmt.Fprintln(a.outWriter(), previewTranscript(result.Text))
	if isBlankTranscript(result.Text) {
		a.log().Warn(noSpeechHint())
	}

	if !a.copyToClipboard {
		return nil
	}
	if isBlankTranscript(result.Text) && !a.copyEmpty {
		return nil
	}

	copyFn := a.copyFn
	if copyFn == nil {
		copyFn = clipboard.CopyText
	}
	if err := copyFn(ctx, result.Text); err != nil {
		if errors.Is(err, clipboard.ErrUnavailable) {
			a.log().Warn("clipboard tool unavailable; transcript left on stdout")
			return nil
		}
		a.log().Warn("failed to copy transcript to clipboard; transcript left on stdout", zap.Error(err))
		return nil
	}
	a.log().Info("transcript copied to clipboard")

	return nil
}

func (a *appState) invokeEngine(ctx context.Context, engine whisper.Engine, req whisper.Request) (whisper.Result, error) {
	a.log().Info("transcribing...",
		zap.String("audio", req.AudioPath),
		zap.String("language", req.Language),
		zap.Bool("translate", req.Translate),
	)
	stopSpinner := startSpinner(a.progressEnabled(), "Transcribing")
	started := time.Now()

	result, err := engine.Transcribe(ctx, req)
	stopSpinner()
	if err != nil {
		a.log().Warn("transcription failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return whisper.Result{}, err
	}

	a.log().Info("transcription finished",
		zap.Duration("elapsed", time.Since(started)),
		zap.String("language", result.Language),
	)
	return result, nil
}

func (a *appState) modelStorageDir() (string, error) {
	dir, err := platform.ResolveModelDir(a.modelDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory %s: %w", dir, err)
	}
	return dir, nil
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (a *appState) outWriter() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}
