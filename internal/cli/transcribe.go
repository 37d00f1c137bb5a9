package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fmueller/transcribe/internal/audio"
	"github.com/fmueller/transcribe/internal/download"
	"github.com/fmueller/transcribe/internal/media"
	"github.com/fmueller/transcribe/internal/whisper"
	"go.uber.org/zap"
)

// transcribeInput runs the full pipeline for one input file: silence gate,
// engine selection, model resolution, audio extraction, transcription.
func (a *appState) transcribeInput(ctx context.Context, inputPath string) (whisper.Result, error) {
	if skipped, result := a.silenceGateResult(inputPath); skipped {
		return result, nil
	}

	req := whisper.Request{
		AudioPath: inputPath,
		Language:  a.language,
		Translate: a.task == taskTranslate,
	}

	runEngine := a.engineRunFn
	if runEngine == nil {
		runEngine = a.runEngine
	}
	return runEngine(ctx, req)
}

func (a *appState) runEngine(ctx context.Context, req whisper.Request) (whisper.Result, error) {
	if a.engine == engineOpenAI {
		engine, err := whisper.NewOpenAIEngine(os.Getenv("OPENAI_API_KEY"), a.log())
		if err != nil {
			return whisper.Result{}, err
		}
		return a.invokeEngine(ctx, engine, req)
	}

	model, err := a.ensureModelAvailable(ctx)
	if err != nil {
		return whisper.Result{}, err
	}
	req.ModelPath = model.Path

	engine, err := whisper.NewBundledEngine(a.log())
	if err != nil {
		return whisper.Result{}, err
	}

	audioPath, cleanup, err := a.prepareAudio(ctx, req.AudioPath)
	if err != nil {
		return whisper.Result{}, err
	}
	defer cleanup()
	req.AudioPath = audioPath

	return a.invokeEngine(ctx, engine, req)
}

// prepareAudio converts non-WAV input into the 16 kHz mono WAV the local
// engine expects. The cleanup func removes the temporary file, if any.
func (a *appState) prepareAudio(ctx context.Context, inputPath string) (string, func(), error) {
	if !media.NeedsExtraction(inputPath) {
		return inputPath, func() {}, nil
	}

	a.log().Info("extracting audio track", zap.String("input", inputPath))
	extracted, err := media.ExtractWAV(ctx, inputPath, "", a.log())
	if err != nil {
		return "", nil, err
	}

	cleanup := func() {
		if err := os.Remove(extracted); err != nil {
			a.log().Warn("failed to remove extracted audio", zap.String("path", extracted), zap.Error(err))
		}
	}
	return extracted, cleanup, nil
}

func (a *appState) silenceGateResult(inputPath string) (bool, whisper.Result) {
	if !a.silenceGate {
		return false, whisper.Result{}
	}
	if !strings.EqualFold(filepath.Ext(inputPath), ".wav") {
		return false, whisper.Result{}
	}

	silent, metrics, err := audio.IsSilentWAV(inputPath, a.silenceDBFS)
	if err != nil {
		a.log().Warn("silence gate analysis failed; continuing transcription", zap.Error(err), zap.String("audio", inputPath))
		return false, whisper.Result{}
	}
	if !silent {
		return false, whisper.Result{}
	}

	a.log().Info(
		"audio considered silent; skipping transcription",
		zap.String("audio", inputPath),
		zap.Float64("rms_dbfs", metrics.RMSdBFS),
		zap.Float64("peak_dbfs", metrics.PeakdBFS),
		zap.Float64("threshold_dbfs", a.silenceDBFS),
	)
	return true, whisper.Result{Language: a.language}
}

func (a *appState) ensureModelAvailable(ctx context.Context) (whisper.ResolvedModel, error) {
	modelDir, err := a.modelStorageDir()
	if err != nil {
		return whisper.ResolvedModel{}, err
	}

	resolved, err := whisper.ResolveModel(a.model, modelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}

	if !resolved.NeedsDownload {
		return resolved, nil
	}

	if !a.autoDownload {
		return whisper.ResolvedModel{}, fmt.Errorf("model %q is missing at %s; run `transcribe setup --model %s` or use --auto-download=true", resolved.Name, resolved.Path, resolved.Name)
	}

	a.log().Info("model not found, downloading", zap.String("model", resolved.Name), zap.String("destination", resolved.Path))
	if err := download.DownloadFile(ctx, download.Options{
		URL:            resolved.URL,
		Destination:    resolved.Path,
		ExpectedSHA256: resolved.SHA256,
		NoProgress:     a.noProgress,
		Logger:         a.log(),
	}); err != nil {
		return whisper.ResolvedModel{}, fmt.Errorf("download model %q: %w", resolved.Name, err)
	}

	resolved.NeedsDownload = false
	return resolved, nil
}
