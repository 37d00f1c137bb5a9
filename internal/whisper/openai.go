package whisper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIEngine transcribes through the hosted OpenAI audio API instead of a
// local model. Model sizes do not apply; the API always serves whisper-1.
type OpenAIEngine struct {
	client *openai.Client
	logger *zap.Logger
}

func NewOpenAIEngine(apiKey string, logger *zap.Logger) (*OpenAIEngine, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("OPENAI_API_KEY is not set; export it or use --engine local")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAIEngine{client: openai.NewClient(apiKey), logger: logger}, nil
}

func (e *OpenAIEngine) Transcribe(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return Result{}, errors.New("audio path is required")
	}

	audioReq := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: req.AudioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}

	lang := strings.TrimSpace(req.Language)
	if lang != "" && lang != "auto" {
		audioReq.Language = lang
	}

	var (
		resp openai.AudioResponse
		err  error
	)
	if req.Translate {
		// The translations endpoint always renders English and rejects a
		// language hint.
		audioReq.Language = ""
		e.logger.Debug("calling openai translations endpoint", zap.String("audio", req.AudioPath))
		resp, err = e.client.CreateTranslation(ctx, audioReq)
	} else {
		e.logger.Debug("calling openai transcriptions endpoint", zap.String("audio", req.AudioPath))
		resp, err = e.client.CreateTranscription(ctx, audioReq)
	}
	if err != nil {
		return Result{}, fmt.Errorf("openai audio api: %w", err)
	}

	language := strings.TrimSpace(resp.Language)
	if language == "" {
		language = lang
	}

	return Result{
		Text:     strings.TrimSpace(resp.Text),
		Language: language,
	}, nil
}
