package whisper

import "context"

// Request describes a single transcription call. Language may be a two or
// three letter ISO-639 code or "auto" for detection; Translate renders the
// transcript into English instead of the spoken language.
type Request struct {
	AudioPath string
	ModelPath string
	Language  string
	Translate bool
}

// Result carries the transcript and the language it was produced from,
// either echoed from the request or detected by the engine.
type Result struct {
	Text     string
	Language string
}

type Engine interface {
	Transcribe(ctx context.Context, req Request) (Result, error)
}
