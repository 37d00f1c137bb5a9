package whisper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOpenAIEngineRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewOpenAIEngine("", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "OPENAI_API_KEY")

	_, err = NewOpenAIEngine("   ", nil)
	require.Error(t, err)
}

func TestOpenAIEngineRequiresAudioPath(t *testing.T) {
	t.Parallel()

	engine, err := NewOpenAIEngine("sk-test", nil)
	require.NoError(t, err)

	_, err = engine.Transcribe(context.Background(), Request{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "audio path is required")
}
