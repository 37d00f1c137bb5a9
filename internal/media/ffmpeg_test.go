package media

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNeedsExtraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{path: "interview.wav", want: false},
		{path: "interview.WAV", want: false},
		{path: "interview.mp3", want: true},
		{path: "interview_es.mp4", want: true},
		{path: "/data/talks/keynote.mkv", want: true},
		{path: "noext", want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, NeedsExtraction(tt.path))
		})
	}
}

func TestLastStderrLine(t *testing.T) {
	t.Parallel()

	require.Equal(t, "final error", lastStderrLine("banner line\nconfig line\nfinal error\n"))
	require.Equal(t, "only line", lastStderrLine("only line"))
	require.Equal(t, "", lastStderrLine(""))
}
