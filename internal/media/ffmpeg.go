package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrFFmpegMissing is returned when non-WAV input needs decoding but no
// ffmpeg binary is on PATH.
var ErrFFmpegMissing = errors.New("ffmpeg not found in PATH; install it to transcribe non-WAV media (e.g. 'apt install ffmpeg' or 'brew install ffmpeg')")

// NeedsExtraction reports whether the input must go through ffmpeg before
// the local whisper engine can read it. WAV files are passed through as-is.
func NeedsExtraction(path string) bool {
	return !strings.EqualFold(filepath.Ext(path), ".wav")
}

// ExtractWAV decodes the audio track of any ffmpeg-readable input into a
// 16 kHz mono WAV file under tmpDir and returns its path. The caller owns
// the returned file.
func ExtractWAV(ctx context.Context, inputPath, tmpDir string, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}

	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", ErrFFmpegMissing
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outPath := filepath.Join(tmpDir, fmt.Sprintf("%s-16k-%d.wav", base, time.Now().UnixNano()))

	args := []string{"-y", "-i", inputPath, "-vn", "-ac", "1", "-ar", "16000", "-f", "wav", outPath}
	cmd := exec.CommandContext(ctx, ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	logger.Debug("running ffmpeg", zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		_ = os.Remove(outPath)
		return "", fmt.Errorf("extract audio with ffmpeg: %w (%s)", err, lastStderrLine(stderr.String()))
	}

	return outPath, nil
}

// lastStderrLine keeps error messages readable: ffmpeg prints its whole
// banner to stderr and the actual failure is the final non-empty line.
func lastStderrLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
