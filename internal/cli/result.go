package cli

import (
	"fmt"
	"os"
)

// previewLimit bounds how much of the transcript is echoed to stdout; the
// full text always goes to the output file.
const previewLimit = 1000

// writeTranscript writes the full transcript, replacing any previous file.
// The parent directory must already exist.
func writeTranscript(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

func previewTranscript(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit])
}
