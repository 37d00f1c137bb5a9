package cli

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	taskTranscribe = "transcribe"
	taskTranslate  = "translate"

	engineLocal  = "local"
	engineOpenAI = "openai"
)

func validateTask(task string) error {
	switch task {
	case taskTranscribe, taskTranslate:
		return nil
	default:
		return fmt.Errorf("invalid task %q (valid tasks: %s, %s)", task, taskTranscribe, taskTranslate)
	}
}

func validateEngine(engine string) error {
	switch engine {
	case engineLocal, engineOpenAI:
		return nil
	default:
		return fmt.Errorf("invalid engine %q (valid engines: %s, %s)", engine, engineLocal, engineOpenAI)
	}
}

func sanitizeLanguage(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "" {
		return "auto"
	}
	return trimmed
}

// resolveOutputPath derives the transcript destination. An explicit override
// wins; otherwise the transcript lands next to the input, named after its
// base name and the requested task.
func resolveOutputPath(inputPath, override, task string) string {
	if strings.TrimSpace(override) != "" {
		return filepath.Clean(override)
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(filepath.Dir(inputPath), base+"_"+task+".txt")
}
