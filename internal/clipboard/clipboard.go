package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

var ErrUnavailable = errors.New("no clipboard command available")

type clipCommand struct {
	name     string
	args     []string
	detached bool
}

// CopyText pipes the transcript into the platform clipboard tool. On X11 the
// xclip process outlives us to keep the selection owned, so it is started
// detached rather than awaited.
func CopyText(ctx context.Context, value string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	clip, err := detectCommand()
	if err != nil {
		return err
	}

	if clip.detached {
		return copyDetached(clip, value)
	}

	copyCtx, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	cmd := exec.CommandContext(copyCtx, clip.name, clip.args...)
	cmd.Stdin = strings.NewReader(value)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if runErr := cmd.Run(); runErr != nil {
		if errors.Is(copyCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("copy to clipboard timed out: %w", copyCtx.Err())
		}
		return fmt.Errorf("copy to clipboard: %w", runErr)
	}

	return nil
}

func detectCommand() (clipCommand, error) {
	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath("pbcopy"); err == nil {
			return clipCommand{name: "pbcopy"}, nil
		}
		return clipCommand{}, ErrUnavailable
	}

	if _, err := exec.LookPath("wl-copy"); err == nil {
		return clipCommand{name: "wl-copy"}, nil
	}

	if _, err := exec.LookPath("xclip"); err == nil {
		return clipCommand{name: "xclip", args: []string{"-selection", "clipboard", "-in", "-silent"}, detached: true}, nil
	}

	return clipCommand{}, ErrUnavailable
}

func copyDetached(clip clipCommand, value string) error {
	cmd := exec.Command(clip.name, clip.args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open clipboard stdin: %w", err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start clipboard command: %w", err)
	}

	if _, err := io.WriteString(stdin, value); err != nil {
		_ = stdin.Close()
		_ = cmd.Process.Kill()
		return fmt.Errorf("write clipboard data: %w", err)
	}

	if err := stdin.Close(); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("close clipboard stdin: %w", err)
	}

	_ = cmd.Process.Release()
	return nil
}
