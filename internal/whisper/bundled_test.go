package whisper

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/fmueller/transcribe/internal/platform"
	"github.com/stretchr/testify/require"
)

func TestResolveBundledEnginePathFindsLibexecSibling(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	binDir := filepath.Join(root, "bin")
	engineDir := filepath.Join(root, "libexec", "whisper")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.MkdirAll(engineDir, 0o755))

	selfExe := filepath.Join(binDir, "transcribe")
	require.NoError(t, os.WriteFile(selfExe, []byte(""), 0o755))

	enginePath := filepath.Join(engineDir, engineBinaryName())
	require.NoError(t, os.WriteFile(enginePath, []byte(""), 0o755))

	resolved, err := ResolveBundledEnginePath(selfExe)
	require.NoError(t, err)
	require.Equal(t, enginePath, resolved)
}

func TestResolveBundledEnginePathMissing(t *testing.T) {
	t.Parallel()

	selfExe := filepath.Join(t.TempDir(), "bin", "transcribe")
	require.NoError(t, os.MkdirAll(filepath.Dir(selfExe), 0o755))
	require.NoError(t, os.WriteFile(selfExe, []byte(""), 0o755))

	_, err := ResolveBundledEnginePath(selfExe)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bundled whisper engine not found")
}

func TestResolveBundledEnginePathFindsPackagingPathForLocalDev(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	selfExe := filepath.Join(root, "transcribe")
	require.NoError(t, os.WriteFile(selfExe, []byte(""), 0o755))

	targetDir := filepath.Join(root, "packaging", "whisper", fmt.Sprintf("%s_%s", runtime.GOOS, platform.NormalizeArch(runtime.GOARCH)))
	require.NoError(t, os.MkdirAll(targetDir, 0o755))
	enginePath := filepath.Join(targetDir, engineBinaryName())
	require.NoError(t, os.WriteFile(enginePath, []byte(""), 0o755))

	resolved, err := ResolveBundledEnginePath(selfExe)
	require.NoError(t, err)
	require.Equal(t, enginePath, resolved)
}

func TestDetectedLanguage(t *testing.T) {
	t.Parallel()

	stderr := "whisper_init_state: compute buffer (decode) = 99.17 MB\n" +
		"whisper_full_with_state: auto-detected language: de (p = 0.958421)\n"
	require.Equal(t, "de", detectedLanguage(stderr))
	require.Equal(t, "", detectedLanguage("no language line here"))
	require.Equal(t, "", detectedLanguage(""))
}

func TestIsMissingSharedLibraryError(t *testing.T) {
	t.Parallel()

	require.True(t, isMissingSharedLibraryError("error while loading shared libraries: libwhisper.so.1: cannot open shared object file"))
	require.True(t, isMissingSharedLibraryError("dyld: Library not loaded: @rpath/libwhisper.dylib"))
	require.False(t, isMissingSharedLibraryError("some other runtime error"))
}

func TestIsIllegalInstructionError(t *testing.T) {
	t.Parallel()

	require.True(t, isIllegalInstructionError("signal: illegal instruction (core dumped)"))
	require.False(t, isIllegalInstructionError("some other runtime error"))
	require.False(t, isIllegalInstructionError(""))
}
