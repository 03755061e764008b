package console

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForKeySkipsNonTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	require.NoError(t, WaitForKey(f, &out, DefaultPrompt))
	assert.Empty(t, out.String())
	assert.False(t, IsTerminal(f))
}

func TestWaitForKeyPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	var out bytes.Buffer
	require.NoError(t, WaitForKey(r, &out, DefaultPrompt))
	assert.Empty(t, out.String())
}

func TestIsTerminalNil(t *testing.T) {
	assert.False(t, IsTerminal(nil))
}
