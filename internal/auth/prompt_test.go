package auth

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalCodeProvider(t *testing.T) {
	var out bytes.Buffer
	provider := TerminalCodeProvider(strings.NewReader("123456\n"), &out)

	code, err := provider(context.Background(), "Enter code: ")
	require.NoError(t, err)

	assert.Equal(t, "123456", code)
	assert.Equal(t, "Enter code: ", out.String())
}

func TestTerminalCodeProviderTrimsWhitespace(t *testing.T) {
	provider := TerminalCodeProvider(strings.NewReader("  654321 \n"), new(bytes.Buffer))

	code, err := provider(context.Background(), "> ")
	require.NoError(t, err)
	assert.Equal(t, "654321", code)
}

func TestTerminalCodeProviderCanceled(t *testing.T) {
	// A reader that never produces a line.
	provider := TerminalCodeProvider(blockingReader{}, new(bytes.Buffer))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := provider(ctx, "> ")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type blockingReader struct{}

func (blockingReader) Read(p []byte) (int, error) {
	select {}
}
