package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	text, ok, err := Static("left at the door").Prompt(context.Background(), "note")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "left at the door", text)

	_, ok, err = Static("").Prompt(context.Background(), "note")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeclined(t *testing.T) {
	_, ok, err := Declined().Prompt(context.Background(), "note")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTerminalHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := Terminal{}.Prompt(ctx, "note")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}
