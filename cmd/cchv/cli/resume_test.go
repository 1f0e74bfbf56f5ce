package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

func TestSessionCWD(t *testing.T) {
	t.Parallel()

	msgs := []transcript.Message{
		{CWD: "/home/user/old"},
		{CWD: ""},
		{CWD: "/home/user/current"},
	}
	assert.Equal(t, "/home/user/current", sessionCWD(msgs))
	assert.Equal(t, "", sessionCWD(nil))
}

func TestCurrentBranch_NotARepo(t *testing.T) {
	t.Parallel()

	_, ok := currentBranch(t.TempDir())
	assert.False(t, ok)
}
