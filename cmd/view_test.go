package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

func TestViewCmd(t *testing.T) {
	fake := swapHarness(t)

	cmd := newTestRoot(newViewCmd)
	cmd.SetArgs([]string{"view"})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, fake.viewArgs)
	assert.Equal(t, m.Path(".jamcheck-reports"), fake.viewArgs.Reports)
}

func TestViewCmd_WithOutputOverride(t *testing.T) {
	fake := swapHarness(t)

	cmd := newTestRoot(newViewCmd)
	cmd.SetArgs([]string{"view", "-o", "reports-archive"})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, fake.viewArgs)
	assert.Equal(t, m.Path("reports-archive"), fake.viewArgs.Reports)
}
