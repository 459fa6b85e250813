package stdin

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/edurisk/internal/connector"
)

func TestRegistered(t *testing.T) {
	assert.Contains(t, connector.Providers(), "stdin")
}

func TestStreamReader(t *testing.T) {
	c := &Connector{Reader: strings.NewReader("{\"studentId\":\"S1\"}\n")}
	ch, err := c.Stream(context.Background(), connector.Config{})
	require.NoError(t, err)

	var got strings.Builder
	for chunk := range ch {
		require.NoError(t, chunk.Err)
		got.Write(chunk.Data)
	}
	assert.Equal(t, "{\"studentId\":\"S1\"}\n", got.String())
}
