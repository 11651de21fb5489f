package plugin

import (
	"testing"

	"github.com/lartpc-toolkit/wctgo/pkg/graphrt"
	"github.com/lartpc-toolkit/wctgo/x/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFrameSync(opts ...options.Option) (graphrt.Node, error) {
	return graphrt.NewFrameSync(2), nil
}

func TestRegistry_RegisterNewForEach(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("framesync", buildFrameSync))

	err := r.Register("framesync", buildFrameSync)
	require.Error(t, err, "duplicate registration must fail")

	node, err := r.New("framesync")
	require.NoError(t, err)
	assert.Len(t, node.InputTypes(), 2)

	_, err = r.New("missing")
	require.Error(t, err)

	assert.ElementsMatch(t, []string{"framesync"}, r.Names())

	r.Unregister("framesync")
	_, err = r.New("framesync")
	require.Error(t, err)
}
