package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain"
)

type staticSource struct {
	name string
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Fetch(context.Context, domain.FeedRequest) ([]domain.RawItem, error) {
	return nil, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(&staticSource{name: "alpha"})
	registry.Register(&staticSource{name: "beta"})

	source, err := registry.Resolve("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", source.Name())

	_, err = registry.Resolve("missing")
	assert.Error(t, err)
}

func TestRegistryRegisterReplaces(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	first := &staticSource{name: "alpha"}
	second := &staticSource{name: "alpha"}
	registry.Register(first)
	registry.Register(second)

	source, err := registry.Resolve("alpha")
	require.NoError(t, err)
	assert.Same(t, second, source)
}
