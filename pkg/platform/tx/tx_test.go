package tx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnCommitWithoutRegistry(t *testing.T) {
	ran := false
	deferred := OnCommit(context.Background(), func() { ran = true })
	assert.False(t, deferred)
	assert.False(t, ran)
}

func TestOnCommitDefersUntilRun(t *testing.T) {
	hooks := &Hooks{}
	ctx := WithHooks(context.Background(), hooks)

	var order []int
	assert.True(t, OnCommit(ctx, func() { order = append(order, 1) }))
	assert.True(t, OnCommit(ctx, func() { order = append(order, 2) }))
	assert.Empty(t, order)

	hooks.Run()
	assert.Equal(t, []int{1, 2}, order)

	// Run clears the registry; a rolled-back unit never calls Run, so
	// nothing must fire twice.
	hooks.Run()
	assert.Equal(t, []int{1, 2}, order)
}
