package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithLoggerAndFromContext(t *testing.T) {
	tl := NewTestLogger(t)

	ctx := WithLogger(context.Background(), tl.Logger)
	got := FromContext(ctx)

	got.Info().Msg("hello from context")
	assert.True(t, tl.Contains("hello from context"))
}

func TestFromContextDefaults(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
	assert.Equal(t, Default(), FromContext(nil)) //nolint:staticcheck // nil context is part of the contract
}

func TestWithCandidate(t *testing.T) {
	tl := NewTestLogger(t)

	ctx := WithLogger(context.Background(), tl.Logger)
	ctx = WithCandidate(ctx, "S8AK00090")

	assert.Equal(t, "S8AK00090", CandidateID(ctx))

	Ctx(ctx).Info().Msg("reconciling")
	assert.True(t, tl.Contains(`"candidate_id":"S8AK00090"`))
}

func TestCandidateIDMissing(t *testing.T) {
	assert.Equal(t, "", CandidateID(context.Background()))
}
