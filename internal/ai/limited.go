package ai

import (
	"context"

	apperrors "github.com/infinitydev4/reenove-sub000/internal/errors"
	"github.com/infinitydev4/reenove-sub000/internal/ratelimit"
)

// TextGenerator is the minimal generation surface consumed by callers.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// LimitedGenerator wraps a TextGenerator with a rate limiter so generation
// spend stays bounded.
type LimitedGenerator struct {
	inner   TextGenerator
	limiter *ratelimit.GenerationLimiter
}

// NewLimitedGenerator wraps inner with the given limiter.
func NewLimitedGenerator(inner TextGenerator, limiter *ratelimit.GenerationLimiter) *LimitedGenerator {
	return &LimitedGenerator{inner: inner, limiter: limiter}
}

// GenerateText acquires a rate limit slot before delegating to the wrapped
// generator. Rate limited calls fail fast rather than queue.
func (g *LimitedGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Acquire(ctx); err != nil {
		return "", apperrors.Wrap(err, "ai.GenerateText", apperrors.CodeRateLimited, "generation rate limited")
	}
	defer g.limiter.Release()

	return g.inner.GenerateText(ctx, prompt)
}
