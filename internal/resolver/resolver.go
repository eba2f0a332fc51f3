package resolver

import (
	"context"
	"errors"

	"museumdash/internal/identity"
)

// ErrAmbiguous is returned by a source when more than one distinct entity
// ties for the best score. The chain treats it as no match.
var ErrAmbiguous = errors.New("ambiguous match")

// DefaultMinConfidence accepts exact normalized-name matches only.
const DefaultMinConfidence = 1.0

// Match is a confident resolution together with the raw source payload
// kept for provenance.
type Match struct {
	Identity identity.Identity
	Raw      []byte
}

// Resolver looks one artist name up in a single source.
// (nil, nil) means the source had no confident match.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, name string) (*Match, error)
}

type Attempt struct {
	Source  string
	Err     error
	Matched bool
}

// Chain tries resolvers in priority order; the first match wins.
type Chain struct {
	resolvers []Resolver
}

func NewChain(resolvers ...Resolver) *Chain {
	return &Chain{resolvers: resolvers}
}

func (c *Chain) Sources() []string {
	names := make([]string, len(c.resolvers))
	for i, r := range c.resolvers {
		names[i] = r.Name()
	}
	return names
}

// Resolve returns the first match, or nil when no source matched. Source
// errors are reported in the attempts and never stop the chain; the only
// error returned is ctx's.
func (c *Chain) Resolve(ctx context.Context, name string) (*Match, []Attempt, error) {
	attempts := make([]Attempt, 0, len(c.resolvers))
	for _, r := range c.resolvers {
		if err := ctx.Err(); err != nil {
			return nil, attempts, err
		}

		m, err := r.Resolve(ctx, name)
		if err != nil && ctx.Err() != nil {
			return nil, attempts, ctx.Err()
		}

		attempts = append(attempts, Attempt{Source: r.Name(), Err: err, Matched: err == nil && m != nil})
		if err == nil && m != nil {
			if m.Identity.Source == "" {
				m.Identity.Source = r.Name()
			}
			return m, attempts, nil
		}
	}
	return nil, attempts, nil
}
