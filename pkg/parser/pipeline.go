package parser

import (
	"context"
)

// Formatter is a downstream transformation applied to a parsed document.
type Formatter interface {
	Format(ctx context.Context, document *Document) (*Document, error)
}

var _ Provider = &Pipeline{}

// Pipeline chains a source provider with ordered formatting steps. An empty
// document short-circuits the chain so formatters never run on the failure
// sentinel.
type Pipeline struct {
	provider Provider

	steps []Formatter
}

func NewPipeline(provider Provider, steps ...Formatter) *Pipeline {
	return &Pipeline{
		provider: provider,

		steps: steps,
	}
}

func (p *Pipeline) Parse(ctx context.Context, content []byte) (*Document, error) {
	document, err := p.provider.Parse(ctx, content)

	if err != nil {
		return nil, err
	}

	for _, step := range p.steps {
		if document.IsEmpty() {
			return document, nil
		}

		document, err = step.Format(ctx, document)

		if err != nil {
			return nil, err
		}
	}

	return document, nil
}
