package otel

import (
	"context"

	"docreader/pkg/parser"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type Parser interface {
	Observable
	parser.Provider
}

type observableParser struct {
	name string

	provider parser.Provider
}

func NewParser(name string, p parser.Provider) Parser {
	return &observableParser{
		name: name,

		provider: p,
	}
}

func (p *observableParser) otelSetup() {
}

func (p *observableParser) Parse(ctx context.Context, content []byte) (*parser.Document, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "parse "+p.name)
	defer span.End()

	document, err := p.provider.Parse(ctx, content)

	if document != nil {
		span.SetAttributes(
			attribute.Int("document.content_length", len(document.Content)),
			attribute.Int("document.images", len(document.Images)),
		)
	}

	return document, err
}
