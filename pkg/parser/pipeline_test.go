package parser_test

import (
	"context"
	"strings"
	"testing"

	"docreader/pkg/parser"

	"github.com/stretchr/testify/require"
)

type staticProvider struct {
	document *parser.Document
}

func (p *staticProvider) Parse(ctx context.Context, content []byte) (*parser.Document, error) {
	return p.document, nil
}

func TestPipeline(t *testing.T) {
	provider := &staticProvider{
		document: &parser.Document{
			Content: "hello",
		},
	}

	upper := parser.FormatterFunc(func(ctx context.Context, document *parser.Document) (*parser.Document, error) {
		return &parser.Document{
			Content: strings.ToUpper(document.Content),

			Images: document.Images,
		}, nil
	})

	p := parser.NewPipeline(provider, upper)

	document, err := p.Parse(context.Background(), nil)
	require.NoError(t, err)

	require.Equal(t, "HELLO", document.Content)
}

func TestPipelineShortCircuit(t *testing.T) {
	provider := &staticProvider{
		document: parser.Empty(),
	}

	var calls int

	step := parser.FormatterFunc(func(ctx context.Context, document *parser.Document) (*parser.Document, error) {
		calls++
		return document, nil
	})

	p := parser.NewPipeline(provider, step)

	document, err := p.Parse(context.Background(), nil)
	require.NoError(t, err)

	require.True(t, document.IsEmpty())
	require.Equal(t, 0, calls)
}
