package parser

import (
	"context"
)

// FormatterFunc adapts a plain function to the Formatter interface.
type FormatterFunc func(ctx context.Context, document *Document) (*Document, error)

func (f FormatterFunc) Format(ctx context.Context, document *Document) (*Document, error) {
	return f(ctx, document)
}
