package limiter

import (
	"context"

	"docreader/pkg/parser"

	"golang.org/x/time/rate"
)

type Parser interface {
	Limiter
	parser.Provider
}

type limitedParser struct {
	limiter  *rate.Limiter
	provider parser.Provider
}

func NewParser(l *rate.Limiter, p parser.Provider) Parser {
	return &limitedParser{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedParser) limiterSetup() {
}

func (p *limitedParser) Parse(ctx context.Context, content []byte) (*parser.Document, error) {
	if p.limiter != nil {
		p.limiter.Wait(ctx)
	}

	return p.provider.Parse(ctx, content)
}
