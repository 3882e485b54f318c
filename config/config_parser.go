package config

import (
	"context"
	"errors"
	"strings"
	"time"

	"docreader/pkg/limiter"
	"docreader/pkg/otel"
	"docreader/pkg/parser"
	"docreader/pkg/parser/mineru"
	"docreader/pkg/text"
)

func (cfg *Config) RegisterParser(id string, p parser.Provider) {
	if cfg.parsers == nil {
		cfg.parsers = make(map[string]parser.Provider)
	}

	if _, ok := cfg.parsers[""]; !ok {
		cfg.parsers[""] = p
	}

	cfg.parsers[id] = p
}

func (cfg *Config) Parser(id string) (parser.Provider, error) {
	if cfg.parsers != nil {
		if p, ok := cfg.parsers[id]; ok {
			return p, nil
		}
	}

	return nil, errors.New("parser not found: " + id)
}

type parserConfig struct {
	Type string `yaml:"type"`

	URL string `yaml:"url"`

	Storage string `yaml:"storage"`

	Languages []string `yaml:"languages"`

	StartPage *int `yaml:"start_page"`
	EndPage   *int `yaml:"end_page"`

	Backend     string `yaml:"backend"`
	LayoutModel string `yaml:"layout_model"`

	NormalizeHTML *bool `yaml:"normalize_html"`
	FormatTables  *bool `yaml:"format_tables"`

	Timeout      string `yaml:"timeout"`
	PollInterval string `yaml:"poll_interval"`
	Deadline     string `yaml:"deadline"`
	ProbeTTL     string `yaml:"probe_ttl"`

	Limit *int `yaml:"limit"`
}

func (cfg *Config) registerParsers(f *configFile) error {
	var configs map[string]parserConfig

	if f.Parsers.IsZero() {
		return nil
	}

	if err := f.Parsers.Decode(&configs); err != nil {
		return err
	}

	for _, node := range f.Parsers.Content {
		id := node.Value

		config, ok := configs[id]

		if !ok {
			continue
		}

		p, err := cfg.createParser(config)

		if err != nil {
			return err
		}

		if formatTables(config) {
			p = parser.NewPipeline(p, tableFormatter())
		}

		if _, ok := p.(limiter.Parser); !ok {
			p = limiter.NewParser(createLimiter(config.Limit), p)
		}

		if _, ok := p.(otel.Parser); !ok {
			p = otel.NewParser(id, p)
		}

		cfg.RegisterParser(id, p)
	}

	return nil
}

func (cfg *Config) createParser(config parserConfig) (parser.Provider, error) {
	options, err := cfg.parserOptions(config)

	if err != nil {
		return nil, err
	}

	switch strings.ToLower(config.Type) {
	case "mineru":
		return mineru.New(config.URL, options...)

	case "mineru-cloud":
		return mineru.NewCloud(config.URL, options...)

	default:
		return nil, errors.New("invalid parser type: " + config.Type)
	}
}

func (cfg *Config) parserOptions(config parserConfig) ([]mineru.Option, error) {
	var options []mineru.Option

	if config.Storage != "" {
		store, err := cfg.Storage(config.Storage)

		if err != nil {
			return nil, err
		}

		options = append(options, mineru.WithStorage(store))
	}

	if len(config.Languages) > 0 {
		options = append(options, mineru.WithLanguages(config.Languages...))
	}

	if config.StartPage != nil && config.EndPage != nil {
		options = append(options, mineru.WithPageRange(*config.StartPage, *config.EndPage))
	}

	if config.Backend != "" {
		options = append(options, mineru.WithBackend(config.Backend))
	}

	if config.LayoutModel != "" {
		options = append(options, mineru.WithLayoutModel(config.LayoutModel))
	}

	if config.NormalizeHTML != nil {
		options = append(options, mineru.WithNormalizeHTML(*config.NormalizeHTML))
	}

	durations := []struct {
		value  string
		option func(time.Duration) mineru.Option
	}{
		{config.Timeout, mineru.WithTimeout},
		{config.PollInterval, mineru.WithPollInterval},
		{config.Deadline, mineru.WithDeadline},
		{config.ProbeTTL, mineru.WithProbeTTL},
	}

	for _, d := range durations {
		if d.value == "" {
			continue
		}

		val, err := time.ParseDuration(d.value)

		if err != nil {
			return nil, err
		}

		options = append(options, d.option(val))
	}

	return options, nil
}

func formatTables(config parserConfig) bool {
	if config.FormatTables == nil {
		return true
	}

	return *config.FormatTables
}

func tableFormatter() parser.Formatter {
	return parser.FormatterFunc(func(ctx context.Context, document *parser.Document) (*parser.Document, error) {
		return &parser.Document{
			Content: text.FormatTables(document.Content),

			Images: document.Images,
		}, nil
	})
}
