package config

import (
	"errors"
	"strings"

	"docreader/pkg/storage"
	"docreader/pkg/storage/s3"
	"docreader/pkg/storage/supabase"
)

func (cfg *Config) RegisterStorage(id string, p storage.Provider) {
	if cfg.storage == nil {
		cfg.storage = make(map[string]storage.Provider)
	}

	if _, ok := cfg.storage[""]; !ok {
		cfg.storage[""] = p
	}

	cfg.storage[id] = p
}

func (cfg *Config) Storage(id string) (storage.Provider, error) {
	if cfg.storage != nil {
		if p, ok := cfg.storage[id]; ok {
			return p, nil
		}
	}

	return nil, errors.New("storage not found: " + id)
}

type storageConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`

	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`

	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

func (cfg *Config) registerStorage(f *configFile) error {
	var configs map[string]storageConfig

	if f.Storage.IsZero() {
		return nil
	}

	if err := f.Storage.Decode(&configs); err != nil {
		return err
	}

	for _, node := range f.Storage.Content {
		id := node.Value

		config, ok := configs[id]

		if !ok {
			continue
		}

		provider, err := createStorage(config)

		if err != nil {
			return err
		}

		cfg.RegisterStorage(id, provider)
	}

	return nil
}

func createStorage(cfg storageConfig) (storage.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "s3":
		return s3Storage(cfg)

	case "supabase":
		return supabaseStorage(cfg)

	default:
		return nil, errors.New("invalid storage type: " + cfg.Type)
	}
}

func s3Storage(cfg storageConfig) (storage.Provider, error) {
	var options []s3.Option

	if cfg.Prefix != "" {
		options = append(options, s3.WithPrefix(cfg.Prefix))
	}

	if cfg.Region != "" {
		options = append(options, s3.WithRegion(cfg.Region))
	}

	if cfg.Endpoint != "" {
		options = append(options, s3.WithEndpoint(cfg.Endpoint))
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		options = append(options, s3.WithCredentials(cfg.AccessKey, cfg.SecretKey))
	}

	return s3.New(cfg.Bucket, options...)
}

func supabaseStorage(cfg storageConfig) (storage.Provider, error) {
	var options []supabase.Option

	if cfg.Prefix != "" {
		options = append(options, supabase.WithPrefix(cfg.Prefix))
	}

	return supabase.New(cfg.URL, cfg.Token, cfg.Bucket, options...)
}
