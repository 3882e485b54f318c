package config

import (
	"bytes"
	"os"

	"docreader/pkg/parser"
	"docreader/pkg/storage"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	parsers map[string]parser.Provider
	storage map[string]storage.Provider
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	c := &Config{
		Address: ":8080",
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if err := c.registerStorage(file); err != nil {
		return nil, err
	}

	if err := c.registerParsers(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	Storage yaml.Node `yaml:"storage"`
	Parsers yaml.Node `yaml:"parsers"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}
