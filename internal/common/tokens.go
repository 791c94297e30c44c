package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dexter-rewards-go/internal/models"
	"dexter-rewards-go/internal/rewards"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type TokenConfig struct {
	Address string `yaml:"address"`
	Symbol  string `yaml:"symbol"`
	Name    string `yaml:"name"`
	IconUrl string `yaml:"icon_url"`
}

type TokensConfig struct {
	Tokens []TokenConfig `yaml:"tokens"`
}

// LoadTokens reads token display metadata from a YAML file. A missing file
// yields an empty map so every token resolves to the unknown placeholder.
func LoadTokens(tokensFile string) (rewards.TokenMap, error) {
	if tokensFile == "" {
		return rewards.TokenMap{}, nil
	}

	var tokensPath string
	if filepath.IsAbs(tokensFile) {
		tokensPath = tokensFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		tokensPath = filepath.Join(wd, tokensFile)
	}

	data, err := os.ReadFile(tokensPath)
	if errors.Is(err, fs.ErrNotExist) {
		zap.L().Warn("Token metadata file not found, tokens will display as unknown",
			zap.String("file", tokensPath))
		return rewards.TokenMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", tokensFile, err)
	}

	return ParseTokens(data)
}

// ParseTokens decodes a tokens YAML document into a lookup keyed by address
func ParseTokens(data []byte) (rewards.TokenMap, error) {
	var config TokensConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse tokens: %w", err)
	}

	tokens := make(rewards.TokenMap, len(config.Tokens))
	for i, token := range config.Tokens {
		if token.Address == "" {
			return nil, fmt.Errorf("token at index %d missing address", i)
		}
		if token.Symbol == "" {
			return nil, fmt.Errorf("token at index %d missing symbol", i)
		}
		if _, exists := tokens[token.Address]; exists {
			return nil, fmt.Errorf("token at index %d duplicates address %s", i, token.Address)
		}
		tokens[token.Address] = models.TokenInfo{
			Address: token.Address,
			Symbol:  token.Symbol,
			Name:    token.Name,
			IconUrl: token.IconUrl,
		}
	}

	return tokens, nil
}
