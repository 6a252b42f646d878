package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Gemini struct {
		ApiKey string `yaml:"apiKey"`
	} `yaml:"gemini"`

	Openai struct {
		GptApiKey string `yaml:"gptApiKey"`
		Endpoint  string `yaml:"endpoint"`
	} `yaml:"openai"`

	Prompts struct {
		Path string `yaml:"path"`
	} `yaml:"prompts"`

	Analysis struct {
		JudgeModel         string `yaml:"judgeModel"`
		InterCallDelayMs   int    `yaml:"interCallDelayMs"`
		CallTimeoutSeconds int    `yaml:"callTimeoutSeconds"`
	} `yaml:"analysis"`
}

// LoadConfig reads the configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Analysis.JudgeModel == "" {
		c.Analysis.JudgeModel = "gemini-2.5-flash"
	}
	if c.Analysis.InterCallDelayMs <= 0 {
		c.Analysis.InterCallDelayMs = 500
	}
	if c.Analysis.CallTimeoutSeconds <= 0 {
		c.Analysis.CallTimeoutSeconds = 60
	}
	if c.Openai.Endpoint == "" {
		c.Openai.Endpoint = "https://api.openai.com/v1/chat/completions"
	}
	if c.Prompts.Path == "" {
		c.Prompts.Path = "./config/prompts.csv"
	}
}
