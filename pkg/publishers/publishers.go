package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// Supported publisher types.
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"
	TypeHTTP   = "http"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

var validate = validator.New()

type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers" toml:"publishers"`
}

// PublisherConfig is one sink declared in the publishers file. Exactly the
// block matching Type is required.
type PublisherConfig struct {
	ID      string                 `json:"id" yaml:"id" toml:"id" validate:"required"`
	Type    string                 `json:"type" yaml:"type" toml:"type" validate:"required"`
	Enabled *bool                  `json:"enabled" yaml:"enabled" toml:"enabled"`
	SQS     *SQSPublisherConfig    `json:"sqs" yaml:"sqs" toml:"sqs" validate:"required_if=Type sqs"`
	SNS     *SNSPublisherConfig    `json:"sns" yaml:"sns" toml:"sns" validate:"required_if=Type sns"`
	PubSub  *PubSubPublisherConfig `json:"pubsub" yaml:"pubsub" toml:"pubsub" validate:"required_if=Type pubsub"`
	HTTP    *HTTPPublisherConfig   `json:"http" yaml:"http" toml:"http" validate:"required_if=Type http"`
}

// AWSCredentials optionally pins static credentials; when empty the default
// AWS credential chain is used.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id" toml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key" toml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token" toml:"session_token"`
}

// SQSPublisherConfig targets an SQS queue.
type SQSPublisherConfig struct {
	QueueURL       string `json:"uri" yaml:"uri" toml:"uri" validate:"required,url"`
	Region         string `json:"region" yaml:"region" toml:"region" validate:"required"`
	AWSCredentials `yaml:",inline"`
}

// SNSPublisherConfig targets an SNS topic.
type SNSPublisherConfig struct {
	TopicARN       string `json:"topic_arn" yaml:"topic_arn" toml:"topic_arn" validate:"required,startswith=arn:"`
	Region         string `json:"region" yaml:"region" toml:"region" validate:"required"`
	AWSCredentials `yaml:",inline"`
}

// PubSubPublisherConfig targets a Google Cloud Pub/Sub topic.
type PubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id" toml:"project_id" validate:"required"`
	Topic           string `json:"topic" yaml:"topic" toml:"topic" validate:"required"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file" toml:"credentials_file"`
}

// HTTPPublisherConfig targets a webhook.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url" toml:"url" validate:"required,url"`
	Method         string            `json:"method" yaml:"method" toml:"method" validate:"omitempty,oneof=POST PUT PATCH"`
	Headers        map[string]string `json:"headers" yaml:"headers" toml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds" validate:"gte=0"`
}

// IsEnabled reports the enabled flag; publishers are enabled unless set false.
func (cfg PublisherConfig) IsEnabled() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// ConfigRegistry holds the publisher entries read from a publishers file.
type ConfigRegistry struct {
	publishers []PublisherConfig
}

// LoadRegistry reads a YAML, JSON or TOML publishers file. The format follows
// the file extension.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	var file configFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &file)
	case ".json":
		err = json.Unmarshal(raw, &file)
	case ".toml":
		err = toml.Unmarshal(raw, &file)
	default:
		return nil, fmt.Errorf("publishers file %q: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode publishers file: %w", err)
	}

	return newConfigRegistry(file.Publishers)
}

func newConfigRegistry(entries []PublisherConfig) (*ConfigRegistry, error) {
	if len(entries) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	seen := make(map[string]struct{}, len(entries))
	reg := &ConfigRegistry{publishers: make([]PublisherConfig, 0, len(entries))}
	for i, entry := range entries {
		cfg := sanitizePublisherConfig(entry)
		if err := validatePublisherConfig(cfg); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		reg.publishers = append(reg.publishers, cfg)
	}
	return reg, nil
}

func sanitizePublisherConfig(cfg PublisherConfig) PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if cfg.SQS != nil {
		c := *cfg.SQS
		c.QueueURL = strings.TrimSpace(c.QueueURL)
		c.Region = strings.TrimSpace(c.Region)
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		c.TopicARN = strings.TrimSpace(c.TopicARN)
		c.Region = strings.TrimSpace(c.Region)
		cfg.SNS = &c
	}
	if cfg.PubSub != nil {
		c := *cfg.PubSub
		c.ProjectID = strings.TrimSpace(c.ProjectID)
		c.Topic = strings.TrimSpace(c.Topic)
		c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
		cfg.PubSub = &c
	}

	if cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		headers := make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
				headers[k] = v
			}
		}
		c.Headers = headers
		cfg.HTTP = &c
	}
	return cfg
}

func validatePublisherConfig(cfg PublisherConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return nil
}

// All returns a copy of every configured publisher.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	return append([]PublisherConfig(nil), r.publishers...)
}

// Enabled returns the publishers not switched off in the file.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	if r == nil {
		return nil
	}
	var out []PublisherConfig
	for _, cfg := range r.publishers {
		if cfg.IsEnabled() {
			out = append(out, cfg)
		}
	}
	return out
}
