package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fystack/mempool-bridge/pkg/common/constant"
	"github.com/fystack/mempool-bridge/pkg/common/enum"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML document, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyDefaults()

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("struct validation failed: %w", err)
	}

	seen := make(map[string]struct{}, len(cfg.Triggers))
	for _, t := range cfg.Triggers {
		if _, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("duplicate trigger name %q", t.Name)
		}
		seen[t.Name] = struct{}{}

		if t.Event == enum.EventFeeRateChange && !cfg.Bitcoin.Provider.HasMempoolFees() {
			return nil, fmt.Errorf("trigger %q: %s needs the mempool.space fee API, provider %s does not serve it",
				t.Name, t.Event, cfg.Bitcoin.Provider)
		}
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = constant.EnvDevelopment
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Bitcoin.Network == "" {
		c.Bitcoin.Network = enum.NetworkMainnet
	}
	if c.Bitcoin.Provider == "" {
		c.Bitcoin.Provider = enum.ProviderMempool
	}
	c.Bitcoin.CustomAPIURL = substituteEnvVars(c.Bitcoin.CustomAPIURL)
	for k, v := range c.Bitcoin.Headers {
		c.Bitcoin.Headers[k] = substituteEnvVars(v)
	}

	if c.Client.RequestTimeout <= 0 {
		c.Client.RequestTimeout = constant.DefaultRequestTimeout
	}

	if c.KVStore.Type == "" {
		c.KVStore.Type = enum.KVStoreTypeBadger
	}
	if c.KVStore.Badger.Prefix == "" {
		c.KVStore.Badger.Prefix = "mempool-bridge"
	}

	if c.NATS.Stream == "" {
		c.NATS.Stream = constant.DefaultStreamName
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = constant.DefaultSubjectPrefix
	}
	c.NATS.Password = substituteEnvVars(c.NATS.Password)

	for i := range c.Triggers {
		c.Triggers[i].applyDefaults()
	}
}

func (t *TriggerConfig) applyDefaults() {
	if t.PollInterval <= 0 {
		t.PollInterval = constant.DefaultPollInterval
	}
	if t.CycleTimeout <= 0 {
		t.CycleTimeout = 4 * t.PollInterval
	}
	switch t.Event {
	case enum.EventAddressTransaction:
		if t.Direction == "" {
			t.Direction = enum.DirectionAll
		}
		if t.IncludeUnconfirmed == nil {
			v := true
			t.IncludeUnconfirmed = &v
		}
	case enum.EventTransactionConfirmed:
		if t.Confirmations == 0 {
			t.Confirmations = constant.DefaultRequiredConfirmations
		}
	case enum.EventFeeRateChange:
		if t.FeeType == "" {
			t.FeeType = enum.FeeTierFastest
		}
		if t.ChangeThreshold == 0 {
			t.ChangeThreshold = constant.DefaultChangeThreshold
		}
	}
}

// Trigger returns the trigger with the given name.
func (c *Config) Trigger(name string) (TriggerConfig, bool) {
	for _, t := range c.Triggers {
		if t.Name == name {
			return t, true
		}
	}
	return TriggerConfig{}, false
}

func substituteEnvVars(s string) string {
	if s == "" {
		return s
	}
	for {
		start := strings.Index(s, "${")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			break
		}
		end += start
		varName := s[start+2 : end]
		s = strings.ReplaceAll(s, "${"+varName+"}", os.Getenv(varName))
	}
	return s
}
