package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// config path is given.
const DefaultConfigFile = "queryweave.yaml"

const envPrefix = "QUERYWEAVE_"

// envPaths maps environment variables to config keys whose names contain
// underscores and therefore cannot be derived mechanically.
var envPaths = map[string]string{
	envPrefix + "RETRY_MAX_ATTEMPTS": "retry.max_attempts",
	envPrefix + "RETRY_BACKOFF_BASE": "retry.backoff_base",
	envPrefix + "RETRY_BACKOFF_MAX":  "retry.backoff_max",
	envPrefix + "LLM_API_KEY":        "llm.api_key",
	envPrefix + "LLM_API_URL":        "llm.api_url",
}

// flagPaths maps CLI flag names to config keys.
var flagPaths = map[string]string{
	"source-table": "source.table",
	"source-view":  "source.view",
	"provider":     "llm.provider",
	"model":        "llm.model",
	"api-key":      "llm.api_key",
	"project":      "llm.project",
	"region":       "llm.region",
	"max-attempts": "retry.max_attempts",
	"log-level":    "log.level",
	"log-json":     "log.json",
	"host":         "server.host",
	"port":         "server.port",
}

// Load builds the configuration with the usual precedence: defaults, then
// the YAML file, then QUERYWEAVE_* environment variables, then explicitly
// set CLI flags. The result is validated before being returned.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: transformEnvKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagPaths[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// transformEnvKey turns QUERYWEAVE_SERVER_PORT into server.port, checking
// the explicit mapping table first for keys with underscores in them.
func transformEnvKey(key, value string) (string, any) {
	if path, ok := envPaths[key]; ok {
		return path, value
	}
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return strings.ReplaceAll(key, "_", "."), value
}
