package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/internal/logging"
	"github.com/fivetwenty-io/uc-client/pkg/cloudclient"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
	"github.com/fivetwenty-io/uc-client/pkg/ucclient"
)

// optionPrefix addresses transport options in 'config set option.<key>'.
const optionPrefix = "option."

// Config represents the CLI configuration file.
type Config struct {
	Endpoint     string   `json:"endpoint,omitempty"      yaml:"endpoint,omitempty"`
	Token        string   `json:"token,omitempty"         yaml:"token,omitempty"`
	ClientID     string   `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string   `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	TokenURL     string   `json:"token_url,omitempty"     yaml:"token_url,omitempty"`
	Scopes       []string `json:"scopes,omitempty"        yaml:"scopes,omitempty"`
	CACertFile   string   `json:"ca_cert_file,omitempty"  yaml:"ca_cert_file,omitempty"`

	Output   string `json:"output,omitempty"    yaml:"output,omitempty"`
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	RetryMax int    `json:"retry_max,omitempty" yaml:"retry_max,omitempty"`

	ClientOptions map[string]string `json:"client_options,omitempty" yaml:"client_options,omitempty"`
	Cache         *uc.CacheConfig   `json:"cache,omitempty"          yaml:"cache,omitempty"`
}

// loadConfig reads the effective configuration: file values overridden by
// UC_* environment variables and flags.
func loadConfig(v *viper.Viper) (*Config, error) {
	config := &Config{
		Endpoint:      v.GetString("endpoint"),
		Token:         v.GetString("token"),
		ClientID:      v.GetString("client_id"),
		ClientSecret:  v.GetString("client_secret"),
		TokenURL:      v.GetString("token_url"),
		Scopes:        v.GetStringSlice("scopes"),
		CACertFile:    v.GetString("ca_cert_file"),
		Output:        v.GetString("output"),
		LogLevel:      v.GetString("log_level"),
		RetryMax:      v.GetInt("retry_max"),
		ClientOptions: v.GetStringMapString("client_options"),
	}

	if v.IsSet("cache") {
		var cache uc.CacheConfig

		err := v.UnmarshalKey("cache", &cache)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cache configuration: %w", err)
		}

		config.Cache = &cache
	}

	return config, nil
}

// buildClientConfig converts CLI configuration into a client configuration.
func buildClientConfig(config *Config, verbose bool) (*uc.Config, error) {
	if strings.TrimSpace(config.Endpoint) == "" {
		return nil, constants.ErrNoEndpoint
	}

	clientConfig := &uc.Config{
		Endpoint:     config.Endpoint,
		Token:        config.Token,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.TokenURL,
		Scopes:       config.Scopes,
		CACertFile:   config.CACertFile,
		RetryMax:     config.RetryMax,
		Debug:        verbose,
	}

	if len(config.ClientOptions) > 0 {
		clientConfig.ClientOptions = make(map[string]string, len(config.ClientOptions))
		for key, value := range config.ClientOptions {
			clientConfig.ClientOptions[key] = value
		}
	}

	if config.Cache != nil {
		err := validateCacheType(config.Cache.Type)
		if err != nil {
			return nil, err
		}

		cache := *config.Cache
		clientConfig.Cache = &cache
	}

	level := config.LogLevel
	if verbose {
		level = "debug"
	}

	clientConfig.Logger = logging.NewAdapter(logging.New(logging.Config{
		Level:  level,
		Format: logging.FormatAuto,
		Color:  true,
	}))

	return clientConfig, nil
}

func validateCacheType(cacheType uc.CacheType) error {
	switch cacheType {
	case "", uc.CacheTypeMemory, uc.CacheTypeNATS, uc.CacheTypeNone:
		return nil
	default:
		return fmt.Errorf("%w: %q (use memory, nats or none)", constants.ErrInvalidCacheType, cacheType)
	}
}

// CreateClient builds a catalog client from the effective configuration.
func CreateClient(ctx context.Context, v *viper.Viper) (uc.Client, error) {
	config, err := loadConfig(v)
	if err != nil {
		return nil, err
	}

	clientConfig, err := buildClientConfig(config, v.GetBool("verbose"))
	if err != nil {
		return nil, err
	}

	client, err := ucclient.New(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// configFilePath returns the file 'config set' writes to.
func configFilePath(v *viper.Viper) (string, error) {
	if path := v.GetString("config"); path != "" {
		return path, nil
	}

	if used := v.ConfigFileUsed(); used != "" {
		return used, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName+".yml"), nil
}

// readConfigFile reads the configuration file alone, without environment or
// flag overrides. A missing file yields an empty configuration.
func readConfigFile(path string) (*Config, error) {
	// path comes from the --config flag or the user's home directory
	// #nosec G304
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

func writeConfigFile(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setConfigValue applies one 'config set' assignment.
func setConfigValue(config *Config, key, value string) error {
	if name, ok := strings.CutPrefix(key, optionPrefix); ok {
		configKey, err := cloudclient.ParseClientConfigKey(name)
		if err != nil {
			return err
		}

		if config.ClientOptions == nil {
			config.ClientOptions = make(map[string]string)
		}

		config.ClientOptions[configKey.String()] = value

		return nil
	}

	switch key {
	case "endpoint":
		config.Endpoint = value
	case "token":
		config.Token = value
	case "client_id":
		config.ClientID = value
	case "client_secret":
		config.ClientSecret = value
	case "token_url":
		config.TokenURL = value
	case "scopes":
		config.Scopes = splitList(value)
	case "ca_cert_file":
		config.CACertFile = value
	case "output":
		err := validateOutputFormat(value)
		if err != nil {
			return err
		}

		config.Output = value
	case "log_level":
		config.LogLevel = value
	case "retry_max":
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 {
			return fmt.Errorf("%w: retry_max must be a non-negative integer, got %q", constants.ErrInvalidSettingValue, value)
		}

		config.RetryMax = retries
	default:
		return setCacheValue(config, key, value)
	}

	return nil
}

func setCacheValue(config *Config, key, value string) error {
	cache := config.Cache
	if cache == nil {
		cache = &uc.CacheConfig{}
	}

	switch key {
	case "cache.type":
		err := validateCacheType(uc.CacheType(value))
		if err != nil {
			return err
		}

		cache.Type = uc.CacheType(value)
	case "cache.max_size":
		size, err := strconv.Atoi(value)
		if err != nil || size < 0 {
			return fmt.Errorf("%w: cache.max_size must be a non-negative integer, got %q", constants.ErrInvalidSettingValue, value)
		}

		cache.MaxSize = size
	case "cache.nats.url", "cache.nats.bucket":
		if cache.NATS == nil {
			cache.NATS = &uc.NATSKVConfig{}
		}

		if key == "cache.nats.url" {
			cache.NATS.URL = value
		} else {
			cache.NATS.Bucket = value
		}
	default:
		return fmt.Errorf("%w: %q", constants.ErrUnknownSetting, key)
	}

	config.Cache = cache

	return nil
}

// unsetConfigValue clears one setting.
func unsetConfigValue(config *Config, key string) error {
	if name, ok := strings.CutPrefix(key, optionPrefix); ok {
		configKey, err := cloudclient.ParseClientConfigKey(name)
		if err != nil {
			return err
		}

		delete(config.ClientOptions, configKey.String())

		return nil
	}

	switch key {
	case "cache":
		config.Cache = nil

		return nil
	case "scopes":
		config.Scopes = nil

		return nil
	case "retry_max":
		config.RetryMax = 0

		return nil
	case "cache.max_size":
		if config.Cache != nil {
			config.Cache.MaxSize = 0
		}

		return nil
	}

	return setConfigValue(config, key, "")
}

func validateOutputFormat(value string) error {
	switch value {
	case "", constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q (use table, json or yaml)", constants.ErrInvalidOutputFormat, value)
	}
}

func splitList(value string) []string {
	var items []string

	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

// masked returns a copy of config with secrets hidden.
func masked(config *Config) *Config {
	out := *config
	if out.Token != "" {
		out.Token = constants.MaskedSecret
	}

	if out.ClientSecret != "" {
		out.ClientSecret = constants.MaskedSecret
	}

	return &out
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the uc CLI configuration stored in $HOME/.uc/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigSetTokenCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			format, err := outputFormat(v)
			if err != nil {
				return err
			}

			config, err := loadConfig(v)
			if err != nil {
				return err
			}

			return showConfig(cmd.OutOrStdout(), format, config)
		},
	}
}

func showConfig(out io.Writer, format string, config *Config) error {
	config = masked(config)

	switch format {
	case constants.FormatJSON:
		return renderJSON(out, config)
	case constants.FormatYAML:
		return renderYAML(out, config)
	}

	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	for _, row := range configRows(config) {
		err := table.Append(row)
		if err != nil {
			return fmt.Errorf("failed to append config row: %w", err)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func configRows(config *Config) [][]string {
	rows := [][]string{
		{"Endpoint", valueOrNA(config.Endpoint)},
		{"Token", valueOrNA(config.Token)},
		{"Client ID", valueOrNA(config.ClientID)},
		{"Client Secret", valueOrNA(config.ClientSecret)},
		{"Token URL", valueOrNA(config.TokenURL)},
		{"CA Cert File", valueOrNA(config.CACertFile)},
		{"Output", valueOrNA(config.Output)},
		{"Log Level", valueOrNA(config.LogLevel)},
		{"Retry Max", strconv.Itoa(config.RetryMax)},
	}

	if len(config.Scopes) > 0 {
		rows = append(rows, []string{"Scopes", strings.Join(config.Scopes, ", ")})
	}

	if config.Cache != nil {
		rows = append(rows, []string{"Cache Type", valueOrNA(string(config.Cache.Type))})
	}

	keys := make([]string, 0, len(config.ClientOptions))
	for key := range config.ClientOptions {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		rows = append(rows, []string{optionPrefix + key, config.ClientOptions[key]})
	}

	return rows
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the config file.

Keys: endpoint, token, client_id, client_secret, token_url, scopes, ca_cert_file,
output, log_level, retry_max, cache.type, cache.max_size, cache.nats.url,
cache.nats.bucket, and option.<name> for transport options such as
option.timeout or option.proxy_url.`,
		Args: cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfigFile(cmd, args[0], func(config *Config) error {
				return setConfigValue(config, args[0], args[1])
			})
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfigFile(cmd, args[0], func(config *Config) error {
				return unsetConfigValue(config, args[0])
			})
		},
	}
}

func newConfigSetTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-token",
		Short: "Store a bearer token",
		Long:  "Read a bearer token from the terminal without echo, or from standard input, and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Token: ")
			if err != nil {
				return err
			}

			return updateConfigFile(cmd, "token", func(config *Config) error {
				config.Token = token

				return nil
			})
		},
	}
}

func updateConfigFile(cmd *cobra.Command, key string, apply func(*Config) error) error {
	path, err := configFilePath(viper.GetViper())
	if err != nil {
		return err
	}

	config, err := readConfigFile(path)
	if err != nil {
		return err
	}

	err = apply(config)
	if err != nil {
		return err
	}

	err = writeConfigFile(path, config)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s in %s\n", key, path)

	return nil
}
