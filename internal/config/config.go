package config

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

const defaultBaseURL = "https://cloud.feedly.com"

// MissingCredentialsMessage is handed back to the invoker instead of an error
// when the secrets are not configured.
const MissingCredentialsMessage = "please set REFRESH_TOKEN and CLIENT_SECRET"

var ErrMissingCredentials = errors.New("refresh token and client secret are required")

// ErrHelp is returned by Load when --help was requested and printed.
var ErrHelp = errors.New("help requested")

// Credentials are the long-lived secrets used to obtain an access token.
type Credentials struct {
	RefreshToken string
	ClientSecret string
}

func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.RefreshToken) != "" && strings.TrimSpace(c.ClientSecret) != ""
}

// Config is built once at the process boundary and passed down explicitly.
type Config struct {
	Credentials Credentials
	BaseURL     string
	DryRun      bool
	StrictMark  bool
	LogLevel    string
	LogFormat   string
	LogFile     string
}

// Validate reports ErrMissingCredentials before any network call is made.
func (c Config) Validate() error {
	if !c.Credentials.Complete() {
		return ErrMissingCredentials
	}
	return nil
}

type rawCfg struct {
	RefreshToken string `long:"refresh-token" env:"REFRESH_TOKEN" description:"Feedly refresh token"`
	ClientSecret string `long:"client-secret" env:"CLIENT_SECRET" description:"Feedly client secret"`
	BaseURL      string `long:"base-url" env:"FEEDLY_BASE_URL" description:"Feedly API root (default https://cloud.feedly.com)"`
	ConfigFile   string `long:"config" env:"FEEDSWEEP_CONFIG" description:"Optional YAML config file"`
	// Switches are strings so a blank environment value reads as false.
	DryRun     string `long:"dry-run" env:"FEEDSWEEP_DRY_RUN" optional:"yes" optional-value:"true" description:"Log matches but do not mark anything as read"`
	StrictMark string `long:"strict-mark" env:"FEEDSWEEP_STRICT_MARK" optional:"yes" optional-value:"true" description:"Fail the run when the markers call is rejected"`
	LogLevel   string `long:"log-level" env:"LOG_LEVEL" description:"debug, info, warn or error (default info)"`
	LogFormat  string `long:"log-format" env:"LOG_FORMAT" description:"text or json (default text, json under Lambda)"`
	LogFile    string `long:"log-file" env:"LOG_FILE" description:"Write logs to this rotated file instead of stderr"`
}

// fileCfg mirrors rawCfg for the optional YAML file. Nil means the key is absent.
type fileCfg struct {
	RefreshToken *string `yaml:"refresh_token"`
	ClientSecret *string `yaml:"client_secret"`
	BaseURL      *string `yaml:"base_url"`
	DryRun       *bool   `yaml:"dry_run"`
	StrictMark   *bool   `yaml:"strict_mark"`
	LogLevel     *string `yaml:"log_level"`
	LogFormat    *string `yaml:"log_format"`
	LogFile      *string `yaml:"log_file"`
}

type configFileOpt struct {
	ConfigFile string `long:"config" env:"FEEDSWEEP_CONFIG"`
}

// Load resolves each setting from, in order of precedence, the command line,
// the environment, the YAML file named by --config, and built-in defaults.
// File values are installed as option defaults so go-flags applies the order.
func Load(args []string) (Config, error) {
	var pre configFileOpt
	if _, err := flags.NewParser(&pre, flags.IgnoreUnknown).ParseArgs(args); err != nil {
		return Config{}, fmt.Errorf("parse configuration: %w", err)
	}

	var raw rawCfg
	parser := flags.NewParser(&raw, flags.Default)
	if path := strings.TrimSpace(pre.ConfigFile); path != "" {
		file, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		applyFileDefaults(parser, file)
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return Config{}, ErrHelp
		}
		return Config{}, fmt.Errorf("parse configuration: %w", err)
	}

	dryRun, err := parseSwitch("dry-run", raw.DryRun)
	if err != nil {
		return Config{}, err
	}
	strictMark, err := parseSwitch("strict-mark", raw.StrictMark)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Credentials: Credentials{
			RefreshToken: raw.RefreshToken,
			ClientSecret: raw.ClientSecret,
		},
		BaseURL:    cmp.Or(raw.BaseURL, defaultBaseURL),
		DryRun:     dryRun,
		StrictMark: strictMark,
		LogLevel:   cmp.Or(raw.LogLevel, "info"),
		LogFormat:  raw.LogFormat,
		LogFile:    raw.LogFile,
	}, nil
}

func applyFileDefaults(parser *flags.Parser, file fileCfg) {
	setString := func(long string, v *string) {
		if v != nil {
			parser.FindOptionByLongName(long).Default = []string{*v}
		}
	}
	setBool := func(long string, v *bool) {
		if v != nil {
			parser.FindOptionByLongName(long).Default = []string{strconv.FormatBool(*v)}
		}
	}
	setString("refresh-token", file.RefreshToken)
	setString("client-secret", file.ClientSecret)
	setString("base-url", file.BaseURL)
	setBool("dry-run", file.DryRun)
	setBool("strict-mark", file.StrictMark)
	setString("log-level", file.LogLevel)
	setString("log-format", file.LogFormat)
	setString("log-file", file.LogFile)
}

// parseSwitch treats a blank value as false.
func parseSwitch(name, value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse --%s value %q: %w", name, value, err)
	}
	return b, nil
}

func readFile(path string) (fileCfg, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path chosen by the operator
	if err != nil {
		return fileCfg{}, fmt.Errorf("read config file %s: %w", path, err)
	}
	var cfg fileCfg
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileCfg{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}
