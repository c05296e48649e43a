package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/Tallone/solana-burn-cli/burncli/models"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config holds everything needed to start a session.
type Config struct {
	PrivateKey     string
	RPCURL         string
	WSSURL         string
	Encoding       string
	DryRun         bool
	HaltOnFailure  bool
	ConfirmTimeout time.Duration
	LogLevel       string
	LogEncoding    string
	SessionRoot    string
}

func Default() *Config {
	return &Config{
		RPCURL:         models.DefaultRPC,
		Encoding:       models.EncodingJSONParsed,
		ConfirmTimeout: 60 * time.Second,
		LogLevel:       "info",
		LogEncoding:    "json",
		SessionRoot:    models.SessionRoot,
	}
}

// BindFlags registers the command line flags backed by cfg.
func (c *Config) BindFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.PrivateKey, "private-key", "p", c.PrivateKey, "Private key in base58 format (env PRIVATE_KEY)")
	flags.StringVarP(&c.RPCURL, "rpc-url", "r", c.RPCURL, "Solana RPC endpoint URL (env RPC_URL)")
	flags.StringVarP(&c.WSSURL, "ws-url", "w", c.WSSURL, "Solana websocket endpoint URL, enables push confirmations and the live balance (env WSS_URL)")
	flags.StringVar(&c.Encoding, "encoding", c.Encoding, "Token account encoding: jsonParsed or base64+zstd (env SOURCE_ENCODING)")
	flags.BoolVar(&c.DryRun, "dry-run", c.DryRun, "Simulate transactions instead of sending them")
	flags.BoolVar(&c.HaltOnFailure, "halt-on-failure", c.HaltOnFailure, "Stop processing after the first failed transaction")
	flags.DurationVar(&c.ConfirmTimeout, "confirm-timeout", c.ConfirmTimeout, "How long to wait for each transaction confirmation (env CONFIRM_TIMEOUT)")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn (env LOG_LEVEL)")
}

// ApplyEnv loads .env if present and fills every field whose flag was not
// set explicitly from the environment.
func (c *Config) ApplyEnv(flags *pflag.FlagSet) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error loading .env file: %w", err)
	}

	setString := func(flag string, target *string, key string) {
		if flags != nil && flags.Changed(flag) {
			return
		}
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
	setString("private-key", &c.PrivateKey, "PRIVATE_KEY")
	setString("rpc-url", &c.RPCURL, "RPC_URL")
	setString("ws-url", &c.WSSURL, "WSS_URL")
	setString("encoding", &c.Encoding, "SOURCE_ENCODING")
	setString("log-level", &c.LogLevel, "LOG_LEVEL")
	setString("", &c.LogEncoding, "LOG_ENCODING")
	setString("", &c.SessionRoot, "SESSION_DIR")

	if flags == nil || !flags.Changed("confirm-timeout") {
		if v := os.Getenv("CONFIRM_TIMEOUT"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				secs, convErr := strconv.Atoi(v)
				if convErr != nil {
					return fmt.Errorf("invalid CONFIRM_TIMEOUT %q: %w", v, err)
				}
				d = time.Duration(secs) * time.Second
			}
			c.ConfirmTimeout = d
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.PrivateKey == "" {
		return fmt.Errorf("private key is required (--private-key or PRIVATE_KEY)")
	}
	if err := validateURL(c.RPCURL, "http", "https"); err != nil {
		return fmt.Errorf("invalid rpc url: %w", err)
	}
	if c.WSSURL != "" {
		if err := validateURL(c.WSSURL, "ws", "wss"); err != nil {
			return fmt.Errorf("invalid websocket url: %w", err)
		}
	}
	switch c.Encoding {
	case models.EncodingJSONParsed, models.EncodingBase64Zstd:
	default:
		return fmt.Errorf("unknown encoding %q", c.Encoding)
	}
	if c.ConfirmTimeout <= 0 {
		return fmt.Errorf("confirm timeout must be positive")
	}
	return nil
}

func validateURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("%q must use one of %v", raw, schemes)
}
