package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Log           LogConfig           `mapstructure:"log"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Store         StoreConfig         `mapstructure:"store"`
	Events        EventsConfig        `mapstructure:"events"`
	EVM           EVMConfig           `mapstructure:"evm"`
	Cosmos        CosmosConfig        `mapstructure:"cosmos"`
	WalletConnect WalletConnectConfig `mapstructure:"walletconnect"`
	Submitter     SubmitterConfig     `mapstructure:"submitter"`
	Dashboard     DashboardConfig     `mapstructure:"dashboard"`
	Auth          AuthConfig          `mapstructure:"auth"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// RedisConfig is shared by the redis session store and the redis stream
// publisher. An empty URL disables both.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type StoreConfig struct {
	Kind string `mapstructure:"kind"` // memory, file, redis
	Dir  string `mapstructure:"dir"`
}

type EventsConfig struct {
	Topic string `mapstructure:"topic"`
}

type EVMConfig struct {
	RPC      string `mapstructure:"rpc"`
	ChainID  uint64 `mapstructure:"chain_id"`
	Contract string `mapstructure:"contract"`
	Token    string `mapstructure:"token"`
	Explorer string `mapstructure:"explorer"`
	// Provider is the endpoint of a locally running wallet provider.
	Provider string `mapstructure:"provider"`
	Bridge   string `mapstructure:"bridge"`
}

// Enabled reports whether the EVM family is served.
func (c EVMConfig) Enabled() bool { return c.Contract != "" }

type CosmosConfig struct {
	LCD      string        `mapstructure:"lcd"`
	ChainID  string        `mapstructure:"chain_id"`
	Contract string        `mapstructure:"contract"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Provider string        `mapstructure:"provider"`
	Bridges  CosmosBridges `mapstructure:"bridges"`
}

type CosmosBridges struct {
	TerraStation string `mapstructure:"terrastation"`
	LuncDash     string `mapstructure:"luncdash"`
}

// Enabled reports whether the cosmos family is served.
func (c CosmosConfig) Enabled() bool { return c.Contract != "" }

type WalletConnectConfig struct {
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Name           string        `mapstructure:"name"`
	Description    string        `mapstructure:"description"`
	URL            string        `mapstructure:"url"`
	Icons          []string      `mapstructure:"icons"`
}

type SubmitterConfig struct {
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	SettleTimeout time.Duration `mapstructure:"settle_timeout"`
	Memo          string        `mapstructure:"memo"`
}

type DashboardConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	LaunchWindow    time.Duration `mapstructure:"launch_window"`
}

type AuthConfig struct {
	// SigningKey is a hex encoded P-256 private key. A random key is
	// generated when empty, which invalidates tokens on restart.
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: WALLETBRIDGE_.
// Nested keys use underscore: WALLETBRIDGE_EVM_CONTRACT, WALLETBRIDGE_REDIS_URL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8645)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("redis.url", "")
	v.SetDefault("store.kind", "file")
	v.SetDefault("store.dir", ".walletbridge")
	v.SetDefault("events.topic", "walletbridge.session")

	v.SetDefault("evm.rpc", "https://bsc-dataseed.binance.org/")
	v.SetDefault("evm.chain_id", 56)
	v.SetDefault("evm.contract", "")
	v.SetDefault("evm.token", "0xA4224f910102490Dc02AAbcBc6cb3c59Ff390055")
	v.SetDefault("evm.explorer", "https://bscscan.com")
	v.SetDefault("evm.provider", "")
	v.SetDefault("evm.bridge", "https://bridge.walletconnect.org")

	v.SetDefault("cosmos.lcd", "https://terra-classic-lcd.publicnode.com")
	v.SetDefault("cosmos.chain_id", "columbus-5")
	v.SetDefault("cosmos.contract", "")
	v.SetDefault("cosmos.timeout", "15s")
	v.SetDefault("cosmos.provider", "")
	v.SetDefault("cosmos.bridges.terrastation", "https://walletconnect.terra.dev")
	v.SetDefault("cosmos.bridges.luncdash", "https://walletconnect.luncdash.com")

	v.SetDefault("walletconnect.connect_timeout", "120s")
	v.SetDefault("walletconnect.name", "USTC Preregister")
	v.SetDefault("walletconnect.description", "CMM USTC Preregister DApp")
	v.SetDefault("walletconnect.url", "http://localhost:8645")
	v.SetDefault("walletconnect.icons", []string{})

	v.SetDefault("submitter.poll_interval", "2s")
	v.SetDefault("submitter.settle_timeout", "60s")
	v.SetDefault("submitter.memo", "")
	v.SetDefault("dashboard.refresh_interval", "10s")
	v.SetDefault("dashboard.launch_window", "24h")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", "24h")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("walletbridge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("WALLETBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks combinations the defaults cannot guard.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case "memory", "file":
	case "redis":
		if c.Redis.URL == "" {
			return errors.New("store.kind is redis but redis.url is empty")
		}
	default:
		return fmt.Errorf("unknown store.kind %q", c.Store.Kind)
	}
	if !c.EVM.Enabled() && !c.Cosmos.Enabled() {
		return errors.New("no chain family enabled: set evm.contract or cosmos.contract")
	}
	return nil
}
