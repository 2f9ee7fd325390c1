package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// StoreDriver は社員ストアの実装種別です。
type StoreDriver string

const (
	StoreDriverPostgres StoreDriver = "postgres"
	StoreDriverMemory   StoreDriver = "memory"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	defaultPageSize        = 10
	defaultMaxPageSize     = 200
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Query    QueryConfig    `yaml:"query"`
}

// ServerConfig は HTTP / gRPC サーバーに関する設定です。
type ServerConfig struct {
	HTTPAddr           string        `yaml:"http_addr"`
	GRPCAddr           string        `yaml:"grpc_addr"`
	ShutdownTimeout    time.Duration `yaml:"-"`
	ShutdownTimeoutRaw string        `yaml:"shutdown_timeout"`
}

// StoreConfig はストア実装の選択です。
type StoreConfig struct {
	Driver StoreDriver `yaml:"driver"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// QueryConfig は一覧検索のページング設定です。
type QueryConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv は一部の項目を環境変数で上書きします。
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("STORE_DRIVER"); ok && v != "" {
		c.Store.Driver = StoreDriver(v)
	}
	if v, ok := lookup("DATABASE_HOST"); ok && v != "" {
		c.Database.Host = v
	}
	if v, ok := lookup("DATABASE_PORT"); ok && v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v, ok := lookup("DATABASE_PASSWORD"); ok && v != "" {
		c.Database.Password = v
	}
}

func (c *Config) validateAndNormalize() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("config: server.http_addr must be set")
	}
	if c.Server.GRPCAddr == "" {
		return fmt.Errorf("config: server.grpc_addr must be set")
	}
	for key, addr := range map[string]string{"http_addr": c.Server.HTTPAddr, "grpc_addr": c.Server.GRPCAddr} {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("config: server.%s: %w", key, err)
		}
	}

	timeout, err := parseDurationAllowEmpty(c.Server.ShutdownTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: server.shutdown_timeout: %w", err)
	}
	if timeout == 0 {
		timeout = defaultShutdownTimeout
	}
	c.Server.ShutdownTimeout = timeout

	switch c.Store.Driver {
	case "":
		c.Store.Driver = StoreDriverPostgres
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("config: store.driver %q is not supported", c.Store.Driver)
	}

	if c.Store.Driver == StoreDriverPostgres {
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	q := &c.Query
	if q.MaxPageSize <= 0 {
		q.MaxPageSize = defaultMaxPageSize
	}
	if q.DefaultPageSize <= 0 {
		q.DefaultPageSize = defaultPageSize
	}
	if q.DefaultPageSize > q.MaxPageSize {
		return fmt.Errorf("config: query.default_page_size must not exceed query.max_page_size")
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。資格情報はエスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
