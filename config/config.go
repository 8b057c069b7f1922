package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var Conf = config{}

var (
	CfgPath string
	Env     string
)

const EnvPrefix = "RUGSCOPE"

type config struct {
	HTTPServerConfig HTTPServerConfig `mapstructure:"httpserver" yaml:"httpserver"`
	Postgresql       PostgresqlConfig `mapstructure:"postgresql" yaml:"postgresql"`
	RedisConfig      RedisConfig      `mapstructure:"redis" yaml:"redis"`
	PipelineConfig   PipelineConfig   `mapstructure:"pipeline" yaml:"pipeline"`
	NotifierConfig   NotifierConfig   `mapstructure:"notifier" yaml:"notifier"`
	LogConfig        LogConfig        `mapstructure:"log" yaml:"log"`
}

type HTTPServerConfig struct {
	Host   string `mapstructure:"host" yaml:"host"`
	Port   int    `mapstructure:"port" yaml:"port"`
	APIKey string `mapstructure:"apikey" yaml:"apikey"`
}

type PostgresqlConfig struct {
	User         string `mapstructure:"user" yaml:"user"`
	Password     string `mapstructure:"password" yaml:"password"`
	Database     string `mapstructure:"database" yaml:"database"`
	Host         string `mapstructure:"host" yaml:"host"`
	Port         int    `mapstructure:"port" yaml:"port"`
	Schema       string `mapstructure:"schema" yaml:"schema"`
	LogMode      bool   `mapstructure:"log-mode" yaml:"log-mode"`
	MaxIdleConns int    `mapstructure:"max-idle-conns" yaml:"max-idle-conns"`
	MaxOpenConns int    `mapstructure:"max-open-conns" yaml:"max-open-conns"`
}

// Enabled is false when no host is configured; the service then keeps jobs in
// memory.
func (c PostgresqlConfig) Enabled() bool {
	return c.Host != ""
}

func (c PostgresqlConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
	)
}

type RedisConfig struct {
	Addr         string `mapstructure:"addr" yaml:"addr"`
	Password     string `mapstructure:"password" yaml:"password"`
	Database     int    `mapstructure:"database" yaml:"database"`
	MaxIdleConns int    `mapstructure:"max-idle-conns" yaml:"max-idle-conns"`
	TTLSeconds   int    `mapstructure:"ttl-seconds" yaml:"ttl-seconds"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type PipelineConfig struct {
	Workers        int     `mapstructure:"workers" yaml:"workers"`
	QueueSize      int     `mapstructure:"queue-size" yaml:"queue-size"`
	AlertThreshold float64 `mapstructure:"alert-threshold" yaml:"alert-threshold"`
}

type NotifierConfig struct {
	LarkWebhook  string `mapstructure:"lark-webhook" yaml:"lark-webhook"`
	SlackWebhook string `mapstructure:"slack-webhook" yaml:"slack-webhook"`
	// ReportURL is a format string taking the analysis id, linked from alerts.
	ReportURL string `mapstructure:"report-url" yaml:"report-url"`
}

type LogConfig struct {
	Path   string `mapstructure:"path" yaml:"path"`
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// setDefaults registers every key so AutomaticEnv can override keys that the
// yaml file leaves out.
func setDefaults(v *viper.Viper) {
	v.SetDefault("httpserver.host", "0.0.0.0")
	v.SetDefault("httpserver.port", 8088)
	v.SetDefault("httpserver.apikey", "")
	v.SetDefault("postgresql.host", "")
	v.SetDefault("postgresql.user", "")
	v.SetDefault("postgresql.password", "")
	v.SetDefault("postgresql.database", "")
	v.SetDefault("postgresql.port", 5432)
	v.SetDefault("postgresql.schema", "public")
	v.SetDefault("postgresql.max-idle-conns", 5)
	v.SetDefault("postgresql.max-open-conns", 20)
	v.SetDefault("postgresql.log-mode", false)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max-idle-conns", 10)
	v.SetDefault("redis.ttl-seconds", 3600)
	v.SetDefault("pipeline.workers", 4)
	v.SetDefault("pipeline.queue-size", 64)
	v.SetDefault("pipeline.alert-threshold", 80)
	v.SetDefault("notifier.lark-webhook", "")
	v.SetDefault("notifier.slack-webhook", "")
	v.SetDefault("notifier.report-url", "")
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads config.<env>.yaml from path. Values may be overridden by
// RUGSCOPE_* environment variables, e.g. RUGSCOPE_REDIS_ADDR.
func Load(path, env string) (config, error) {
	conf := config{}
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config." + env)
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return conf, fmt.Errorf("failed to read configuration file: %v", err)
	}
	if err := v.Unmarshal(&conf); err != nil {
		return conf, fmt.Errorf("failed to unmarshal configuration file %v", err)
	}
	return conf, nil
}

func SetupConfig() {
	if len(CfgPath) < 1 {
		panic(fmt.Errorf("failed to get config path %s", CfgPath))
	}

	// a missing .env is fine, the yaml file and real env still apply
	_ = godotenv.Load()

	conf, err := Load(CfgPath, Env)
	if err != nil {
		panic(err)
	}
	Conf = conf

	logrus.Infof("read configuration file successfully")
}
