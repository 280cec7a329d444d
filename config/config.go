package config

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// MigrationsConfig MigrationsConfig.
type MigrationsConfig struct {
	DSN string `yaml:"dsn" mapstructure:"dsn"`
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// CorsConfig CorsConfig.
type CorsConfig struct {
	Origin []string `yaml:"origin" mapstructure:"origin"`
}

// PublicRestConfig PublicRestConfig.
type PublicRestConfig struct {
	Listen string     `yaml:"listen" mapstructure:"listen"`
	Cors   CorsConfig `yaml:"cors"   mapstructure:"cors"`
}

// SessionsConfig SessionsConfig.
type SessionsConfig struct {
	Cookie   string `yaml:"cookie"   mapstructure:"cookie"`
	Lifetime int    `yaml:"lifetime" mapstructure:"lifetime"` // seconds
}

// SMTPConfig SMTPConfig.
type SMTPConfig struct {
	Hostname string `yaml:"hostname" mapstructure:"hostname"`
	Port     int    `yaml:"port"     mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from"     mapstructure:"from"`
}

// RecaptchaConfig RecaptchaConfig.
type RecaptchaConfig struct {
	Enabled    bool   `yaml:"enabled"     mapstructure:"enabled"`
	PrivateKey string `yaml:"private_key" mapstructure:"private_key"`
}

// PollsConfig PollsConfig.
type PollsConfig struct {
	ListLimit uint `yaml:"list_limit" mapstructure:"list_limit"`
}

// Config Application config definition.
type Config struct {
	GinMode         string           `yaml:"gin_mode"          mapstructure:"gin_mode"`
	PublicRest      PublicRestConfig `yaml:"public_rest"       mapstructure:"public_rest"`
	TrustedNetwork  string           `yaml:"trusted_network"   mapstructure:"trusted_network"`
	DSN             string           `yaml:"dsn"               mapstructure:"dsn"`
	Migrations      MigrationsConfig `yaml:"migrations"        mapstructure:"migrations"`
	Redis           string           `yaml:"redis"             mapstructure:"redis"`
	Sessions        SessionsConfig   `yaml:"sessions"          mapstructure:"sessions"`
	SMTP            SMTPConfig       `yaml:"smtp"              mapstructure:"smtp"`
	MockEmailSender bool             `yaml:"mock_email_sender" mapstructure:"mock_email_sender"`
	Recaptcha       RecaptchaConfig  `yaml:"recaptcha"         mapstructure:"recaptcha"`
	Polls           PollsConfig      `yaml:"polls"             mapstructure:"polls"`
	Templates       string           `yaml:"templates"         mapstructure:"templates"`
}

// LoadConfig reads config.yaml from the given directory with GOPOLLS_*
// environment overrides.
func LoadConfig(dir string) Config {
	cfg := Config{}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)
	viper.SetEnvPrefix("GOPOLLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("gin_mode", "release")
	viper.SetDefault("public_rest.listen", ":80")
	viper.SetDefault("sessions.cookie", "gopolls_session")
	viper.SetDefault("sessions.lifetime", 86400*30)
	viper.SetDefault("polls.list_limit", 5)
	viper.SetDefault("templates", "./templates/*.html")

	if err := viper.ReadInConfig(); err != nil {
		logrus.Warnf("config file not read: %s", err.Error())
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		logrus.Fatal(err)
	}

	return cfg
}
