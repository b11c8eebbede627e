package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type EmailConfig struct {
	// Enabled is an explicit switch: when false the notifier drops every
	// send instead of probing transport availability at runtime.
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type BillingConfig struct {
	// APIKey authenticates outbound calls to the billing provider.
	APIKey string `mapstructure:"api_key"`
	// APIBase is the billing provider's REST endpoint.
	APIBase string `mapstructure:"api_base"`
	// WebhookSecret is the shared secret for verifying inbound billing
	// provider webhook signatures.
	WebhookSecret string `mapstructure:"webhook_secret"`
	// WebhookTolerance is the maximum accepted signature timestamp skew
	// in seconds. Zero disables the skew check.
	WebhookTolerance int `mapstructure:"webhook_tolerance"`
	// QuotaReminderStep throttles the 80% quota warning tier: the warning
	// is only sent when the usage count is a multiple of this step.
	QuotaReminderStep int `mapstructure:"quota_reminder_step"`
	// TrialNoticeDays is how many days before trial end the
	// trial-ending-soon email goes out.
	TrialNoticeDays int `mapstructure:"trial_notice_days"`
}

type GenerationConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	APIURL      string  `mapstructure:"api_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	RequestsPerHour   int `mapstructure:"requests_per_hour"`
	RequestsPerDay    int `mapstructure:"requests_per_day"`
}
