package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type AppConfig struct {
	Port        int    `yaml:"port"`
	AdminPort   int    `yaml:"admin_port"`
	BaseURL     string `yaml:"base_url"`
	RedirectURL string `yaml:"redirect_url"` // referral link landing page
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type XenditConfig struct {
	APIKey        string `yaml:"api_key"`
	CallbackToken string `yaml:"callback_token"`
	BaseURL       string `yaml:"base_url"`
	SuccessURL    string `yaml:"success_url"`
	FailureURL    string `yaml:"failure_url"`
}

type PaymentConfig struct {
	Xendit     XenditConfig  `yaml:"xendit"`
	InvoiceTTL time.Duration `yaml:"invoice_ttl"`
}

type MailketingConfig struct {
	APIToken  string `yaml:"api_token"`
	FromName  string `yaml:"from_name"`
	FromEmail string `yaml:"from_email"`
	BaseURL   string `yaml:"base_url"`
}

type WhatsappConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type OneSignalConfig struct {
	AppID  string `yaml:"app_id"`
	APIKey string `yaml:"api_key"`
}

type NotifyConfig struct {
	Mailketing MailketingConfig `yaml:"mailketing"`
	Whatsapp   WhatsappConfig   `yaml:"whatsapp"`
	OneSignal  OneSignalConfig  `yaml:"onesignal"`
	Workers    int              `yaml:"workers"`
}

type AdminAuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// RevenueSplitConfig feeds the commission engine. Percentages are plain
// numbers, e.g. 15 means 15%.
type RevenueSplitConfig struct {
	AdminFeePercent  float64 `yaml:"admin_fee_percent"`
	FounderPercent   float64 `yaml:"founder_percent"`
	CofounderPercent float64 `yaml:"cofounder_percent"`
	AdminUserID      string  `yaml:"admin_user_id"`
	FounderUserID    string  `yaml:"founder_user_id"`
	CofounderUserID  string  `yaml:"cofounder_user_id"`
}

type CheckoutConfig struct {
	BlockedEmailDomains []string `yaml:"blocked_email_domains"`
	RateLimit           string   `yaml:"rate_limit"` // ulule/limiter format, e.g. "10-M"
}

type SchedulerConfig struct {
	ExpirySweepInterval time.Duration `yaml:"expiry_sweep_interval"`
	ReminderInterval    time.Duration `yaml:"reminder_interval"`
	ReconcileInterval   time.Duration `yaml:"reconcile_interval"`
}

type Config struct {
	App       AppConfig          `yaml:"app"`
	Log       LogConfig          `yaml:"log"`
	Database  DatabaseConfig     `yaml:"database"`
	Redis     RedisConfig        `yaml:"redis"`
	Payment   PaymentConfig      `yaml:"payment"`
	Notify    NotifyConfig       `yaml:"notify"`
	AdminAuth AdminAuthConfig    `yaml:"admin_auth"`
	Revenue   RevenueSplitConfig `yaml:"revenue"`
	Checkout  CheckoutConfig     `yaml:"checkout"`
	Scheduler SchedulerConfig    `yaml:"scheduler"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads config.yaml (path via -config), with secrets overridable
// from the environment. A .env file is honored in development.
func LoadConfig() (*Config, error) {
	var configPath string
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	_ = godotenv.Load()

	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("XENDIT_API_KEY"); v != "" {
		c.Payment.Xendit.APIKey = v
	}
	if v := os.Getenv("XENDIT_CALLBACK_TOKEN"); v != "" {
		c.Payment.Xendit.CallbackToken = v
	}
	if v := os.Getenv("MAILKETING_API_TOKEN"); v != "" {
		c.Notify.Mailketing.APIToken = v
	}
	if v := os.Getenv("WHATSAPP_API_KEY"); v != "" {
		c.Notify.Whatsapp.APIKey = v
	}
	if v := os.Getenv("ONESIGNAL_API_KEY"); v != "" {
		c.Notify.OneSignal.APIKey = v
	}
	if v := os.Getenv("ADMIN_JWT_SECRET"); v != "" {
		c.AdminAuth.JWTSecret = v
	}
}

func (c *Config) applyDefaults() {
	if c.App.Port <= 0 {
		c.App.Port = 8080
	}
	if c.App.AdminPort <= 0 {
		c.App.AdminPort = 8081
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = 5 * time.Minute
	}
	if c.Payment.Xendit.BaseURL == "" {
		c.Payment.Xendit.BaseURL = "https://api.xendit.co"
	}
	if c.Payment.InvoiceTTL <= 0 {
		c.Payment.InvoiceTTL = 24 * time.Hour
	}
	if c.Notify.Workers <= 0 {
		c.Notify.Workers = 8
	}
	if c.Notify.Mailketing.BaseURL == "" {
		c.Notify.Mailketing.BaseURL = "https://api.mailketing.co.id"
	}
	if c.AdminAuth.SessionTTL <= 0 {
		c.AdminAuth.SessionTTL = 12 * time.Hour
	}
	if c.Revenue.AdminFeePercent <= 0 {
		c.Revenue.AdminFeePercent = 15
	}
	if c.Revenue.FounderPercent <= 0 {
		c.Revenue.FounderPercent = 60
	}
	if c.Revenue.CofounderPercent <= 0 {
		c.Revenue.CofounderPercent = 40
	}
	if c.Checkout.RateLimit == "" {
		c.Checkout.RateLimit = "10-M"
	}
	if c.Scheduler.ExpirySweepInterval <= 0 {
		c.Scheduler.ExpirySweepInterval = time.Hour
	}
	if c.Scheduler.ReminderInterval <= 0 {
		c.Scheduler.ReminderInterval = time.Hour
	}
	if c.Scheduler.ReconcileInterval <= 0 {
		c.Scheduler.ReconcileInterval = 15 * time.Minute
	}
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.AdminAuth.JWTSecret == "" {
		return fmt.Errorf("admin_auth.jwt_secret is required")
	}
	return nil
}
