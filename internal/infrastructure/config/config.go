// Package config loads the service configuration.
//
// Precedence: defaults, then an optional YAML file (CONFIG_FILE or ./config.yaml),
// then environment variables. Nested keys map to env names by replacing "."
// with "_" (gateways.stripe.secret_key -> GATEWAYS_STRIPE_SECRET_KEY). The flat
// legacy names (STRIPE_SECRET_KEY, AWS_REGION, ...) are bound as well.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultConfigFile = "config.yaml"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Callback CallbackConfig `mapstructure:"callback"`
	Gateways GatewaysConfig `mapstructure:"gateways"`
	Breaker  BreakerConfig  `mapstructure:"breaker"`
	// Fees maps a gateway name to a fee expression over "amount".
	Fees      map[string]string `mapstructure:"fees"`
	Tracing   TracingConfig     `mapstructure:"tracing"`
	Reconcile ReconcileConfig   `mapstructure:"reconcile"`
}

type ServerConfig struct {
	Port                string `mapstructure:"port"`
	PublicBaseURL       string `mapstructure:"public_base_url"`
	FrontendRedirectURL string `mapstructure:"frontend_redirect_url"`
	DefaultCurrency     string `mapstructure:"default_currency"`
}

type StoreConfig struct {
	// Driver is one of dynamodb, mysql, sqlite.
	Driver   string         `mapstructure:"driver"`
	DSN      string         `mapstructure:"dsn"`
	DynamoDB DynamoDBConfig `mapstructure:"dynamodb"`
}

type DynamoDBConfig struct {
	Region          string        `mapstructure:"region"`
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	OrdersTable     string        `mapstructure:"orders_table"`
	InvoicesTable   string        `mapstructure:"invoices_table"`
	LockTTL         time.Duration `mapstructure:"lock_ttl"`
	LockAttempts    int           `mapstructure:"lock_attempts"`
	LockPoll        time.Duration `mapstructure:"lock_poll"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type CallbackConfig struct {
	// SigningKey signs the success/cancel redirect URLs handed to gateways.
	SigningKey string  `mapstructure:"signing_key"`
	RateLimit  float64 `mapstructure:"rate_limit"`
	RateBurst  int     `mapstructure:"rate_burst"`
}

type GatewaysConfig struct {
	Timeout        time.Duration     `mapstructure:"timeout"`
	WebhookTimeout time.Duration     `mapstructure:"webhook_timeout"`
	MaxRetries     int               `mapstructure:"max_retries"`
	RetryDelay     time.Duration     `mapstructure:"retry_delay"`
	Stripe         StripeConfig      `mapstructure:"stripe"`
	PayPal         PayPalConfig      `mapstructure:"paypal"`
	Paymob         PaymobConfig      `mapstructure:"paymob"`
	MercadoPago    MercadoPagoConfig `mapstructure:"mercadopago"`
}

type StripeConfig struct {
	SecretKey        string        `mapstructure:"secret_key"`
	PublishableKey   string        `mapstructure:"publishable_key"`
	WebhookSecret    string        `mapstructure:"webhook_secret"`
	Currency         string        `mapstructure:"currency"`
	BaseURL          string        `mapstructure:"base_url"`
	WebhookTolerance time.Duration `mapstructure:"webhook_tolerance"`
}

func (c StripeConfig) Enabled() bool { return c.SecretKey != "" }

type PayPalConfig struct {
	Mode         string `mapstructure:"mode"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	WebhookID    string `mapstructure:"webhook_id"`
	Currency     string `mapstructure:"currency"`
	BaseURL      string `mapstructure:"base_url"`
}

func (c PayPalConfig) Enabled() bool { return c.ClientID != "" && c.ClientSecret != "" }

// APIBaseURL honours an explicit base URL, otherwise derives it from Mode.
func (c PayPalConfig) APIBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if strings.EqualFold(c.Mode, "live") {
		return "https://api-m.paypal.com"
	}
	return "https://api-m.sandbox.paypal.com"
}

type PaymobConfig struct {
	APIKey                string `mapstructure:"api_key"`
	IntegrationID         string `mapstructure:"integration_id"`
	InstaPayIntegrationID string `mapstructure:"instapay_integration_id"`
	IframeID              string `mapstructure:"iframe_id"`
	HMACSecret            string `mapstructure:"hmac_secret"`
	BaseURL               string `mapstructure:"base_url"`
	Currency              string `mapstructure:"currency"`
}

func (c PaymobConfig) Enabled() bool { return c.APIKey != "" && c.IntegrationID != "" }

type MercadoPagoConfig struct {
	AccessToken     string `mapstructure:"access_token"`
	WebhookSecret   string `mapstructure:"webhook_secret"`
	NotificationURL string `mapstructure:"notification_url"`
	Currency        string `mapstructure:"currency"`
	PayerEmail      string `mapstructure:"payer_email"`
}

func (c MercadoPagoConfig) Enabled() bool { return c.AccessToken != "" }

type BreakerConfig struct {
	FailureThreshold  int           `mapstructure:"failure_threshold"`
	OpenTimeout       time.Duration `mapstructure:"open_timeout"`
	HalfOpenSuccesses int           `mapstructure:"half_open_successes"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

type ReconcileConfig struct {
	OlderThan time.Duration `mapstructure:"older_than"`
	Limit     int           `mapstructure:"limit"`
}

// legacyEnv binds the flat environment names used by earlier deployments.
var legacyEnv = map[string][]string{
	"server.port":                             {"PORT"},
	"server.public_base_url":                  {"APP_URL", "PUBLIC_BASE_URL"},
	"server.frontend_redirect_url":            {"FRONTEND_REDIRECT_URL"},
	"store.driver":                            {"STORE_DRIVER"},
	"store.dsn":                               {"DATABASE_DSN"},
	"store.dynamodb.region":                   {"AWS_REGION"},
	"store.dynamodb.endpoint":                 {"DYNAMODB_ENDPOINT"},
	"store.dynamodb.access_key_id":            {"AWS_ACCESS_KEY_ID"},
	"store.dynamodb.secret_access_key":        {"AWS_SECRET_ACCESS_KEY"},
	"store.dynamodb.orders_table":             {"ORDERS_TABLE"},
	"store.dynamodb.invoices_table":           {"INVOICES_TABLE", "PAYMENTS_TABLE"},
	"auth.jwt_secret":                         {"JWT_SECRET"},
	"callback.signing_key":                    {"CALLBACK_SIGNING_KEY"},
	"gateways.stripe.secret_key":              {"STRIPE_SECRET_KEY"},
	"gateways.stripe.publishable_key":         {"STRIPE_PUBLIC_KEY"},
	"gateways.stripe.webhook_secret":          {"STRIPE_WEBHOOK_SECRET"},
	"gateways.stripe.currency":                {"STRIPE_CURRENCY"},
	"gateways.paypal.mode":                    {"PAYPAL_MODE"},
	"gateways.paypal.client_id":               {"PAYPAL_CLIENT_ID"},
	"gateways.paypal.client_secret":           {"PAYPAL_CLIENT_SECRET"},
	"gateways.paypal.webhook_id":              {"PAYPAL_WEBHOOK_ID"},
	"gateways.paypal.currency":                {"PAYPAL_CURRENCY"},
	"gateways.paymob.api_key":                 {"PAYMOB_API_KEY"},
	"gateways.paymob.integration_id":          {"PAYMOB_INTEGRATION_ID"},
	"gateways.paymob.instapay_integration_id": {"PAYMOB_INSTAPAY_INTEGRATION_ID"},
	"gateways.paymob.iframe_id":               {"PAYMOB_IFRAME_ID"},
	"gateways.paymob.hmac_secret":             {"PAYMOB_HMAC_SECRET"},
	"gateways.paymob.base_url":                {"PAYMOB_BASE_URL"},
	"gateways.paymob.currency":                {"PAYMOB_CURRENCY"},
	"gateways.mercadopago.access_token":       {"MERCADOPAGO_ACCESS_TOKEN"},
	"gateways.mercadopago.webhook_secret":     {"MERCADOPAGO_WEBHOOK_SECRET"},
	"gateways.mercadopago.notification_url":   {"MERCADOPAGO_NOTIFICATION_URL"},
	"gateways.mercadopago.payer_email":        {"MERCADOPAGO_TEST_PAYER_EMAIL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.public_base_url", "http://localhost:8080")
	v.SetDefault("server.frontend_redirect_url", "")
	v.SetDefault("server.default_currency", "USD")

	v.SetDefault("store.driver", "dynamodb")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.dynamodb.region", "us-east-1")
	v.SetDefault("store.dynamodb.endpoint", "")
	v.SetDefault("store.dynamodb.access_key_id", "local")
	v.SetDefault("store.dynamodb.secret_access_key", "local")
	v.SetDefault("store.dynamodb.orders_table", "orders")
	v.SetDefault("store.dynamodb.invoices_table", "invoices")
	v.SetDefault("store.dynamodb.lock_ttl", "10s")
	v.SetDefault("store.dynamodb.lock_attempts", 20)
	v.SetDefault("store.dynamodb.lock_poll", "50ms")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("callback.signing_key", "")
	v.SetDefault("callback.rate_limit", 10.0)
	v.SetDefault("callback.rate_burst", 20)

	v.SetDefault("gateways.timeout", "30s")
	v.SetDefault("gateways.webhook_timeout", "60s")
	v.SetDefault("gateways.max_retries", 2)
	v.SetDefault("gateways.retry_delay", "1s")

	v.SetDefault("gateways.stripe.secret_key", "")
	v.SetDefault("gateways.stripe.publishable_key", "")
	v.SetDefault("gateways.stripe.webhook_secret", "")
	v.SetDefault("gateways.stripe.currency", "usd")
	v.SetDefault("gateways.stripe.base_url", "https://api.stripe.com")
	v.SetDefault("gateways.stripe.webhook_tolerance", "5m")

	v.SetDefault("gateways.paypal.mode", "sandbox")
	v.SetDefault("gateways.paypal.client_id", "")
	v.SetDefault("gateways.paypal.client_secret", "")
	v.SetDefault("gateways.paypal.webhook_id", "")
	v.SetDefault("gateways.paypal.currency", "USD")
	v.SetDefault("gateways.paypal.base_url", "")

	v.SetDefault("gateways.paymob.api_key", "")
	v.SetDefault("gateways.paymob.integration_id", "")
	v.SetDefault("gateways.paymob.instapay_integration_id", "")
	v.SetDefault("gateways.paymob.iframe_id", "")
	v.SetDefault("gateways.paymob.hmac_secret", "")
	v.SetDefault("gateways.paymob.base_url", "https://accept.paymob.com/api")
	v.SetDefault("gateways.paymob.currency", "EGP")

	v.SetDefault("gateways.mercadopago.access_token", "")
	v.SetDefault("gateways.mercadopago.webhook_secret", "")
	v.SetDefault("gateways.mercadopago.notification_url", "")
	v.SetDefault("gateways.mercadopago.currency", "BRL")
	v.SetDefault("gateways.mercadopago.payer_email", "")

	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.open_timeout", "30s")
	v.SetDefault("breaker.half_open_successes", 2)

	v.SetDefault("fees", map[string]string{
		"paypal":      "amount * 0.029 + 0.30",
		"stripe":      "amount * 0.029 + 0.30",
		"paymob":      "amount * 0.0275 + 3",
		"mercadopago": "amount * 0.0099",
	})

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "restaurant-payments")

	v.SetDefault("reconcile.older_than", "15m")
	v.SetDefault("reconcile.limit", 100)
}

// Load builds the configuration from defaults, the optional YAML file and the environment.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		canonical := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, canonical}, names...)...); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path := configFilePath(); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configFilePath() string {
	if p := strings.TrimSpace(os.Getenv("CONFIG_FILE")); p != "" {
		return p
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}

func (c *Config) normalize() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Server.PublicBaseURL = strings.TrimRight(c.Server.PublicBaseURL, "/")
	c.Gateways.Stripe.BaseURL = strings.TrimRight(c.Gateways.Stripe.BaseURL, "/")
	c.Gateways.Paymob.BaseURL = strings.TrimRight(c.Gateways.Paymob.BaseURL, "/")
	if c.Callback.SigningKey == "" {
		c.Callback.SigningKey = c.Auth.JWTSecret
	}
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case "dynamodb":
	case "mysql", "sqlite":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unsupported store.driver %q", c.Store.Driver)
	}
	if c.Server.PublicBaseURL == "" {
		return errors.New("server.public_base_url is required")
	}
	if c.Gateways.MaxRetries < 0 || c.Gateways.MaxRetries > 2 {
		return fmt.Errorf("gateways.max_retries must be between 0 and 2, got %d", c.Gateways.MaxRetries)
	}
	if c.Gateways.Paymob.Enabled() && c.Gateways.Paymob.HMACSecret == "" {
		return errors.New("gateways.paymob.hmac_secret is required when paymob is enabled")
	}
	if c.Gateways.Stripe.Enabled() && c.Gateways.Stripe.WebhookSecret == "" {
		return errors.New("gateways.stripe.webhook_secret is required when stripe is enabled")
	}
	return nil
}
