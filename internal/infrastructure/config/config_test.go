package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dynamodb", cfg.Store.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Gateways.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Gateways.WebhookTimeout)
	assert.Equal(t, 2, cfg.Gateways.MaxRetries)
	assert.Equal(t, 20, cfg.Store.DynamoDB.LockAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.Store.DynamoDB.LockPoll)
	assert.Equal(t, "amount * 0.0275 + 3", cfg.Fees["paymob"])
	assert.Equal(t, "https://api-m.sandbox.paypal.com", cfg.Gateways.PayPal.APIBaseURL())
	assert.False(t, cfg.Gateways.Stripe.Enabled())
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	chdir(t, t.TempDir())
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_abc")
	t.Setenv("PAYPAL_MODE", "live")
	t.Setenv("AWS_REGION", "sa-east-1")
	t.Setenv("JWT_SECRET", "jwt-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk_test_123", cfg.Gateways.Stripe.SecretKey)
	assert.True(t, cfg.Gateways.Stripe.Enabled())
	assert.Equal(t, "https://api-m.paypal.com", cfg.Gateways.PayPal.APIBaseURL())
	assert.Equal(t, "sa-east-1", cfg.Store.DynamoDB.Region)
	assert.Equal(t, "jwt-secret", cfg.Callback.SigningKey, "signing key falls back to the jwt secret")
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payments.yaml")
	yaml := `
server:
  public_base_url: https://pay.example.com/
store:
  driver: sqlite
  dsn: file:payments.db
gateways:
  paymob:
    api_key: pm_key
    integration_id: "123"
    hmac_secret: pm_hmac
fees:
  stripe: amount * 0.03
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GATEWAYS_PAYMOB_INTEGRATION_ID", "456")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "https://pay.example.com", cfg.Server.PublicBaseURL)
	assert.Equal(t, "456", cfg.Gateways.Paymob.IntegrationID, "env wins over file")
	assert.True(t, cfg.Gateways.Paymob.Enabled())
	assert.Equal(t, "amount * 0.03", cfg.Fees["stripe"])
}

func TestValidate(t *testing.T) {
	base := Config{
		Server: ServerConfig{PublicBaseURL: "http://localhost"},
		Store:  StoreConfig{Driver: "dynamodb"},
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.Store.Driver = "postgres"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Store.Driver = "mysql"
	assert.Error(t, bad.Validate(), "mysql without dsn")

	bad = base
	bad.Gateways.MaxRetries = 5
	assert.Error(t, bad.Validate())

	bad = base
	bad.Gateways.Paymob = PaymobConfig{APIKey: "k", IntegrationID: "1"}
	assert.Error(t, bad.Validate(), "paymob without hmac secret")
}
