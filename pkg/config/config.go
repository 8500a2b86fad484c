package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the platform.
const EnvPrefix = "BAFNA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	OTP          OTPConfig
	SMS          SMSConfig
	Shipping     ShippingConfig
	Payments     PaymentsConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BAFNA_APP_ENV" required:"true"`
	Port         string `envconfig:"BAFNA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BAFNA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAFNA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BAFNA_DB_DSN"`
	Driver string `envconfig:"BAFNA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BAFNA_DB_HOST"`
	Port     int    `envconfig:"BAFNA_DB_PORT" default:"5432"`
	User     string `envconfig:"BAFNA_DB_USER"`
	Password string `envconfig:"BAFNA_DB_PASSWORD"`
	Name     string `envconfig:"BAFNA_DB_NAME"`
	SSLMode  string `envconfig:"BAFNA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAFNA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAFNA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAFNA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAFNA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAFNA_REDIS_URL"`
	Address      string        `envconfig:"BAFNA_REDIS_ADDR"`
	Password     string        `envconfig:"BAFNA_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAFNA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAFNA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAFNA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAFNA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAFNA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAFNA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a shared Redis deployment is configured. When false
// the OTP challenge store falls back to its in-process implementation, which
// is only safe for single-instance deployments.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret          string `envconfig:"BAFNA_JWT_SECRET" required:"true"`
	Issuer          string `envconfig:"BAFNA_JWT_ISSUER" default:"bafnatoys"`
	CustomerTTLDays int    `envconfig:"BAFNA_JWT_CUSTOMER_TTL_DAYS" default:"30"`
	AdminTTLMinutes int    `envconfig:"BAFNA_JWT_ADMIN_TTL_MINUTES" default:"720"`
}

func (j JWTConfig) CustomerTTL() time.Duration {
	return time.Duration(j.CustomerTTLDays) * 24 * time.Hour
}

func (j JWTConfig) AdminTTL() time.Duration {
	return time.Duration(j.AdminTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BAFNA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BAFNA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BAFNA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BAFNA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BAFNA_ARGON_KEY_LEN" default:"32"`
}

type OTPConfig struct {
	TTL            time.Duration `envconfig:"BAFNA_OTP_TTL" default:"5m"`
	ResendCooldown time.Duration `envconfig:"BAFNA_OTP_RESEND_COOLDOWN" default:"30s"`
	MaxAttempts    int           `envconfig:"BAFNA_OTP_MAX_ATTEMPTS" default:"5"`
}

type SMSConfig struct {
	BaseURL       string        `envconfig:"BAFNA_SMS_BASE_URL" default:"https://control.msg91.com/api/v5/flow/"`
	AuthKey       string        `envconfig:"BAFNA_SMS_AUTHKEY"`
	TemplateID    string        `envconfig:"BAFNA_SMS_TEMPLATE_ID"`
	DLTTemplateID string        `envconfig:"BAFNA_SMS_DLT_TEMPLATE_ID"`
	SenderID      string        `envconfig:"BAFNA_SMS_SENDER_ID" default:"BAFNAR"`
	Timeout       time.Duration `envconfig:"BAFNA_SMS_TIMEOUT" default:"10s"`
}

type ShippingConfig struct {
	BaseURL       string        `envconfig:"BAFNA_SHIPPING_BASE_URL" default:"https://my.ithinklogistics.com/api"`
	AccessToken   string        `envconfig:"BAFNA_SHIPPING_ACCESS_TOKEN"`
	SecretKey     string        `envconfig:"BAFNA_SHIPPING_SECRET_KEY"`
	WarehouseID   string        `envconfig:"BAFNA_SHIPPING_WAREHOUSE_ID"`
	PickupPincode string        `envconfig:"BAFNA_SHIPPING_PICKUP_PINCODE" default:"641007"`
	ReturnName    string        `envconfig:"BAFNA_SHIPPING_RETURN_NAME" default:"Bafnatoys"`
	ReturnPhone   string        `envconfig:"BAFNA_SHIPPING_RETURN_PHONE"`
	ReturnAddress string        `envconfig:"BAFNA_SHIPPING_RETURN_ADDRESS"`
	Timeout       time.Duration `envconfig:"BAFNA_SHIPPING_TIMEOUT" default:"15s"`
}

type PaymentsConfig struct {
	KeyID   string        `envconfig:"BAFNA_PAYMENTS_KEY_ID"`
	Secret  string        `envconfig:"BAFNA_PAYMENTS_SECRET"`
	BaseURL string        `envconfig:"BAFNA_PAYMENTS_BASE_URL" default:"https://api.razorpay.com/v1"`
	Timeout time.Duration `envconfig:"BAFNA_PAYMENTS_TIMEOUT" default:"10s"`
}

type RateLimitConfig struct {
	OTPWindow     time.Duration `envconfig:"BAFNA_RATE_LIMIT_OTP_WINDOW" default:"1m"`
	OTPIPLimit    int           `envconfig:"BAFNA_RATE_LIMIT_OTP_IP_LIMIT" default:"20"`
	OTPPhoneLimit int           `envconfig:"BAFNA_RATE_LIMIT_OTP_PHONE_LIMIT" default:"5"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BAFNA_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,https://bafnatoys.com,https://www.bafnatoys.com,https://admin.bafnatoys.com"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BAFNA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BAFNA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		"BAFNA_DB_HOST": db.Host,
		"BAFNA_DB_USER": db.User,
		"BAFNA_DB_NAME": db.Name,
	}
	for _, env := range []string{"BAFNA_DB_HOST", "BAFNA_DB_USER", "BAFNA_DB_NAME"} {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either BAFNA_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
