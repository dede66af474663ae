package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Otel   OtelConfig
	Ledger LedgerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig verificación de los tokens emitidos por el proveedor de identidad.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos (solo tokens de desarrollo)
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins string // separados por coma
	RateLimit      int    // requests por minuto por IP; 0 = sin límite
	SwaggerFile    string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig canal de notificaciones de bajo stock. URL vacía = deshabilitado.
type RedisConfig struct {
	URL             string
	LowStockChannel string
}

// KafkaConfig stream de movimientos de stock. Brokers vacío = deshabilitado.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// OtelConfig exportación de trazas OTLP/HTTP. Endpoint vacío = trazas deshabilitadas.
type OtelConfig struct {
	Endpoint    string
	ServiceName string
	Insecure    bool
}

// LedgerConfig parámetros del libro de stock.
type LedgerConfig struct {
	LockRetries     int // reintentos ante deadlock / serialización
	LockTimeoutMs   int // lock_timeout por transacción; 0 = sin límite
	DefaultHistory  int
	MaxHistory      int
	NotifyWorkers   int
	NotifyQueueSize int // capacidad de la cola de cada worker
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "alumac-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "alumac"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "alumac"),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 8080),
			AllowedOrigins: getString(v, "HTTP_ALLOWED_ORIGINS", "http://localhost:3000"),
			RateLimit:      getInt(v, "HTTP_RATE_LIMIT", 200),
			SwaggerFile:    getString(v, "HTTP_SWAGGER_FILE", "./docs/swagger.json"),
		},
		Redis: RedisConfig{
			URL:             getString(v, "REDIS_URL", ""),
			LowStockChannel: getString(v, "REDIS_LOW_STOCK_CHANNEL", "alumac:stock:bajo"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getString(v, "KAFKA_BROKERS", "")),
			Topic:   getString(v, "KAFKA_MOVEMENTS_TOPIC", "alumac.stock.movimientos"),
		},
		Otel: OtelConfig{
			Endpoint:    getString(v, "OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName: getString(v, "OTEL_SERVICE_NAME", "alumac-api"),
			Insecure:    getBool(v, "OTEL_INSECURE", true),
		},
		Ledger: LedgerConfig{
			LockRetries:     getInt(v, "LEDGER_LOCK_RETRIES", 3),
			LockTimeoutMs:   getInt(v, "LEDGER_LOCK_TIMEOUT_MS", 5000),
			DefaultHistory:  getInt(v, "LEDGER_DEFAULT_HISTORY", 50),
			MaxHistory:      getInt(v, "LEDGER_MAX_HISTORY", 500),
			NotifyWorkers:   getInt(v, "LEDGER_NOTIFY_WORKERS", 2),
			NotifyQueueSize: getInt(v, "LEDGER_NOTIFY_QUEUE", 256),
		},
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET es obligatorio en producción")
	}
	if cfg.Ledger.DefaultHistory <= 0 || cfg.Ledger.MaxHistory < cfg.Ledger.DefaultHistory {
		return nil, fmt.Errorf("LEDGER_DEFAULT_HISTORY/LEDGER_MAX_HISTORY inválidos")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
