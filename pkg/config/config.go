package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Identity IdentityConfig
	HTTP     HTTPConfig
	Tenant   TenantConfig
	Sales    SalesConfig
	Loyalty  LoyaltyConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	// Storage selecciona el backend de datos: "postgres" (por defecto) o "memory" (demo/local).
	Storage string
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
	AutoMigrate bool
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

// RedisConfig caché de tenants. Addr vacío desactiva la caché (NopCache).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// IdentityConfig verificación del bearer token emitido por el proveedor de identidad.
// Con Secret vacío solo se decodifica el token (verificación delegada al gateway de entrada).
type IdentityConfig struct {
	Secret     string
	Issuer     string
	Expiration int // minutos, usado al emitir tokens de prueba
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// RequestTimeout plazo del contexto de cada petición de /api; 0 lo desactiva.
	RequestTimeout time.Duration
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TenantConfig aprovisionamiento de tenants.
type TenantConfig struct {
	SuperadminEmails []string
	TrialDays        int
	CacheTTL         time.Duration
}

// SalesConfig numeración de ventas.
type SalesConfig struct {
	NumberPrefix string
}

// LoyaltyConfig segmentación RFM.
type LoyaltyConfig struct {
	RFMWindowDays int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, REDIS_ADDR, JWT_SECRET, etc.
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

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "tienda-pos-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Storage:  getString(v, "STORAGE_DRIVER", "postgres"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "tienda_pos"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Identity: IdentityConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Issuer:     getString(v, "JWT_ISSUER", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 8080),
			ReadTimeout:    getDuration(v, "HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDuration(v, "HTTP_WRITE_TIMEOUT", 30*time.Second),
			RequestTimeout: getDuration(v, "HTTP_REQUEST_TIMEOUT", 20*time.Second),
		},
		Tenant: TenantConfig{
			SuperadminEmails: getList(v, "SUPERADMIN_EMAILS"),
			TrialDays:        getInt(v, "TRIAL_DAYS", 15),
			CacheTTL:         getDuration(v, "TENANT_CACHE_TTL", time.Hour),
		},
		Sales: SalesConfig{
			NumberPrefix: getString(v, "SALE_NUMBER_PREFIX", "VTA"),
		},
		Loyalty: LoyaltyConfig{
			RFMWindowDays: getInt(v, "RFM_WINDOW_DAYS", 90),
		},
	}

	if cfg.Tenant.TrialDays <= 0 {
		return nil, fmt.Errorf("config: TRIAL_DAYS debe ser positivo")
	}
	if cfg.HTTP.RequestTimeout < 0 {
		return nil, fmt.Errorf("config: HTTP_REQUEST_TIMEOUT no puede ser negativo")
	}
	if cfg.Loyalty.RFMWindowDays <= 0 {
		return nil, fmt.Errorf("config: RFM_WINDOW_DAYS debe ser positivo")
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
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

// getDuration acepta "90s", "1h" o un entero en segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

// getList separa por comas y descarta vacíos.
func getList(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v.GetString(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
