package structs

import (
	"fmt"
	"time"
)

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Cache     *CacheConfig
	Typesense *TypesenseConfig
	Webhook   *WebhookConfig
	Secondary *StoreConfig
	Source    *StoreConfig
	Admin     *AdminConfig
}

type ServerConfig struct {
	AppName        string        // Macarabia Catalog Sync
	Environment    string        // development, production
	Port           string        // :8082
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
}

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposedHeaders   []string
	AllowCredentials bool
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type CacheConfig struct {
	Address      string
	Username     string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TTL          time.Duration
}

type TypesenseConfig struct {
	Host       string
	Port       int
	Protocol   string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// URL builds the server address the typesense client connects to.
func (t *TypesenseConfig) URL() string {
	return fmt.Sprintf("%s://%s:%d", t.Protocol, t.Host, t.Port)
}

type WebhookConfig struct {
	Secret string
	// InsecureMode allows unsigned deliveries through when no secret or
	// signature header is present. Development only; verification fails
	// closed when this is off.
	InsecureMode bool
}

// StoreConfig identifies one Shopify admin tenant. The same client code
// serves both the secondary (write) store and the source (enrichment) store.
type StoreConfig struct {
	ShopDomain string
	AdminToken string
	APIVersion string
}

func (s *StoreConfig) Configured() bool {
	return s != nil && s.ShopDomain != "" && s.AdminToken != ""
}

type AdminConfig struct {
	JWTSecret string
}
