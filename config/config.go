package config

import (
	"macarabia_sync/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = &structs.Config{
			Server: &structs.ServerConfig{
				AppName:        getEnvAsString("APP_NAME", "Macarabia_catalog_sync"),
				Environment:    getEnvAsString("APP_ENV", "development"),
				Port:           getEnvAsString("APP_PORT", ":3001"),
				ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
				WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 60*time.Second),
				IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
				MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			},
			Cors: &structs.CorsConfig{
				AllowOrigins:     getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
				AllowMethods:     getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "OPTIONS"}),
				AllowHeaders:     getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
				AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
				ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			},
			Database: &structs.DatabaseConfig{
				Host:         getEnvAsString("DB_HOST", "localhost"),
				Port:         getEnvAsInt("DB_PORT", 5432),
				User:         getEnvAsString("DB_USER", "postgres"),
				Password:     getEnvAsString("DB_PASSWORD", "password"),
				Name:         getEnvAsString("DB_NAME", "macarabia_sync_db"),
				MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
				MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
				MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
				MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
				ReadTimeout:  getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
				WriteTimeout: getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
			},
			Cache: &structs.CacheConfig{
				Address:      getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
				Username:     getEnvAsString("REDIS_USERNAME", ""),
				Password:     getEnvAsString("REDIS_PASSWORD", ""),
				DB:           getEnvAsInt("REDIS_DB", 0),
				DialTimeout:  getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
				ReadTimeout:  getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
				WriteTimeout: getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
				TTL:          getEnvAsTimeDuration("REDIS_PLATFORM_TTL", 12*time.Hour),
			},
			Typesense: &structs.TypesenseConfig{
				Host:       getEnvAsString("TYPESENSE_HOST", "localhost"),
				Port:       getEnvAsInt("TYPESENSE_PORT", 8108),
				Protocol:   getEnvAsString("TYPESENSE_PROTOCOL", "http"),
				APIKey:     getEnvAsString("TYPESENSE_ADMIN_API_KEY", ""),
				Collection: getEnvAsString("TYPESENSE_COLLECTION", "products"),
				Timeout:    getEnvAsTimeDuration("TYPESENSE_TIMEOUT", 10*time.Second),
			},
			Webhook: &structs.WebhookConfig{
				Secret:       getEnvAsString("SHOPIFY_WEBHOOK_SECRET", ""),
				InsecureMode: getEnvAsBool("WEBHOOK_INSECURE_MODE", false),
			},
			Secondary: &structs.StoreConfig{
				ShopDomain: getEnvAsString("MACARABIA_SHOP_DOMAIN", ""),
				AdminToken: getEnvAsString("MACARABIA_ADMIN_TOKEN", ""),
				APIVersion: getEnvAsString("MACARABIA_API_VERSION", "2024-07"),
			},
			Source: &structs.StoreConfig{
				ShopDomain: getEnvAsString("SOURCE_SHOP_DOMAIN", ""),
				AdminToken: getEnvAsString("SOURCE_ADMIN_TOKEN", ""),
				APIVersion: getEnvAsString("SOURCE_API_VERSION", "2024-07"),
			},
			Admin: &structs.AdminConfig{
				JWTSecret: getEnvAsString("ADMIN_JWT_SECRET", ""),
			},
		}
	})
	return configInstance
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
