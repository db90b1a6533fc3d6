// config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	ControlPlane  ControlPlaneConfiguration
	Datastore     DatastoreConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
	Engine        EngineConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// ControlPlaneConfiguration stores the vendor API connection settings
type ControlPlaneConfiguration struct {
	BaseURL    string
	APIKey     string
	APIVersion string
	Timeout    string
}

// DatastoreConfiguration stores the direct-access DSN for the vendor's
// backing database, used only by the fallback strategy
type DatastoreConfiguration struct {
	DSN string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr string
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL string
}

// EngineConfiguration stores the reconciliation engine knobs
type EngineConfiguration struct {
	VerifyAttempts    int
	VerifyDelay       string
	CaptureAttempts   int
	CaptureDelay      string
	OperationDeadline string
	SubjectLeaseTTL   string
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("controlplane.baseURL", "http://localhost:9485/api")
	viper.SetDefault("controlplane.apiVersion", "2.8")
	viper.SetDefault("controlplane.timeout", "30s")
	viper.SetDefault("datastore.dsn", "doorward:doorward@tcp(localhost:3306)/accessdb?parseTime=true")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("engine.verifyAttempts", 5)
	viper.SetDefault("engine.verifyDelay", "2s")
	viper.SetDefault("engine.captureAttempts", 5)
	viper.SetDefault("engine.captureDelay", "3s")
	viper.SetDefault("engine.operationDeadline", "3m")
	viper.SetDefault("engine.subjectLeaseTTL", "5m")
	viper.SetDefault("log.dir", "logging")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
