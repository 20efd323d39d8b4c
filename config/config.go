package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Trackbook TrackbookConfig `yaml:"trackbook"`
}

type StorageConfig struct {
	Backend  string `yaml:"backend"` // "memory" | "file" | "redis" | "postgres"
	FilePath string `yaml:"file_path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (c DatabaseConfig) ConnString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Username, c.Password, c.Host, c.Port, c.DBName, sslMode)
}

type KafkaConfig struct {
	Host                    string `yaml:"host"`
	Port                    int    `yaml:"port"`
	RecordsChangedTopicName string `yaml:"records_changed_topic_name"`
}

// Enabled: без хоста поток изменений не публикуется.
func (c KafkaConfig) Enabled() bool { return c.Host != "" }

func (c KafkaConfig) Brokers() []string {
	return []string{fmt.Sprintf("%s:%d", c.Host, c.Port)}
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (c RedisConfig) Enabled() bool { return c.Host != "" }

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type TrackbookConfig struct {
	GRPCAddr           string `yaml:"grpc_addr"`
	HTTPAddr           string `yaml:"http_addr"`
	AuditConsumerGroup string `yaml:"audit_consumer_group"`
	Timezone           string `yaml:"timezone"`

	CarrierSource             string `yaml:"carrier_source"` // "fake" | "http"
	CarrierSeed               int64  `yaml:"carrier_seed"`   // 0 = time-seeded
	CarrierBaseURL            string `yaml:"carrier_base_url"`
	CarrierAPIKey             string `yaml:"carrier_api_key"`
	CarrierRateLimitPerMinute int    `yaml:"carrier_rate_limit_per_minute"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}
