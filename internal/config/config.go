package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Inputs  InputsConfig  `yaml:"inputs"`
	Restock RestockConfig `yaml:"restock"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
}

type InputsConfig struct {
	Dir         string `yaml:"dir"`
	Restaurant  string `yaml:"restaurant"`
	Ingredients string `yaml:"ingredients"`
	Menu        string `yaml:"menu"`
	Events      string `yaml:"events"`
}

type RestockConfig struct {
	Quantity int            `yaml:"quantity"`
	File     FileConfig     `yaml:"file"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Postgres DatabaseConfig `yaml:"postgres"`
}

type FileConfig struct {
	Path string `yaml:"path"`
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Exchange string `yaml:"exchange"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Inputs: InputsConfig{
			Dir:         ".",
			Restaurant:  "restaurant.txt",
			Ingredients: "ingredients.txt",
			Menu:        "menu.txt",
			Events:      "events.txt",
		},
		Restock: RestockConfig{
			Quantity: 20,
			File:     FileConfig{Path: "requests.txt"},
			RabbitMQ: RabbitMQConfig{
				Host:     "localhost",
				Port:     5672,
				User:     "guest",
				Password: "guest",
				Exchange: "restock_fanout",
			},
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "restock-requests",
			},
			Postgres: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "restaurant",
				Password: "restaurant",
				Database: "restaurant",
			},
		},
		Logging: LoggingConfig{Level: "info"},
		Tracing: TracingConfig{ServiceName: "restaurant"},
	}
}

// Load reads a YAML file over the defaults. A missing file yields the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Restock.Quantity <= 0 {
		return fmt.Errorf("restock.quantity must be positive, got %d", c.Restock.Quantity)
	}
	if c.Restock.Kafka.Enabled && (len(c.Restock.Kafka.Brokers) == 0 || c.Restock.Kafka.Topic == "") {
		return errors.New("restock.kafka needs brokers and a topic")
	}
	if c.Restock.RabbitMQ.Enabled && c.Restock.RabbitMQ.Exchange == "" {
		return errors.New("restock.rabbitmq needs an exchange")
	}
	return nil
}
