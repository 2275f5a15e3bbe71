package config

import "time"

// ServerConfig represents the configuration for the HTTP server
type ServerConfig struct {
	ListenAddress   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// ModelConfig represents the configuration for the classifier model
type ModelConfig struct {
	Type         string
	Path         string
	MaxDepth     int
	LearningRate float64
	Epochs       int
	TestRatio    float64
	Seed         int64
}

// DatasetConfig represents the configuration for the training dataset
type DatasetConfig struct {
	Path string
}

// HistoryConfig represents the configuration for the prediction history store
type HistoryConfig struct {
	Type       string
	Enabled    bool
	Capacity   int
	SQLitePath string
	MySQLDSN   string
}

// GetServer returns the server configuration
func (c *Config) GetServer() ServerConfig {
	readTimeout, err := c.GetDuration("server.read_timeout")
	if err != nil {
		readTimeout = 15 * time.Second
	}
	writeTimeout, err := c.GetDuration("server.write_timeout")
	if err != nil {
		writeTimeout = 15 * time.Second
	}
	shutdownTimeout, err := c.GetDuration("server.shutdown_timeout")
	if err != nil {
		shutdownTimeout = 5 * time.Second
	}
	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		ShutdownTimeout: shutdownTimeout,
		AllowedOrigins:  c.GetStringSlice("server.allowed_origins"),
	}
}

// GetModel returns the model configuration
func (c *Config) GetModel() ModelConfig {
	return ModelConfig{
		Type:         c.GetString("model.type"),
		Path:         c.GetString("model.path"),
		MaxDepth:     c.GetInt("model.max_depth"),
		LearningRate: c.GetFloat64("model.learning_rate"),
		Epochs:       c.GetInt("model.epochs"),
		TestRatio:    c.GetFloat64("model.test_ratio"),
		Seed:         int64(c.GetInt("model.seed")),
	}
}

// GetDataset returns the dataset configuration
func (c *Config) GetDataset() DatasetConfig {
	return DatasetConfig{
		Path: c.GetString("dataset.path"),
	}
}

// GetHistory returns the history store configuration
func (c *Config) GetHistory() HistoryConfig {
	return HistoryConfig{
		Type:       c.GetString("history.type"),
		Enabled:    c.GetBool("history.enabled"),
		Capacity:   c.GetInt("history.capacity"),
		SQLitePath: c.GetString("history.sqlite_path"),
		MySQLDSN:   c.GetString("history.mysql_dsn"),
	}
}
