// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"log/slog"

	"github.com/platform-engineering-labs/panier"
)

const (
	SqliteDatastore   = "sqlite"
	PostgresDatastore = "postgres"
)

type ServerConfig struct {
	Port    int    `yaml:"port"`
	TLSCert string `yaml:"tlsCert"`
	TLSKey  string `yaml:"tlsKey"`
}

type DatastoreConfig struct {
	DatastoreType string         `yaml:"datastoreType"`
	Sqlite        SqliteConfig   `yaml:"sqlite"`
	Postgres      PostgresConfig `yaml:"postgres"`
}

type SqliteConfig struct {
	FilePath string `yaml:"filePath"`
}

type PostgresConfig struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	User             string `yaml:"user"`
	Password         string `yaml:"password"`
	Database         string `yaml:"database"`
	Schema           string `yaml:"schema"`
	ConnectionParams string `yaml:"connectionParams"`
}

type LoggingConfig struct {
	FilePath        string     `yaml:"filePath"`
	FileLogLevel    slog.Level `yaml:"fileLogLevel"`
	ConsoleLogLevel slog.Level `yaml:"consoleLogLevel"`
}

type AgentConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Datastore DatastoreConfig `yaml:"datastore"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type APIConfig struct {
	URL  string `yaml:"url"`
	Port int    `yaml:"port"`
}

type CliConfig struct {
	API APIConfig `yaml:"api"`
}

type Config struct {
	Agent AgentConfig `yaml:"agent"`
	Cli   CliConfig   `yaml:"cli"`
}

// DefaultConfig is used for every value the configuration file leaves out.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Server: ServerConfig{
				Port: panier.DefaultAPIPort,
			},
			Datastore: DatastoreConfig{
				DatastoreType: SqliteDatastore,
				Sqlite: SqliteConfig{
					FilePath: "~/.pel/panier/panier.db",
				},
				Postgres: PostgresConfig{
					Host:     "localhost",
					Port:     5432,
					User:     "postgres",
					Database: "panier",
				},
			},
			Logging: LoggingConfig{
				FilePath:        "~/.pel/panier/log/panier.log",
				FileLogLevel:    slog.LevelDebug,
				ConsoleLogLevel: slog.LevelInfo,
			},
		},
		Cli: CliConfig{
			API: APIConfig{
				URL:  panier.DefaultAPIURL,
				Port: panier.DefaultAPIPort,
			},
		},
	}
}
