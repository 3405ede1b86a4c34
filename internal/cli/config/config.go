// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/ksuid"
)

const (
	ConfigFileName  = "panier.conf.yaml"
	ConfigDirectory = ".config/panier"
	DataDirectory   = ".pel/panier"

	clientIDFile = "cli_client_id"
	agentIDFile  = "agent_id"
)

var Config = cliconfig{}

type cliconfig struct{}

func (cliconfig) ConfigDirectory() string {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(homePath, ConfigDirectory)
}

// ConfigFile is the configuration used when no --config flag is given.
func (cliconfig) ConfigFile() string {
	configPath := Config.ConfigDirectory()
	if configPath == "" {
		return ""
	}

	return filepath.Join(configPath, ConfigFileName)
}

func (cliconfig) DataDirectory() string {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(homePath, DataDirectory)
}

func (cliconfig) ClientLogFile() string {
	return filepath.Join(Config.DataDirectory(), "log", "client.log")
}

func (cliconfig) EnsureConfigDirectory() error {
	configPath := Config.ConfigDirectory()
	if configPath == "" {
		return fmt.Errorf("failed to ensure panier config directory")
	}

	return os.MkdirAll(configPath, 0700)
}

func (cliconfig) EnsureDataDirectory() error {
	dataPath := Config.DataDirectory()
	if dataPath == "" {
		return fmt.Errorf("failed to ensure panier data directory")
	}

	return os.MkdirAll(dataPath, 0700)
}

// EnsureID writes a fresh ksuid to the named file of the data directory unless it exists.
func (cliconfig) EnsureID(name string) error {
	dataPath := Config.DataDirectory()
	if dataPath == "" {
		return fmt.Errorf("failed to ensure panier data directory")
	}

	idFile := filepath.Join(dataPath, name)
	if _, err := os.Stat(idFile); os.IsNotExist(err) {
		if err := os.WriteFile(idFile, []byte(ksuid.New().String()), 0600); err != nil {
			return fmt.Errorf("failed to create ID file: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check ID file: %w", err)
	}

	return nil
}

func (cliconfig) EnsureClientID() error {
	return Config.EnsureID(clientIDFile)
}

func (cliconfig) EnsureAgentID() error {
	return Config.EnsureID(agentIDFile)
}

func (cliconfig) ClientID() (string, error) {
	return Config.readID(clientIDFile)
}

func (cliconfig) AgentID() (string, error) {
	return Config.readID(agentIDFile)
}

func (cliconfig) readID(name string) (string, error) {
	dataPath := Config.DataDirectory()
	if dataPath == "" {
		return "", fmt.Errorf("failed to retrieve panier data directory")
	}

	data, err := os.ReadFile(filepath.Join(dataPath, name))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}
