package main

import (
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

const defaultGitExecutable = "git"

var defaultStorageRoot = path.Join(os.TempDir(), "copybara", "repos")

// GitConfig holds the settings for driving the git command line tool.
type GitConfig struct {
	// Executable is the path or name of the git tool, may rely on PATH
	Executable string `yaml:"executable"`

	// StorageRoot is the absolute path to the dir under which bare
	// mirrors are kept, one directory per escaped remote url
	StorageRoot string `yaml:"storage_root"`
}

// Config is the application configuration.
type Config struct {
	Git GitConfig `yaml:"git"`

	// Verbose additionally streams git output to the operator in real time
	Verbose bool `yaml:"verbose"`

	// MetricsNamespace enables checkout metrics collection when set
	MetricsNamespace string `yaml:"metrics_namespace"`
}

func parseConfigFile(path string) (*Config, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	conf := &Config{}
	if err := yaml.Unmarshal(yamlFile, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// applyDefaults fills in unset config fields
func applyDefaults(conf *Config) {
	if conf.Git.Executable == "" {
		conf.Git.Executable = defaultGitExecutable
	}
	if conf.Git.StorageRoot == "" {
		conf.Git.StorageRoot = defaultStorageRoot
	}
}
