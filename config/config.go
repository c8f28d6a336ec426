package config

import (
	"fmt"
	"os"

	"github.com/portseek/portseek/component/ports"
	"github.com/portseek/portseek/log"

	"gopkg.in/yaml.v3"
)

// General config
type General struct {
	ExternalController string
	Secret             string
	LogLevel           log.LogLevel
}

// Resolver holds overrides for the per-platform port strategies
type Resolver struct {
	ProcRoot    string
	NetstatPath string
	LsofPath    string
}

// Options translates the overrides into strategy options
func (r *Resolver) Options() []ports.Option {
	var options []ports.Option
	if r.ProcRoot != "" {
		options = append(options, ports.WithProcRoot(r.ProcRoot))
	}
	if r.NetstatPath != "" {
		options = append(options, ports.WithNetstatPath(r.NetstatPath))
	}
	if r.LsofPath != "" {
		options = append(options, ports.WithLsofPath(r.LsofPath))
	}
	return options
}

type Config struct {
	General  *General
	Resolver *Resolver
}

type RawConfig struct {
	ExternalController string       `yaml:"external-controller"`
	Secret             string       `yaml:"secret"`
	LogLevel           log.LogLevel `yaml:"log-level"`
	ProcRoot           string       `yaml:"proc-root"`
	NetstatPath        string       `yaml:"netstat-path"`
	LsofPath           string       `yaml:"lsof-path"`
}

// Parse config
func Parse(buf []byte) (*Config, error) {
	rawCfg, err := UnmarshalRawConfig(buf)
	if err != nil {
		return nil, err
	}

	return &Config{
		General: &General{
			ExternalController: rawCfg.ExternalController,
			Secret:             rawCfg.Secret,
			LogLevel:           rawCfg.LogLevel,
		},
		Resolver: &Resolver{
			ProcRoot:    rawCfg.ProcRoot,
			NetstatPath: rawCfg.NetstatPath,
			LsofPath:    rawCfg.LsofPath,
		},
	}, nil
}

func UnmarshalRawConfig(buf []byte) (*RawConfig, error) {
	rawCfg := &RawConfig{
		LogLevel: log.INFO,
	}

	if err := yaml.Unmarshal(buf, rawCfg); err != nil {
		return nil, err
	}

	return rawCfg, nil
}

// ParsePath parse config from the given file
func ParsePath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, err
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(buf) == 0 {
		return nil, fmt.Errorf("configuration file %s is empty", path)
	}

	return Parse(buf)
}
