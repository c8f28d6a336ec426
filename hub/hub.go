package hub

import (
	"github.com/portseek/portseek/config"
	C "github.com/portseek/portseek/constant"
	"github.com/portseek/portseek/hub/route"
	"github.com/portseek/portseek/log"
)

type Option func(*config.Config)

func WithExternalController(externalController string) Option {
	return func(cfg *config.Config) {
		cfg.General.ExternalController = externalController
	}
}

func WithSecret(secret string) Option {
	return func(cfg *config.Config) {
		cfg.General.Secret = secret
	}
}

// Parse loads the default config file and applies it together with the
// given overrides.
func Parse(options ...Option) (*config.Config, error) {
	cfg, err := config.ParsePath(C.Path.Config())
	if err != nil {
		return nil, err
	}

	for _, option := range options {
		option(cfg)
	}

	ApplyConfig(cfg)
	return cfg, nil
}

// ApplyConfig dispatch configure to all parts
func ApplyConfig(cfg *config.Config) {
	log.SetLevel(cfg.General.LogLevel)

	if cfg.General.ExternalController != "" {
		go route.Start(cfg.General.ExternalController, cfg.General.Secret, cfg.Resolver.Options()...)
	}
}
