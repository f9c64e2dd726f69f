package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the HTTP endpoint address used by the client.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientCron holds the shared secret the cron binary presents to the trigger
// endpoint.
type ClientCron struct {
	// Token is the shared cron secret.
	Token string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig]. It is consumed by the cron trigger binary and the
// operator console.
type ClientConfig struct {
	// Adapter contains client transport addresses and timeouts.
	Adapter ClientAdapter
	// Cron contains the shared trigger secret.
	Cron ClientCron
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It merges all configuration sources, maps only the fields relevant to the
// client binaries, and validates the resulting [ClientConfig]. Server-side
// invariants (DSN, signing keys) are deliberately not enforced here.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := getMergedConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Cron: ClientCron{Token: cfg.Cron.Token},
	}

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" {
		return ErrMissingAdapterAddress
	}

	return nil
}
