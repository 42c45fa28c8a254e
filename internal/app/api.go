package app

import (
	"fmt"

	"github.com/samvad-hq/ans-operadoras/internal/config"
	"github.com/samvad-hq/ans-operadoras/internal/logger"
	"github.com/samvad-hq/ans-operadoras/pkg/ansapi"
	"github.com/samvad-hq/ans-operadoras/pkg/httpclient"
)

// NewAPI builds the process-wide HTTP client from cfg and binds the accessors to it.
func NewAPI(cfg *config.Config, log logger.Logger) (*ansapi.API, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	client, err := httpclient.NewRestyClient(httpclient.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.APITimeout,
		Headers: httpclient.DefaultHeaders(),
	})
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}
	log.DebugObj("api client ready", "api_client", map[string]any{
		"base_url":   client.BaseURL(),
		"timeout_ms": cfg.APITimeout.Milliseconds(),
	})

	return ansapi.New(client, log), nil
}
