package main

import (
	"opsflow/internal/common/config"
	"opsflow/internal/common/logger"
	"opsflow/internal/common/metrics"
	"opsflow/internal/common/observability"
	"opsflow/internal/gateway/dispatcher"
	"opsflow/internal/gateway/proxyclient"
)

// newDispatcher wires the proxy client and telemetry observers from configuration.
// The returned func releases telemetry resources.
func newDispatcher(cfg *config.Config, log logger.Logger) (*dispatcher.Dispatcher, func()) {
	client := proxyclient.New(proxyclient.Config{
		RemoteURL: cfg.Gateway.RemoteURL,
		Timeout:   config.GetDuration(cfg.Gateway.Timeout),
	}, log)

	var observers []dispatcher.Observer
	cleanup := func() {}

	if cfg.Metrics.Enabled {
		observers = append(observers, metrics.NewRemoteObserver())

		obs, err := observability.New(cfg.App.Name)
		if err != nil {
			log.Warn("OpenTelemetry exporter unavailable", map[string]interface{}{"error": err})
		} else {
			observers = append(observers, obs)
			cleanup = obs.Shutdown
		}
	}

	if cfg.Gateway.RemoteURL == "" {
		log.Warn("gateway.remote_url is not set; running in standard local mode", nil)
	}

	d := dispatcher.New(client, &dispatcher.Config{ModelID: cfg.Gateway.ModelID}, log, observers...)
	return d, cleanup
}
