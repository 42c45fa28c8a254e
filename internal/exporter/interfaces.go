package exporter

import (
	"context"

	"github.com/samvad-hq/ans-operadoras/pkg/ansapi"
	"github.com/samvad-hq/ans-operadoras/pkg/httpclient"
	"github.com/samvad-hq/ans-operadoras/pkg/publishers"
)

// Source is the subset of *ansapi.API the exporter pages through.
type Source interface {
	ListOperadoras(ctx context.Context, params ansapi.Params, opts ...ansapi.Option) (httpclient.Response, error)
	ListDemonstracoes(ctx context.Context, params ansapi.Params, opts ...ansapi.Option) (httpclient.Response, error)
}

// EventPublisher publishes records downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
