// Package ansapi exposes one accessor per endpoint of the operadoras backend.
//
// Accessors issue exactly one request through the shared httpclient.Client
// handed to New and return the response untouched. On failure they log a
// single entry naming the endpoint and return the error they received,
// unwrapped. There is no retry, caching or deduplication.
package ansapi

import (
	"context"
	"errors"
	"strings"

	"github.com/samvad-hq/ans-operadoras/pkg/httpclient"
)

// ErrEmptyID is returned by single-resource accessors given a blank identifier.
var ErrEmptyID = errors.New("ansapi: empty resource identifier")

// Logger is the diagnostic sink accessors report failures to.
type Logger interface {
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) ErrorObj(string, string, interface{}) {}

type call func(ctx context.Context, id string, params Params, opts []Option) (httpclient.Response, error)

// API holds the accessors bound to a single client.
type API struct {
	client httpclient.Client
	log    Logger

	operadoras           call
	topDespesasTrimestre call
	topDespesasAno       call
	ufs                  call
	modalidades          call
	operadora            call
	demonstracoes        call
	descricoes           call
	trimestresEAnos      call
	demonstracao         call
}

// New binds every accessor to client. It performs no I/O.
func New(client httpclient.Client, log Logger) *API {
	if log == nil {
		log = noopLogger{}
	}
	a := &API{client: client, log: log}
	a.operadoras = a.accessor(EndpointOperadoras)
	a.topDespesasTrimestre = a.accessor(EndpointTopDespesasTrimestre)
	a.topDespesasAno = a.accessor(EndpointTopDespesasAno)
	a.ufs = a.accessor(EndpointUFs)
	a.modalidades = a.accessor(EndpointModalidades)
	a.operadora = a.accessor(EndpointOperadora)
	a.demonstracoes = a.accessor(EndpointDemonstracoes)
	a.descricoes = a.accessor(EndpointDescricoes)
	a.trimestresEAnos = a.accessor(EndpointTrimestresEAnos)
	a.demonstracao = a.accessor(EndpointDemonstracao)
	return a
}

// Client returns the shared client for ad-hoc calls.
func (a *API) Client() httpclient.Client { return a.client }

// accessor turns an endpoint descriptor into a call that logs and returns
// failures unchanged.
func (a *API) accessor(ep Endpoint) call {
	return func(ctx context.Context, id string, params Params, opts []Option) (httpclient.Response, error) {
		path := ep.Path
		if ep.Templated() {
			if strings.TrimSpace(id) == "" {
				a.logFailure(ep, path, id, ErrEmptyID)
				return nil, ErrEmptyID
			}
			path = ep.Resolve(id)
		}

		ro := httpclient.RequestOptions{Query: params.Values()}
		for _, opt := range opts {
			if opt != nil {
				opt(&ro)
			}
		}

		resp, err := a.client.Do(ctx, ep.Method, path, ro)
		if err != nil {
			a.logFailure(ep, path, id, err)
			return nil, err
		}
		return resp, nil
	}
}

func (a *API) logFailure(ep Endpoint, path, id string, err error) {
	a.log.ErrorObj(ep.failureMessage(id), "request_error", map[string]any{
		"endpoint": ep.Name,
		"path":     path,
		"error":    err.Error(),
	})
}

// ListOperadoras lists operators with filters and cursor pagination.
func (a *API) ListOperadoras(ctx context.Context, params Params, opts ...Option) (httpclient.Response, error) {
	return a.operadoras(ctx, "", params, opts)
}

// TopDespesasTrimestre returns the operators with the largest expenses in a quarter.
func (a *API) TopDespesasTrimestre(ctx context.Context, params Params, opts ...Option) (httpclient.Response, error) {
	return a.topDespesasTrimestre(ctx, "", params, opts)
}

// TopDespesasAno returns the operators with the largest expenses in a year.
func (a *API) TopDespesasAno(ctx context.Context, params Params, opts ...Option) (httpclient.Response, error) {
	return a.topDespesasAno(ctx, "", params, opts)
}

// UFs returns the distinct states operators are registered in.
func (a *API) UFs(ctx context.Context, opts ...Option) (httpclient.Response, error) {
	return a.ufs(ctx, "", nil, opts)
}

// Modalidades returns the distinct operator modalities.
func (a *API) Modalidades(ctx context.Context, opts ...Option) (httpclient.Response, error) {
	return a.modalidades(ctx, "", nil, opts)
}

// Operadora fetches a single operator by its ANS registration.
func (a *API) Operadora(ctx context.Context, registro string, opts ...Option) (httpclient.Response, error) {
	return a.operadora(ctx, registro, nil, opts)
}

// ListDemonstracoes lists financial statements with filters and cursor pagination.
func (a *API) ListDemonstracoes(ctx context.Context, params Params, opts ...Option) (httpclient.Response, error) {
	return a.demonstracoes(ctx, "", params, opts)
}

// Descricoes returns the distinct statement descriptions.
func (a *API) Descricoes(ctx context.Context, opts ...Option) (httpclient.Response, error) {
	return a.descricoes(ctx, "", nil, opts)
}

// TrimestresEAnos returns the distinct quarter/year pairs with statements.
func (a *API) TrimestresEAnos(ctx context.Context, opts ...Option) (httpclient.Response, error) {
	return a.trimestresEAnos(ctx, "", nil, opts)
}

// Demonstracao fetches a single financial statement by id.
func (a *API) Demonstracao(ctx context.Context, id string, opts ...Option) (httpclient.Response, error) {
	return a.demonstracao(ctx, id, nil, opts)
}
