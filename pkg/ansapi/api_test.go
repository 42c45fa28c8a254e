package ansapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/ans-operadoras/pkg/httpclient"
)

// stubResponse implements httpclient.Response.
type stubResponse struct {
	body   []byte
	status int
	url    string
}

func (s *stubResponse) Body() []byte        { return s.body }
func (s *stubResponse) StatusCode() int     { return s.status }
func (s *stubResponse) Header() http.Header { return http.Header{} }
func (s *stubResponse) URL() string         { return s.url }

type recordedCall struct {
	method string
	path   string
	opts   httpclient.RequestOptions
}

// fakeClient records calls and replies with a fixed response or error.
type fakeClient struct {
	mu    sync.Mutex
	calls []recordedCall
	resp  httpclient.Response
	err   error
}

func (f *fakeClient) Do(_ context.Context, method, path string, opts httpclient.RequestOptions) (httpclient.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{method: method, path: path, opts: opts})
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeClient) lastCall(t *testing.T) recordedCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatalf("client was not called")
	}
	return f.calls[len(f.calls)-1]
}

type logEntry struct {
	msg string
	key string
	obj interface{}
}

// recordingLogger captures ErrorObj calls.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (r *recordingLogger) ErrorObj(msg, key string, obj interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{msg: msg, key: key, obj: obj})
}

type accessorCase struct {
	endpoint Endpoint
	path     string
	invoke   func(ctx context.Context, a *API) (httpclient.Response, error)
}

func accessorCases() []accessorCase {
	params := Params{"limit": 10}
	return []accessorCase{
		{EndpointOperadoras, "/operadoras/", func(ctx context.Context, a *API) (httpclient.Response, error) {
			return a.ListOperadoras(ctx, params)
		}},
		{EndpointTopDespesasTrimestre, "/operadoras/maiores_despesas_trimestre", func(ctx context.Context, a *API) (httpclient.Response, error) {
			return a.TopDespesasTrimestre(ctx, params)
		}},
		{EndpointTopDespesasAno, "/operadoras/maiores_despesas_ano", func(ctx context.Context, a *API) (httpclient.Response, error) {
			return a.TopDespesasAno(ctx, params)
		}},
		{EndpointUFs, "/operadoras/select_ufs", func(ctx context.Context, a *API) (httpclient.Response, error) {
			return a.UFs(ctx)
		}},
		{EndpointModalidades, "/operadoras/select_modalidades", func(ctx context.Context, a *API) (httpclient.Response, error) {
			return a.Modalidades(ctx)
		}},
		{EndpointOperadora, "/operadoras/12345", func(ctx context.Context, a *API) (httpclient.Response, error) {
			return a.Operadora(ctx, "12345")
		}},
		{EndpointDemonstracoes, "/demonstracoes/", func(ctx context.Context, a *API) (httpclient.Response, error) {
			return a.ListDemonstracoes(ctx, params)
		}},
		{EndpointDescricoes, "/demonstracoes/select_descricoes", func(ctx context.Context, a *API) (httpclient.Response, error) {
			return a.Descricoes(ctx)
		}},
		{EndpointTrimestresEAnos, "/demonstracoes/select_trimestres_e_anos", func(ctx context.Context, a *API) (httpclient.Response, error) {
			return a.TrimestresEAnos(ctx)
		}},
		{EndpointDemonstracao, "/demonstracoes/42", func(ctx context.Context, a *API) (httpclient.Response, error) {
			return a.Demonstracao(ctx, "42")
		}},
	}
}

func TestAccessorsCoverEveryEndpoint(t *testing.T) {
	cases := accessorCases()
	if len(cases) != len(Endpoints()) {
		t.Fatalf("expected %d accessor cases, got %d", len(Endpoints()), len(cases))
	}
}

func TestAccessorsReturnResponseVerbatim(t *testing.T) {
	for _, tc := range accessorCases() {
		t.Run(tc.endpoint.Name, func(t *testing.T) {
			want := &stubResponse{body: []byte(`{"ok":true}`), status: http.StatusOK}
			client := &fakeClient{resp: want}
			log := &recordingLogger{}
			api := New(client, log)

			got, err := tc.invoke(context.Background(), api)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != want {
				t.Fatalf("response was not returned verbatim")
			}
			call := client.lastCall(t)
			if call.method != http.MethodGet {
				t.Fatalf("method = %s", call.method)
			}
			if call.path != tc.path {
				t.Fatalf("path = %q, want %q", call.path, tc.path)
			}
			if len(client.calls) != 1 {
				t.Fatalf("expected exactly one request, got %d", len(client.calls))
			}
			if len(log.entries) != 0 {
				t.Fatalf("expected no log entries on success, got %d", len(log.entries))
			}
		})
	}
}

func TestAccessorsPropagateErrorAndLogOnce(t *testing.T) {
	for _, tc := range accessorCases() {
		t.Run(tc.endpoint.Name, func(t *testing.T) {
			sentinel := errors.New("connection refused")
			client := &fakeClient{err: sentinel}
			log := &recordingLogger{}
			api := New(client, log)

			resp, err := tc.invoke(context.Background(), api)
			if err != sentinel {
				t.Fatalf("expected the original error value, got %v", err)
			}
			if resp != nil {
				t.Fatalf("expected nil response on failure")
			}
			if len(log.entries) != 1 {
				t.Fatalf("expected exactly one log entry, got %d", len(log.entries))
			}
			fields, ok := log.entries[0].obj.(map[string]any)
			if !ok {
				t.Fatalf("unexpected log payload %#v", log.entries[0].obj)
			}
			if fields["endpoint"] != tc.endpoint.Name {
				t.Fatalf("log endpoint = %v, want %s", fields["endpoint"], tc.endpoint.Name)
			}
			if fields["error"] != sentinel.Error() {
				t.Fatalf("log error = %v", fields["error"])
			}
			if log.entries[0].msg == "" {
				t.Fatalf("expected a human-readable message")
			}
		})
	}
}

func TestSingleResourceMessagesNameTheIdentifier(t *testing.T) {
	client := &fakeClient{err: errors.New("boom")}
	log := &recordingLogger{}
	api := New(client, log)

	_, _ = api.Operadora(context.Background(), "12345")
	if len(log.entries) != 1 || !strings.Contains(log.entries[0].msg, "12345") {
		t.Fatalf("expected message naming the registro, got %#v", log.entries)
	}
}

func TestSingleResourceSubstitutesIDLiterally(t *testing.T) {
	client := &fakeClient{resp: &stubResponse{status: http.StatusOK}}
	api := New(client, nil)

	if _, err := api.Operadora(context.Background(), "12345"); err != nil {
		t.Fatalf("Operadora: %v", err)
	}
	if got := client.lastCall(t).path; got != "/operadoras/12345" {
		t.Fatalf("path = %q", got)
	}

	if _, err := api.Demonstracao(context.Background(), "a b"); err != nil {
		t.Fatalf("Demonstracao: %v", err)
	}
	if got := client.lastCall(t).path; got != "/demonstracoes/a b" {
		t.Fatalf("path = %q", got)
	}
}

func TestSingleResourceRejectsEmptyID(t *testing.T) {
	client := &fakeClient{resp: &stubResponse{status: http.StatusOK}}
	log := &recordingLogger{}
	api := New(client, log)

	_, err := api.Operadora(context.Background(), "  ")
	if !errors.Is(err, ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Fatalf("no request should be issued for an empty id")
	}
	if len(log.entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(log.entries))
	}
}

func TestListForwardsParamsUnmodified(t *testing.T) {
	client := &fakeClient{resp: &stubResponse{status: http.StatusOK}}
	api := New(client, nil)

	if _, err := api.ListOperadoras(context.Background(), Params{"uf": "SP", "page": 2}); err != nil {
		t.Fatalf("ListOperadoras: %v", err)
	}
	q := client.lastCall(t).opts.Query
	if q.Get("uf") != "SP" || q.Get("page") != "2" || len(q) != 2 {
		t.Fatalf("unexpected query %v", q)
	}
	if got := q.Encode(); got != "page=2&uf=SP" {
		t.Fatalf("encoded query = %q", got)
	}
}

func TestOptionsApplyAfterParams(t *testing.T) {
	client := &fakeClient{resp: &stubResponse{status: http.StatusOK}}
	api := New(client, nil)

	_, err := api.ListDemonstracoes(context.Background(),
		Params{"ano": 2023, "limit": 10},
		WithQuery("limit", "50"),
		WithHeader("X-Request-ID", "abc"),
	)
	if err != nil {
		t.Fatalf("ListDemonstracoes: %v", err)
	}
	call := client.lastCall(t)
	if call.opts.Query.Get("limit") != "50" || call.opts.Query.Get("ano") != "2023" {
		t.Fatalf("unexpected query %v", call.opts.Query)
	}
	if call.opts.Headers["X-Request-ID"] != "abc" {
		t.Fatalf("missing header: %#v", call.opts.Headers)
	}
}

func TestAllAccessorsShareTheInjectedClient(t *testing.T) {
	client := &fakeClient{resp: &stubResponse{status: http.StatusOK}}
	api := New(client, nil)
	if len(client.calls) != 0 {
		t.Fatalf("New must not perform requests")
	}
	if api.Client() != client {
		t.Fatalf("Client() should expose the injected client")
	}

	for _, tc := range accessorCases() {
		if _, err := tc.invoke(context.Background(), api); err != nil {
			t.Fatalf("%s: %v", tc.endpoint.Name, err)
		}
	}
	if len(client.calls) != len(Endpoints()) {
		t.Fatalf("expected every accessor to go through the shared client, got %d calls", len(client.calls))
	}
}

// gatedClient blocks requests for one path until released.
type gatedClient struct {
	blockPath string
	release   chan struct{}
}

func (g *gatedClient) Do(ctx context.Context, _ string, path string, _ httpclient.RequestOptions) (httpclient.Response, error) {
	if path == g.blockPath {
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &stubResponse{status: http.StatusOK, url: path}, nil
}

func TestConcurrentAccessorsDoNotBlockEachOther(t *testing.T) {
	client := &gatedClient{blockPath: EndpointUFs.Path, release: make(chan struct{})}
	api := New(client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ufsDone := make(chan error, 1)
	go func() {
		_, err := api.UFs(ctx)
		ufsDone <- err
	}()

	// Modalidades completes while UFs is still outstanding.
	resp, err := api.Modalidades(ctx)
	if err != nil {
		t.Fatalf("Modalidades: %v", err)
	}
	if resp.URL() != EndpointModalidades.Path {
		t.Fatalf("unexpected response for %s", resp.URL())
	}
	select {
	case <-ufsDone:
		t.Fatalf("UFs should still be pending")
	default:
	}

	close(client.release)
	if err := <-ufsDone; err != nil {
		t.Fatalf("UFs: %v", err)
	}
}

func TestAccessorHonoursCallerCancellation(t *testing.T) {
	client := &gatedClient{blockPath: EndpointUFs.Path, release: make(chan struct{})}
	log := &recordingLogger{}
	api := New(client, log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.UFs(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(log.entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(log.entries))
	}
}

func TestAccessorsAgainstRestyClient(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if strings.HasSuffix(r.URL.Path, "/999999") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"operadoras":[],"next_cursor":null}`))
	}))
	defer srv.Close()

	client, err := httpclient.NewRestyClient(httpclient.Options{
		BaseURL: srv.URL + "/api",
		Timeout: 2 * time.Second,
		Headers: httpclient.DefaultHeaders(),
	})
	if err != nil {
		t.Fatalf("NewRestyClient: %v", err)
	}
	log := &recordingLogger{}
	api := New(client, log)

	resp, err := api.ListOperadoras(context.Background(), Params{"uf": "SP", "page": 2})
	if err != nil {
		t.Fatalf("ListOperadoras: %v", err)
	}
	if gotPath != "/api/operadoras/" || gotQuery != "page=2&uf=SP" {
		t.Fatalf("request = %s?%s", gotPath, gotQuery)
	}
	if string(resp.Body()) != `{"operadoras":[],"next_cursor":null}` {
		t.Fatalf("unexpected body %s", resp.Body())
	}

	_, err = api.Operadora(context.Background(), "999999")
	var statusErr *httpclient.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
	if len(log.entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(log.entries))
	}
}
