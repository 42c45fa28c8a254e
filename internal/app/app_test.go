package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/ans-operadoras/internal/config"
	"github.com/samvad-hq/ans-operadoras/internal/exporter"
	"github.com/samvad-hq/ans-operadoras/pkg/publishers"
)

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	return &config.Config{
		AppName:                "ans-operadoras",
		Env:                    "test",
		APIURL:                 apiURL,
		APITimeout:             2 * time.Second,
		ExportInterval:         time.Hour,
		ExportPageSize:         50,
		ExportDatasets:         []string{exporter.DatasetOperadoras},
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(t.TempDir(), "export.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}
}

func TestNewAPIUsesConfiguredBaseURL(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`["SP","RJ"]`))
	}))
	defer srv.Close()

	api, err := NewAPI(testConfig(t, srv.URL+"/api"), nil)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}
	resp, err := api.UFs(context.Background())
	if err != nil {
		t.Fatalf("UFs: %v", err)
	}
	if gotPath != "/api/operadoras/select_ufs" || gotAccept != "application/json" {
		t.Fatalf("unexpected request path=%q accept=%q", gotPath, gotAccept)
	}
	if string(resp.Body()) != `["SP","RJ"]` {
		t.Fatalf("unexpected body %s", resp.Body())
	}
}

func TestNewAPIRejectsRelativeBaseURL(t *testing.T) {
	if _, err := NewAPI(testConfig(t, "/api"), nil); err == nil {
		t.Fatalf("expected error for relative base url")
	}
}

func TestExporterPassPublishesToSinkOnce(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/operadoras/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"operadoras":[{"registro_operadora":"419761"}],"next_cursor":null}`))
	}))
	defer backend.Close()

	var mu sync.Mutex
	var received []publishers.Event
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.Event
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			t.Errorf("decode event: %v", err)
		}
		mu.Lock()
		received = append(received, evt)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer sink.Close()

	pubFile := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := "publishers:\n  - id: sink\n    type: http\n    http:\n      url: " + sink.URL + "\n"
	if err := os.WriteFile(pubFile, []byte(raw), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}

	cfg := testConfig(t, backend.URL+"/api")
	cfg.PublishersFile = pubFile

	e, err := NewExporter(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	defer e.close()

	for i := 0; i < 2; i++ {
		if err := e.runOnce(context.Background()); err != nil {
			t.Fatalf("runOnce #%d: %v", i, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("expected a single delivery across two passes, got %d", len(received))
	}
	if received[0].Key != "419761" || received[0].Kind != publishers.KindOperadora {
		t.Fatalf("unexpected event %#v", received[0])
	}
}

func TestNewExporterRequiresPublishers(t *testing.T) {
	cfg := testConfig(t, "http://localhost:8000/api")
	cfg.PublishersFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewExporter(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for missing publishers file")
	}
}
