package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/samvad-hq/ans-operadoras/pkg/ansapi"
	"github.com/samvad-hq/ans-operadoras/pkg/httpclient"
	"github.com/samvad-hq/ans-operadoras/pkg/publishers"
)

// Dataset names accepted in EXPORT_DATASETS.
const (
	DatasetOperadoras    = "operadoras"
	DatasetDemonstracoes = "demonstracoes"
)

type record struct {
	key     string
	payload json.RawMessage
}

type page struct {
	records []record
	next    string
	source  string
}

// dataset describes how to fetch and key one paginated listing.
type dataset struct {
	name  string
	kind  string
	fetch func(ctx context.Context, src Source, params ansapi.Params) (httpclient.Response, error)
	parse func(body []byte) ([]record, string, error)
}

func datasetFor(name string) (dataset, bool) {
	switch name {
	case DatasetOperadoras:
		return dataset{
			name: DatasetOperadoras,
			kind: publishers.KindOperadora,
			fetch: func(ctx context.Context, src Source, params ansapi.Params) (httpclient.Response, error) {
				return src.ListOperadoras(ctx, params)
			},
			parse: parseOperadorasPage,
		}, true
	case DatasetDemonstracoes:
		return dataset{
			name: DatasetDemonstracoes,
			kind: publishers.KindDemonstracao,
			fetch: func(ctx context.Context, src Source, params ansapi.Params) (httpclient.Response, error) {
				return src.ListDemonstracoes(ctx, params)
			},
			parse: parseDemonstracoesPage,
		}, true
	default:
		return dataset{}, false
	}
}

func parseOperadorasPage(body []byte) ([]record, string, error) {
	var raw struct {
		Operadoras []json.RawMessage `json:"operadoras"`
		NextCursor *string           `json:"next_cursor"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, "", fmt.Errorf("decode operadoras page: %w", err)
	}

	records := make([]record, 0, len(raw.Operadoras))
	for i, item := range raw.Operadoras {
		var k struct {
			RegistroOperadora string `json:"registro_operadora"`
		}
		if err := json.Unmarshal(item, &k); err != nil {
			return nil, "", fmt.Errorf("decode operadora %d: %w", i, err)
		}
		if k.RegistroOperadora == "" {
			return nil, "", fmt.Errorf("operadora %d has no registro_operadora", i)
		}
		records = append(records, record{key: k.RegistroOperadora, payload: item})
	}

	next := ""
	if raw.NextCursor != nil {
		next = *raw.NextCursor
	}
	return records, next, nil
}

func parseDemonstracoesPage(body []byte) ([]record, string, error) {
	var raw struct {
		Demonstracoes []json.RawMessage `json:"demonstracoes"`
		NextCursor    *int64            `json:"next_cursor"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, "", fmt.Errorf("decode demonstracoes page: %w", err)
	}

	records := make([]record, 0, len(raw.Demonstracoes))
	for i, item := range raw.Demonstracoes {
		var k struct {
			ID *int64 `json:"id"`
		}
		if err := json.Unmarshal(item, &k); err != nil {
			return nil, "", fmt.Errorf("decode demonstracao %d: %w", i, err)
		}
		if k.ID == nil {
			return nil, "", fmt.Errorf("demonstracao %d has no id", i)
		}
		records = append(records, record{key: strconv.FormatInt(*k.ID, 10), payload: item})
	}

	next := ""
	if raw.NextCursor != nil {
		next = strconv.FormatInt(*raw.NextCursor, 10)
	}
	return records, next, nil
}
