package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/ans-operadoras/internal/config"
	"github.com/samvad-hq/ans-operadoras/pkg/ansapi"
	"github.com/samvad-hq/ans-operadoras/pkg/httpclient"
)

// runtime carries what every command needs.
type runtime struct {
	ctx context.Context
	cfg *config.Config
	api *ansapi.API
	out io.Writer
	raw bool
}

// print writes the response body, indented unless raw output was requested
// or the body is not JSON.
func (rt *runtime) print(resp httpclient.Response) error {
	return rt.write(resp.Body())
}

func (rt *runtime) write(body []byte) error {
	if !rt.raw {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			buf.WriteByte('\n')
			_, err := rt.out.Write(buf.Bytes())
			return err
		}
	}
	if _, err := rt.out.Write(body); err != nil {
		return err
	}
	_, err := io.WriteString(rt.out, "\n")
	return err
}

// paramFlags collects repeated --param key=value flags.
type paramFlags struct {
	Param []string `short:"p" placeholder:"KEY=VALUE" help:"Query parameter; repeat for several keys or values."`
}

// params converts the flags into accessor params. Repeated keys become lists.
func (f paramFlags) params() (ansapi.Params, error) {
	if len(f.Param) == 0 {
		return nil, nil
	}
	grouped := make(map[string][]string, len(f.Param))
	for _, kv := range f.Param {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q (expected KEY=VALUE)", kv)
		}
		grouped[key] = append(grouped[key], value)
	}

	p := make(ansapi.Params, len(grouped))
	for k, vs := range grouped {
		if len(vs) == 1 {
			p[k] = vs[0]
			continue
		}
		p[k] = vs
	}
	return p, nil
}

// merge overlays typed params onto the --param ones.
func merge(base, typed ansapi.Params) ansapi.Params {
	if base == nil {
		base = ansapi.Params{}
	}
	for k, v := range typed {
		base[k] = v
	}
	return base
}
