package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const maxSnippetBytes = 512

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
	URL        string
	// Detail is the backend's "detail" message when the body carries one.
	Detail   string
	Body     []byte
	Response Response
}

func newStatusError(resp Response) *StatusError {
	body := resp.Body()
	return &StatusError{
		StatusCode: resp.StatusCode(),
		URL:        resp.URL(),
		Detail:     parseDetail(body),
		Body:       body,
		Response:   resp,
	}
}

func (e *StatusError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = bodySnippet(e.Body)
	}
	if msg == "" {
		return fmt.Sprintf("http status %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("http status %d from %s: %s", e.StatusCode, e.URL, msg)
}

// parseDetail extracts {"detail": ...}. Validation errors carry a list, which
// is returned compacted.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil || len(payload.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload.Detail); err != nil {
		return ""
	}
	return buf.String()
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetBytes {
		return s[:maxSnippetBytes] + "..."
	}
	return s
}
