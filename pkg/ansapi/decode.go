package ansapi

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samvad-hq/ans-operadoras/pkg/httpclient"
)

// Decode unmarshals the JSON body of resp into T.
func Decode[T any](resp httpclient.Response) (T, error) {
	var out T
	if resp == nil {
		return out, errors.New("decode: nil response")
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", resp.URL(), err)
	}
	return out, nil
}
