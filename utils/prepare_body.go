package utils

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// PrepareBody encodes body for the wire and returns the matching content type.
// An empty body encodes to nothing so GET and DELETE calls do not carry "{}".
func PrepareBody(body map[string]interface{}, bodyType string) ([]byte, string, error) {
	if len(body) == 0 {
		return nil, "", nil
	}

	switch strings.ToLower(strings.TrimSpace(bodyType)) {
	case "", ContentTypeJSON:
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}
		return buf, ContentTypeJSON, nil
	case ContentTypeForm:
		return []byte(encodeForm(body).Encode()), ContentTypeForm, nil
	default:
		return nil, "", fmt.Errorf("unsupported body_type: %s", bodyType)
	}
}

// encodeForm repeats a key for every element of a slice value and drops nil values.
func encodeForm(body map[string]interface{}) url.Values {
	vals := url.Values{}
	for k, v := range body {
		switch tv := v.(type) {
		case nil:
		case []string:
			for _, s := range tv {
				vals.Add(k, s)
			}
		case []interface{}:
			for _, item := range tv {
				vals.Add(k, fmt.Sprint(item))
			}
		default:
			vals.Set(k, fmt.Sprint(tv))
		}
	}
	return vals
}
