package tools

import (
	"encoding/json"
	"net/http"
)

func decodeJSONBody(resp *http.Response) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}
