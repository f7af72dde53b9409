package jsonex

import (
	"encoding/json"
	"fmt"
)

// DeserializeJsonBytes unmarshals a JSON response body into result
func DeserializeJsonBytes(bodyBytes []byte, result any) error {
	err := json.Unmarshal(bodyBytes, result)

	if err != nil {
		return fmt.Errorf("failed to deserialize the JSON response: %w", err)
	}

	return nil
}
