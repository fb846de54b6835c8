package token

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadList reads a JSON array of token records from path, preserving file
// order. An unreadable or malformed list is an error; callers treat it as
// fatal, unlike per-record download failures.
func LoadList(path string) ([]Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token list: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("failed to parse token list %s: %w", path, err)
	}

	return records, nil
}
