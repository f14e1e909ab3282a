package main

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
)

// printOutput marshals v as indented JSON, optionally piping it through
// a jq filter expression first.
func printOutput(v interface{}, jqFilter string) error {
	if jqFilter == "" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	filtered, err := applyJQFilter(v, jqFilter)
	if err != nil {
		return err
	}
	for _, item := range filtered {
		data, err := json.MarshalIndent(item, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
	}
	return nil
}

// applyJQFilter runs a compiled jq expression over v (round-tripped
// through JSON so gojq sees plain maps) and collects the results.
func applyJQFilter(v interface{}, filter string) ([]interface{}, error) {
	query, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq filter %q: %w", filter, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq filter %q: %w", filter, err)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value for filtering: %w", err)
	}
	var plain interface{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, fmt.Errorf("failed to unmarshal value for filtering: %w", err)
	}

	var out []interface{}
	iter := code.Run(plain)
	for {
		item, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := item.(error); isErr {
			return nil, fmt.Errorf("jq filter error: %w", err)
		}
		out = append(out, item)
	}
	return out, nil
}
