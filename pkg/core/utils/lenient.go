package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ErrUnparseable is returned when no parsing strategy accepts the payload.
var ErrUnparseable = errors.New("payload could not be parsed")

// RepairJSON fixes the usual damage in hand-edited or model-written JSON:
// single quotes, unquoted keys, trailing commas, comments, code fences and
// unclosed brackets.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("repair json: %w", err)
	}
	return repaired, nil
}

// ParseHJSON converts Hjson (comments, unquoted keys and strings, optional
// commas) into standard JSON.
func ParseHJSON(data string) (string, error) {
	var v interface{}
	if err := hjson.Unmarshal([]byte(data), &v); err != nil {
		return "", fmt.Errorf("parse hjson: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal hjson result: %w", err)
	}
	return string(out), nil
}

// ParseLenient decodes input into out, trying strict JSON, then Hjson,
// then repaired JSON. It returns the JSON text that finally decoded.
// Scenario and threshold overrides arrive through here, so operators can
// paste commented or slightly broken payloads.
func ParseLenient(input string, out interface{}) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty input", ErrUnparseable)
	}

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return input, nil
	}

	if hj, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(hj), out); err == nil {
			return hj, nil
		}
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), out); err == nil {
			return repaired, nil
		}
	}

	return "", ErrUnparseable
}
