package handlers

import "errors"

// Validation limits.
const (
	MaxEmailLength    = 254
	MaxPasswordLength = 128
	MaxBodyBytes      = 1 << 20
)

var errNotString = errors.New("must be a string")

// takeString removes key from body and returns its value. present is false when the key is
// absent; a present non-string value is an error. Values are not trimmed or case folded.
func takeString(body map[string]any, key string) (value string, present bool, err error) {
	raw, ok := body[key]
	if !ok {
		return "", false, nil
	}
	delete(body, key)
	s, ok := raw.(string)
	if !ok {
		return "", true, errNotString
	}
	return s, true, nil
}
