// Package jsontree navigates the deeply nested, schemaless arrays the
// Play frontend embeds in its pages and RPC responses.
package jsontree

import (
	"fmt"

	"github.com/buger/jsonparser"
)

// Lookup walks a decoded JSON value by a list of keys. An int key
// indexes an array, a string key indexes an object. It returns nil
// whenever the path does not exist or the shapes don't match.
func Lookup(obj any, path ...any) any {
	current := obj
	for _, key := range path {
		switch k := key.(type) {
		case int:
			arr, ok := current.([]any)
			if !ok || k < 0 || k >= len(arr) {
				return nil
			}
			current = arr[k]
		case string:
			m, ok := current.(map[string]any)
			if !ok {
				return nil
			}
			current = m[k]
		default:
			return nil
		}
	}
	return current
}

func String(obj any, path ...any) string {
	s, _ := Lookup(obj, path...).(string)
	return s
}

// Int64 truncates the float64 the json decoder produces for numbers.
func Int64(obj any, path ...any) int64 {
	switch v := Lookup(obj, path...).(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

func Float64(obj any, path ...any) float64 {
	f, _ := Lookup(obj, path...).(float64)
	return f
}

func Bool(obj any, path ...any) bool {
	b, _ := Lookup(obj, path...).(bool)
	return b
}

func Exists(obj any, path ...any) bool {
	return Lookup(obj, path...) != nil
}

// Raw indexes into raw JSON bytes by array positions without decoding
// the whole tree.
func Raw(data []byte, path ...int) ([]byte, error) {
	keys := make([]string, len(path))
	for i, idx := range path {
		keys[i] = fmt.Sprintf("[%d]", idx)
	}
	value, dataType, _, err := jsonparser.Get(data, keys...)
	if err != nil {
		return nil, err
	}
	if dataType == jsonparser.NotExist || dataType == jsonparser.Null {
		return nil, jsonparser.KeyPathNotFoundError
	}
	return value, nil
}

// RawString is Raw for string leaves, with escape sequences resolved.
func RawString(data []byte, path ...int) (string, error) {
	keys := make([]string, len(path))
	for i, idx := range path {
		keys[i] = fmt.Sprintf("[%d]", idx)
	}
	return jsonparser.GetString(data, keys...)
}
