package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Decode validates a generic value, as produced by JSON/YAML decoders or
// built by hand from map[string]any, and returns its typed form. Falsy inputs
// (nil, false, "", numeric zero) decode to a nil Value. The input is never
// modified.
func Decode(raw any) (Value, error) {
	return decodeAt(raw, "")
}

// DecodeList decodes a sequence of schema positions. A non-sequence input is
// rejected with a ShapeError.
func DecodeList(raw any) ([]Value, error) {
	items, ok := asSequence(raw)
	if !ok {
		return nil, NewShapeError("", raw, "expected a sequence of schema nodes")
	}
	out := make([]Value, len(items))
	for idx, item := range items {
		value, err := decodeAt(item, indexPath("", idx))
		if err != nil {
			return nil, err
		}
		out[idx] = value
	}
	return out, nil
}

// IsFalsy reports whether raw counts as an absent schema position.
func IsFalsy(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case json.Number:
		f, err := v.Float64()
		return err == nil && (f == 0 || math.IsNaN(f))
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// IsNumber reports whether raw is a Go numeric value or a json.Number.
func IsNumber(raw any) bool {
	if _, ok := raw.(json.Number); ok {
		return true
	}
	if raw == nil {
		return false
	}
	switch reflect.ValueOf(raw).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func decodeAt(raw any, path string) (Value, error) {
	if IsFalsy(raw) {
		return nil, nil
	}

	switch v := raw.(type) {
	case string:
		return Text(v), nil
	case Leaf:
		if IsFalsy(v.Raw) {
			return nil, nil
		}
		if _, ok := v.Raw.(string); !ok && !IsNumber(v.Raw) {
			return nil, NewShapeError(path, v.Raw, "")
		}
		return v, nil
	case Rendered:
		return v, nil
	case *Node:
		if err := v.ValidateAt(path); err != nil {
			return nil, err
		}
		return v.Normalized(), nil
	case Node:
		if err := v.ValidateAt(path); err != nil {
			return nil, err
		}
		return v.Normalized(), nil
	}

	if IsNumber(raw) {
		return Number(raw), nil
	}

	fields, ok := asMapping(raw)
	if !ok {
		return nil, NewShapeError(path, raw, "")
	}
	return decodeNode(fields, path)
}

func decodeNode(fields map[string]any, path string) (*Node, error) {
	baseType, ok := fields[fieldBaseType].(string)
	baseType = strings.TrimSpace(baseType)
	if !ok || baseType == "" {
		return nil, &ValidationError{Path: path, Field: fieldBaseType, Message: msgBaseType}
	}

	node := &Node{BaseType: baseType}

	if rawProps, present := fields[fieldProps]; present && rawProps != nil {
		props, ok := asMapping(rawProps)
		if !ok {
			return nil, &ValidationError{Path: joinPath(path, fieldProps), Field: fieldProps, Message: msgProps}
		}
		node.Props = cloneProps(props)
	}

	if rawKey, present := fields["key"]; present {
		node.Key = formatKey(rawKey)
	}

	rawChildren := fields["children"]
	if IsFalsy(rawChildren) {
		return node, nil
	}

	childPath := joinPath(path, "children")
	items, isSeq := asSequence(rawChildren)
	if !isSeq {
		child, err := decodeAt(rawChildren, indexPath(childPath, 0))
		if err != nil {
			return nil, err
		}
		node.Children = []Value{child}
		return node, nil
	}

	node.Children = make([]Value, len(items))
	for idx, item := range items {
		child, err := decodeAt(item, indexPath(childPath, idx))
		if err != nil {
			return nil, err
		}
		node.Children[idx] = child
	}
	return node, nil
}

func formatKey(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return fmt.Sprint(raw)
}

// asMapping accepts map[string]any directly and any other map whose keys are
// strings (map[any]any from YAML, map[string]string, ...).
func asMapping(raw any) (map[string]any, bool) {
	if m, ok := raw.(map[string]any); ok {
		return m, true
	}
	if m, ok := raw.(map[any]any); ok {
		out := make(map[string]any, len(m))
		for key, value := range m {
			name, isString := key.(string)
			if !isString {
				return nil, false
			}
			out[name] = value
		}
		return out, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func asSequence(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []Value:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = item
		}
		return out, true
	case []*Node:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = item
		}
		return out, true
	case string, []byte:
		return nil, false
	}

	if raw == nil {
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for idx := range out {
		out[idx] = rv.Index(idx).Interface()
	}
	return out, true
}

// AsMapping exposes the mapping coercion used by Decode for callers that need
// to branch on input shape before decoding.
func AsMapping(raw any) (map[string]any, bool) {
	return asMapping(raw)
}

// AsSequence exposes the sequence coercion used by Decode.
func AsSequence(raw any) ([]any, bool) {
	return asSequence(raw)
}
