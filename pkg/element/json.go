package element

import (
	"reflect"

	json "github.com/goccy/go-json"
)

type elementJSON struct {
	Type      string `json:"type"`
	Component bool   `json:"component,omitempty"`
	Key       string `json:"key,omitempty"`
	Props     Props  `json:"props,omitempty"`
	Children  []any  `json:"children,omitempty"`
}

// MarshalJSON encodes the element as {type, component, key, props, children}.
// Function-valued props are dropped.
func (e *Element) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	return json.Marshal(elementJSON{
		Type:      e.Type.Name(),
		Component: e.Type.IsComponent(),
		Key:       e.Key,
		Props:     encodableProps(e.Props),
		Children:  e.Children,
	})
}

func encodableProps(props Props) Props {
	if len(props) == 0 {
		return nil
	}
	out := make(Props, len(props))
	for name, value := range props {
		if isFunc(value) {
			continue
		}
		out[name] = value
	}
	return out
}

func isFunc(value any) bool {
	if value == nil {
		return false
	}
	return reflect.TypeOf(value).Kind() == reflect.Func
}
