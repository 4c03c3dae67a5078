package element

import "errors"

// ErrSkipChildren can be returned from a WalkFunc to skip the children of the
// current element.
var ErrSkipChildren = errors.New("element: skip children")

// WalkFunc is invoked for every *Element reached by Walk.
type WalkFunc func(el *Element, depth int) error

// Walk visits value depth-first. Slices are flattened, non-element values are
// ignored. Returning ErrSkipChildren skips the current subtree; any other
// error stops the walk and is returned.
func Walk(value any, fn WalkFunc) error {
	if fn == nil {
		return nil
	}
	return walk(value, 0, fn)
}

func walk(value any, depth int, fn WalkFunc) error {
	switch v := value.(type) {
	case *Element:
		if v == nil {
			return nil
		}
		if err := fn(v, depth); err != nil {
			if errors.Is(err, ErrSkipChildren) {
				return nil
			}
			return err
		}
		for _, child := range v.Children {
			if err := walk(child, depth+1, fn); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range v {
			if err := walk(item, depth, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Find returns the first element for which match returns true.
func Find(value any, match func(*Element) bool) *Element {
	var found *Element
	errFound := errors.New("found")
	_ = Walk(value, func(el *Element, _ int) error {
		if match(el) {
			found = el
			return errFound
		}
		return nil
	})
	return found
}
