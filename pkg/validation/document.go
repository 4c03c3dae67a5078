package validation

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	json "github.com/goccy/go-json"
)

//go:embed document_schema.yaml
var documentSchema []byte

const (
	nodeSchemaName = "Node"
	leafSchemaName = "Leaf"
)

// Issue represents a validation failure with its location inside the
// document.
type Issue struct {
	// Pointer is the JSON pointer of the offending value ("/children/1/props").
	Pointer string `json:"pointer,omitempty"`
	// Path is the dotted form used by schema errors ("children[1].props").
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Result captures validation outcomes.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Issues: append([]Issue(nil), r.Issues...)}
}

// Error bundles every issue found in one document.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return "validation: document is invalid"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path != "" {
			parts = append(parts, issue.Path+": "+issue.Message)
			continue
		}
		parts = append(parts, issue.Message)
	}
	return "validation: " + strings.Join(parts, "; ")
}

var (
	schemaOnce sync.Once
	schemas    contract
	schemasErr error
)

type contract struct {
	node *openapi3.Schema
	leaf *openapi3.Schema
}

func loadContract() (contract, error) {
	schemaOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(documentSchema)
		if err != nil {
			schemasErr = fmt.Errorf("validation: load document schema: %w", err)
			return
		}
		if doc.Components == nil {
			schemasErr = errors.New("validation: document schema has no components")
			return
		}
		lookup := func(name string) *openapi3.Schema {
			ref, ok := doc.Components.Schemas[name]
			if !ok || ref == nil || ref.Value == nil {
				schemasErr = fmt.Errorf("validation: schema %q missing", name)
				return nil
			}
			return ref.Value
		}
		schemas = contract{node: lookup(nodeSchemaName), leaf: lookup(leafSchemaName)}
	})
	return schemas, schemasErr
}

// ValidateDocument checks a parsed document (a single node or a list of nodes)
// against the schema document contract and reports every issue found, each
// located by JSON pointer. It is stricter than schema.Decode, which stops at
// the first problem.
func ValidateDocument(value any) Result {
	loaded, err := loadContract()
	if err != nil {
		return Result{Valid: false, Issues: []Issue{{Message: err.Error()}}}
	}

	normalized, err := normalize(value)
	if err != nil {
		return Result{Valid: false, Issues: []Issue{{Message: "validation: " + err.Error()}}}
	}

	v := &validator{contract: loaded}
	switch doc := normalized.(type) {
	case map[string]any:
		v.node(doc, nil)
	case []any:
		for idx, item := range doc {
			v.node(item, []string{strconv.Itoa(idx)})
		}
	default:
		v.issues = append(v.issues, Issue{Message: "document must be a schema node or a list of schema nodes"})
	}

	if len(v.issues) == 0 {
		return Result{Valid: true}
	}
	return Result{Valid: false, Issues: v.issues}
}

type validator struct {
	contract
	issues []Issue
}

func (v *validator) node(value any, pointer []string) {
	if err := v.contract.node.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		v.issues = collectIssues(err, pointer, v.issues)
		return
	}
	fields, ok := value.(map[string]any)
	if !ok {
		return
	}
	children := append(append([]string(nil), pointer...), "children")
	switch raw := fields["children"].(type) {
	case []any:
		for idx, child := range raw {
			v.child(child, append(append([]string(nil), children...), strconv.Itoa(idx)))
		}
	case map[string]any:
		v.node(raw, append(children, "0"))
	}
}

func (v *validator) child(value any, pointer []string) {
	if _, ok := value.(map[string]any); ok {
		v.node(value, pointer)
		return
	}
	if err := v.contract.leaf.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		v.issues = collectIssues(err, pointer, v.issues)
	}
}

// normalize round-trips value through JSON so YAML-specific map and integer
// types arrive as the generic JSON types the validator expects.
func normalize(value any) (any, error) {
	raw, err := json.Marshal(stringKeys(value))
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// stringKeys rewrites map[any]any trees (as produced by some YAML decoders)
// into map[string]any so they survive JSON encoding.
func stringKeys(value any) any {
	switch typed := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = stringKeys(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = stringKeys(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = stringKeys(item)
		}
		return out
	default:
		return value
	}
}

func collectIssues(err error, prefix []string, out []Issue) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, item := range multi {
			out = collectIssues(item, prefix, out)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := append(append([]string(nil), prefix...), schemaErr.JSONPointer()...)
		return append(out, Issue{
			Pointer: pointerString(pointer),
			Path:    dottedPath(pointer),
			Message: issueMessage(schemaErr),
		})
	}

	return append(out, Issue{
		Pointer: pointerString(prefix),
		Path:    dottedPath(prefix),
		Message: strings.TrimSpace(err.Error()),
	})
}

func issueMessage(err *openapi3.SchemaError) string {
	reason := strings.TrimSpace(err.Reason)
	if reason == "" {
		reason = strings.TrimSpace(err.Error())
	}
	if err.SchemaField != "" && !strings.Contains(reason, err.SchemaField) {
		return fmt.Sprintf("%s (%s)", reason, err.SchemaField)
	}
	return reason
}

func pointerString(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	escaped := make([]string, len(segments))
	for idx, segment := range segments {
		segment = strings.ReplaceAll(segment, "~", "~0")
		escaped[idx] = strings.ReplaceAll(segment, "/", "~1")
	}
	return "/" + strings.Join(escaped, "/")
}

// dottedPath renders pointer segments in the style of schema error paths:
// numeric segments become indexes, the rest are joined with dots.
func dottedPath(segments []string) string {
	var sb strings.Builder
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			sb.WriteString("[" + segment + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(segment)
	}
	return sb.String()
}
