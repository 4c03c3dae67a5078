// Package components provides ready-made element.Component kinds for use with
// registry.Registry: function components that expand into other element trees
// and template components that render their own HTML. Manifests describe a
// set of template components in YAML or JSON.
package components
