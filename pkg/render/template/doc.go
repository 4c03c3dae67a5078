// Package template defines the renderer-agnostic template contract used by
// template-backed components. The pongo subpackage provides the default
// engine.
package template
