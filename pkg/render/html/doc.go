// Package html serialises converted element trees to HTML markup. It is an
// output adapter for trees built with element.Create: no diffing, hydration or
// event wiring is attempted.
package html
