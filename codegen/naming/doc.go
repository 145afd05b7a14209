// Package naming contains the naming conventions shared by the torchgen
// generators.
//
// The functions in this package centralize generated identifiers (module
// attributes, output symbols, class names) so identical graphs always yield
// identical generated source.
package naming
