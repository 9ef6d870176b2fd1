// Package shell contains the infrastructure shared by the movie library's feature slices:
// the command and query contracts, field validation, error classification and
// the observability helpers used by the handler wrappers.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
