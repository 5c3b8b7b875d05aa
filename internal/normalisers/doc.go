// Package normalisers turns the records returned by external sources
// into Documents. Each source has its own subpackage with a pure
// Normalise function; Set bundles them behind driven.RecordNormaliser.
//
// Normalisers never guess: a record missing a required field is
// rejected with a *domain.NormalizationError, and optional fields are
// simply left out of the rendered content.
package normalisers
