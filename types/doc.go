// Package types contains the core types and interfaces shared between the
// root leader package and its subpackages.
//
// Keeping these definitions in a leaf package lets store implementations and
// internal packages depend on them without importing the root package, which
// would otherwise create an import cycle. Users normally import the root
// package, which re-exports this surface via type aliases, plus one store
// implementation package.
package types
