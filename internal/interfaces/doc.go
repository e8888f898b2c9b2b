// Package interfaces documents the core abstractions used throughout the
// application and pins their implementations with compile-time checks.
//
// # Data Access Interfaces
//
//   - PublicationStore: storage surface of the import pipeline and the
//     citation key generator (internal/services/interfaces.go)
//   - TypeStore: type table lookups (internal/services/interfaces.go)
//
// # Adding a New Database Domain
//
// To add a new data domain:
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement interface methods
//
//  4. Add compile-time check:
//
//     var _ SomeInterface = (*Repository)(nil)
//
// This pattern catches missing methods at compile time rather than runtime.
// See checks.go for examples.
package interfaces
