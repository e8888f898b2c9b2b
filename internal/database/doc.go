// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, type table seeding
//	├── publications/    # Publication CRUD, equivalence matching, citekeys
//	└── types/           # Publication type table lookups
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./publications.db", "")
//
//	// Create domain-specific repositories
//	pubsRepo := publications.NewRepository(db.DB)
//	typesRepo := types.NewRepository(db.DB)
//
//	// Use repositories
//	pub, err := pubsRepo.GetByID(123)
//	typ, err := typesRepo.ResolveAlias("inproceedings")
//
// Repositories wrap whatever handle they are given, so code running inside a
// transaction constructs them around the transaction handle:
//
//	db.DB.Transaction(func(tx *gorm.DB) error {
//		repo := publications.NewRepository(tx)
//		...
//	})
//
// # Interface Implementations
//
//   - publications.Repository: implements services.PublicationStore
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the required interface
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
