package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/bruecksen/publications/internal/database/publications"
	"github.com/bruecksen/publications/internal/database/types"
	"github.com/bruecksen/publications/internal/services"
)

// PublicationStore implementations
var _ services.PublicationStore = (*publications.Repository)(nil)

// TypeStore implementations
var _ services.TypeStore = (*types.Repository)(nil)
