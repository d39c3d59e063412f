package api

import (
	"github.com/tyha2404/nexo-app/internal/core"
	"github.com/tyha2404/nexo-app/internal/log"
)

// Sub-resource paths consumed by the domain clients.
const (
	CategoriesPath = "/categories"
	CostsPath      = "/costs"
)

// NewCategoryClient binds the generic resource client to /categories.
func NewCategoryClient(transport *Transport, logger *log.Logger) *Resource[core.Category] {
	return NewResource[core.Category](transport, CategoriesPath, logger)
}

// NewCostClient binds the generic resource client to /costs.
func NewCostClient(transport *Transport, logger *log.Logger) *Resource[core.Cost] {
	return NewResource[core.Cost](transport, CostsPath, logger)
}
