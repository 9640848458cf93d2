package catalog

import (
	"context"

	"gorm.io/gorm"

	"naomitex/internal/models"
)

// VersionLabelNew is shown for products without an active version.
const VersionLabelNew = "New"

// ActiveVersionLabel resolves a product's display label from its version
// rows: the most recently created active version wins. More than one active
// row per product is possible (nothing enforces uniqueness), so the
// tie-break is the greatest primary key, not the version number.
func ActiveVersionLabel(versions []models.ProductVersion) string {
	var label string
	var lastID uint
	for _, v := range versions {
		if v.IsActive && v.ID >= lastID {
			lastID = v.ID
			label = v.VersionName
		}
	}
	if label == "" {
		return VersionLabelNew
	}
	return label
}

// ProductView is a product annotated with its resolved version label.
type ProductView struct {
	models.Product
	ActiveVersion string `json:"active_version"`
}

// attachVersionLabels resolves labels for a whole product set with a single
// query, grouping in memory instead of querying per row.
func attachVersionLabels(ctx context.Context, db *gorm.DB, products []models.Product) ([]ProductView, error) {
	views := make([]ProductView, 0, len(products))
	if len(products) == 0 {
		return views, nil
	}

	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	var versions []models.ProductVersion
	err := db.WithContext(ctx).
		Where("product_id IN ? AND is_active = ?", ids, true).
		Order("id ASC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}

	// Ascending id order means the last write per product wins.
	active := make(map[uint]string, len(versions))
	for _, v := range versions {
		active[v.ProductID] = v.VersionName
	}

	for _, p := range products {
		label, ok := active[p.ID]
		if !ok {
			label = VersionLabelNew
		}
		views = append(views, ProductView{Product: p, ActiveVersion: label})
	}
	return views, nil
}
