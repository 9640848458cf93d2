package models

// Category — таблица categories
type Category struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Product — таблица products. Category and owner are weak references:
// deleting either one nulls the column, the product stays.
type Product struct {
	Base
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ImagePath   string    `json:"image_path"` // relative path, e.g. "/uploads/abc123.jpg"
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Category    *Category `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Price       int       `gorm:"not null;check:price >= 0" json:"price"`
	OwnerID     *uint     `gorm:"index" json:"owner_id"`
	Owner       *User     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	IsPublished bool      `gorm:"not null;default:false" json:"is_published"`

	Versions []ProductVersion `gorm:"constraint:OnDelete:CASCADE" json:"versions,omitempty"`
}

// ProductVersion — версия продукта, удаляется вместе с ним.
// Nothing enforces a single active row per product; readers resolve
// the current one via catalog.ActiveVersionLabel.
type ProductVersion struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ProductID     uint   `gorm:"index;not null" json:"product_id"`
	VersionNumber uint16 `gorm:"not null" json:"version_number"`
	VersionName   string `gorm:"size:100;not null" json:"version_name"`
	IsActive      bool   `gorm:"not null;default:false" json:"is_active"`
}

// Contacts — single reference record, read by primary key 1.
type Contacts struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Country string `gorm:"size:100" json:"country"`
	Address string `gorm:"type:text" json:"address"`
	TaxID   string `gorm:"size:20;column:tax_id" json:"tax_id"`
}
