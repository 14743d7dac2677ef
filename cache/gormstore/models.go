package gormstore

import "github.com/dailyyoga/productcache/db"

// DefaultSchema is the name the product store schema is registered under
const DefaultSchema = "ProductStore"

// Snapshot is the parent row of a stored snapshot; at most one exists
type Snapshot struct {
	ID uint `gorm:"primaryKey"`
	// Seconds and Nanos hold the snapshot time as time.Unix(Seconds, Nanos)
	Seconds int64    `gorm:"not null"`
	Nanos   int      `gorm:"not null"`
	Records []Record `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
}

// Record is one cached product, owned by a Snapshot
type Record struct {
	ID         uint `gorm:"primaryKey"`
	SnapshotID uint `gorm:"not null;index"`
	// Position keeps the insertion order of the snapshot
	Position    int    `gorm:"not null"`
	ProductID   int64  `gorm:"not null"`
	Title       string `gorm:"type:text"`
	Price       string `gorm:"type:varchar(64);not null"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"type:varchar(255)"`
	Image       string `gorm:"type:text"`
	RatingRate  float64
	RatingCount int
}

func init() {
	db.RegisterSchema(db.Schema{
		Name:        DefaultSchema,
		TablePrefix: "product_",
		Models:      []any{&Snapshot{}, &Record{}},
	})
}
