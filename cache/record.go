package cache

import "time"

// CacheRecord is a product as persisted by a Store
// It is a plain value; two records are equal when all fields are equal
type CacheRecord struct {
	ID          int64
	Title       string
	Price       float64
	Description string
	Category    string
	Image       string
	Rating      RatingRecord
}

// RatingRecord is the persisted form of Rating
type RatingRecord struct {
	Rate  float64
	Count int
}

// CachedSnapshot is the unit a Store persists: ordered records plus the time
// they were written
type CachedSnapshot struct {
	Records   []CacheRecord
	Timestamp time.Time
}

// ToRecords maps products to cache records, preserving order
func ToRecords(products []Product) []CacheRecord {
	records := make([]CacheRecord, len(products))
	for i, p := range products {
		records[i] = CacheRecord{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Description: p.Description,
			Category:    p.Category,
			Image:       p.Image,
			Rating: RatingRecord{
				Rate:  p.Rating.Rate,
				Count: p.Rating.Count,
			},
		}
	}
	return records
}

// ToProducts maps cache records back to products, preserving order
func ToProducts(records []CacheRecord) []Product {
	products := make([]Product, len(records))
	for i, r := range records {
		products[i] = Product{
			ID:          r.ID,
			Title:       r.Title,
			Price:       r.Price,
			Description: r.Description,
			Category:    r.Category,
			Image:       r.Image,
			Rating: Rating{
				Rate:  r.Rating.Rate,
				Count: r.Rating.Count,
			},
		}
	}
	return products
}
