package cache

// Product is a catalog item as the rest of the application sees it
type Product struct {
	ID          int64
	Title       string
	Price       float64
	Description string
	Category    string
	// Image is the URI of the product image
	Image  string
	Rating Rating
}

// Rating is the aggregated customer rating of a product
type Rating struct {
	Rate  float64
	Count int
}
