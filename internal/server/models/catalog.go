package models

import "time"

type Category struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Product is a catalog item. Images holds object keys or absolute URLs until
// the catalog service resolves them for display.
type Product struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Rating      float64   `json:"rating"`
	SellerID    string    `json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Seller struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"pfp"`
}

// ProductDetail is a product together with its seller, as shown on the
// product page.
type ProductDetail struct {
	Product
	Seller *Seller `json:"seller"`
}
