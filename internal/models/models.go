package models

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// ProductInput is the payload for a new product. The id is assigned by the
// catalog store.
type ProductInput struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      *Rating `json:"rating,omitempty"`
}

// ProductUpdate carries a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Rating      *Rating  `json:"rating,omitempty"`
}

// Apply returns p with the non-nil fields of u merged in.
func (u ProductUpdate) Apply(p Product) Product {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Rating != nil {
		p.Rating = *u.Rating
	}
	return p
}

// CartProduct is the subset of a product the cart keeps.
type CartProduct struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

func (p Product) CartProduct() CartProduct {
	return CartProduct{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image}
}

type CartItem struct {
	CartProduct
	Quantity int `json:"quantity"`
}

type AuthUser struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
