package catalog

import (
	"fmt"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	DefaultImage       = "https://images.unsplash.com/photo-1585386959984-a4155224a1ad?auto=format&fit=crop&w=300&q=80"
	DefaultDescription = "New arrival from LexxStore."
)

// Draft is an editable copy of a product's fields. Nothing reaches the store
// until the draft is normalized and handed to AddProduct or UpdateProduct.
type Draft struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

func DraftOf(p models.Product) Draft {
	return Draft{
		Title:       p.Title,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
	}
}

// ForCreate turns the draft into a new-product payload. The title is
// required; other blank fields get store defaults.
func (d Draft) ForCreate() (models.ProductInput, error) {
	if err := d.validate(); err != nil {
		return models.ProductInput{}, err
	}
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return models.ProductInput{}, fmt.Errorf("title is required: %w", ErrValidation)
	}
	return models.ProductInput{
		Title:       title,
		Price:       d.Price,
		Category:    orDefault(d.Category, DefaultCategory),
		Image:       orDefault(d.Image, DefaultImage),
		Description: orDefault(d.Description, DefaultDescription),
		Rating:      &models.Rating{},
	}, nil
}

// ForUpdate turns the draft into an update of current. Blank fields keep the
// current value; a blank image with no current image gets the default.
func (d Draft) ForUpdate(current models.Product) (models.ProductUpdate, error) {
	if err := d.validate(); err != nil {
		return models.ProductUpdate{}, err
	}
	title := orDefault(d.Title, current.Title)
	category := orDefault(d.Category, current.Category)
	description := orDefault(d.Description, current.Description)
	image := orDefault(d.Image, orDefault(current.Image, DefaultImage))
	price := d.Price
	return models.ProductUpdate{
		Title:       &title,
		Price:       &price,
		Category:    &category,
		Description: &description,
		Image:       &image,
	}, nil
}

func (d Draft) validate() error {
	if d.Price < 0 {
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	return nil
}

func orDefault(v, def string) string {
	if t := strings.TrimSpace(v); t != "" {
		return t
	}
	return def
}
