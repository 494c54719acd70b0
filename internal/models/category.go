package models

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#6b7280"

// Category groups articles and carries a display color.
type Category struct {
	ID    string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name  string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Slug  string `json:"slug" gorm:"uniqueIndex;type:varchar(120);not null"`
	Color string `json:"color" gorm:"type:varchar(9);not null"`
}

// CategoryInput is the create-category request body. An empty slug is
// derived from the name.
type CategoryInput struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Slug  string `json:"slug" validate:"omitempty,max=120,slug"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// CategoryPatch is a partial category update.
type CategoryPatch struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Slug  *string `json:"slug" validate:"omitempty,max=120,slug"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
}
