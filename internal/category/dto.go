package category

import "github.com/fintrackhq/fintrack/internal"

// CreateCategoryDTO is the request payload for creating a category.
type CreateCategoryDTO struct {
	Name string  `json:"name"`
	Icon *string `json:"icon,omitempty"`
}

func (d CreateCategoryDTO) Validate() error {
	if d.Name == "" {
		return internal.NewFieldValidationError("name", "name is required")
	}
	if len(d.Name) > 255 {
		return internal.NewFieldValidationError("name", "name must not exceed 255 characters")
	}
	return nil
}

// UpdateCategoryDTO carries the optional fields of a partial update. Each
// present field is validated independently.
type UpdateCategoryDTO struct {
	Name *string `json:"name,omitempty"`
	Icon *string `json:"icon,omitempty"`
}

func (d UpdateCategoryDTO) Validate() error {
	if d.Name != nil {
		if *d.Name == "" {
			return internal.NewFieldValidationError("name", "name must not be empty")
		}
		if len(*d.Name) > 255 {
			return internal.NewFieldValidationError("name", "name must not exceed 255 characters")
		}
	}
	return nil
}

type CategoriesResponse struct {
	Categories []*Category `json:"categories"`
}
