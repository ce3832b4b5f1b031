package taxonomy

import "github.com/goliatone/go-formbuilder/pkg/model"

// OptionsFrom maps entities onto dropdown options. The id doubles as the
// value so a selection can be fed back as the next level's parent.
func OptionsFrom(entities []Entity) []model.Option {
	out := make([]model.Option, 0, len(entities))
	for _, e := range entities {
		if e.ID == "" {
			continue
		}
		out = append(out, model.Option{
			ID:       e.ID,
			Label:    e.Name,
			Value:    e.ID,
			ImageURL: e.ImageURL,
		})
	}
	return out
}

// OptionsFromCategories maps categories onto the Select Category dropdown.
func OptionsFromCategories(categories []Entity) []model.Option { return OptionsFrom(categories) }

// OptionsFromSubcategories maps subcategories onto their dropdown.
func OptionsFromSubcategories(items []Entity) []model.Option { return OptionsFrom(items) }

// OptionsFromSubcategoryTypes maps subcategory types onto their dropdown.
func OptionsFromSubcategoryTypes(items []Entity) []model.Option { return OptionsFrom(items) }

// OptionsFromProductTypes maps product types onto their dropdown.
func OptionsFromProductTypes(items []Entity) []model.Option { return OptionsFrom(items) }

// OptionsFromProductStyles maps product styles onto their dropdown.
func OptionsFromProductStyles(items []Entity) []model.Option { return OptionsFrom(items) }
