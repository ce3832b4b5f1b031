package taxonomy

import "fmt"

// Level identifies one tier of the taxonomy hierarchy.
type Level string

const (
	LevelCategory        Level = "category"
	LevelSubcategory     Level = "subcategory"
	LevelSubcategoryType Level = "subcategory-type"
	LevelProductType     Level = "product-type"
	LevelProductStyle    Level = "product-style"
)

// RootParentID is the parent sent when creating a top-level category.
const RootParentID = "0"

type levelInfo struct {
	endpoint string
	prefix   string
	// parent is the field linking an entity to the level above. Categories
	// only carry it on create.
	parent string
	label  string
	depth  int
}

var levels = map[Level]levelInfo{
	LevelCategory: {
		endpoint: "categories",
		prefix:   "category",
		parent:   "parent_category_id",
		label:    "Select Category",
		depth:    1,
	},
	LevelSubcategory: {
		endpoint: "subcategories",
		prefix:   "sub_category",
		parent:   "category_id",
		label:    "Select Subcategory",
		depth:    2,
	},
	LevelSubcategoryType: {
		endpoint: "subcategoriesTypes",
		prefix:   "sub_category_type",
		parent:   "sub_category_id",
		label:    "Select Subcategory Type",
		depth:    3,
	},
	LevelProductType: {
		endpoint: "productTypes",
		prefix:   "product_type",
		parent:   "sub_category_type_id",
		label:    "Select Product Type",
		depth:    4,
	},
	LevelProductStyle: {
		endpoint: "productStyle",
		prefix:   "product_style",
		parent:   "product_type_id",
		label:    "Select Product Style",
		depth:    5,
	},
}

// Levels returns every level from the root down.
func Levels() []Level {
	return []Level{
		LevelCategory,
		LevelSubcategory,
		LevelSubcategoryType,
		LevelProductType,
		LevelProductStyle,
	}
}

// ParseLevel validates raw against the known levels.
func ParseLevel(raw string) (Level, error) {
	l := Level(raw)
	if _, ok := levels[l]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, raw)
	}
	return l, nil
}

// DropdownLabel is the label of the dropdown fed by this level.
func (l Level) DropdownLabel() string { return levels[l].label }

// Depth is the 1-based position of the level in the hierarchy.
func (l Level) Depth() int { return levels[l].depth }

func (l Level) info() (levelInfo, error) {
	info, ok := levels[l]
	if !ok {
		return levelInfo{}, fmt.Errorf("%w: %q", ErrUnknownLevel, string(l))
	}
	return info, nil
}

func (i levelInfo) idField() string   { return i.prefix + "_id" }
func (i levelInfo) nameField() string { return i.prefix + "_name" }
func (i levelInfo) codeField() string { return i.prefix + "_code" }
