package taxonomy

import "github.com/goliatone/go-formbuilder/pkg/builder"

// InputFromCategoryDraft turns the session's category draft into a create
// payload for a top-level category.
func InputFromCategoryDraft(d builder.CategoryDraft) EntityInput {
	return EntityInput{
		Name:        d.Name,
		ParentID:    RootParentID,
		Description: d.Description,
		Visible:     d.Visible,
		ShowInMenu:  d.ShowInMenu,
		Depth:       LevelCategory.Depth(),
	}
}

// InputFromEntityDraft turns an entity draft into a create payload and
// resolves its level.
func InputFromEntityDraft(d builder.EntityDraft) (Level, EntityInput, error) {
	level, err := ParseLevel(d.Level)
	if err != nil {
		return "", EntityInput{}, err
	}
	return level, EntityInput{
		Name:        d.Name,
		ParentID:    d.ParentID,
		Description: d.Description,
		Visible:     d.Visible,
		ShowInMenu:  d.ShowInMenu,
		Depth:       level.Depth(),
	}, nil
}
