package builder

// CategoryDraft holds the fields of a top-level category being composed
// before it is sent to the taxonomy service.
type CategoryDraft struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageName   string `json:"imageName,omitempty"`
	Visible     bool   `json:"visible"`
	ShowInMenu  bool   `json:"showInMenu"`
}

// EntityDraft holds a lower taxonomy level being composed: a subcategory,
// subcategory type, product type or product style under ParentID.
type EntityDraft struct {
	Level       string `json:"level"`
	Name        string `json:"name"`
	ParentID    string `json:"parentId"`
	Description string `json:"description,omitempty"`
	ImageName   string `json:"imageName,omitempty"`
	Visible     bool   `json:"visible"`
	ShowInMenu  bool   `json:"showInMenu"`
}

// SetCategoryDraft replaces the pending category draft.
func (s *Session) SetCategoryDraft(d CategoryDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categoryDraft = &d
}

// CategoryDraft returns the pending category draft, if any.
func (s *Session) CategoryDraft() (CategoryDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categoryDraft == nil {
		return CategoryDraft{}, false
	}
	return *s.categoryDraft, true
}

// SetEntityDraft replaces the pending entity draft.
func (s *Session) SetEntityDraft(d EntityDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entityDraft = &d
}

// EntityDraft returns the pending entity draft, if any.
func (s *Session) EntityDraft() (EntityDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entityDraft == nil {
		return EntityDraft{}, false
	}
	return *s.entityDraft, true
}

// ClearDrafts drops both drafts, typically after a successful create.
func (s *Session) ClearDrafts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categoryDraft = nil
	s.entityDraft = nil
}
