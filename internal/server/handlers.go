package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/eventbus"
	"github.com/goliatone/go-formbuilder/pkg/formdata"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/render"
	htmlrenderer "github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/submission"
	"github.com/goliatone/go-formbuilder/pkg/taxonomy"
)

// sessionView is the JSON shape of a session.
type sessionView struct {
	ID        string        `json:"id"`
	State     builder.State `json:"state"`
	Tree      model.Tree    `json:"tree"`
	Selected  string        `json:"selected,omitempty"`
	Generated model.Tree    `json:"generated,omitempty"`
}

func viewOf(s *builder.Session) sessionView {
	v := sessionView{
		ID:    s.ID(),
		State: s.State(),
		Tree:  s.Tree(),
	}
	if v.Tree == nil {
		v.Tree = model.Tree{}
	}
	if c, ok := s.Selected(); ok {
		v.Selected = c.ID
	}
	if g, ok := s.Generated(); ok {
		v.Generated = g
	}
	return v
}

func (s *Server) getPalette(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, s.factory.Palette())
}

func (s *Server) createSession(w http.ResponseWriter, _ *http.Request) {
	e := s.sessions.create()
	writeJSON(w, s.logger, http.StatusCreated, viewOf(e.session))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, viewOf(sessionFrom(r.Context()).session))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.remove(sessionFrom(r.Context()).session.ID())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) insertComponent(w http.ResponseWriter, r *http.Request) {
	var intent builder.DropIntent
	if err := decodeJSON(r, &intent); err != nil {
		writeError(w, s.logger, err)
		return
	}
	intent.Label = htmlrenderer.SanitizeText(intent.Label)

	c, err := sessionFrom(r.Context()).session.Drop(r.Context(), intent)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, c)
}

func (s *Server) updateComponent(w http.ResponseWriter, r *http.Request) {
	var patch model.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, s.logger, err)
		return
	}
	sanitizePatch(&patch)

	id := chi.URLParam(r, "componentID")
	c, ok := sessionFrom(r.Context()).session.Update(r.Context(), id, patch)
	if !ok {
		writeError(w, s.logger, fmt.Errorf("%w: %q", builder.ErrComponentNotFound, id))
		return
	}
	writeJSON(w, s.logger, http.StatusOK, c)
}

// sanitizePatch strips markup from every free-text field of p.
func sanitizePatch(p *model.Patch) {
	for _, field := range []*string{p.Label, p.Name, p.Placeholder} {
		if field != nil {
			*field = htmlrenderer.SanitizeText(*field)
		}
	}
	if p.Icon != nil {
		*p.Icon = htmlrenderer.SanitizeIcon(*p.Icon)
	}
	if p.Options != nil {
		options := model.CloneOptions(*p.Options)
		for i := range options {
			options[i].Label = htmlrenderer.SanitizeText(options[i].Label)
			options[i].Value = htmlrenderer.SanitizeText(options[i].Value)
		}
		p.Options = &options
	}
}

func (s *Server) removeComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "componentID")
	removed, err := sessionFrom(r.Context()).session.Remove(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if !removed {
		writeError(w, s.logger, fmt.Errorf("%w: %q", builder.ErrComponentNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveRequest struct {
	DragIndex      int    `json:"dragIndex"`
	HoverIndex     int    `json:"hoverIndex"`
	SourceParentID string `json:"sourceParentId,omitempty"`
	TargetParentID string `json:"targetParentId,omitempty"`
}

func (s *Server) moveComponent(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	moved, err := sessionFrom(r.Context()).session.Move(r.Context(), req.DragIndex, req.HoverIndex, req.SourceParentID, req.TargetParentID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, map[string]bool{"moved": moved})
}

func (s *Server) selectComponent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	e := sessionFrom(r.Context())
	if err := e.session.Select(r.Context(), req.ID); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, viewOf(e.session))
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	e := sessionFrom(r.Context())
	if _, err := e.session.Generate(r.Context()); err != nil {
		writeError(w, s.logger, err)
		return
	}
	e.store.Reset()
	e.setErrors(render.ErrorMapping{})
	writeJSON(w, s.logger, http.StatusOK, viewOf(e.session))
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request) {
	e := sessionFrom(r.Context())
	if err := e.session.Edit(r.Context()); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, viewOf(e.session))
}

func (s *Server) getData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, sessionFrom(r.Context()).store.Snapshot())
}

// setData writes one value. Strings aimed at a typed input must be
// acceptable keystroke-for-keystroke, as on the fill surface.
func (s *Server) setData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value any `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	e := sessionFrom(r.Context())
	name := chi.URLParam(r, "name")

	if raw, ok := req.Value.(string); ok {
		if c, found := generatedComponent(e.session, name); found && !formdata.AcceptInput(c, raw) {
			writeError(w, s.logger, fmt.Errorf("%w: %q for %s", errRejectedInput, raw, c.Label))
			return
		}
	}
	e.store.Set(name, req.Value)
	writeJSON(w, s.logger, http.StatusOK, e.store.Snapshot())
}

type rowsRequest struct {
	Count int `json:"count"`
}

func (s *Server) resizeRows(w http.ResponseWriter, r *http.Request) {
	var req rowsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if req.Count < 0 {
		writeError(w, s.logger, invalid(errors.New("count must not be negative")))
		return
	}
	e := sessionFrom(r.Context())
	e.store.ResizeRows(chi.URLParam(r, "name"), req.Count)
	writeJSON(w, s.logger, http.StatusOK, e.store.Snapshot())
}

type rowRequest struct {
	Content *string `json:"content,omitempty"`
	Number  *string `json:"number,omitempty"`
}

func (s *Server) setRow(w http.ResponseWriter, r *http.Request) {
	index, err := rowIndex(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var req rowRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	e := sessionFrom(r.Context())
	name := chi.URLParam(r, "name")
	if req.Content != nil {
		if err := e.store.SetRowContent(name, index, *req.Content); err != nil {
			writeError(w, s.logger, err)
			return
		}
	}
	if req.Number != nil {
		if err := e.store.SetRowNumber(name, index, *req.Number); err != nil {
			writeError(w, s.logger, err)
			return
		}
	}
	writeJSON(w, s.logger, http.StatusOK, e.store.Snapshot())
}

func (s *Server) deleteRow(w http.ResponseWriter, r *http.Request) {
	index, err := rowIndex(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	e := sessionFrom(r.Context())
	if err := e.store.DeleteRow(chi.URLParam(r, "name"), index); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, e.store.Snapshot())
}

func rowIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid(fmt.Errorf("invalid row index %q", raw))
	}
	return i, nil
}

// submit validates and delivers the generated form. The optional buttonId
// names the pressed button, whose label picks the confirmation message.
func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ButtonID string `json:"buttonId,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	e := sessionFrom(r.Context())
	generated, _ := e.session.Generated()

	payload, err := s.submitter.Submit(r.Context(), generated, e.store)
	if err != nil {
		var vErr *submission.ValidationError
		if errors.As(err, &vErr) {
			e.setErrors(render.FromViolations(vErr.Violations))
		}
		e.session.Notify(r.Context(), eventbus.KindOperationFailed, eventbus.LevelError, err.Error(), "")
		writeError(w, s.logger, err)
		return
	}

	e.setErrors(render.ErrorMapping{})
	msg := "Form submitted"
	if button, ok := generated.Find(req.ButtonID); ok && req.ButtonID != "" {
		if m, ok := submission.ActionMessage(button); ok {
			msg = m
		}
	}
	e.session.Notify(r.Context(), eventbus.KindFormSubmitted, eventbus.LevelSuccess, msg, "")
	writeJSON(w, s.logger, http.StatusOK, payload)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request) {
	surface, err := render.ParseSurface(r.URL.Query().Get("surface"))
	if err != nil {
		writeError(w, s.logger, invalid(err))
		return
	}
	e := sessionFrom(r.Context())

	opts := render.RenderOptions{Surface: surface}
	t := e.session.Tree()
	if surface == render.SurfaceFill {
		generated, ok := e.session.Generated()
		if !ok {
			writeError(w, s.logger, builder.ErrNotGenerated)
			return
		}
		t = generated
		opts.Values = e.store.Snapshot()
		opts.Errors = errorPayload(e.submitErrors())
	} else if c, ok := e.session.Selected(); ok {
		opts.Selected = c.ID
	}

	renderer := r.URL.Query().Get("renderer")
	if renderer == "" {
		renderer = "html"
	}
	body, contentType, err := s.renderers.Render(r.Context(), renderer, t, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func errorPayload(m render.ErrorMapping) map[string][]string {
	if len(m.Fields) == 0 && len(m.Form) == 0 {
		return nil
	}
	out := make(map[string][]string, len(m.Fields)+1)
	for k, v := range m.Fields {
		out[k] = v
	}
	if len(m.Form) > 0 {
		out["form"] = m.Form
	}
	return out
}

func (s *Server) exportOpenAPI(w http.ResponseWriter, r *http.Request) {
	e := sessionFrom(r.Context())
	t, ok := e.session.Generated()
	if !ok {
		t = e.session.Tree()
	}
	body, err := openapi.ExportJSON(r.Context(), t, openapi.ExportOptions{
		Title: strings.TrimSpace(r.URL.Query().Get("title")),
	})
	if err != nil {
		if errors.Is(err, openapi.ErrEmptyForm) {
			err = fmt.Errorf("%w: %v", builder.ErrEmptyForm, err)
		}
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) putCategoryDraft(w http.ResponseWriter, r *http.Request) {
	var d builder.CategoryDraft
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, s.logger, err)
		return
	}
	d.Name = htmlrenderer.SanitizeText(d.Name)
	d.Description = htmlrenderer.SanitizeText(d.Description)
	sessionFrom(r.Context()).session.SetCategoryDraft(d)
	writeJSON(w, s.logger, http.StatusOK, d)
}

func (s *Server) putEntityDraft(w http.ResponseWriter, r *http.Request) {
	var d builder.EntityDraft
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if _, err := taxonomy.ParseLevel(d.Level); err != nil {
		writeError(w, s.logger, err)
		return
	}
	d.Name = htmlrenderer.SanitizeText(d.Name)
	d.Description = htmlrenderer.SanitizeText(d.Description)
	sessionFrom(r.Context()).session.SetEntityDraft(d)
	writeJSON(w, s.logger, http.StatusOK, d)
}

func (s *Server) refreshTaxonomy(w http.ResponseWriter, r *http.Request) {
	if s.taxonomy == nil {
		writeError(w, s.logger, invalid(errors.New("taxonomy is not configured")))
		return
	}
	level, err := taxonomy.ParseLevel(chi.URLParam(r, "level"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	e := sessionFrom(r.Context())
	n, err := s.taxonomy.Refresh(r.Context(), e.session, level, r.URL.Query().Get("parent"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, map[string]int{"updated": n})
}

// createTaxonomy creates an entity from the session's pending draft for the
// level.
func (s *Server) createTaxonomy(w http.ResponseWriter, r *http.Request) {
	if s.taxonomy == nil {
		writeError(w, s.logger, invalid(errors.New("taxonomy is not configured")))
		return
	}
	level, err := taxonomy.ParseLevel(chi.URLParam(r, "level"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	e := sessionFrom(r.Context())

	var in taxonomy.EntityInput
	if level == taxonomy.LevelCategory {
		d, ok := e.session.CategoryDraft()
		if !ok {
			writeError(w, s.logger, invalid(errors.New("no category draft")))
			return
		}
		in = taxonomy.InputFromCategoryDraft(d)
	} else {
		d, ok := e.session.EntityDraft()
		if !ok || d.Level != string(level) {
			writeError(w, s.logger, invalid(fmt.Errorf("no %s draft", level)))
			return
		}
		_, in, err = taxonomy.InputFromEntityDraft(d)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
	}

	result, err := s.taxonomy.Create(r.Context(), e.session, level, in)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, result)
}

// generatedComponent finds the field named name in the generated form.
func generatedComponent(s *builder.Session, name string) (model.Component, bool) {
	generated, ok := s.Generated()
	if !ok {
		return model.Component{}, false
	}
	var found model.Component
	generated.Walk(func(c model.Component, _ *model.Component) bool {
		if c.Name == name && c.Type != model.TypeSection {
			found = c
			return false
		}
		return true
	})
	return found, found.ID != ""
}
