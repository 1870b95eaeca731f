package item

import (
	"hobbyshop/internal/domain/filter"
)

// Mode is the presentation mode of the admin catalog screen.
type Mode int

const (
	Browsing Mode = iota
	Creating
	Editing
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Browsing:
		return "browsing"
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	}
	return "unknown"
}

// Session holds the state of one admin screen. It is owned by the caller
// and passed to every Manager operation; Manager keeps no per-user state.
type Session struct {
	Mode       Mode
	Historical filter.Historical
	Search     string
	Page       int

	// Candidate is the item being filled in while Creating.
	Candidate *Item

	// EditBuffer is the item being edited while Editing.
	EditBuffer *Item

	// SaveAttempted is set once Create was called, so the form can show
	// which fields are missing.
	SaveAttempted bool

	// View is the last page shown.
	View *CatalogView
}

// NewSession returns a session showing the first page of active items.
func NewSession() *Session {
	s := &Session{}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.Mode = Browsing
	s.Historical = filter.Active
	s.Search = ""
	s.Page = 1
	s.Candidate = nil
	s.EditBuffer = nil
	s.SaveAttempted = false
}

func (s *Session) query() ViewQuery {
	return ViewQuery{
		Historical: s.Historical,
		Search:     s.Search,
		Page:       s.Page,
	}
}
