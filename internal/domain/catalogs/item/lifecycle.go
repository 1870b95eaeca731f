package item

import (
	"context"
	"fmt"

	"hobbyshop/internal/core/apperror"
	"hobbyshop/internal/core/id"
	"hobbyshop/internal/core/tx"
	"hobbyshop/internal/domain"
	"hobbyshop/internal/domain/filter"
	"hobbyshop/pkg/logger"
)

// Manager orchestrates the create/update/archive lifecycle of items and
// refreshes the caller's view after each mutation.
//
// Every persistence call runs inside a scoped handle from tx.Manager that is
// released before the method returns. There is no optimistic locking:
// concurrent updates of the same item are last-write-wins.
type Manager struct {
	repo   Repository
	txm    tx.Manager
	engine *QueryEngine
	hooks  *domain.HookRegistry[*Change]
}

// NewManager creates a new lifecycle manager.
func NewManager(repo Repository, txm tx.Manager, engine *QueryEngine) *Manager {
	return &Manager{
		repo:   repo,
		txm:    txm,
		engine: engine,
		hooks:  domain.NewHookRegistry[*Change](),
	}
}

// Hooks returns the hook registry for external registration.
func (m *Manager) Hooks() *domain.HookRegistry[*Change] {
	return m.hooks
}

// Open shows the page described by the session (initially page 1 of active items).
func (m *Manager) Open(ctx context.Context, s *Session) (*CatalogView, error) {
	return m.Refresh(ctx, s)
}

// Refresh re-runs the session's query and stores the view and clamped page.
func (m *Manager) Refresh(ctx context.Context, s *Session) (*CatalogView, error) {
	view, err := m.engine.Query(ctx, s.query())
	if err != nil {
		return nil, err
	}
	s.Page = view.CurrentPage
	s.View = view
	return view, nil
}

// --- Create ---

// BeginCreate switches to Creating with an empty candidate.
func (m *Manager) BeginCreate(s *Session) *Item {
	s.Mode = Creating
	s.Candidate = NewItem()
	s.EditBuffer = nil
	s.SaveAttempted = false
	return s.Candidate
}

// CancelCreate discards the candidate and returns to Browsing.
func (m *Manager) CancelCreate(s *Session) {
	if s.Mode != Creating {
		return
	}
	s.Mode = Browsing
	s.Candidate = nil
	s.SaveAttempted = false
}

// Create persists the session's candidate as a new active item.
//
// If the candidate does not pass CanSave nothing is written, the session
// stays in Creating with SaveAttempted set, and Create returns nil, nil.
// On success the session returns to Browsing and its view is refreshed.
func (m *Manager) Create(ctx context.Context, s *Session) (*Item, error) {
	if s.Mode != Creating {
		return nil, apperror.NewInvalidState("create", s.Mode.String())
	}

	s.SaveAttempted = true
	if !CanSave(s.Candidate) {
		logger.Debug(ctx, "item cannot be saved", "failures", ValidationFailures(s.Candidate))
		return nil, nil
	}

	created := s.Candidate.Clone()
	created.ID = 0
	created.Historical = boolPtr(false)
	change := &Change{Action: ActionCreate, Item: created}

	err := m.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := m.hooks.Run(ctx, domain.BeforeCreate, change); err != nil {
			return err
		}
		if err := m.repo.Create(ctx, created); err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		return m.hooks.Run(ctx, domain.AfterCreate, change)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "item created", "item_id", created.ID)

	s.Mode = Browsing
	s.Candidate = nil
	s.SaveAttempted = false
	m.refreshAfterCommit(ctx, s, created.ID)
	return created, nil
}

// --- Edit ---

// BeginEdit loads the item as the session's edit buffer and switches to Editing.
// An unknown id returns nil, nil and leaves the session untouched.
func (m *Manager) BeginEdit(ctx context.Context, s *Session, itemID id.ID) (*Item, error) {
	var found *Item
	err := m.txm.ReadOnly(ctx, func(ctx context.Context) error {
		it, err := m.repo.GetByID(ctx, itemID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("get item: %w", err)
		}
		found = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, nil
	}

	s.Mode = Editing
	s.EditBuffer = found
	s.Candidate = nil
	return found, nil
}

// CancelEdit discards the edit buffer and returns to Browsing.
func (m *Manager) CancelEdit(s *Session) {
	if s.Mode != Editing {
		return
	}
	s.Mode = Browsing
	s.EditBuffer = nil
}

// Update persists the whole edit buffer. Updates are not gated by CanSave.
func (m *Manager) Update(ctx context.Context, s *Session) (*Item, error) {
	if s.Mode != Editing || s.EditBuffer == nil {
		return nil, apperror.NewInvalidState("update", s.Mode.String())
	}

	updated := s.EditBuffer.Clone()
	err := m.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		previous, err := m.repo.GetByID(ctx, updated.ID)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		change := &Change{Action: ActionUpdate, Item: updated, Previous: previous}

		if err := m.hooks.Run(ctx, domain.BeforeUpdate, change); err != nil {
			return err
		}
		if err := m.repo.Update(ctx, updated); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		return m.hooks.Run(ctx, domain.AfterUpdate, change)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "item updated", "item_id", updated.ID)

	s.Mode = Browsing
	s.EditBuffer = nil
	m.refreshAfterCommit(ctx, s, updated.ID)
	return updated, nil
}

// --- Archive / restore ---

// ToggleHistorical archives an active item or restores an archived one.
// Only the historical column is written. It works in any mode; an unknown id
// returns nil, nil and writes nothing.
func (m *Manager) ToggleHistorical(ctx context.Context, s *Session, itemID id.ID) (*Item, error) {
	var toggled *Item
	err := m.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		previous, err := m.repo.GetByID(ctx, itemID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("get item: %w", err)
		}

		it, err := m.repo.ToggleHistorical(ctx, itemID)
		if err != nil {
			return fmt.Errorf("toggle historical: %w", err)
		}
		toggled = it

		return m.hooks.Run(ctx, domain.AfterHistorical, &Change{
			Action:   ActionHistorical,
			Item:     it,
			Previous: previous,
		})
	})
	if err != nil {
		return nil, err
	}
	if toggled == nil {
		return nil, nil
	}

	logger.Info(ctx, "item historical flag toggled", "item_id", itemID, "historical", toggled.IsHistorical())

	// Keep an open edit of the same item from writing the old flag back.
	if s.EditBuffer != nil && s.EditBuffer.ID == itemID {
		s.EditBuffer.Historical = boolPtr(toggled.IsHistorical())
	}

	m.refreshAfterCommit(ctx, s, toggled.ID)
	return toggled, nil
}

// --- Navigation ---

// ApplyFilter changes the filter and search term and shows their first page.
func (m *Manager) ApplyFilter(ctx context.Context, s *Session, historical filter.Historical, search string) (*CatalogView, error) {
	s.Historical = historical
	s.Search = search
	s.Page = 1
	return m.Refresh(ctx, s)
}

// GoToPage shows page n of the current filter; n is clamped.
func (m *Manager) GoToPage(ctx context.Context, s *Session, n int) (*CatalogView, error) {
	s.Page = n
	return m.Refresh(ctx, s)
}

// NextPage advances one page unless the last page is shown.
func (m *Manager) NextPage(ctx context.Context, s *Session) (*CatalogView, error) {
	if s.View == nil {
		return m.Refresh(ctx, s)
	}
	if s.Page >= s.View.TotalPages {
		return s.View, nil
	}
	s.Page++
	return m.Refresh(ctx, s)
}

// PreviousPage goes back one page unless the first page is shown.
func (m *Manager) PreviousPage(ctx context.Context, s *Session) (*CatalogView, error) {
	if s.View == nil {
		return m.Refresh(ctx, s)
	}
	if s.Page <= 1 {
		return s.View, nil
	}
	s.Page--
	return m.Refresh(ctx, s)
}

// ResetPage returns to page 1 of active items with no search and leaves
// create/edit mode.
func (m *Manager) ResetPage(ctx context.Context, s *Session) (*CatalogView, error) {
	s.reset()
	return m.Refresh(ctx, s)
}

// refreshAfterCommit reloads the view once a mutation has committed. A
// failure here is only logged: the write stands, and reporting it as an
// error would invite the caller to repeat it.
func (m *Manager) refreshAfterCommit(ctx context.Context, s *Session, itemID id.ID) {
	if _, err := m.Refresh(ctx, s); err != nil {
		s.View = nil
		logger.Warn(ctx, "view refresh after commit failed", "item_id", itemID, "error", err)
	}
}

func boolPtr(v bool) *bool {
	return &v
}
