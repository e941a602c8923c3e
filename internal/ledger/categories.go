package ledger

import (
	"sort"
	"strings"

	"tracker/internal/core"
)

// Categories returns all known categories sorted by name.
func (l *Ledger) Categories() []core.Category {
	out := make([]core.Category, 0, len(l.cats))
	for _, c := range l.cats {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// SetCategoryKind sets the advisory kind on an existing category.
func (l *Ledger) SetCategoryKind(name string, kind core.CategoryKind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	key := strings.ToLower(strings.TrimSpace(name))
	c, ok := l.cats[key]
	if !ok {
		return core.ErrNotFound
	}
	c.Kind = kind
	l.cats[key] = c
	return nil
}

// AddCategory registers a category explicitly, before any transaction
// references it. Adding an existing name is a no-op for the name and only
// updates the kind when one is given.
func (l *Ledger) AddCategory(c core.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return core.ErrEmptyCategory
	}
	if err := c.Kind.Validate(); err != nil {
		return err
	}
	key := strings.ToLower(c.Name)
	if existing, ok := l.cats[key]; ok {
		if c.Kind != "" {
			existing.Kind = c.Kind
			l.cats[key] = existing
		}
		return nil
	}
	l.cats[key] = c
	return nil
}

// DeleteCategory removes a category. Deleting a category still referenced
// by transactions fails with ErrCategoryInUse unless reassignTo names a
// target; then all affected transactions are re-pointed atomically and the
// target is created if new.
func (l *Ledger) DeleteCategory(name, reassignTo string) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := l.cats[key]; !ok {
		return core.ErrNotFound
	}

	var affected []int64
	for id, tx := range l.txs {
		if strings.ToLower(tx.Category) == key {
			affected = append(affected, id)
		}
	}

	if len(affected) > 0 {
		reassignTo = strings.TrimSpace(reassignTo)
		if reassignTo == "" {
			return core.ErrCategoryInUse
		}
		if strings.ToLower(reassignTo) == key {
			return core.ErrCategoryInUse
		}
		l.ensureCategory(reassignTo)
		target := l.cats[strings.ToLower(reassignTo)].Name
		for _, id := range affected {
			tx := l.txs[id]
			tx.Category = target
			l.txs[id] = tx
		}
	}

	delete(l.cats, key)
	delete(l.budgets, key)
	return nil
}

// RenameCategory changes a category's display name. Renaming onto an
// existing different category is rejected; merging is done through
// DeleteCategory with a reassignment target.
func (l *Ledger) RenameCategory(from, to string) error {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if to == "" {
		return core.ErrEmptyCategory
	}
	fromKey := strings.ToLower(from)
	toKey := strings.ToLower(to)
	c, ok := l.cats[fromKey]
	if !ok {
		return core.ErrNotFound
	}
	if toKey != fromKey {
		if _, exists := l.cats[toKey]; exists {
			return core.ErrCategoryInUse
		}
	}

	c.Name = to
	delete(l.cats, fromKey)
	l.cats[toKey] = c
	if b, ok := l.budgets[fromKey]; ok {
		delete(l.budgets, fromKey)
		l.budgets[toKey] = b
	}
	for id, tx := range l.txs {
		if strings.ToLower(tx.Category) == fromKey {
			tx.Category = to
			l.txs[id] = tx
		}
	}
	return nil
}
