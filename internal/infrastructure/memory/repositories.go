package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/precast-api/internal/domain"
	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

var (
	_ repository.OtherComponentRepository = (*componentRepo)(nil)
	_ repository.LedgerRepository         = (*ledgerRepo)(nil)
	_ repository.StatusHistoryRepository  = (*historyRepo)(nil)
	_ repository.ProjectRepository        = (*projectRepo)(nil)
	_ repository.AggregateRepository      = (*aggregateRepo)(nil)
)

// ── Componentes ──────────────────────────────────────────────────────────────

type componentRepo struct {
	s  *Store
	tx *memTx
}

func (r *componentRepo) Create(ctx context.Context, c *entity.OtherComponent) error {
	if r.tx == nil {
		return r.s.autoCommit(ctx, func(tx *memTx) error {
			return (&componentRepo{s: r.s, tx: tx}).Create(ctx, c)
		})
	}
	if _, ok := r.tx.component(c.ID); ok {
		return domain.ErrDuplicate
	}
	r.s.mu.RLock()
	_, projectOK := r.s.projects[c.ProjectID]
	r.s.mu.RUnlock()
	if !projectOK {
		return fmt.Errorf("componente %s: %w", c.ID, domain.ErrProjectNotFound)
	}
	// el componente nuevo queda bloqueado por esta transacción
	if err := r.s.lock(ctx, c.ID); err != nil {
		return err
	}
	r.tx.locked = append(r.tx.locked, c.ID)
	delete(r.tx.deletedComponent, c.ID)
	r.tx.components[c.ID] = *c
	return nil
}

func (r *componentRepo) GetByID(_ context.Context, id string) (*entity.OtherComponent, error) {
	if r.tx != nil {
		c, ok := r.tx.component(id)
		if !ok {
			return nil, nil
		}
		return &c, nil
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.components[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *componentRepo) GetForUpdate(ctx context.Context, id string) (*entity.OtherComponent, error) {
	if r.tx == nil {
		return r.GetByID(ctx, id)
	}
	if !r.tx.holds(id) {
		if err := r.s.lock(ctx, id); err != nil {
			return nil, err
		}
		r.tx.locked = append(r.tx.locked, id)
		// lo confirmado por otra transacción mientras esperábamos ya es visible
		delete(r.tx.buckets, id)
	}
	return r.GetByID(ctx, id)
}

func (r *componentRepo) Update(ctx context.Context, c *entity.OtherComponent) error {
	if r.tx == nil {
		return r.s.autoCommit(ctx, func(tx *memTx) error {
			return (&componentRepo{s: r.s, tx: tx}).Update(ctx, c)
		})
	}
	if _, ok := r.tx.component(c.ID); !ok {
		return domain.ErrComponentNotFound
	}
	r.tx.components[c.ID] = *c
	return nil
}

func (r *componentRepo) Delete(ctx context.Context, id string) error {
	if r.tx == nil {
		return r.s.autoCommit(ctx, func(tx *memTx) error {
			return (&componentRepo{s: r.s, tx: tx}).Delete(ctx, id)
		})
	}
	if _, ok := r.tx.component(id); !ok {
		return domain.ErrComponentNotFound
	}
	delete(r.tx.components, id)
	delete(r.tx.buckets, id)
	r.tx.deletedComponent[id] = true
	return nil
}

func (r *componentRepo) ListByProject(_ context.Context, projectID string) ([]*entity.OtherComponent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedComponents(r.s.components, projectID), nil
}

func sortedComponents(all map[string]entity.OtherComponent, projectID string) []*entity.OtherComponent {
	out := make([]*entity.OtherComponent, 0)
	for _, c := range all {
		if c.ProjectID == projectID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ── Ledger ───────────────────────────────────────────────────────────────────

type ledgerRepo struct {
	s  *Store
	tx *memTx
}

func (r *ledgerRepo) GetBuckets(_ context.Context, componentID string) (ledger.Buckets, error) {
	if r.tx != nil {
		return r.tx.bucketsFor(componentID).Clone(), nil
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b := r.s.buckets[componentID].Clone()
	return b, nil
}

func (r *ledgerRepo) AddQuantity(ctx context.Context, componentID string, status ledger.Status, delta int, _ string) error {
	if r.tx == nil {
		return r.s.autoCommit(ctx, func(tx *memTx) error {
			return (&ledgerRepo{s: r.s, tx: tx}).AddQuantity(ctx, componentID, status, delta, "")
		})
	}
	if !status.Valid() {
		return fmt.Errorf("ledger: %w", domain.ErrInvalidInput)
	}
	b := r.tx.bucketsFor(componentID)
	next := b[status] + delta
	if next < 0 {
		// equivalente al CHECK (quantity >= 0) de la tabla
		return fmt.Errorf("ledger: cantidad negativa en %s", status)
	}
	b[status] = next
	return nil
}

func (r *ledgerRepo) DeleteByComponent(ctx context.Context, componentID string) error {
	if r.tx == nil {
		return r.s.autoCommit(ctx, func(tx *memTx) error {
			return (&ledgerRepo{s: r.s, tx: tx}).DeleteByComponent(ctx, componentID)
		})
	}
	r.tx.buckets[componentID] = ledger.Buckets{}
	return nil
}

// ── Historial ────────────────────────────────────────────────────────────────

type historyRepo struct {
	s  *Store
	tx *memTx
}

func (r *historyRepo) Append(ctx context.Context, rec *entity.StatusHistory) error {
	if r.tx == nil {
		return r.s.autoCommit(ctx, func(tx *memTx) error {
			return (&historyRepo{s: r.s, tx: tx}).Append(ctx, rec)
		})
	}
	if err := r.s.historyFailure(); err != nil {
		return err
	}
	r.tx.history = append(r.tx.history, *rec)
	return nil
}

func (r *historyRepo) ListByComponent(_ context.Context, componentID string, limit, offset int) ([]*entity.StatusHistory, error) {
	r.s.mu.RLock()
	recs := r.s.history[componentID]
	// orden de inserción invertido = más reciente primero
	all := make([]*entity.StatusHistory, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		h := recs[i]
		all = append(all, &h)
	}
	r.s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []*entity.StatusHistory{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *historyRepo) DeleteByComponent(ctx context.Context, componentID string) error {
	if r.tx == nil {
		return r.s.autoCommit(ctx, func(tx *memTx) error {
			return (&historyRepo{s: r.s, tx: tx}).DeleteByComponent(ctx, componentID)
		})
	}
	r.tx.clearedHistory[componentID] = true
	pending := r.tx.history[:0]
	for _, h := range r.tx.history {
		if h.ComponentID != componentID {
			pending = append(pending, h)
		}
	}
	r.tx.history = pending
	return nil
}

// ── Proyectos ────────────────────────────────────────────────────────────────

type projectRepo struct {
	s *Store
}

func (r *projectRepo) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.projects {
		if existing.ProjectCode == p.ProjectCode {
			return domain.ErrDuplicate
		}
	}
	r.s.projects[p.ID] = *p
	return nil
}

func (r *projectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *projectRepo) List(_ context.Context) ([]*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Agregados ────────────────────────────────────────────────────────────────

type aggregateRepo struct {
	s *Store
}

func (r *aggregateRepo) ProjectRows(_ context.Context, projectID string) ([]repository.AggregateRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[projectID]
	if !ok {
		return []repository.AggregateRow{}, nil
	}
	return r.rowsFor(p), nil
}

func (r *aggregateRepo) AllRows(ctx context.Context) ([]repository.AggregateRow, error) {
	projects, err := (&projectRepo{s: r.s}).List(ctx)
	if err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := make([]repository.AggregateRow, 0)
	for _, p := range projects {
		rows = append(rows, r.rowsFor(*p)...)
	}
	return rows, nil
}

// rowsFor replica el LEFT JOIN componente/ledger. Requiere s.mu tomado.
func (r *aggregateRepo) rowsFor(p entity.Project) []repository.AggregateRow {
	rows := make([]repository.AggregateRow, 0)
	for _, c := range sortedComponents(r.s.components, p.ID) {
		base := repository.AggregateRow{
			ProjectID:     p.ID,
			ProjectCode:   p.ProjectCode,
			ProjectName:   p.Name,
			ComponentID:   c.ID,
			ComponentName: c.Name,
			TotalQuantity: c.TotalQuantity,
		}
		b := r.s.buckets[c.ID]
		if len(b) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, st := range ledger.AllStatuses {
			q, ok := b[st]
			if !ok {
				continue
			}
			row := base
			st := st
			row.Status = &st
			row.Quantity = q
			rows = append(rows, row)
		}
	}
	return rows
}
