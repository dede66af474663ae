package inventory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/alumac/alumac-api/internal/domain"
	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/internal/domain/repository"
)

// ── Almacén en memoria con transacciones y bloqueo por fila ───────────────────

var errNoSoportado = errors.New("operación no soportada en el almacén de prueba")

type memStore struct {
	mu        sync.Mutex
	materials map[string]*entity.Material
	movements []*entity.StockMovement
	purchases map[string]*entity.Purchase
	suppliers map[string]*entity.Supplier
	users     map[string]string

	locksMu  sync.Mutex
	rowLocks map[string]*sync.Mutex

	txCount          int
	failUpdateStock  error
	pendingConflicts int

	// onMaterialRead se invoca en cada lectura confirmada de un material, fuera del lock.
	onMaterialRead func()
}

func newMemStore() *memStore {
	return &memStore{
		materials: make(map[string]*entity.Material),
		purchases: make(map[string]*entity.Purchase),
		suppliers: make(map[string]*entity.Supplier),
		users:     make(map[string]string),
		rowLocks:  make(map[string]*sync.Mutex),
	}
}

func (s *memStore) addMaterial(id, unidad string, stockActual, stockMinimo string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials[id] = &entity.Material{
		ID:           id,
		Codigo:       "COD-" + id,
		Nombre:       "Material " + id,
		UnidadMedida: unidad,
		StockActual:  decimal.RequireFromString(stockActual),
		StockMinimo:  decimal.RequireFromString(stockMinimo),
		Activo:       true,
	}
}

func (s *memStore) stockOf(id string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.materials[id].StockActual
}

func (s *memStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

func (s *memStore) transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount
}

func (s *memStore) lockFor(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.rowLocks[id] = l
	}
	return l
}

func copyMaterial(m *entity.Material) *entity.Material {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// Run implementa TxRunner: las escrituras quedan en un área temporal y se aplican solo si fn no falla.
func (s *memStore) Run(ctx context.Context, fn func(repository.MaterialRepository, repository.StockMovementRepository) error) error {
	s.mu.Lock()
	s.txCount++
	if s.pendingConflicts > 0 {
		s.pendingConflicts--
		s.mu.Unlock()
		return errors.Join(domain.ErrConcurrencyConflict, errors.New("deadlock detected"))
	}
	s.mu.Unlock()

	tx := &memTx{store: s, stock: make(map[string]decimal.Decimal)}
	defer tx.releaseLocks()

	if err := fn(txMaterialRepo{tx}, txMovementRepo{tx}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append(s.movements, tx.movements...)
	for id, v := range tx.stock {
		s.materials[id].StockActual = v
	}
	return nil
}

// ReadSnapshot implementa SnapshotReader sobre una copia del estado confirmado.
func (s *memStore) ReadSnapshot(ctx context.Context, fn func(repository.MaterialRepository, repository.StockMovementRepository) error) error {
	s.mu.Lock()
	snap := newMemStore()
	for id, m := range s.materials {
		snap.materials[id] = copyMaterial(m)
	}
	snap.movements = append(snap.movements, s.movements...)
	for id, p := range s.purchases {
		snap.purchases[id] = p
	}
	for id, sup := range s.suppliers {
		snap.suppliers[id] = sup
	}
	for id, u := range s.users {
		snap.users[id] = u
	}
	snap.onMaterialRead = s.onMaterialRead
	s.mu.Unlock()

	return fn(memMaterialRepo{snap}, memMovementRepo{snap})
}

type memTx struct {
	store     *memStore
	held      []*sync.Mutex
	movements []*entity.StockMovement
	stock     map[string]decimal.Decimal
}

func (t *memTx) releaseLocks() {
	for _, l := range t.held {
		l.Unlock()
	}
}

type txMaterialRepo struct{ *memTx }

func (t txMaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	l := t.store.lockFor(id)
	l.Lock()
	t.held = append(t.held, l)
	return t.GetByID(ctx, id)
}

func (t txMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	m := copyMaterial(t.store.materials[id])
	if m != nil {
		if v, ok := t.stock[id]; ok {
			m.StockActual = v
		}
	}
	return m, nil
}

func (t txMaterialRepo) UpdateStock(_ context.Context, id string, v decimal.Decimal) error {
	t.store.mu.Lock()
	fail := t.store.failUpdateStock
	t.store.mu.Unlock()
	if fail != nil {
		return fail
	}
	t.stock[id] = v
	return nil
}

func (t txMaterialRepo) Create(context.Context, *entity.Material) error { return errNoSoportado }
func (t txMaterialRepo) GetByCodigo(context.Context, string) (*entity.Material, error) {
	return nil, errNoSoportado
}
func (t txMaterialRepo) List(context.Context, repository.MaterialFilter) ([]*entity.Material, int, error) {
	return nil, 0, errNoSoportado
}
func (t txMaterialRepo) ListBelowMinimum(context.Context) ([]*entity.Material, error) {
	return nil, errNoSoportado
}
func (t txMaterialRepo) UpdateDescriptive(context.Context, string, repository.MaterialDescriptiveUpdate) error {
	return errNoSoportado
}
func (t txMaterialRepo) Deactivate(context.Context, string) error { return errNoSoportado }

type txMovementRepo struct{ *memTx }

func (t txMovementRepo) Create(_ context.Context, mov *entity.StockMovement) error {
	c := *mov
	t.movements = append(t.movements, &c)
	return nil
}
func (t txMovementRepo) ListByMaterial(context.Context, string, int) ([]*entity.StockMovementDetail, error) {
	return nil, errNoSoportado
}
func (t txMovementRepo) ListAllByMaterial(context.Context, string) ([]*entity.StockMovement, error) {
	return nil, errNoSoportado
}

// ── Repositorios fuera de transacción (lecturas confirmadas) ──────────────────

type memMaterialRepo struct{ s *memStore }

func (r memMaterialRepo) Create(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.materials[m.ID] = copyMaterial(m)
	return nil
}

func (r memMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	if hook := r.s.onMaterialRead; hook != nil {
		hook()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyMaterial(r.s.materials[id]), nil
}

func (r memMaterialRepo) GetByCodigo(context.Context, string) (*entity.Material, error) {
	return nil, errNoSoportado
}

func (r memMaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

func (r memMaterialRepo) List(context.Context, repository.MaterialFilter) ([]*entity.Material, int, error) {
	return nil, 0, errNoSoportado
}

func (r memMaterialRepo) ListBelowMinimum(context.Context) ([]*entity.Material, error) {
	return nil, errNoSoportado
}

func (r memMaterialRepo) UpdateStock(context.Context, string, decimal.Decimal) error {
	return errNoSoportado
}

func (r memMaterialRepo) UpdateDescriptive(context.Context, string, repository.MaterialDescriptiveUpdate) error {
	return errNoSoportado
}

func (r memMaterialRepo) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.materials[id]; ok {
		m.Activo = false
	}
	return nil
}

type memMovementRepo struct{ s *memStore }

func (r memMovementRepo) Create(context.Context, *entity.StockMovement) error { return errNoSoportado }

func (r memMovementRepo) ListByMaterial(_ context.Context, materialID string, limit int) ([]*entity.StockMovementDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovementDetail
	for i := len(r.s.movements) - 1; i >= 0 && len(out) < limit; i-- {
		m := r.s.movements[i]
		if m.MaterialID != materialID {
			continue
		}
		d := &entity.StockMovementDetail{StockMovement: *m, UserName: r.s.users[m.CreatedBy]}
		if m.CompraID != nil {
			if p, ok := r.s.purchases[*m.CompraID]; ok {
				numero := p.Numero
				d.CompraNumero = &numero
				if sup, ok := r.s.suppliers[p.ProveedorID]; ok {
					nombre := sup.Nombre
					d.ProveedorNombre = &nombre
				}
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (r memMovementRepo) ListAllByMaterial(_ context.Context, materialID string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.MaterialID == materialID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

type memPurchaseRepo struct{ s *memStore }

func (r memPurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

// ── Sumidero de eventos ───────────────────────────────────────────────────────

type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureSink) Enqueue(evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
}

func (c *captureSink) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	sort.Strings(out)
	return out
}
