package services

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/repositories"
)

// fakeStore is an in-memory stand-in for the postgres repositories.
// Transactions are serialized by txMu, which plays the role of the row
// locks taken by LockForDeletion, and roll back by restoring a snapshot.
type fakeStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	admins  map[uuid.UUID]*models.Admin
	faculty map[uuid.UUID]*models.Faculty
	audit   []*models.AuditLog

	// errs injects a failure for the named repository method
	errs map[string]error

	getByIDCalls  int
	lockByIDCalls int
}

type fakeTxKey struct{}

type fakeTx struct{ ctx context.Context }

func (t *fakeTx) Commit() error            { return nil }
func (t *fakeTx) Rollback() error          { return nil }
func (t *fakeTx) Context() context.Context { return t.ctx }

func inFakeTx(ctx context.Context) bool {
	return ctx.Value(fakeTxKey{}) != nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		admins:  map[uuid.UUID]*models.Admin{},
		faculty: map[uuid.UUID]*models.Faculty{},
		errs:    map[string]error{},
	}
}

func (s *fakeStore) adminRepo() *fakeAdminRepo     { return &fakeAdminRepo{s} }
func (s *fakeStore) facultyRepo() *fakeFacultyRepo { return &fakeFacultyRepo{s} }
func (s *fakeStore) auditRepo() *fakeAuditRepo     { return &fakeAuditRepo{s} }
func (s *fakeStore) txManager() *fakeTxManager     { return &fakeTxManager{s} }

func (s *fakeStore) fail(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs[method]
}

func (s *fakeStore) addAdmin(name, email string, role models.Role) *models.Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := models.NewAdmin(name, email, "$2a$10$unused", role)
	s.admins[a.ID] = a
	cp := *a
	return &cp
}

func (s *fakeStore) superadminCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.admins {
		if a.Role == models.RoleSuperadmin {
			n++
		}
	}
	return n
}

func (s *fakeStore) auditEntries() []*models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.AuditLog(nil), s.audit...)
}

type fakeSnapshot struct {
	admins  map[uuid.UUID]models.Admin
	faculty map[uuid.UUID]models.Faculty
	audit   int
}

func (s *fakeStore) snapshot() fakeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := fakeSnapshot{
		admins:  make(map[uuid.UUID]models.Admin, len(s.admins)),
		faculty: make(map[uuid.UUID]models.Faculty, len(s.faculty)),
		audit:   len(s.audit),
	}
	for id, a := range s.admins {
		snap.admins[id] = *a
	}
	for id, f := range s.faculty {
		snap.faculty[id] = *f
	}
	return snap
}

func (s *fakeStore) restore(snap fakeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins = make(map[uuid.UUID]*models.Admin, len(snap.admins))
	for id, a := range snap.admins {
		a := a
		s.admins[id] = &a
	}
	s.faculty = make(map[uuid.UUID]*models.Faculty, len(snap.faculty))
	for id, f := range snap.faculty {
		f := f
		s.faculty[id] = &f
	}
	s.audit = s.audit[:snap.audit]
}

// fakeTxManager implements repositories.TransactionManager over fakeStore
type fakeTxManager struct{ s *fakeStore }

func (m *fakeTxManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return &fakeTx{ctx: ctx}, nil
}

func (m *fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	if inFakeTx(ctx) {
		return fn(ctx, &fakeTx{ctx: ctx})
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snap := m.s.snapshot()
	txCtx := context.WithValue(ctx, fakeTxKey{}, true)
	if err := fn(txCtx, &fakeTx{ctx: txCtx}); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

// fakeAdminRepo implements repositories.AdminRepository
type fakeAdminRepo struct{ s *fakeStore }

func (r *fakeAdminRepo) emailTaken(email string, except uuid.UUID) bool {
	for id, a := range r.s.admins {
		if id != except && a.Email == email {
			return true
		}
	}
	return false
}

func (r *fakeAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	if err := r.s.fail("Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(admin.Email, admin.ID) {
		return &repositories.DuplicateError{Field: "email"}
	}
	cp := *admin
	r.s.admins[admin.ID] = &cp
	return nil
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	r.s.mu.Lock()
	r.s.getByIDCalls++
	r.s.mu.Unlock()
	if err := r.s.fail("GetByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.admins[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if err := r.s.fail("GetByEmail"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAdminRepo) List(ctx context.Context) ([]*models.Admin, error) {
	if err := r.s.fail("List"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*models.Admin, 0, len(r.s.admins))
	for _, a := range r.s.admins {
		cp := *a
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *fakeAdminRepo) LockByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	if !inFakeTx(ctx) {
		return nil, errors.New("lock requires a transaction")
	}
	r.s.mu.Lock()
	r.s.lockByIDCalls++
	a, ok := r.s.admins[id]
	r.s.mu.Unlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdminRepo) Update(ctx context.Context, admin *models.Admin) error {
	if err := r.s.fail("Update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.admins[admin.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.emailTaken(admin.Email, admin.ID) {
		return &repositories.DuplicateError{Field: "email"}
	}
	hash := stored.PasswordHash
	if admin.PasswordHash != "" {
		hash = admin.PasswordHash
	}
	cp := *admin
	cp.PasswordHash = hash
	r.s.admins[admin.ID] = &cp
	return nil
}

func (r *fakeAdminRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.s.fail("Delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.admins[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.admins, id)
	return nil
}

func (r *fakeAdminRepo) LockForDeletion(ctx context.Context, id uuid.UUID) (*models.Admin, int, error) {
	if !inFakeTx(ctx) {
		return nil, 0, errors.New("lock requires a transaction")
	}
	count := r.s.superadminCount()

	// Widen the window between count and delete
	runtime.Gosched()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.admins[id]
	if !ok {
		return nil, 0, repositories.ErrNotFound
	}
	cp := *a
	return &cp, count, nil
}

// fakeFacultyRepo implements repositories.FacultyRepository
type fakeFacultyRepo struct{ s *fakeStore }

func (r *fakeFacultyRepo) emailTaken(email string, except uuid.UUID) bool {
	for id, f := range r.s.faculty {
		if id != except && f.Email == email {
			return true
		}
	}
	return false
}

func (r *fakeFacultyRepo) Create(ctx context.Context, f *models.Faculty) error {
	if err := r.s.fail("Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(f.Email, f.ID) {
		return &repositories.DuplicateError{Field: "email"}
	}
	cp := *f
	r.s.faculty[f.ID] = &cp
	return nil
}

func (r *fakeFacultyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Faculty, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.faculty[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFacultyRepo) list(match func(*models.Faculty) bool) []*models.Faculty {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*models.Faculty
	for _, f := range r.s.faculty {
		if match(f) {
			cp := *f
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (r *fakeFacultyRepo) List(ctx context.Context) ([]*models.Faculty, error) {
	if err := r.s.fail("List"); err != nil {
		return nil, err
	}
	return r.list(func(*models.Faculty) bool { return true }), nil
}

func (r *fakeFacultyRepo) ListByInstitute(ctx context.Context, institute models.Institute) ([]*models.Faculty, error) {
	return r.list(func(f *models.Faculty) bool { return f.Institute == institute }), nil
}

func (r *fakeFacultyRepo) Update(ctx context.Context, f *models.Faculty) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.faculty[f.ID]; !ok {
		return repositories.ErrNotFound
	}
	if r.emailTaken(f.Email, f.ID) {
		return &repositories.DuplicateError{Field: "email"}
	}
	cp := *f
	r.s.faculty[f.ID] = &cp
	return nil
}

func (r *fakeFacultyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.s.fail("Delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.faculty[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.faculty, id)
	return nil
}

// fakeAuditRepo implements repositories.AuditRepository
type fakeAuditRepo struct{ s *fakeStore }

func (r *fakeAuditRepo) Insert(ctx context.Context, log *models.AuditLog) error {
	if err := r.s.fail("Insert"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, log)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.AuditLog
	for i := len(r.s.audit) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.s.audit[i])
	}
	return out, nil
}
