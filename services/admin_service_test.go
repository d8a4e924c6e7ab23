package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/allamaprabhu/management-api/auth"
	"github.com/allamaprabhu/management-api/config"
	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/services/audit"
)

func newTestAdminService(t *testing.T, store *fakeStore) *AdminService {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return NewAdminService(
		store.adminRepo(),
		store.txManager(),
		audit.NewAuditService(store.auditRepo(), logger),
		logger,
	)
}

func principalOf(a *models.Admin) *auth.Principal {
	return auth.NewPrincipal(a)
}

func strPtr(s string) *string { return &s }

func rolePtr(r models.Role) *models.Role { return &r }

func TestAdminService_Create(t *testing.T) {
	store := newFakeStore()
	root := store.addAdmin("Super Admin", "root@example.com", models.RoleSuperadmin)
	service := newTestAdminService(t, store)

	admin, err := service.Create(context.Background(), principalOf(root), CreateAdminInput{
		Name:     "  Jane  ",
		Email:    "jane@example.com",
		Password: "secret123",
		Role:     models.RoleModerator,
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane", admin.Name)
	assert.Equal(t, models.RoleModerator, admin.Role)

	stored, err := store.adminRepo().GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	ok, err := auth.ComparePassword(stored.PasswordHash, "secret123")
	require.NoError(t, err)
	assert.True(t, ok)

	entries := store.auditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionAdminCreated, entries[0].Action)
	assert.Equal(t, root.ID, entries[0].ActorID)
	assert.Equal(t, admin.ID, entries[0].TargetID)
}

func TestAdminService_Create_DuplicateEmail(t *testing.T) {
	store := newFakeStore()
	root := store.addAdmin("Super Admin", "root@example.com", models.RoleSuperadmin)
	service := newTestAdminService(t, store)

	_, err := service.Create(context.Background(), principalOf(root), CreateAdminInput{
		Name:     "Imposter",
		Email:    "root@example.com",
		Password: "secret123",
		Role:     models.RoleAdmin,
	})

	require.Error(t, err)
	assert.True(t, IsConflictError(err))

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "Duplicate email", domainErr.Message)
	assert.Equal(t, "Email already exists", domainErr.Details)
	assert.Empty(t, store.auditEntries())
}

func TestAdminService_Create_AuditFailureRollsBack(t *testing.T) {
	store := newFakeStore()
	root := store.addAdmin("Super Admin", "root@example.com", models.RoleSuperadmin)
	store.errs["Insert"] = errors.New("audit table unavailable")
	service := newTestAdminService(t, store)

	_, err := service.Create(context.Background(), principalOf(root), CreateAdminInput{
		Name: "Jane", Email: "jane@example.com", Password: "secret123", Role: models.RoleAdmin,
	})

	assert.True(t, IsInternalError(err))
	_, getErr := store.adminRepo().GetByEmail(context.Background(), "jane@example.com")
	assert.Error(t, getErr)
}

func TestAdminService_List(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		service := newTestAdminService(t, newFakeStore())

		admins, err := service.List(context.Background())

		assert.Nil(t, admins)
		assert.ErrorIs(t, err, ErrNoAdmins)
	})

	t.Run("non-empty store", func(t *testing.T) {
		store := newFakeStore()
		store.addAdmin("A", "a@example.com", models.RoleSuperadmin)
		store.addAdmin("B", "b@example.com", models.RoleAdmin)
		service := newTestAdminService(t, store)

		admins, err := service.List(context.Background())

		require.NoError(t, err)
		assert.Len(t, admins, 2)
	})

	t.Run("store failure", func(t *testing.T) {
		store := newFakeStore()
		store.errs["List"] = errors.New("connection refused")
		service := newTestAdminService(t, store)

		_, err := service.List(context.Background())

		assert.True(t, IsInternalError(err))
		assert.ErrorContains(t, err, "Failed to retrieve admin list")
	})
}

func TestAdminService_Get(t *testing.T) {
	store := newFakeStore()
	jane := store.addAdmin("Jane", "jane@example.com", models.RoleAdmin)
	service := newTestAdminService(t, store)

	got, err := service.Get(context.Background(), jane.ID)
	require.NoError(t, err)
	assert.Equal(t, jane.Email, got.Email)

	_, err = service.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestAdminService_Update(t *testing.T) {
	tests := []struct {
		name        string
		superadmins int
		targetRole  models.Role
		input       UpdateAdminInput
		wantErr     error
		check       func(t *testing.T, updated *models.Admin)
	}{
		{
			name:        "rename",
			superadmins: 1,
			targetRole:  models.RoleAdmin,
			input:       UpdateAdminInput{Name: strPtr("Janet")},
			check: func(t *testing.T, updated *models.Admin) {
				assert.Equal(t, "Janet", updated.Name)
			},
		},
		{
			name:        "promote to superadmin",
			superadmins: 1,
			targetRole:  models.RoleModerator,
			input:       UpdateAdminInput{Role: rolePtr(models.RoleSuperadmin)},
			check: func(t *testing.T, updated *models.Admin) {
				assert.Equal(t, models.RoleSuperadmin, updated.Role)
			},
		},
		{
			name:        "demote one of two superadmins",
			superadmins: 1,
			targetRole:  models.RoleSuperadmin,
			input:       UpdateAdminInput{Role: rolePtr(models.RoleAdmin)},
			check: func(t *testing.T, updated *models.Admin) {
				assert.Equal(t, models.RoleAdmin, updated.Role)
			},
		},
		{
			name:        "demote last superadmin",
			superadmins: 0,
			targetRole:  models.RoleSuperadmin,
			input:       UpdateAdminInput{Role: rolePtr(models.RoleModerator)},
			wantErr:     ErrLastSuperadminDemotion,
		},
		{
			name:        "duplicate email",
			superadmins: 1,
			targetRole:  models.RoleAdmin,
			input:       UpdateAdminInput{Email: strPtr("other0@example.com")},
			wantErr:     NewDuplicateError("email", nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			var actor *models.Admin
			for i := 0; i < tt.superadmins; i++ {
				actor = store.addAdmin("Other", "other"+string(rune('0'+i))+"@example.com", models.RoleSuperadmin)
			}
			target := store.addAdmin("Jane", "jane@example.com", tt.targetRole)
			if actor == nil {
				actor = target
			}
			service := newTestAdminService(t, store)

			updated, err := service.Update(context.Background(), principalOf(actor), target.ID, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				stored, getErr := store.adminRepo().GetByID(context.Background(), target.ID)
				require.NoError(t, getErr)
				assert.Equal(t, tt.targetRole, stored.Role)
				assert.Equal(t, "jane@example.com", stored.Email)
				assert.Empty(t, store.auditEntries())
				return
			}

			require.NoError(t, err)
			tt.check(t, updated)

			entries := store.auditEntries()
			require.Len(t, entries, 1)
			assert.Equal(t, models.AuditActionAdminUpdated, entries[0].Action)
		})
	}
}

func TestAdminService_Update_Password(t *testing.T) {
	store := newFakeStore()
	root := store.addAdmin("Super Admin", "root@example.com", models.RoleSuperadmin)
	jane := store.addAdmin("Jane", "jane@example.com", models.RoleAdmin)
	service := newTestAdminService(t, store)

	_, err := service.Update(context.Background(), principalOf(root), jane.ID, UpdateAdminInput{Password: strPtr("newpass1")})
	require.NoError(t, err)

	stored, err := store.adminRepo().GetByID(context.Background(), jane.ID)
	require.NoError(t, err)
	ok, err := auth.ComparePassword(stored.PasswordHash, "newpass1")
	require.NoError(t, err)
	assert.True(t, ok)

	// A name-only update keeps the stored hash
	_, err = service.Update(context.Background(), principalOf(root), jane.ID, UpdateAdminInput{Name: strPtr("Janet")})
	require.NoError(t, err)
	kept, err := store.adminRepo().GetByID(context.Background(), jane.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.PasswordHash, kept.PasswordHash)
}

func TestAdminService_Update_NotFound(t *testing.T) {
	store := newFakeStore()
	root := store.addAdmin("Super Admin", "root@example.com", models.RoleSuperadmin)
	service := newTestAdminService(t, store)

	_, err := service.Update(context.Background(), principalOf(root), uuid.New(), UpdateAdminInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrAdminNotFound)

	_, err = service.Update(context.Background(), principalOf(root), uuid.New(), UpdateAdminInput{Role: rolePtr(models.RoleAdmin)})
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestAdminService_Delete(t *testing.T) {
	tests := []struct {
		name        string
		superadmins int
		targetRole  models.Role
		self        bool
		missing     bool
		wantErr     error
	}{
		{name: "delete moderator", superadmins: 1, targetRole: models.RoleModerator},
		{name: "delete one of two superadmins", superadmins: 1, targetRole: models.RoleSuperadmin},
		{name: "self deletion", superadmins: 2, targetRole: models.RoleSuperadmin, self: true, wantErr: ErrSelfDeletion},
		{name: "self deletion as admin", superadmins: 1, targetRole: models.RoleAdmin, self: true, wantErr: ErrSelfDeletion},
		{name: "last superadmin", superadmins: 0, targetRole: models.RoleSuperadmin, wantErr: ErrLastSuperadmin},
		{name: "unknown target", superadmins: 1, targetRole: models.RoleAdmin, missing: true, wantErr: ErrAdminNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			// The requester need not be stored: the role gate ran upstream
			actor := &auth.Principal{ID: uuid.New(), Name: "Requester", Role: models.RoleSuperadmin}
			for i := 0; i < tt.superadmins; i++ {
				store.addAdmin("Other", "other"+string(rune('0'+i))+"@example.com", models.RoleSuperadmin)
			}
			target := store.addAdmin("Target", "target@example.com", tt.targetRole)
			if tt.self {
				actor = principalOf(target)
			}
			targetID := target.ID
			if tt.missing {
				targetID = uuid.New()
			}
			service := newTestAdminService(t, store)

			err := service.Delete(context.Background(), actor, targetID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				_, getErr := store.adminRepo().GetByID(context.Background(), target.ID)
				assert.NoError(t, getErr)
				assert.Empty(t, store.auditEntries())
				return
			}

			require.NoError(t, err)
			_, getErr := store.adminRepo().GetByID(context.Background(), target.ID)
			assert.Error(t, getErr)

			entries := store.auditEntries()
			require.Len(t, entries, 1)
			assert.Equal(t, models.AuditActionAdminDeleted, entries[0].Action)
			assert.Equal(t, actor.ID, entries[0].ActorID)
			assert.Equal(t, target.ID, entries[0].TargetID)
			assert.Equal(t, "Target", entries[0].TargetName)
		})
	}
}

func TestAdminService_Delete_AuditFailureRollsBack(t *testing.T) {
	store := newFakeStore()
	root := store.addAdmin("Super Admin", "root@example.com", models.RoleSuperadmin)
	jane := store.addAdmin("Jane", "jane@example.com", models.RoleAdmin)
	store.errs["Insert"] = errors.New("disk full")
	service := newTestAdminService(t, store)

	err := service.Delete(context.Background(), principalOf(root), jane.ID)

	require.Error(t, err)
	assert.True(t, IsInternalError(err))
	assert.ErrorContains(t, err, "Failed to delete admin")

	_, getErr := store.adminRepo().GetByID(context.Background(), jane.ID)
	assert.NoError(t, getErr)
}

func TestAdminService_ConcurrentDeletesKeepOneSuperadmin(t *testing.T) {
	const n = 8

	store := newFakeStore()
	targets := make([]*models.Admin, n)
	for i := range targets {
		targets[i] = store.addAdmin("Super", uuid.NewString()+"@example.com", models.RoleSuperadmin)
	}
	service := NewAdminService(
		store.adminRepo(),
		store.txManager(),
		audit.NewAuditService(store.auditRepo(), zap.NewNop()),
		zap.NewNop(),
	)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		denied    int
	)
	for _, target := range targets {
		wg.Add(1)
		go func(target *models.Admin) {
			defer wg.Done()
			actor := &auth.Principal{ID: uuid.New(), Name: "Requester", Role: models.RoleSuperadmin}
			err := service.Delete(context.Background(), actor, target.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrLastSuperadmin):
				denied++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(target)
	}
	wg.Wait()

	assert.Equal(t, 1, store.superadminCount())
	assert.Equal(t, n-1, succeeded)
	assert.Equal(t, 1, denied)
	assert.Len(t, store.auditEntries(), n-1)
}

func TestAdminService_ConcurrentMutualDeletion(t *testing.T) {
	store := newFakeStore()
	a := store.addAdmin("A", "a@example.com", models.RoleSuperadmin)
	b := store.addAdmin("B", "b@example.com", models.RoleSuperadmin)
	service := newTestAdminService(t, store)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = service.Delete(context.Background(), principalOf(a), b.ID)
	}()
	go func() {
		defer wg.Done()
		errs[1] = service.Delete(context.Background(), principalOf(b), a.ID)
	}()
	wg.Wait()

	assert.Equal(t, 1, store.superadminCount())

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrLastSuperadmin)
			failures++
		}
	}
	assert.Equal(t, 1, failures)
}

func TestAdminService_ListAudit(t *testing.T) {
	store := newFakeStore()
	root := store.addAdmin("Super Admin", "root@example.com", models.RoleSuperadmin)
	service := newTestAdminService(t, store)

	for _, name := range []string{"one", "two", "three"} {
		_, err := service.Create(context.Background(), principalOf(root), CreateAdminInput{
			Name: name, Email: name + "@example.com", Password: "secret123", Role: models.RoleModerator,
		})
		require.NoError(t, err)
	}

	entries, err := service.ListAudit(context.Background(), 2, 0)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "three", entries[0].TargetName)
	assert.Equal(t, "two", entries[1].TargetName)
}

func TestAdminService_SeedSuperadmin(t *testing.T) {
	store := newFakeStore()
	service := newTestAdminService(t, store)
	cfg := config.SeedConfig{
		Email:    "superadmin@example.com",
		Password: "securepassword123",
		Name:     "Super Admin",
	}

	admin, created, err := service.SeedSuperadmin(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleSuperadmin, admin.Role)

	ok, err := auth.ComparePassword(admin.PasswordHash, "securepassword123")
	require.NoError(t, err)
	assert.True(t, ok)

	again, created, err := service.SeedSuperadmin(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
	assert.Equal(t, 1, store.superadminCount())
}

func TestAdminService_SeedSuperadmin_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.errs["GetByEmail"] = errors.New("connection refused")
	service := newTestAdminService(t, store)

	_, _, err := service.SeedSuperadmin(context.Background(), config.SeedConfig{Email: "x@example.com", Password: "secret123"})

	assert.True(t, IsInternalError(err))
}

func TestAdminService_Update_LocksTargetWithoutRoleChange(t *testing.T) {
	store := newFakeStore()
	root := store.addAdmin("Super Admin", "root@example.com", models.RoleSuperadmin)
	jane := store.addAdmin("Jane", "jane@example.com", models.RoleAdmin)
	service := newTestAdminService(t, store)

	_, err := service.Update(context.Background(), principalOf(root), jane.ID, UpdateAdminInput{Name: strPtr("Janet")})
	require.NoError(t, err)

	assert.Equal(t, 1, store.lockByIDCalls)
	assert.Zero(t, store.getByIDCalls)
}
