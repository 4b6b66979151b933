package user

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID    map[string]*User
	byEmail map[string]*User
	seq     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeRepo) Create(ctx context.Context, u *User) error {
	if _, exists := r.byEmail[u.Email]; exists {
		return ErrEmailAlreadyUsed
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	u.CreatedAt = time.Now()
	clone := *u
	r.byID[u.ID] = &clone
	r.byEmail[u.Email] = &clone
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, u *User) error {
	stored, ok := r.byID[u.ID]
	if !ok {
		return ErrNotFound
	}
	delete(r.byEmail, stored.Email)
	clone := *u
	r.byID[u.ID] = &clone
	r.byEmail[u.Email] = &clone
	return nil
}

func (r *fakeRepo) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	if u, ok := r.byID[id]; ok {
		u.LastLoginAt = &t
	}
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	var out []*User
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	return out, len(out), nil
}

// plainHasher avoids bcrypt cost in unit tests.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (plainHasher) Compare(hash, plain string) error {
	if hash != "hashed:"+plain {
		return errors.New("mismatch")
	}
	return nil
}

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, plainHasher{}), repo
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults To Resident", func(t *testing.T) {
		svc, _ := newTestService()
		u, err := svc.Register(ctx, RegisterRequest{
			Email:       "Alice@Example.com ",
			Password:    "supersecret",
			DisplayName: "Alice",
			FlatNumber:  "A-101",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.Equal(t, RoleResident, u.Role)
		assert.True(t, u.IsActive)
		require.NotNil(t, u.DisplayName)
		assert.Equal(t, "Alice", *u.DisplayName)
		require.NotNil(t, u.FlatNumber)
		assert.Equal(t, "A-101", *u.FlatNumber)
		assert.Nil(t, u.Phone)
	})

	t.Run("Rejects Short Password", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "short"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("Rejects Duplicate Email", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "supersecret"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, RegisterRequest{Email: "A@B.COM", Password: "supersecret"})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	u, err := svc.Register(ctx, RegisterRequest{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		got, err := svc.Login(ctx, "alice@example.com", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "supersecret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Inactive Account", func(t *testing.T) {
		inactive := false
		_, err := svc.AdminUpdate(ctx, u.ID, AdminUpdateRequest{IsActive: &inactive})
		require.NoError(t, err)

		_, err = svc.Login(ctx, "alice@example.com", "supersecret")
		assert.ErrorIs(t, err, ErrInactiveUser)

		active := true
		_, err = svc.AdminUpdate(ctx, u.ID, AdminUpdateRequest{IsActive: &active})
		require.NoError(t, err)
	})

	t.Run("Updates Last Login", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "supersecret")
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLoginAt)
	})
}

func TestAdminUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, err := svc.Register(ctx, RegisterRequest{Email: "bob@example.com", Password: "supersecret"})
	require.NoError(t, err)

	t.Run("Promote To Staff", func(t *testing.T) {
		role := "staff"
		updated, err := svc.AdminUpdate(ctx, u.ID, AdminUpdateRequest{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, RoleStaff, updated.Role)
	})

	t.Run("Rejects Unknown Role", func(t *testing.T) {
		role := "superuser"
		_, err := svc.AdminUpdate(ctx, u.ID, AdminUpdateRequest{Role: &role})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, err := svc.Register(ctx, RegisterRequest{Email: "carol@example.com", Password: "supersecret", DisplayName: "Carol"})
	require.NoError(t, err)

	name := "Carol M."
	phone := "555-0101"
	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{DisplayName: &name, Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, updated.DisplayName)
	assert.Equal(t, "Carol M.", *updated.DisplayName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555-0101", *updated.Phone)

	// Blanking a field clears it.
	empty := ""
	updated, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{Phone: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Phone)
}
