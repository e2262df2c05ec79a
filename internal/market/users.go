package market

import (
	"context"
	"fmt"

	"github.com/erazemk/wastewise/internal/model"
)

// GetUser returns a user by ID.
func (m *Market) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u, ok, err := m.store.Users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetUserByUsername returns the first user with the given username.
func (m *Market) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	users, err := m.store.Users.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	for _, u := range users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// CreateUser stores a new user. in.Password must already be hashed.
// Username uniqueness is not checked here; see RegisterUser.
func (m *Market) CreateUser(ctx context.Context, in model.UserInput) (*model.User, error) {
	id, err := m.store.Users.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	u := model.User{
		ID:           id,
		Username:     in.Username,
		PasswordHash: in.Password,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Bio:          in.Bio,
		Location:     in.Location,
		ProfileImage: in.ProfileImage,
		CreatedAt:    m.now(),
	}
	if err := m.store.Users.Put(ctx, id, u); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &u, nil
}

// RegisterUser creates a user after checking that the username is free.
// in.Password must already be hashed.
func (m *Market) RegisterUser(ctx context.Context, in model.UserInput) (*model.User, error) {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	existing, err := m.GetUserByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	return m.CreateUser(ctx, in)
}

// UpdateUser merges patch into a user. It returns nil if the user does not
// exist.
func (m *Market) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	m.userMu.Lock()
	defer m.userMu.Unlock()
	return m.updateUser(ctx, id, func(u model.User) model.User { return patch.Apply(u) })
}

// updateUser applies fn to a stored user. Callers hold userMu.
func (m *Market) updateUser(ctx context.Context, id int64, fn func(model.User) model.User) (*model.User, error) {
	u, ok, err := m.store.Users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if !ok {
		return nil, nil
	}
	u = fn(u)
	u.ID = id
	if err := m.store.Users.Put(ctx, id, u); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return &u, nil
}
