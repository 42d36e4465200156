package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dripnest/storefront/internal/domain/identity"
	"github.com/dripnest/storefront/internal/domain/shared"
)

// createAdmin registers a new account with the admin role and a verified email
func createAdmin(ctx context.Context, repo identity.UserRepository, name, email, password string) (*identity.User, error) {
	user, err := identity.NewUser(name, email, password)
	if err != nil {
		return nil, err
	}
	if err := user.SetRole(identity.RoleAdmin); err != nil {
		return nil, err
	}
	user.MarkEmailVerified(true)

	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, fmt.Errorf("user %s already exists, use promote instead", user.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// setRole changes the role of the account registered under email.
// The returned flag is false when the account already had the role.
func setRole(ctx context.Context, repo identity.UserRepository, email string, role identity.Role) (*identity.User, bool, error) {
	user, err := repo.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, false, fmt.Errorf("no user with email %s", email)
		}
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}
	if user.Role == role {
		return user, false, nil
	}
	if err := user.SetRole(role); err != nil {
		return nil, false, err
	}
	if err := repo.Update(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to update user: %w", err)
	}
	return user, true, nil
}

// resetPassword replaces the password of the account registered under email
func resetPassword(ctx context.Context, repo identity.UserRepository, email, password string) (*identity.User, error) {
	user, err := repo.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("no user with email %s", email)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
