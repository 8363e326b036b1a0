package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"gestionale/pkg/models"
	"gestionale/pkg/pgstore"
)

// Login verifies the credentials and returns the user. Unknown emails, wrong
// passwords and deactivated accounts are indistinguishable to the caller.
func (s *GestionaleService) Login(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, pgstore.ErrUserNotFound):
		return models.User{}, models.ErrInvalidCredentials
	case err != nil:
		return models.User{}, err
	}
	if !user.Active {
		return models.User{}, models.ErrInvalidCredentials
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, models.ErrInvalidCredentials
	}
	return user, nil
}

// hashPassword swaps a plaintext Password for its bcrypt hash in place.
func hashPassword(user *models.UserRequest) error {
	if user.Password == nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	h := string(hash)
	user.PasswordHash = &h
	user.Password = nil
	return nil
}

func (s *GestionaleService) StartOnboarding(ctx context.Context, candidateID int, actor models.Claims) (models.OnboardingResult, error) {
	return s.store.StartOnboarding(ctx, candidateID, actor.Area)
}
