package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gestionale/pkg/models"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("segreto"), bcrypt.MinCost)
	require.NoError(t, err)
	store := &fakeStore{users: []models.User{
		{ID: 1, Email: "anna@studio.it", PasswordHash: string(hash), Active: true},
		{ID: 2, Email: "ex@studio.it", PasswordHash: string(hash), Active: false},
	}}
	svc := newTestService(store, &fakeNotifier{}, nil)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(ctx, "anna@studio.it", "segreto")
		require.NoError(t, err)
		require.Equal(t, 1, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "anna@studio.it", "sbagliata")
		require.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nessuno@studio.it", "segreto")
		require.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		_, err := svc.Login(ctx, "ex@studio.it", "segreto")
		require.ErrorIs(t, err, models.ErrInvalidCredentials)
	})
}

func TestCreateUserHashesPassword(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	svc := newTestService(store, &fakeNotifier{}, nil)

	_, err := svc.CreateUser(ctx, models.UserRequest{
		Email:    strPtr("nuovo@studio.it"),
		Password: strPtr("benvenuto"),
	})
	require.NoError(t, err)
	require.NotNil(t, store.createdUser)
	require.Nil(t, store.createdUser.Password)
	require.NotNil(t, store.createdUser.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(*store.createdUser.PasswordHash), []byte("benvenuto")))
}
