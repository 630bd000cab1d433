package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/emslab/labadmin/internal/domain"
)

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	GetActiveByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	TouchLastLoginFunc      func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePasswordFunc      func(ctx context.Context, id uuid.UUID, passwordHash string) (int64, error)

	calls struct {
		GetActiveByUsername []struct {
			Username string
		}
		TouchLastLogin []struct {
			ID uuid.UUID
		}
		UpdatePassword []struct {
			ID           uuid.UUID
			PasswordHash string
		}
	}
	lockGetActiveByUsername sync.RWMutex
	lockTouchLastLogin      sync.RWMutex
	lockUpdatePassword      sync.RWMutex
}

func (mock *userRepoMock) GetActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	if mock.GetActiveByUsernameFunc == nil {
		panic("userRepoMock.GetActiveByUsernameFunc: method is nil but userRepo.GetActiveByUsername was just called")
	}
	callInfo := struct{ Username string }{Username: username}
	mock.lockGetActiveByUsername.Lock()
	mock.calls.GetActiveByUsername = append(mock.calls.GetActiveByUsername, callInfo)
	mock.lockGetActiveByUsername.Unlock()
	return mock.GetActiveByUsernameFunc(ctx, username)
}

func (mock *userRepoMock) GetActiveByUsernameCalls() []struct{ Username string } {
	mock.lockGetActiveByUsername.RLock()
	calls := mock.calls.GetActiveByUsername
	mock.lockGetActiveByUsername.RUnlock()
	return calls
}

func (mock *userRepoMock) TouchLastLogin(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if mock.TouchLastLoginFunc == nil {
		panic("userRepoMock.TouchLastLoginFunc: method is nil but userRepo.TouchLastLogin was just called")
	}
	callInfo := struct{ ID uuid.UUID }{ID: id}
	mock.lockTouchLastLogin.Lock()
	mock.calls.TouchLastLogin = append(mock.calls.TouchLastLogin, callInfo)
	mock.lockTouchLastLogin.Unlock()
	return mock.TouchLastLoginFunc(ctx, id)
}

func (mock *userRepoMock) TouchLastLoginCalls() []struct{ ID uuid.UUID } {
	mock.lockTouchLastLogin.RLock()
	calls := mock.calls.TouchLastLogin
	mock.lockTouchLastLogin.RUnlock()
	return calls
}

func (mock *userRepoMock) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (int64, error) {
	if mock.UpdatePasswordFunc == nil {
		panic("userRepoMock.UpdatePasswordFunc: method is nil but userRepo.UpdatePassword was just called")
	}
	callInfo := struct {
		ID           uuid.UUID
		PasswordHash string
	}{ID: id, PasswordHash: passwordHash}
	mock.lockUpdatePassword.Lock()
	mock.calls.UpdatePassword = append(mock.calls.UpdatePassword, callInfo)
	mock.lockUpdatePassword.Unlock()
	return mock.UpdatePasswordFunc(ctx, id, passwordHash)
}

func (mock *userRepoMock) UpdatePasswordCalls() []struct {
	ID           uuid.UUID
	PasswordHash string
} {
	mock.lockUpdatePassword.RLock()
	calls := mock.calls.UpdatePassword
	mock.lockUpdatePassword.RUnlock()
	return calls
}
