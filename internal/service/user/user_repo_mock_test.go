package user

import (
	"context"
	"sync"

	"github.com/google/uuid"

	userrepo "github.com/emslab/labadmin/internal/adapter/postgres/user"
	"github.com/emslab/labadmin/internal/domain"
)

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	CreateFunc         func(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListFunc           func(ctx context.Context, f userrepo.Filter) ([]domain.User, error)
	UpdateStatusFunc   func(ctx context.Context, id uuid.UUID, status domain.UserStatus) (int64, error)
	UsernameExistsFunc func(ctx context.Context, username string) (bool, error)

	calls struct {
		Create []struct {
			U *domain.User
		}
		GetByID []struct {
			ID uuid.UUID
		}
		List []struct {
			F userrepo.Filter
		}
		UpdateStatus []struct {
			ID     uuid.UUID
			Status domain.UserStatus
		}
		UsernameExists []struct {
			Username string
		}
	}
	lockCreate         sync.RWMutex
	lockGetByID        sync.RWMutex
	lockList           sync.RWMutex
	lockUpdateStatus   sync.RWMutex
	lockUsernameExists sync.RWMutex
}

func (mock *userRepoMock) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if mock.CreateFunc == nil {
		panic("userRepoMock.CreateFunc: method is nil but userRepo.Create was just called")
	}
	callInfo := struct{ U *domain.User }{U: u}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, u)
}

func (mock *userRepoMock) CreateCalls() []struct{ U *domain.User } {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if mock.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc: method is nil but userRepo.GetByID was just called")
	}
	callInfo := struct{ ID uuid.UUID }{ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *userRepoMock) GetByIDCalls() []struct{ ID uuid.UUID } {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *userRepoMock) List(ctx context.Context, f userrepo.Filter) ([]domain.User, error) {
	if mock.ListFunc == nil {
		panic("userRepoMock.ListFunc: method is nil but userRepo.List was just called")
	}
	callInfo := struct{ F userrepo.Filter }{F: f}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, f)
}

func (mock *userRepoMock) ListCalls() []struct{ F userrepo.Filter } {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *userRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) (int64, error) {
	if mock.UpdateStatusFunc == nil {
		panic("userRepoMock.UpdateStatusFunc: method is nil but userRepo.UpdateStatus was just called")
	}
	callInfo := struct {
		ID     uuid.UUID
		Status domain.UserStatus
	}{ID: id, Status: status}
	mock.lockUpdateStatus.Lock()
	mock.calls.UpdateStatus = append(mock.calls.UpdateStatus, callInfo)
	mock.lockUpdateStatus.Unlock()
	return mock.UpdateStatusFunc(ctx, id, status)
}

func (mock *userRepoMock) UpdateStatusCalls() []struct {
	ID     uuid.UUID
	Status domain.UserStatus
} {
	mock.lockUpdateStatus.RLock()
	calls := mock.calls.UpdateStatus
	mock.lockUpdateStatus.RUnlock()
	return calls
}

func (mock *userRepoMock) UsernameExists(ctx context.Context, username string) (bool, error) {
	if mock.UsernameExistsFunc == nil {
		panic("userRepoMock.UsernameExistsFunc: method is nil but userRepo.UsernameExists was just called")
	}
	callInfo := struct{ Username string }{Username: username}
	mock.lockUsernameExists.Lock()
	mock.calls.UsernameExists = append(mock.calls.UsernameExists, callInfo)
	mock.lockUsernameExists.Unlock()
	return mock.UsernameExistsFunc(ctx, username)
}

func (mock *userRepoMock) UsernameExistsCalls() []struct{ Username string } {
	mock.lockUsernameExists.RLock()
	calls := mock.calls.UsernameExists
	mock.lockUsernameExists.RUnlock()
	return calls
}
