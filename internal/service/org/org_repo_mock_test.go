package org

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/emslab/labadmin/internal/domain"
)

var _ orgRepo = &orgRepoMock{}

type orgRepoMock struct {
	DepartmentsFunc   func(ctx context.Context) ([]domain.Department, error)
	LabsFunc          func(ctx context.Context) ([]domain.Lab, error)
	MembersFunc       func(ctx context.Context, labID uuid.UUID) ([]domain.LabMember, error)
	MembershipFunc    func(ctx context.Context, labID, userID uuid.UUID) (*domain.LabMembership, error)
	AddMemberFunc     func(ctx context.Context, labID, userID uuid.UUID, roleInLab string) (int64, error)
	RemoveMemberFunc  func(ctx context.Context, labID, userID uuid.UUID) (int64, error)
	MembershipsOfFunc func(ctx context.Context, userID uuid.UUID) ([]domain.LabMembership, error)
	IsMemberFunc      func(ctx context.Context, userID, labID uuid.UUID) (bool, error)

	calls struct {
		Departments []struct{}
		Labs        []struct{}
		Members     []struct {
			LabID uuid.UUID
		}
		Membership []struct {
			LabID  uuid.UUID
			UserID uuid.UUID
		}
		AddMember []struct {
			LabID     uuid.UUID
			UserID    uuid.UUID
			RoleInLab string
		}
		RemoveMember []struct {
			LabID  uuid.UUID
			UserID uuid.UUID
		}
		MembershipsOf []struct {
			UserID uuid.UUID
		}
		IsMember []struct {
			UserID uuid.UUID
			LabID  uuid.UUID
		}
	}
	lockDepartments   sync.RWMutex
	lockLabs          sync.RWMutex
	lockMembers       sync.RWMutex
	lockMembership    sync.RWMutex
	lockAddMember     sync.RWMutex
	lockRemoveMember  sync.RWMutex
	lockMembershipsOf sync.RWMutex
	lockIsMember      sync.RWMutex
}

func (mock *orgRepoMock) Departments(ctx context.Context) ([]domain.Department, error) {
	if mock.DepartmentsFunc == nil {
		panic("orgRepoMock.DepartmentsFunc: method is nil but orgRepo.Departments was just called")
	}
	mock.lockDepartments.Lock()
	mock.calls.Departments = append(mock.calls.Departments, struct{}{})
	mock.lockDepartments.Unlock()
	return mock.DepartmentsFunc(ctx)
}

func (mock *orgRepoMock) DepartmentsCalls() []struct{} {
	mock.lockDepartments.RLock()
	calls := mock.calls.Departments
	mock.lockDepartments.RUnlock()
	return calls
}

func (mock *orgRepoMock) Labs(ctx context.Context) ([]domain.Lab, error) {
	if mock.LabsFunc == nil {
		panic("orgRepoMock.LabsFunc: method is nil but orgRepo.Labs was just called")
	}
	mock.lockLabs.Lock()
	mock.calls.Labs = append(mock.calls.Labs, struct{}{})
	mock.lockLabs.Unlock()
	return mock.LabsFunc(ctx)
}

func (mock *orgRepoMock) LabsCalls() []struct{} {
	mock.lockLabs.RLock()
	calls := mock.calls.Labs
	mock.lockLabs.RUnlock()
	return calls
}

func (mock *orgRepoMock) Members(ctx context.Context, labID uuid.UUID) ([]domain.LabMember, error) {
	if mock.MembersFunc == nil {
		panic("orgRepoMock.MembersFunc: method is nil but orgRepo.Members was just called")
	}
	callInfo := struct{ LabID uuid.UUID }{LabID: labID}
	mock.lockMembers.Lock()
	mock.calls.Members = append(mock.calls.Members, callInfo)
	mock.lockMembers.Unlock()
	return mock.MembersFunc(ctx, labID)
}

func (mock *orgRepoMock) MembersCalls() []struct{ LabID uuid.UUID } {
	mock.lockMembers.RLock()
	calls := mock.calls.Members
	mock.lockMembers.RUnlock()
	return calls
}

func (mock *orgRepoMock) Membership(ctx context.Context, labID, userID uuid.UUID) (*domain.LabMembership, error) {
	if mock.MembershipFunc == nil {
		panic("orgRepoMock.MembershipFunc: method is nil but orgRepo.Membership was just called")
	}
	callInfo := struct {
		LabID  uuid.UUID
		UserID uuid.UUID
	}{LabID: labID, UserID: userID}
	mock.lockMembership.Lock()
	mock.calls.Membership = append(mock.calls.Membership, callInfo)
	mock.lockMembership.Unlock()
	return mock.MembershipFunc(ctx, labID, userID)
}

func (mock *orgRepoMock) MembershipCalls() []struct {
	LabID  uuid.UUID
	UserID uuid.UUID
} {
	mock.lockMembership.RLock()
	calls := mock.calls.Membership
	mock.lockMembership.RUnlock()
	return calls
}

func (mock *orgRepoMock) AddMember(ctx context.Context, labID, userID uuid.UUID, roleInLab string) (int64, error) {
	if mock.AddMemberFunc == nil {
		panic("orgRepoMock.AddMemberFunc: method is nil but orgRepo.AddMember was just called")
	}
	callInfo := struct {
		LabID     uuid.UUID
		UserID    uuid.UUID
		RoleInLab string
	}{LabID: labID, UserID: userID, RoleInLab: roleInLab}
	mock.lockAddMember.Lock()
	mock.calls.AddMember = append(mock.calls.AddMember, callInfo)
	mock.lockAddMember.Unlock()
	return mock.AddMemberFunc(ctx, labID, userID, roleInLab)
}

func (mock *orgRepoMock) AddMemberCalls() []struct {
	LabID     uuid.UUID
	UserID    uuid.UUID
	RoleInLab string
} {
	mock.lockAddMember.RLock()
	calls := mock.calls.AddMember
	mock.lockAddMember.RUnlock()
	return calls
}

func (mock *orgRepoMock) RemoveMember(ctx context.Context, labID, userID uuid.UUID) (int64, error) {
	if mock.RemoveMemberFunc == nil {
		panic("orgRepoMock.RemoveMemberFunc: method is nil but orgRepo.RemoveMember was just called")
	}
	callInfo := struct {
		LabID  uuid.UUID
		UserID uuid.UUID
	}{LabID: labID, UserID: userID}
	mock.lockRemoveMember.Lock()
	mock.calls.RemoveMember = append(mock.calls.RemoveMember, callInfo)
	mock.lockRemoveMember.Unlock()
	return mock.RemoveMemberFunc(ctx, labID, userID)
}

func (mock *orgRepoMock) RemoveMemberCalls() []struct {
	LabID  uuid.UUID
	UserID uuid.UUID
} {
	mock.lockRemoveMember.RLock()
	calls := mock.calls.RemoveMember
	mock.lockRemoveMember.RUnlock()
	return calls
}

func (mock *orgRepoMock) MembershipsOf(ctx context.Context, userID uuid.UUID) ([]domain.LabMembership, error) {
	if mock.MembershipsOfFunc == nil {
		panic("orgRepoMock.MembershipsOfFunc: method is nil but orgRepo.MembershipsOf was just called")
	}
	callInfo := struct{ UserID uuid.UUID }{UserID: userID}
	mock.lockMembershipsOf.Lock()
	mock.calls.MembershipsOf = append(mock.calls.MembershipsOf, callInfo)
	mock.lockMembershipsOf.Unlock()
	return mock.MembershipsOfFunc(ctx, userID)
}

func (mock *orgRepoMock) MembershipsOfCalls() []struct{ UserID uuid.UUID } {
	mock.lockMembershipsOf.RLock()
	calls := mock.calls.MembershipsOf
	mock.lockMembershipsOf.RUnlock()
	return calls
}

func (mock *orgRepoMock) IsMember(ctx context.Context, userID, labID uuid.UUID) (bool, error) {
	if mock.IsMemberFunc == nil {
		panic("orgRepoMock.IsMemberFunc: method is nil but orgRepo.IsMember was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
		LabID  uuid.UUID
	}{UserID: userID, LabID: labID}
	mock.lockIsMember.Lock()
	mock.calls.IsMember = append(mock.calls.IsMember, callInfo)
	mock.lockIsMember.Unlock()
	return mock.IsMemberFunc(ctx, userID, labID)
}

func (mock *orgRepoMock) IsMemberCalls() []struct {
	UserID uuid.UUID
	LabID  uuid.UUID
} {
	mock.lockIsMember.RLock()
	calls := mock.calls.IsMember
	mock.lockIsMember.RUnlock()
	return calls
}
