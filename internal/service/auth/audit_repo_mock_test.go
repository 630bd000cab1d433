package auth

import (
	"context"
	"sync"

	"github.com/emslab/labadmin/internal/domain"
)

var _ auditRepo = &auditRepoMock{}

type auditRepoMock struct {
	LogFunc func(ctx context.Context, rec domain.AuditRecord) (int64, error)

	calls struct {
		Log []struct {
			Rec domain.AuditRecord
		}
	}
	lockLog sync.RWMutex
}

func (mock *auditRepoMock) Log(ctx context.Context, rec domain.AuditRecord) (int64, error) {
	if mock.LogFunc == nil {
		panic("auditRepoMock.LogFunc: method is nil but auditRepo.Log was just called")
	}
	callInfo := struct{ Rec domain.AuditRecord }{Rec: rec}
	mock.lockLog.Lock()
	mock.calls.Log = append(mock.calls.Log, callInfo)
	mock.lockLog.Unlock()
	return mock.LogFunc(ctx, rec)
}

func (mock *auditRepoMock) LogCalls() []struct{ Rec domain.AuditRecord } {
	mock.lockLog.RLock()
	calls := mock.calls.Log
	mock.lockLog.RUnlock()
	return calls
}
