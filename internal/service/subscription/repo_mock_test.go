package subscription

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	postgressub "github.com/subtally/subtally/internal/adapter/postgres/subscription"
	"github.com/subtally/subtally/internal/domain"
)

var _ subscriptionRepo = &subscriptionRepoMock{}

type subscriptionRepoMock struct {
	ListByUserFunc          func(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error)
	ListRenewingBetweenFunc func(ctx context.Context, from, to time.Time) ([]domain.Subscription, error)
	CreateFunc              func(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error)
	UpdateFunc              func(ctx context.Context, userID, id uuid.UUID, patch postgressub.UpdatePatch) (*domain.Subscription, error)
	DeleteFunc              func(ctx context.Context, userID, id uuid.UUID) error

	calls struct {
		ListByUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		ListRenewingBetween []struct {
			Ctx  context.Context
			From time.Time
			To   time.Time
		}
		Create []struct {
			Ctx context.Context
			S   *domain.Subscription
		}
		Update []struct {
			Ctx    context.Context
			UserID uuid.UUID
			ID     uuid.UUID
			Patch  postgressub.UpdatePatch
		}
		Delete []struct {
			Ctx    context.Context
			UserID uuid.UUID
			ID     uuid.UUID
		}
	}
	lockListByUser          sync.RWMutex
	lockListRenewingBetween sync.RWMutex
	lockCreate              sync.RWMutex
	lockUpdate              sync.RWMutex
	lockDelete              sync.RWMutex
}

func (mock *subscriptionRepoMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error) {
	if mock.ListByUserFunc == nil {
		panic("subscriptionRepoMock.ListByUserFunc: method is nil but subscriptionRepo.ListByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{Ctx: ctx, UserID: userID}
	mock.lockListByUser.Lock()
	mock.calls.ListByUser = append(mock.calls.ListByUser, callInfo)
	mock.lockListByUser.Unlock()
	return mock.ListByUserFunc(ctx, userID)
}

func (mock *subscriptionRepoMock) ListByUserCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	mock.lockListByUser.RLock()
	calls := mock.calls.ListByUser
	mock.lockListByUser.RUnlock()
	return calls
}

func (mock *subscriptionRepoMock) ListRenewingBetween(ctx context.Context, from, to time.Time) ([]domain.Subscription, error) {
	if mock.ListRenewingBetweenFunc == nil {
		panic("subscriptionRepoMock.ListRenewingBetweenFunc: method is nil but subscriptionRepo.ListRenewingBetween was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		From time.Time
		To   time.Time
	}{Ctx: ctx, From: from, To: to}
	mock.lockListRenewingBetween.Lock()
	mock.calls.ListRenewingBetween = append(mock.calls.ListRenewingBetween, callInfo)
	mock.lockListRenewingBetween.Unlock()
	return mock.ListRenewingBetweenFunc(ctx, from, to)
}

func (mock *subscriptionRepoMock) ListRenewingBetweenCalls() []struct {
	Ctx  context.Context
	From time.Time
	To   time.Time
} {
	mock.lockListRenewingBetween.RLock()
	calls := mock.calls.ListRenewingBetween
	mock.lockListRenewingBetween.RUnlock()
	return calls
}

func (mock *subscriptionRepoMock) Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error) {
	if mock.CreateFunc == nil {
		panic("subscriptionRepoMock.CreateFunc: method is nil but subscriptionRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   *domain.Subscription
	}{Ctx: ctx, S: s}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, s)
}

func (mock *subscriptionRepoMock) CreateCalls() []struct {
	Ctx context.Context
	S   *domain.Subscription
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *subscriptionRepoMock) Update(ctx context.Context, userID, id uuid.UUID, patch postgressub.UpdatePatch) (*domain.Subscription, error) {
	if mock.UpdateFunc == nil {
		panic("subscriptionRepoMock.UpdateFunc: method is nil but subscriptionRepo.Update was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		ID     uuid.UUID
		Patch  postgressub.UpdatePatch
	}{Ctx: ctx, UserID: userID, ID: id, Patch: patch}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, userID, id, patch)
}

func (mock *subscriptionRepoMock) UpdateCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	ID     uuid.UUID
	Patch  postgressub.UpdatePatch
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *subscriptionRepoMock) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("subscriptionRepoMock.DeleteFunc: method is nil but subscriptionRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		ID     uuid.UUID
	}{Ctx: ctx, UserID: userID, ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, userID, id)
}

func (mock *subscriptionRepoMock) DeleteCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	ID     uuid.UUID
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}
