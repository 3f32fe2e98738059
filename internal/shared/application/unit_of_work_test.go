package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type txMarker struct{}

func TestWithUnitOfWork(t *testing.T) {
	errBegin := errors.New("begin failed")
	errWork := errors.New("persist failed")
	errCommit := errors.New("commit failed")
	errRollback := errors.New("rollback failed")

	tests := []struct {
		name         string
		beginErr     error
		workErr      error
		commitErr    error
		rollbackErr  error
		wantErrs     []error
		wantWork     bool
		wantCommit   bool
		wantRollback bool
	}{
		{name: "commits on success", wantWork: true, wantCommit: true},
		{name: "begin failure skips the work", beginErr: errBegin, wantErrs: []error{errBegin}},
		{name: "work failure rolls back", workErr: errWork, wantErrs: []error{errWork}, wantWork: true, wantRollback: true},
		{name: "rollback failure is joined", workErr: errWork, rollbackErr: errRollback, wantErrs: []error{errWork, errRollback}, wantWork: true, wantRollback: true},
		{name: "commit failure is returned", commitErr: errCommit, wantErrs: []error{errCommit}, wantWork: true, wantCommit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			txCtx := context.WithValue(ctx, txMarker{}, "tx")

			uow := new(mockUnitOfWork)
			uow.On("Begin", ctx).Return(txCtx, tt.beginErr)
			if tt.wantCommit {
				uow.On("Commit", txCtx).Return(tt.commitErr)
			}
			if tt.wantRollback {
				uow.On("Rollback", txCtx).Return(tt.rollbackErr)
			}

			ran := false
			err := WithUnitOfWork(ctx, uow, func(got context.Context) error {
				ran = true
				assert.Equal(t, txCtx, got)
				return tt.workErr
			})

			assert.Equal(t, tt.wantWork, ran)
			if len(tt.wantErrs) == 0 {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantErrs {
				assert.ErrorIs(t, err, want)
			}
			uow.AssertExpectations(t)
			if !tt.wantCommit {
				uow.AssertNotCalled(t, "Commit", mock.Anything)
			}
		})
	}
}

func TestWithUnitOfWork_PanicRollsBack(t *testing.T) {
	ctx := context.Background()
	uow := new(mockUnitOfWork)
	uow.On("Begin", ctx).Return(ctx, nil)
	uow.On("Rollback", ctx).Return(nil)

	assert.PanicsWithValue(t, "store exploded", func() {
		_ = WithUnitOfWork(ctx, uow, func(context.Context) error {
			panic("store exploded")
		})
	})
	uow.AssertExpectations(t)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
