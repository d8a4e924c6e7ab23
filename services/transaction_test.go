package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allamaprabhu/management-api/repositories"
)

// MockTransactionManager is a mock implementation of TransactionManager.
// InTransaction runs fn against Tx unless the expectation returns an error.
type MockTransactionManager struct {
	mock.Mock
	Tx *MockTransaction
}

func (m *MockTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}

	if err := fn(ctx, m.Tx); err != nil {
		_ = m.Tx.Rollback()
		return err
	}
	return m.Tx.Commit()
}

// MockTransaction is a mock implementation of Transaction
type MockTransaction struct {
	committed  bool
	rolledback bool
	commitErr  error
}

func (m *MockTransaction) Commit() error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = true
	return nil
}

func (m *MockTransaction) Rollback() error {
	m.rolledback = true
	return nil
}

func (m *MockTransaction) Context() context.Context {
	return context.Background()
}

func newMockTxManager() *MockTransactionManager {
	return &MockTransactionManager{Tx: &MockTransaction{}}
}

func TestWithTransaction_Success(t *testing.T) {
	ctx := context.Background()
	txMgr := newMockTxManager()
	txMgr.On("InTransaction", ctx).Return(nil)

	called := false
	err := WithTransaction(ctx, txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		called = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
	assert.True(t, txMgr.Tx.committed)
	assert.False(t, txMgr.Tx.rolledback)
	txMgr.AssertExpectations(t)
}

func TestWithTransaction_ErrorInFunction(t *testing.T) {
	ctx := context.Background()
	txMgr := newMockTxManager()
	txMgr.On("InTransaction", ctx).Return(nil)
	expectedErr := errors.New("operation failed")

	err := WithTransaction(ctx, txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		return expectedErr
	})

	assert.Equal(t, expectedErr, err)
	assert.False(t, txMgr.Tx.committed)
	assert.True(t, txMgr.Tx.rolledback)
}

func TestWithTransaction_BeginError(t *testing.T) {
	ctx := context.Background()
	txMgr := newMockTxManager()
	txMgr.On("InTransaction", ctx).Return(errors.New("failed to begin transaction"))

	called := false
	err := WithTransaction(ctx, txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		called = true
		return nil
	})

	assert.ErrorContains(t, err, "failed to begin transaction")
	assert.False(t, called)
}

func TestWithTransactionResult_Success(t *testing.T) {
	ctx := context.Background()
	txMgr := newMockTxManager()
	txMgr.On("InTransaction", ctx).Return(nil)

	result, err := WithTransactionResult(ctx, txMgr, func(ctx context.Context, tx repositories.Transaction) (string, error) {
		return "done", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.True(t, txMgr.Tx.committed)
}

func TestWithTransactionResult_ErrorReturnsZeroValue(t *testing.T) {
	ctx := context.Background()
	txMgr := newMockTxManager()
	txMgr.On("InTransaction", ctx).Return(nil)
	expectedErr := errors.New("operation failed")

	result, err := WithTransactionResult(ctx, txMgr, func(ctx context.Context, tx repositories.Transaction) (int, error) {
		return 42, expectedErr
	})

	assert.Equal(t, expectedErr, err)
	assert.Equal(t, 0, result)
	assert.True(t, txMgr.Tx.rolledback)
}

func TestWithTransactionResult_CommitError(t *testing.T) {
	ctx := context.Background()
	txMgr := newMockTxManager()
	txMgr.Tx.commitErr = errors.New("commit failed")
	txMgr.On("InTransaction", ctx).Return(nil)

	result, err := WithTransactionResult(ctx, txMgr, func(ctx context.Context, tx repositories.Transaction) (*int, error) {
		v := 1
		return &v, nil
	})

	assert.ErrorContains(t, err, "commit failed")
	assert.Nil(t, result)
}
