package mocks

import (
	"context"
	"database/sql"
	"database/sql/driver"

	"github.com/stretchr/testify/mock"
)

// MockDBTX is a transaction that never reaches a database. Service tests drive its commit and
// rollback paths; repository mocks receive it as an opaque value. Statements are matched on
// their SQL text only.
type MockDBTX struct {
	mock.Mock
}

// AllowRollback accepts the deferred Rollback every transactional service issues.
func (m *MockDBTX) AllowRollback() *MockDBTX {
	m.On("Rollback").Return(nil).Maybe()
	return m
}

func (m *MockDBTX) ExpectCommit(err error) *MockDBTX {
	m.On("Commit").Return(err).Once()
	return m
}

// ExecContext returns the int registered as the first return value as rows affected.
func (m *MockDBTX) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ret := m.Called(query)
	return driver.RowsAffected(ret.Int(0)), ret.Error(1)
}

func (m *MockDBTX) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	ret := m.Called(query)
	rows, _ := ret.Get(0).(*sql.Rows)
	return rows, ret.Error(1)
}

func (m *MockDBTX) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	row, _ := m.Called(query).Get(0).(*sql.Row)
	return row
}

func (m *MockDBTX) Commit() error {
	return m.Called().Error(0)
}

func (m *MockDBTX) Rollback() error {
	return m.Called().Error(0)
}
