package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMigrator struct {
	mock.Mock
}

func (m *mockMigrator) Up() error { return m.Called().Error(0) }
func (m *mockMigrator) Down() error { return m.Called().Error(0) }
func (m *mockMigrator) Steps(n int) error { return m.Called(n).Error(0) }
func (m *mockMigrator) GoTo(v uint) error { return m.Called(v).Error(0) }
func (m *mockMigrator) Force(v int) error { return m.Called(v).Error(0) }
func (m *mockMigrator) Version() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

// run executes the CLI and reports whether a connection was opened
func run(t *testing.T, m Migrator, args ...string) (string, bool, error) {
	t.Helper()
	var opened, closed bool
	root := newRootCmd(func(string) (Migrator, func(), error) {
		opened = true
		return m, func() { closed = true }, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	assert.Equal(t, opened, closed, "every opened connection is closed")
	return out.String(), opened, err
}

func TestMigrate_DatabaseCommands(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		setup func(m *mockMigrator)
	}{
		{"up", []string{"up"}, func(m *mockMigrator) { m.On("Up").Return(nil) }},
		{"down", []string{"down"}, func(m *mockMigrator) { m.On("Down").Return(nil) }},
		{"step back", []string{"step", "--", "-1"}, func(m *mockMigrator) { m.On("Steps", -1).Return(nil) }},
		{"goto", []string{"goto", "2"}, func(m *mockMigrator) { m.On("GoTo", uint(2)).Return(nil) }},
		{"force", []string{"force", "1"}, func(m *mockMigrator) { m.On("Force", 1).Return(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(mockMigrator)
			tt.setup(m)
			_, opened, err := run(t, m, tt.args...)
			require.NoError(t, err)
			assert.True(t, opened)
			m.AssertExpectations(t)
		})
	}
}

func TestMigrate_Version(t *testing.T) {
	m := new(mockMigrator)
	m.On("Version").Return(uint(2), true, nil).Once()
	out, _, err := run(t, m, "version")
	require.NoError(t, err)
	assert.Equal(t, "version 2 (dirty=true)\n", out)

	m.On("Version").Return(uint(0), false, nil).Once()
	out, _, err = run(t, m, "version")
	require.NoError(t, err)
	assert.Equal(t, "no migrations applied\n", out)
}

func TestMigrate_InvalidArguments(t *testing.T) {
	for _, args := range [][]string{{"step", "zero"}, {"step", "0"}, {"goto", "-3"}, {"force", "x"}} {
		m := new(mockMigrator)
		_, _, err := run(t, m, args...)
		assert.Error(t, err, args)
		m.AssertNotCalled(t, "Steps", mock.Anything)
		m.AssertNotCalled(t, "GoTo", mock.Anything)
		m.AssertNotCalled(t, "Force", mock.Anything)
	}
}

func TestMigrate_ErrorsPropagate(t *testing.T) {
	m := new(mockMigrator)
	m.On("Up").Return(errors.New("dirty database version 2"))
	_, _, err := run(t, m, "up")
	assert.EqualError(t, err, "dirty database version 2")
}

func TestMigrate_OpenFailure(t *testing.T) {
	root := newRootCmd(func(string) (Migrator, func(), error) {
		return nil, nil, errors.New("ping database: connection refused")
	})
	root.SetArgs([]string{"up"})
	assert.EqualError(t, root.Execute(), "ping database: connection refused")
}

func TestMigrate_CreateAndList_NeedNoConnection(t *testing.T) {
	dir := t.TempDir()

	out, opened, err := run(t, nil, "create", "--dir", dir, "add pet records")
	require.NoError(t, err)
	assert.False(t, opened)
	assert.Contains(t, out, "_add_pet_records.up.sql")

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	out, opened, err = run(t, nil, "list")
	require.NoError(t, err)
	assert.False(t, opened)
	assert.Contains(t, out, "000001  tenant_schema")
	assert.Contains(t, out, "000002  onboarding")
}
