package services

import (
	"context"
	"testing"

	"attendanceclient/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleEmployees() []domain.Employee {
	return []domain.Employee{
		{ID: "1", EmployeeID: "E123", Name: "Alice Smith", Department: "Engineering", Email: "alice@corp.test"},
		{ID: "2", EmployeeID: "E124", Name: "Bob Jones", Department: "Sales", Email: "bob@corp.test"},
		{ID: "3", EmployeeID: "E200", Name: "Carol White", Department: "Engineering", Email: "carol@corp.test"},
	}
}

func TestEmployeeScreen_Search(t *testing.T) {
	gw := new(MockGateway)
	gw.On("FetchEmployees", mock.Anything).Return(sampleEmployees(), nil).Once()
	deps, _, _ := testDeps(gw, true)
	s := NewEmployeeScreen(deps)
	require.NoError(t, s.Load(context.Background()))

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"E123", "E124", "E200"}},
		{"  ", []string{"E123", "E124", "E200"}},
		{"engineering", []string{"E123", "E200"}},
		{"e12", []string{"E123", "E124"}},
		{"BOB@", []string{"E124"}},
		{"nobody", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := []string{}
			for _, e := range s.Search(tt.query) {
				got = append(got, e.EmployeeID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmployeeScreen_DeleteEmployee(t *testing.T) {
	gw := new(MockGateway)
	gw.On("FetchEmployees", mock.Anything).Return(sampleEmployees(), nil).Once()
	deps, notifier, prompts := testDeps(gw, true)
	s := NewEmployeeScreen(deps)
	require.NoError(t, s.Load(context.Background()))

	gw.On("DeleteEmployee", mock.Anything, "E124").
		Return(domain.Ack{}, rejected("delete employee", "Employee has attendance history")).Once()

	outcome, err := s.DeleteEmployee(context.Background(), "E124")
	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, outcome)
	assert.Len(t, s.Employees(), 3)
	assert.Equal(t, uint64(1), s.Version())

	gw.On("DeleteEmployee", mock.Anything, "E124").Return(domain.Ack{}, nil).Once()
	gw.On("FetchEmployees", mock.Anything).Return([]domain.Employee{sampleEmployees()[0], sampleEmployees()[2]}, nil).Once()

	outcome, err = s.DeleteEmployee(context.Background(), "E124")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSucceeded, outcome)
	assert.Len(t, s.Employees(), 2)
	assert.Equal(t, uint64(2), s.Version())

	assert.Equal(t, []string{
		"Delete employee Bob Jones (E124)? This cannot be undone.",
		"Delete employee Bob Jones (E124)? This cannot be undone.",
	}, *prompts)
	assert.Equal(t, []Notice{
		{Level: NoticeFailure, Message: "Employee has attendance history"},
		{Level: NoticeSuccess, Message: "Employee deleted"},
	}, notifier.Notices())
	gw.AssertExpectations(t)
}
