package search

import (
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

// Match provides a mock function with given fields: item, query.
func (_m *MockProvider) Match(item domain.ListingItem, query string) bool {
	ret := _m.Called(item, query)

	if rf, ok := ret.Get(0).(func(domain.ListingItem, string) bool); ok {
		return rf(item, query)
	}
	return ret.Bool(0)
}

// Name provides a mock function with given fields: .
func (_m *MockProvider) Name() string {
	ret := _m.Called()

	if rf, ok := ret.Get(0).(func() string); ok {
		return rf()
	}
	return ret.String(0)
}
