package testutil

import (
	"context"
	"fmt"
	"strings"

	"city-group-router/internal/models"
)

// OracleCall tracks a call to the oracle
type OracleCall struct {
	Cities []int
}

// MockOracle is a scripted oracle for testing.
// By default it answers with the path chain of the queried cities.
type MockOracle struct {
	Overrides map[string][]models.Edge
	Calls     []OracleCall
	// Err, when set, is returned from every call.
	Err error
}

func NewMockOracle() *MockOracle {
	return &MockOracle{
		Overrides: make(map[string][]models.Edge),
		Calls:     []OracleCall{},
	}
}

func (m *MockOracle) makeKey(cities []int) string {
	parts := make([]string, len(cities))
	for i, c := range cities {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, ",")
}

// SetResponse scripts the edges returned for an exact query
func (m *MockOracle) SetResponse(cities []int, edges []models.Edge) {
	m.Overrides[m.makeKey(cities)] = edges
}

// Query records the call and returns the scripted or chain response
func (m *MockOracle) Query(ctx context.Context, cities []int) ([]models.Edge, error) {
	m.Calls = append(m.Calls, OracleCall{Cities: append([]int(nil), cities...)})
	if m.Err != nil {
		return nil, m.Err
	}
	if edges, ok := m.Overrides[m.makeKey(cities)]; ok {
		return edges, nil
	}

	edges := make([]models.Edge, 0, len(cities)-1)
	for i := 0; i+1 < len(cities); i++ {
		edges = append(edges, models.Edge{A: cities[i], B: cities[i+1]})
	}
	return edges, nil
}

// ResetCalls clears the recorded calls
func (m *MockOracle) ResetCalls() {
	m.Calls = []OracleCall{}
}
