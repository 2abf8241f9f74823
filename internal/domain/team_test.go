package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeam_AddEmployeeIsIdempotent(t *testing.T) {
	team := &Team{EmployeeIDs: []string{"e1"}}

	assert.True(t, team.AddEmployee("e2"))
	assert.False(t, team.AddEmployee("e2"))
	assert.Equal(t, []string{"e1", "e2"}, team.EmployeeIDs)
}

func TestTeam_RemoveEmployee(t *testing.T) {
	original := []string{"e1", "e2", "e3"}
	team := &Team{EmployeeIDs: original}

	assert.True(t, team.RemoveEmployee("e2"))
	assert.Equal(t, []string{"e1", "e3"}, team.EmployeeIDs)
	assert.Equal(t, []string{"e1", "e2", "e3"}, original)

	assert.False(t, team.RemoveEmployee("missing"))
	assert.Equal(t, []string{"e1", "e3"}, team.EmployeeIDs)
}
