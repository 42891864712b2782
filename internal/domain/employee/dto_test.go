package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEmployeeRequest_ValidateNormalizes(t *testing.T) {
	req := CreateEmployeeRequest{
		Email:    " Ana@Example.com ",
		Name:     "  Ana  ",
		Password: "correct-horse",
	}

	require.NoError(t, req.Validate())
	assert.Equal(t, "ana@example.com", req.Email)
	assert.Equal(t, "Ana", req.Name)
}

func TestCreateEmployeeRequest_ValidateBlankEmail(t *testing.T) {
	req := CreateEmployeeRequest{Email: "   ", Name: "Ana", Password: "correct-horse"}

	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email is required")
}
