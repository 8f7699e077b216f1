package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateAuthorRequest_NormalizeKeepsEmailCase(t *testing.T) {
	req := CreateAuthorRequest{Name: " Ann ", Email: "  Ann.Smith@Example.com\t"}
	req.Normalize()

	assert.Equal(t, "Ann", req.Name)
	assert.Equal(t, "Ann.Smith@Example.com", req.Email)
	assert.NoError(t, req.Validate())
}

func TestUpdateAuthorRequest_NormalizeKeepsEmailCase(t *testing.T) {
	email := " Ann.Smith@Example.com "
	req := UpdateAuthorRequest{Email: &email}
	req.Normalize()

	assert.Nil(t, req.Name)
	assert.Equal(t, "Ann.Smith@Example.com", *req.Email)
	assert.NoError(t, req.Validate())
}
