package handlers

import (
	"net/http"

	"github.com/yukikurage/task-assignment-api/internal/dto"
	"github.com/yukikurage/task-assignment-api/internal/models"
)

// TestRegister_Success tests registration returns a usable token
func (suite *APITestSuite) TestRegister_Success() {
	w := suite.request(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "Alice@Example.com",
		"password": "secret1!",
		"role":     "Manager",
	}, nil)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AuthResponse
	suite.decode(w, &resp)
	suite.NotEmpty(resp.Token)
	suite.Equal("alice@example.com", resp.User.Email)
	suite.Equal(models.RoleManager, resp.User.Role)
	suite.NotContains(w.Body.String(), "password")

	identity, err := suite.tokens.Verify(resp.Token)
	suite.Require().NoError(err)
	suite.Equal(resp.User.ID, identity.UserID)
	suite.Equal(models.RoleManager, identity.Role)
}

// TestRegister_Invalid tests registration input validation
func (suite *APITestSuite) TestRegister_Invalid() {
	bodies := map[string]map[string]string{
		"missing role":  {"name": "A", "email": "a@example.com", "password": "secret1!"},
		"unknown role":  {"name": "A", "email": "a@example.com", "password": "secret1!", "role": "Admin"},
		"weak password": {"name": "A", "email": "a@example.com", "password": "secret", "role": "Employee"},
		"bad email":     {"name": "A", "email": "nope", "password": "secret1!", "role": "Employee"},
	}

	for name, body := range bodies {
		w := suite.request(http.MethodPost, "/api/auth/register", body, nil)
		suite.Equal(http.StatusBadRequest, w.Code, name)
	}
}

// TestRegister_DuplicateEmail tests that an email can only be registered once
func (suite *APITestSuite) TestRegister_DuplicateEmail() {
	suite.createUser("Alice", "alice@example.com", models.RoleEmployee)

	w := suite.request(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "secret1!",
		"role":     "Employee",
	}, nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("ALREADY_EXISTS", suite.errorCode(w))
}

// TestLogin_Success tests that the stored role wins over a client-supplied one
func (suite *APITestSuite) TestLogin_Success() {
	eve := suite.createUser("Eve", "eve@example.com", models.RoleEmployee)

	w := suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "eve@example.com",
		"password": testPassword,
		"role":     "Manager",
	}, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AuthResponse
	suite.decode(w, &resp)
	suite.Equal(eve.ID, resp.User.ID)
	suite.Equal(models.RoleEmployee, resp.User.Role)

	identity, err := suite.tokens.Verify(resp.Token)
	suite.Require().NoError(err)
	suite.Equal(models.RoleEmployee, identity.Role)
}

// TestLogin_InvalidCredentials tests wrong password and unknown email
func (suite *APITestSuite) TestLogin_InvalidCredentials() {
	suite.createUser("Eve", "eve@example.com", models.RoleEmployee)

	w := suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "eve@example.com",
		"password": "wrong-password1!",
	}, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("INVALID_CREDENTIALS", suite.errorCode(w))

	w = suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": testPassword,
	}, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodPost, "/api/auth/login", map[string]string{"email": "eve@example.com"}, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

// TestGetCurrentUser tests the me endpoint
func (suite *APITestSuite) TestGetCurrentUser() {
	eve := suite.createUser("Eve", "eve@example.com", models.RoleEmployee)

	w := suite.request(http.MethodGet, "/api/auth/me", nil, eve)

	suite.Equal(http.StatusOK, w.Code)
	var user dto.UserDTO
	suite.decode(w, &user)
	suite.Equal(eve.ID, user.ID)
	suite.Equal("Eve", user.Name)

	w = suite.request(http.MethodGet, "/api/auth/me", nil, &models.User{ID: "gone", Role: models.RoleEmployee})
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/api/auth/me", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}
