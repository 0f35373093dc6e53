package handlers

import (
	"net/http"

	"github.com/yukikurage/task-assignment-api/internal/dto"
	"github.com/yukikurage/task-assignment-api/internal/models"
)

// TestListEmployees_Manager tests the employee directory
func (suite *APITestSuite) TestListEmployees_Manager() {
	manager := suite.createUser("Maria", "maria@example.com", models.RoleManager)
	suite.createUser("Eve", "eve@example.com", models.RoleEmployee)
	suite.createUser("Bob", "bob@example.com", models.RoleEmployee)

	w := suite.request(http.MethodGet, "/api/users/employees", nil, manager)

	suite.Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), "password")
	var users []dto.UserDTO
	suite.decode(w, &users)
	suite.Require().Len(users, 2)
	for _, u := range users {
		suite.Equal(models.RoleEmployee, u.Role)
	}
}

// TestListEmployees_Forbidden tests that employees cannot read the directory
func (suite *APITestSuite) TestListEmployees_Forbidden() {
	eve := suite.createUser("Eve", "eve@example.com", models.RoleEmployee)

	w := suite.request(http.MethodGet, "/api/users/employees", nil, eve)

	suite.Equal(http.StatusForbidden, w.Code)
}

// TestListEmployees_Unauthorized tests the directory without a token
func (suite *APITestSuite) TestListEmployees_Unauthorized() {
	w := suite.request(http.MethodGet, "/api/users/employees", nil, nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
}
