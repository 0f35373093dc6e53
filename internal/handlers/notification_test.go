package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/notify"
)

// TestSendTestNotification_Success tests that the manager receives the sample email
func (suite *APITestSuite) TestSendTestNotification_Success() {
	manager := suite.createUser("Maria", "maria@example.com", models.RoleManager)

	w := suite.request(http.MethodPost, "/api/notifications/test", nil, manager)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "maria@example.com")
	sent := suite.mail.all()
	suite.Require().Len(sent, 1)
	suite.Equal("maria@example.com", sent[0].RecipientEmail)
}

// TestSendTestNotification_Failure tests that delivery errors surface as 502 here
func (suite *APITestSuite) TestSendTestNotification_Failure() {
	suite.dispatcher.Wait()
	suite.buildRouter(notifierFunc(func(ctx context.Context, a notify.Assignment) notify.Result {
		return notify.Failed(errors.New("535 authentication failed"))
	}))
	manager := suite.createUser("Maria", "maria@example.com", models.RoleManager)

	w := suite.request(http.MethodPost, "/api/notifications/test", nil, manager)

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Equal("UPSTREAM_FAILURE", suite.errorCode(w))
}

// TestSendTestNotification_Forbidden tests that employees cannot trigger mail
func (suite *APITestSuite) TestSendTestNotification_Forbidden() {
	eve := suite.createUser("Eve", "eve@example.com", models.RoleEmployee)

	w := suite.request(http.MethodPost, "/api/notifications/test", nil, eve)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Empty(suite.mail.all())
}
