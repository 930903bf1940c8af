package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"larder/internal/domain"
	"larder/internal/service"
	"larder/mocks"
)

func newAuthRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(svc)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	return r
}

func loginRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLoginEndpoint_Success(t *testing.T) {
	svc := &mocks.MockAuthService{}
	svc.On("Login", mock.Anything, service.LoginInput{Email: "owner@example.com", Password: "correct-horse"}).
		Return(&service.LoginOutput{Token: "signed.jwt.token", ExpiresAt: time.Now().Add(time.Hour)}, nil)

	w := httptest.NewRecorder()
	newAuthRouter(svc).ServeHTTP(w, loginRequest(`{"email": "owner@example.com", "password": "correct-horse"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signed.jwt.token")
	svc.AssertExpectations(t)
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	svc := &mocks.MockAuthService{}
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials)

	w := httptest.NewRecorder()
	newAuthRouter(svc).ServeHTTP(w, loginRequest(`{"email": "owner@example.com", "password": "wrong-horse"}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
}

func TestLoginEndpoint_MissingFields(t *testing.T) {
	w := httptest.NewRecorder()
	newAuthRouter(&mocks.MockAuthService{}).ServeHTTP(w, loginRequest(`{"email": "owner@example.com"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}
