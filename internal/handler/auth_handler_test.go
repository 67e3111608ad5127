package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"termimage/backend/internal/auth"
	"termimage/backend/pkg/jwt"
)

var userColumns = []string{"id", "login", "email", "password_hash", "role"}

func newAuthRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *jwt.Manager) {
	t.Helper()
	db, mock := newMockDB(t)
	tokens := jwt.NewManager("test-secret", time.Hour, time.Hour)
	log := logrus.NewEntry(logrus.New())
	log.Logger.SetLevel(logrus.PanicLevel)

	h := NewAuthHandler(db, tokens, log)
	r := gin.New()
	r.POST("/auth/register", h.RegisterUser)
	r.POST("/auth/login", h.LoginUser)
	return r, mock, tokens
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterUser(t *testing.T) {
	r, mock, tokens := newAuthRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE \(login = .* OR email = .*\)`).
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	w := postJSON(r, "/auth/register", `{"login":"editor","email":"editor@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	userID, err := tokens.ParseToken(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, uint(1), userID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.TokenCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUser_Conflict(t *testing.T) {
	r, mock, _ := newAuthRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "editor", "editor@example.com", "x", "admin"))

	w := postJSON(r, "/auth/register", `{"login":"editor","email":"editor@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterUser_Validation(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	w := postJSON(r, "/auth/register", `{"login":"editor","email":"not-an-email","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginUser(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		status   int
	}{
		{"valid credentials", "password123", http.StatusOK},
		{"wrong password", "password124", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock, _ := newAuthRouter(t)
			mock.ExpectQuery(`SELECT \* FROM "users" WHERE \(login = .* OR email = .*\)`).
				WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "editor", "editor@example.com", string(hash), "admin"))

			w := postJSON(r, "/auth/login", `{"login":"editor@example.com","password":"`+tt.password+`"}`)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestLoginUser_UnknownUser(t *testing.T) {
	r, mock, _ := newAuthRouter(t)
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(sqlmock.NewRows(userColumns))

	w := postJSON(r, "/auth/login", `{"login":"ghost","password":"password123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
