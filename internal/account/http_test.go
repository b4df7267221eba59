package account_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"social-media-service/internal/account"
	"social-media-service/internal/db"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc account.Service, surfaceStoreErrors bool) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	account.NewHandler(svc, logger, surfaceStoreErrors).RegisterRoutes(router)
	return router
}

func doRequest(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Register(t *testing.T) {
	credentials := mock.MatchedBy(func(a *account.Account) bool {
		return a.Username == "ada" && a.Password == "lovelace" && a.AccountID == 0
	})

	t.Run("Success", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Register", mock.Anything, credentials).
			Return(&account.Account{AccountID: 1, Username: "ada", Password: "lovelace"}, nil).Once()

		rec := doRequest(newTestRouter(svc, false), http.MethodPost, "/register",
			`{"account_id":99,"username":"ada","password":"lovelace"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(1), body["account_id"])
		assert.Equal(t, "ada", body["username"])
		assert.Equal(t, "lovelace", body["password"])
		svc.AssertExpectations(t)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, account.ErrInvalidInput).Once()

		rec := doRequest(newTestRouter(svc, false), http.MethodPost, "/register",
			`{"username":"ada","password":"abc"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("DuplicateCollapsedByDefault", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Register", mock.Anything, credentials).Return(nil, db.ErrConstraint).Once()

		rec := doRequest(newTestRouter(svc, false), http.MethodPost, "/register",
			`{"username":"ada","password":"lovelace"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("DuplicateSurfacedAsConflict", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Register", mock.Anything, credentials).Return(nil, db.ErrConstraint).Once()

		rec := doRequest(newTestRouter(svc, true), http.MethodPost, "/register",
			`{"username":"ada","password":"lovelace"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "username already exists")
	})

	t.Run("StoreFailureSurfacedAsInternalError", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Register", mock.Anything, credentials).Return(nil, db.ErrStore).Once()

		rec := doRequest(newTestRouter(svc, true), http.MethodPost, "/register",
			`{"username":"ada","password":"lovelace"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		svc := new(mockService)

		rec := doRequest(newTestRouter(svc, false), http.MethodPost, "/register", `{"username":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, rec.Body.String())
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("UnknownField", func(t *testing.T) {
		svc := new(mockService)

		rec := doRequest(newTestRouter(svc, false), http.MethodPost, "/register",
			`{"username":"ada","password":"lovelace","role":"admin"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})
}

func TestHandler_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Authenticate", mock.Anything, mock.MatchedBy(func(a *account.Account) bool {
			return a.Username == "grace" && a.Password == "hopper"
		})).Return(&account.Account{AccountID: 4, Username: "grace", Password: "hopper"}, nil).Once()

		rec := doRequest(newTestRouter(svc, false), http.MethodPost, "/login",
			`{"username":"grace","password":"hopper"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"account_id":4,"username":"grace","password":"hopper"}`, rec.Body.String())
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Authenticate", mock.Anything, mock.Anything).Return(nil, account.ErrInvalidCredentials).Once()

		rec := doRequest(newTestRouter(svc, false), http.MethodPost, "/login",
			`{"username":"grace","password":"Hopper"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("StoreFailureCollapsedByDefault", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Authenticate", mock.Anything, mock.Anything).Return(nil, db.ErrStore).Once()

		rec := doRequest(newTestRouter(svc, false), http.MethodPost, "/login",
			`{"username":"grace","password":"hopper"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("StoreFailureSurfaced", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Authenticate", mock.Anything, mock.Anything).Return(nil, db.ErrStore).Once()

		rec := doRequest(newTestRouter(svc, true), http.MethodPost, "/login",
			`{"username":"grace","password":"hopper"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
