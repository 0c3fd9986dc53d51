package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anoixa/media-studio/database/models"
	"github.com/anoixa/media-studio/database/repo/accounts"
	"github.com/anoixa/media-studio/internal/auth"
)

// setupTest 初始化测试环境
func setupTest(t *testing.T) (*gin.Engine, *LoginHandler) {
	gin.SetMode(gin.TestMode)

	err := auth.TokenInit("test-secret-key-at-least-32-characters-long", "30m", "10080m")
	assert.NoError(t, err)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Device{}))

	loginService := auth.NewLoginService(accounts.NewRepository(db), accounts.NewDeviceRepository(db))
	handler := NewLoginHandler(loginService)

	router := gin.New()
	router.POST("/register", handler.RegisterHandlerFunc)
	router.POST("/login", handler.LoginHandlerFunc)
	router.POST("/refresh", handler.RefreshTokenHandlerFunc)
	router.POST("/logout", handler.LogoutHandlerFunc)
	return router, handler
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// --- 测试注册 ---

func TestRegisterHandler(t *testing.T) {
	router, _ := setupTest(t)

	w := postJSON(router, "/register", map[string]string{
		"username": "alice",
		"password": "super-secret-password",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestRegisterHandler_DuplicateUsername(t *testing.T) {
	router, _ := setupTest(t)

	body := map[string]string{"username": "alice", "password": "super-secret-password"}
	assert.Equal(t, http.StatusOK, postJSON(router, "/register", body).Code)
	assert.Equal(t, http.StatusConflict, postJSON(router, "/register", body).Code)
}

func TestRegisterHandler_InvalidJSON(t *testing.T) {
	router, _ := setupTest(t)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestRegisterHandler_MissingFields 测试缺少必填字段
func TestRegisterHandler_MissingFields(t *testing.T) {
	router, _ := setupTest(t)

	w := postJSON(router, "/register", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- 测试登录 ---

func TestLoginHandler(t *testing.T) {
	router, _ := setupTest(t)

	body := map[string]string{"username": "alice", "password": "super-secret-password"}
	assert.Equal(t, http.StatusOK, postJSON(router, "/register", body).Code)

	w := postJSON(router, "/login", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			AccessToken       string `json:"access_token"`
			AccessTokenExpiry int64  `json:"access_token_expiry"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Contains(t, resp.Data.AccessToken, "Bearer ")
	assert.NotZero(t, resp.Data.AccessTokenExpiry)

	// refresh_token 与 device_id 走 HttpOnly cookie
	cookies := w.Result().Cookies()
	names := make(map[string]*http.Cookie)
	for _, cookie := range cookies {
		names[cookie.Name] = cookie
	}
	assert.Contains(t, names, "refresh_token")
	assert.Contains(t, names, "device_id")
	assert.True(t, names["refresh_token"].HttpOnly)
	assert.Equal(t, "/api/v1/auth/", names["refresh_token"].Path)
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	router, _ := setupTest(t)

	assert.Equal(t, http.StatusOK, postJSON(router, "/register", map[string]string{
		"username": "alice", "password": "super-secret-password",
	}).Code)

	w := postJSON(router, "/login", map[string]string{
		"username": "alice", "password": "wrong-password-123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginHandler_UnknownUser(t *testing.T) {
	router, _ := setupTest(t)

	w := postJSON(router, "/login", map[string]string{
		"username": "nobody", "password": "whatever-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- 测试刷新 ---

func TestRefreshTokenHandler(t *testing.T) {
	router, _ := setupTest(t)

	body := map[string]string{"username": "alice", "password": "super-secret-password"}
	assert.Equal(t, http.StatusOK, postJSON(router, "/register", body).Code)
	login := postJSON(router, "/login", body)
	assert.Equal(t, http.StatusOK, login.Code)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	for _, cookie := range login.Result().Cookies() {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bearer ")

	// 刷新令牌被轮换
	var rotated string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "refresh_token" {
			rotated = cookie.Value
		}
	}
	assert.NotEmpty(t, rotated)
	for _, cookie := range login.Result().Cookies() {
		if cookie.Name == "refresh_token" {
			assert.NotEqual(t, cookie.Value, rotated)
		}
	}
}

// TestRefreshTokenHandler_MissingCookies 没有 cookie 时返回 401
func TestRefreshTokenHandler_MissingCookies(t *testing.T) {
	router, _ := setupTest(t)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- 测试登出 ---

func TestLogoutHandler(t *testing.T) {
	router, _ := setupTest(t)

	body := map[string]string{"username": "alice", "password": "super-secret-password"}
	assert.Equal(t, http.StatusOK, postJSON(router, "/register", body).Code)
	login := postJSON(router, "/login", body)
	assert.Equal(t, http.StatusOK, login.Code)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, cookie := range login.Result().Cookies() {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// 登出后刷新令牌作废
	refresh := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	for _, cookie := range login.Result().Cookies() {
		refresh.AddCookie(cookie)
	}
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, refresh)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

// TestLogoutHandler_NoSession 无会话时登出也返回成功
func TestLogoutHandler_NoSession(t *testing.T) {
	router, _ := setupTest(t)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
