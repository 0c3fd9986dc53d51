package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/config"
	"github.com/anoixa/media-studio/internal/auth"
)

// LoginHandler 登录处理器
type LoginHandler struct {
	loginService *auth.LoginService
}

// NewLoginHandler 使用 LoginService 创建登录处理器
func NewLoginHandler(loginService *auth.LoginService) *LoginHandler {
	return &LoginHandler{
		loginService: loginService,
	}
}

type userAuthRequestBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken       string `json:"access_token"`
	AccessTokenExpiry int64  `json:"access_token_expiry"`
}

type registerResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// RegisterHandlerFunc user registration
// @Summary 注册新用户
// @Tags auth
// @Accept json
// @Produce json
// @Param request body userAuthRequestBody true "Credentials"
// @Success 200 {object} common.Response
// @Router /api/v1/auth/register [post]
func (h *LoginHandler) RegisterHandlerFunc(context *gin.Context) {
	var req userAuthRequestBody
	if err := context.ShouldBindJSON(&req); err != nil {
		common.RespondError(context, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.loginService.Register(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			common.RespondError(context, http.StatusConflict, "Username already taken")
			return
		}
		common.RespondError(context, http.StatusBadRequest, err.Error())
		return
	}

	common.RespondSuccessMessage(context, "Registration successful", registerResponse{
		UserID:   user.ID,
		Username: user.Username,
	})
}

// LoginHandlerFunc user login
// @Summary 登录并获取访问令牌
// @Tags auth
// @Accept json
// @Produce json
// @Param request body userAuthRequestBody true "Credentials"
// @Success 200 {object} common.Response
// @Router /api/v1/auth/login [post]
func (h *LoginHandler) LoginHandlerFunc(context *gin.Context) {
	var req userAuthRequestBody
	if err := context.ShouldBindJSON(&req); err != nil {
		common.RespondError(context, http.StatusBadRequest, err.Error())
		return
	}

	// 执行登录
	result, err := h.loginService.Login(req.Username, req.Password)
	if err != nil {
		// 检查是否是凭据错误
		if errors.Is(err, auth.ErrInvalidCredentials) {
			common.RespondError(context, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		common.RespondError(context, http.StatusInternalServerError, "Internal server error")
		return
	}

	// 设置 HttpOnly Cookie
	refreshTokenMaxAge := int(time.Until(result.RefreshTokenExpiry).Seconds())
	setAuthCookies(context, result.RefreshToken, result.DeviceID, refreshTokenMaxAge)

	common.RespondSuccessMessage(context, "Login successful", loginResponse{
		AccessToken:       "Bearer " + result.AccessToken,
		AccessTokenExpiry: result.AccessTokenExpiry.Unix(),
	})
}

// RefreshTokenHandlerFunc Refresh token authentication
// @Summary 轮换刷新令牌并签发新的访问令牌
// @Tags auth
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/v1/auth/refresh [post]
func (h *LoginHandler) RefreshTokenHandlerFunc(context *gin.Context) {
	refreshToken, err := context.Cookie("refresh_token")
	if err != nil {
		common.RespondError(context, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	deviceID, err := context.Cookie("device_id")
	if err != nil {
		common.RespondError(context, http.StatusUnauthorized, "Device ID not found")
		return
	}

	// 刷新令牌
	result, err := h.loginService.RefreshToken(refreshToken, deviceID)
	if err != nil {
		common.RespondError(context, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	// 更新 cookies
	newRefreshTokenMaxAge := int(time.Until(result.RefreshTokenExpiry).Seconds())
	setAuthCookies(context, result.RefreshToken, deviceID, newRefreshTokenMaxAge)

	common.RespondSuccessMessage(context, "Refresh token successful", loginResponse{
		AccessToken:       "Bearer " + result.AccessToken,
		AccessTokenExpiry: result.AccessTokenExpiry.Unix(),
	})
}

// LogoutHandlerFunc user logout
// @Summary 登出并撤销当前设备会话
// @Tags auth
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/v1/auth/logout [post]
func (h *LoginHandler) LogoutHandlerFunc(context *gin.Context) {
	deviceID, err := context.Cookie("device_id")
	if err != nil {
		common.RespondSuccessMessage(context, "Already logged out or session invalid", nil)
		return
	}

	if h.loginService != nil {
		_ = h.loginService.Logout(deviceID)
	}

	clearAuthCookies(context)

	common.RespondSuccessMessage(context, "Logout successful", nil)
}

// setAuthCookies 设置 refresh_token 和 device_id 的 cookie
func setAuthCookies(c *gin.Context, refreshToken, deviceID string, maxAge int) {
	path := "/api/v1/auth/"
	secure := config.IsProduction()

	// 构造 refresh_token cookie
	refreshTokenCookie := http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		MaxAge:   maxAge,
		Path:     path,
		Domain:   "",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	// 构造 device_id cookie
	deviceIDCookie := http.Cookie{
		Name:     "device_id",
		Value:    deviceID,
		MaxAge:   maxAge,
		Path:     path,
		Domain:   "",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(c.Writer, &refreshTokenCookie)
	http.SetCookie(c.Writer, &deviceIDCookie)
}

// clearAuthCookies 清除认证相关的 cookie
func clearAuthCookies(c *gin.Context) {
	cfg := config.Get()

	path := "/api/v1/auth/"
	domain := cfg.ServerDomain

	// 将 MaxAge 设置为 -1 来让浏览器删除 Cookie
	c.SetCookie("refresh_token", "", -1, path, domain, false, true)
	c.SetCookie("device_id", "", -1, path, domain, false, true)
}
