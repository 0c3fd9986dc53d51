package uploads

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
)

// credentialsResponse 浏览器直传托管服务所需的签名载荷
type credentialsResponse struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	CloudName string `json:"cloudName"`
	APIKey    string `json:"apiKey"`
	Folder    string `json:"folder"`
}

// CredentialsHandler 签发限时上传凭据。
// folder 固定为服务端配置值，客户端不能改写上传目录。
// @Summary 获取上传凭据
// @Tags uploads
// @Produce json
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/uploads/credentials [get]
func (h *Handler) CredentialsHandler(c *gin.Context) {
	if !h.media.Configured() {
		common.RespondError(c, http.StatusInternalServerError, "Media provider is not configured")
		return
	}

	timestamp := time.Now().Unix()
	signature := h.media.SignUploadParams(timestamp, h.folder)

	common.RespondSuccess(c, credentialsResponse{
		Signature: signature,
		Timestamp: timestamp,
		CloudName: h.media.CloudName(),
		APIKey:    h.media.APIKey(),
		Folder:    h.folder,
	})
}
