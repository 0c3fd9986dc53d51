package mediaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/anoixa/media-studio/internal/transform"
)

const defaultAPIBase = "https://api.cloudinary.com/v1_1"

// Config 托管媒体服务凭据
type Config struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
}

// Client 托管媒体服务（Cloudinary 兼容 REST）客户端
// 上传/删除/资源详情/eager 变换，所有重活都在远端完成
type Client struct {
	cfg        Config
	apiBase    string
	httpClient *http.Client
}

// NewClient 创建客户端
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:     cfg,
		apiBase: defaultAPIBase,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// WithAPIBase 替换 API 入口，测试用
func (c *Client) WithAPIBase(base string) *Client {
	c.apiBase = strings.TrimRight(base, "/")
	return c
}

// Configured 是否配置了完整凭据
func (c *Client) Configured() bool {
	return c.cfg.CloudName != "" && c.cfg.APIKey != "" && c.cfg.APISecret != ""
}

// CloudName 云名称，用于拼交付 URL
func (c *Client) CloudName() string {
	return c.cfg.CloudName
}

// SignUploadParams 为客户端直传生成签名。
// 参数固定为 timestamp + folder（+ 可选 preset），签名只对这一组参数有效，过期由远端校验。
func (c *Client) SignUploadParams(timestamp int64, folder string) string {
	params := map[string]string{
		"timestamp": strconv.FormatInt(timestamp, 10),
		"folder":    folder,
	}
	if c.cfg.UploadPreset != "" {
		params["upload_preset"] = c.cfg.UploadPreset
	}
	return SignParams(params, c.cfg.APISecret)
}

// APIKey 公开的 API key，随签名一起下发给直传客户端
func (c *Client) APIKey() string {
	return c.cfg.APIKey
}

// UploadPreset 配置的上传预设（可为空）
func (c *Client) UploadPreset() string {
	return c.cfg.UploadPreset
}

// Upload 服务端中转上传
func (c *Client) Upload(ctx context.Context, kind transform.Kind, filename string, file io.Reader, folder string) (*UploadResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("media provider is not configured")
	}

	timestamp := time.Now().Unix()
	params := map[string]string{
		"timestamp": strconv.FormatInt(timestamp, 10),
		"folder":    folder,
	}
	if c.cfg.UploadPreset != "" {
		params["upload_preset"] = c.cfg.UploadPreset
	}
	signature := SignParams(params, c.cfg.APISecret)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to buffer upload body: %w", err)
	}

	fields := map[string]string{
		"api_key":   c.cfg.APIKey,
		"timestamp": strconv.FormatInt(timestamp, 10),
		"folder":    folder,
		"signature": signature,
	}
	if c.cfg.UploadPreset != "" {
		fields["upload_preset"] = c.cfg.UploadPreset
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write multipart field %s: %w", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s/upload", c.apiBase, c.cfg.CloudName, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result UploadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Destroy 删除远端对象
func (c *Client) Destroy(ctx context.Context, kind transform.Kind, publicID string) error {
	if !c.Configured() {
		return fmt.Errorf("media provider is not configured")
	}

	timestamp := time.Now().Unix()
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(timestamp, 10),
	}

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", strconv.FormatInt(timestamp, 10))
	form.Set("api_key", c.cfg.APIKey)
	form.Set("signature", SignParams(params, c.cfg.APISecret))

	endpoint := fmt.Sprintf("%s/%s/%s/destroy", c.apiBase, c.cfg.CloudName, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result struct {
		Result string `json:"result"`
	}
	if err := c.do(req, &result); err != nil {
		return err
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("destroy failed: %s", result.Result)
	}
	return nil
}

// Resource 查询 Admin API 资源详情，按需附带插件数据
func (c *Client) Resource(ctx context.Context, kind transform.Kind, publicID string, opts ResourceOptions) (*Resource, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("media provider is not configured")
	}

	query := url.Values{}
	if opts.Tags {
		query.Set("tags", "true")
	}
	if opts.Colors {
		query.Set("colors", "true")
	}
	if opts.Moderation {
		query.Set("moderation", "true")
	}
	if opts.OCR {
		query.Set("ocr", "adv_ocr")
	}
	if opts.Speech {
		query.Set("raw_convert", "google_speech")
	}

	endpoint := fmt.Sprintf("%s/%s/resources/%s/upload/%s", c.apiBase, c.cfg.CloudName, kind, url.PathEscape(publicID))
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)

	// 插件字段形状不固定，先落 map 再用 mapstructure 解成强类型
	var raw map[string]any
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}

	var resource Resource
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &resource,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode resource payload: %w", err)
	}
	return &resource, nil
}

// Explicit 对已有资源执行 eager 变换，返回派生资源大小与 URL
func (c *Client) Explicit(ctx context.Context, kind transform.Kind, publicID, rawTransformation string) (*ExplicitResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("media provider is not configured")
	}

	timestamp := time.Now().Unix()
	params := map[string]string{
		"public_id": publicID,
		"type":      "upload",
		"timestamp": strconv.FormatInt(timestamp, 10),
	}
	if rawTransformation != "" {
		params["eager"] = rawTransformation
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", c.cfg.APIKey)
	form.Set("signature", SignParams(params, c.cfg.APISecret))

	endpoint := fmt.Sprintf("%s/%s/%s/explicit", c.apiBase, c.cfg.CloudName, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result ExplicitResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do 执行请求并解析 JSON 响应
func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("media provider request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("failed to read media provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("media provider returned %d: %s", resp.StatusCode, extractErrorMessage(data))
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode media provider response: %w", err)
	}
	return nil
}

func extractErrorMessage(data []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	const max = 200
	if len(data) > max {
		data = data[:max]
	}
	return string(data)
}
