package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/anoixa/media-studio/cache"
	"github.com/anoixa/media-studio/internal/mediaapi"
	"github.com/anoixa/media-studio/internal/transform"
)

// ErrInvalidInput 请求字段校验失败
var ErrInvalidInput = errors.New("invalid input")

// VisionConfig 视觉模型配置，OpenAI 兼容接口
type VisionConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Service 媒体分析服务。
// 视觉问答走 OpenAI 兼容的视觉模型，其余工具走托管服务的 Admin API 插件。
// 任一后端未配置或出错时降级为演示结果而不是報错，前端交互不中断。
type Service struct {
	media         *mediaapi.Client
	vision        *openai.Client
	visionModel   string
	cacheProvider cache.Provider
	analysisTTL   time.Duration
}

// NewService 创建分析服务
func NewService(media *mediaapi.Client, visionCfg VisionConfig, cacheProvider cache.Provider, analysisTTL time.Duration) *Service {
	var visionClient *openai.Client
	if visionCfg.APIKey != "" {
		clientConfig := openai.DefaultConfig(visionCfg.APIKey)
		if visionCfg.BaseURL != "" {
			clientConfig.BaseURL = visionCfg.BaseURL
		}
		visionClient = openai.NewClientWithConfig(clientConfig)
	}

	return &Service{
		media:         media,
		vision:        visionClient,
		visionModel:   visionCfg.Model,
		cacheProvider: cacheProvider,
		analysisTTL:   analysisTTL,
	}
}

// 视觉模型未配置时的演示回答，按问题关键词挑选
var simulatedVisionResponses = map[string]string{
	"describe": "This image shows a vibrant scene with rich colors and interesting composition. The lighting creates a nice atmosphere.",
	"caption":  "✨ Living my best life! #photography #moments #beautiful",
	"safe":     "Yes, this image appears to be safe for work and appropriate for all audiences.",
	"default":  "I can see an interesting image here. It has good visual elements and appears to be well-composed.",
}

// Vision 对图片做自由问答
func (s *Service) Vision(ctx context.Context, imageURL, question string) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", fmt.Errorf("%w: image URL is required", ErrInvalidInput)
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is required", ErrInvalidInput)
	}

	if s.vision == nil {
		return simulatedVision(question), nil
	}

	resp, err := s.vision.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: question},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageURL}},
				},
			},
		},
		MaxTokens: 500,
	})
	if err != nil {
		return "", fmt.Errorf("vision model request failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "I couldn't analyze this image.", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func simulatedVision(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "describe"):
		return simulatedVisionResponses["describe"]
	case strings.Contains(q, "caption"):
		return simulatedVisionResponses["caption"]
	case strings.Contains(q, "safe"):
		return simulatedVisionResponses["safe"]
	default:
		return simulatedVisionResponses["default"]
	}
}

// Tags 自动打标。无标签时从元数据推断，出错时返回演示标签。
func (s *Service) Tags(ctx context.Context, publicID string) ([]string, error) {
	if strings.TrimSpace(publicID) == "" {
		return nil, fmt.Errorf("%w: public_id is required", ErrInvalidInput)
	}

	var cached []string
	if s.cachedResult(ctx, "tags", publicID, &cached) {
		return cached, nil
	}

	resource, err := s.media.Resource(ctx, transform.KindImage, publicID, mediaapi.ResourceOptions{
		Tags:   true,
		Colors: true,
	})
	if err != nil {
		log.Printf("[ai] tags lookup failed for %s: %v", publicID, err)
		return []string{"Nature", "Outdoor", "Scenic", "Photography", "Beautiful"}, nil
	}

	tags := resource.Tags
	if len(tags) == 0 {
		tags = inferTags(resource)
	}

	s.storeResult(ctx, "tags", publicID, tags)
	return tags, nil
}

// inferTags 没有标签时从颜色/格式/朝向推断
func inferTags(resource *mediaapi.Resource) []string {
	var tags []string
	if color := resource.DominantColor(); color != "" {
		tags = append(tags, strings.ToLower(color)+" tones")
	}
	if resource.Format != "" {
		tags = append(tags, strings.ToUpper(resource.Format))
	}
	switch {
	case resource.Width > resource.Height:
		tags = append(tags, "Landscape")
	case resource.Height > resource.Width:
		tags = append(tags, "Portrait")
	default:
		tags = append(tags, "Square")
	}
	return append(tags, "Photo", "Digital")
}

// OCRResult 文本提取结果
type OCRResult struct {
	Text string `json:"text"`
}

// OCR 从图片提取文字，插件未开通时返回演示文本
func (s *Service) OCR(ctx context.Context, publicID string) (*OCRResult, error) {
	if strings.TrimSpace(publicID) == "" {
		return nil, fmt.Errorf("%w: public_id is required", ErrInvalidInput)
	}

	var cached OCRResult
	if s.cachedResult(ctx, "ocr", publicID, &cached) {
		return &cached, nil
	}

	resource, err := s.media.Resource(ctx, transform.KindImage, publicID, mediaapi.ResourceOptions{OCR: true})
	if err != nil {
		log.Printf("[ai] ocr lookup failed for %s: %v", publicID, err)
		return &OCRResult{
			Text: "OCR add-on required. Enable 'Advanced OCR' in your media account to extract text from images.\n\nDemo text: 'Hello World'",
		}, nil
	}

	var builder strings.Builder
	for _, block := range resource.Info.OCR.AdvOCR.Data {
		for _, annotation := range block.TextAnnotations {
			if annotation.Description != "" {
				builder.WriteString(annotation.Description)
				builder.WriteString(" ")
			}
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		text = "No text detected in this image."
	}

	result := &OCRResult{Text: text}
	s.storeResult(ctx, "ocr", publicID, result)
	return result, nil
}

// ModerationResult 内容审核结果
type ModerationResult struct {
	Safe       bool     `json:"safe"`
	Categories []string `json:"categories"`
	Status     string   `json:"status"`
}

// Moderate 内容安全审核，插件未开通时默认判为安全
func (s *Service) Moderate(ctx context.Context, publicID string) (*ModerationResult, error) {
	if strings.TrimSpace(publicID) == "" {
		return nil, fmt.Errorf("%w: public_id is required", ErrInvalidInput)
	}

	var cached ModerationResult
	if s.cachedResult(ctx, "moderate", publicID, &cached) {
		return &cached, nil
	}

	resource, err := s.media.Resource(ctx, transform.KindImage, publicID, mediaapi.ResourceOptions{Moderation: true})
	if err != nil {
		log.Printf("[ai] moderation lookup failed for %s: %v", publicID, err)
		return &ModerationResult{
			Safe:       true,
			Categories: []string{"Content appears safe"},
			Status:     "approved",
		}, nil
	}

	safe := true
	var categories []string
	for _, item := range resource.Moderation {
		if item.Status == "rejected" {
			safe = false
			if item.Kind != "" {
				categories = append(categories, item.Kind)
			}
		}
	}
	if len(categories) == 0 {
		categories = []string{"No issues detected"}
	}

	status := "approved"
	if !safe {
		status = "flagged"
	}

	result := &ModerationResult{Safe: safe, Categories: categories, Status: status}
	s.storeResult(ctx, "moderate", publicID, result)
	return result, nil
}

// TranscriptResult 视频转写结果
type TranscriptResult struct {
	Transcript string `json:"transcript"`
}

// Transcribe 视频语音转文字，插件未开通时返回演示转写
func (s *Service) Transcribe(ctx context.Context, publicID string) (*TranscriptResult, error) {
	if strings.TrimSpace(publicID) == "" {
		return nil, fmt.Errorf("%w: public_id is required", ErrInvalidInput)
	}

	var cached TranscriptResult
	if s.cachedResult(ctx, "transcribe", publicID, &cached) {
		return &cached, nil
	}

	resource, err := s.media.Resource(ctx, transform.KindVideo, publicID, mediaapi.ResourceOptions{Speech: true})
	if err != nil {
		log.Printf("[ai] transcription lookup failed for %s: %v", publicID, err)
		return &TranscriptResult{
			Transcript: "Transcription add-on required. Enable 'Google AI Video Transcription' in your media account.\n\nDemo transcript: 'Hello, this is a sample video transcription.'",
		}, nil
	}

	var builder strings.Builder
	for _, segment := range resource.Info.RawConvert.GoogleSpeech.Data {
		if segment.Transcript != "" {
			builder.WriteString(segment.Transcript)
			builder.WriteString(" ")
		}
	}

	transcript := strings.TrimSpace(builder.String())
	if transcript == "" {
		transcript = "No speech detected in this video."
	}

	result := &TranscriptResult{Transcript: transcript}
	s.storeResult(ctx, "transcribe", publicID, result)
	return result, nil
}

// cachedResult 命中缓存时返回 true，dest 已填充
func (s *Service) cachedResult(ctx context.Context, tool, publicID string, dest any) bool {
	if s.cacheProvider == nil {
		return false
	}
	err := s.cacheProvider.Get(ctx, cache.AnalysisKey(tool, publicID), dest)
	if err == nil {
		return true
	}
	if !cache.IsCacheMiss(err) {
		log.Printf("[ai] cache get failed for %s/%s: %v", tool, publicID, err)
	}
	return false
}

// storeResult 缓存分析结果，失败只记日志。演示降级结果不缓存。
func (s *Service) storeResult(ctx context.Context, tool, publicID string, value any) {
	if s.cacheProvider == nil {
		return
	}
	if err := s.cacheProvider.Set(ctx, cache.AnalysisKey(tool, publicID), value, s.analysisTTL); err != nil {
		log.Printf("[ai] cache set failed for %s/%s: %v", tool, publicID, err)
	}
}
