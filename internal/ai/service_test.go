package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoixa/media-studio/cache"
	"github.com/anoixa/media-studio/internal/mediaapi"
)

// newDemoService 后端全部未配置，所有工具走演示降级
func newDemoService() *Service {
	return NewService(mediaapi.NewClient(mediaapi.Config{}), VisionConfig{}, nil, time.Minute)
}

// newServerBackedService 媒体后端指向测试服务器
func newServerBackedService(serverURL string, cacheProvider cache.Provider) *Service {
	client := mediaapi.NewClient(mediaapi.Config{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
	}).WithAPIBase(serverURL)
	return NewService(client, VisionConfig{}, cacheProvider, time.Minute)
}

// --- 测试视觉问答 ---

func TestVision_Validation(t *testing.T) {
	service := newDemoService()
	ctx := context.Background()

	_, err := service.Vision(ctx, "", "describe this")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Vision(ctx, "https://example.com/a.jpg", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestVision_DemoFallback 视觉模型未配置时按问题关键词挑演示回答
func TestVision_DemoFallback(t *testing.T) {
	service := newDemoService()
	ctx := context.Background()

	answer, err := service.Vision(ctx, "https://example.com/a.jpg", "Please describe this photo")
	require.NoError(t, err)
	assert.Contains(t, answer, "vibrant scene")

	answer, err = service.Vision(ctx, "https://example.com/a.jpg", "Write a caption for Instagram")
	require.NoError(t, err)
	assert.Equal(t, "✨ Living my best life! #photography #moments #beautiful", answer)

	answer, err = service.Vision(ctx, "https://example.com/a.jpg", "Is this safe for work?")
	require.NoError(t, err)
	assert.Contains(t, answer, "safe for work")

	answer, err = service.Vision(ctx, "https://example.com/a.jpg", "What's in here?")
	require.NoError(t, err)
	assert.Contains(t, answer, "well-composed")
}

// --- 测试自动打标 ---

func TestTags_Validation(t *testing.T) {
	service := newDemoService()

	_, err := service.Tags(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestTags_DemoFallback 媒体后端不可用时返回演示标签
func TestTags_DemoFallback(t *testing.T) {
	service := newDemoService()

	tags, err := service.Tags(context.Background(), "media-studio/sunset")
	require.NoError(t, err)
	assert.Equal(t, []string{"Nature", "Outdoor", "Scenic", "Photography", "Beautiful"}, tags)
}

func TestTags_RemoteTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"media-studio/sunset","tags":["beach","sunset"],"width":1024,"height":768}`))
	}))
	defer server.Close()

	service := newServerBackedService(server.URL, nil)
	tags, err := service.Tags(context.Background(), "media-studio/sunset")
	require.NoError(t, err)
	assert.Equal(t, []string{"beach", "sunset"}, tags)
}

// TestTags_InferredFromMetadata 无标签时从颜色/格式/朝向推断
func TestTags_InferredFromMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"p","format":"jpg","width":1920,"height":1080,"colors":[["#336699",62.1]]}`))
	}))
	defer server.Close()

	service := newServerBackedService(server.URL, nil)
	tags, err := service.Tags(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"#336699 tones", "JPG", "Landscape", "Photo", "Digital"}, tags)
}

// TestTags_Caching 成功结果缓存，后续请求不再打后端
func TestTags_Caching(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"p","tags":["beach"]}`))
	}))
	defer server.Close()

	cacheProvider, err := cache.NewRistrettoProvider()
	require.NoError(t, err)

	service := newServerBackedService(server.URL, cacheProvider)
	ctx := context.Background()

	_, err = service.Tags(ctx, "p")
	require.NoError(t, err)

	// ristretto 写入是异步的
	time.Sleep(50 * time.Millisecond)

	tags, err := service.Tags(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"beach"}, tags)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

// TestTags_FallbackNotCached 演示降级结果不进缓存
func TestTags_FallbackNotCached(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer server.Close()

	cacheProvider, err := cache.NewRistrettoProvider()
	require.NoError(t, err)

	service := newServerBackedService(server.URL, cacheProvider)
	ctx := context.Background()

	_, err = service.Tags(ctx, "p")
	require.NoError(t, err)
	_, err = service.Tags(ctx, "p")
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

// --- 测试 OCR ---

func TestOCR_DemoFallback(t *testing.T) {
	service := newDemoService()

	result, err := service.OCR(context.Background(), "media-studio/sign")
	require.NoError(t, err)
	assert.Contains(t, result.Text, "OCR add-on required")
	assert.Contains(t, result.Text, "Hello World")
}

func TestOCR_RemoteText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"p","info":{"ocr":{"adv_ocr":{"data":[{"textAnnotations":[{"description":"STOP"},{"description":"AHEAD"}]}]}}}}`))
	}))
	defer server.Close()

	service := newServerBackedService(server.URL, nil)
	result, err := service.OCR(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "STOP AHEAD", result.Text)
}

func TestOCR_NoTextDetected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"p"}`))
	}))
	defer server.Close()

	service := newServerBackedService(server.URL, nil)
	result, err := service.OCR(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "No text detected in this image.", result.Text)
}

// --- 测试内容审核 ---

func TestModerate_DemoFallback(t *testing.T) {
	service := newDemoService()

	result, err := service.Moderate(context.Background(), "media-studio/photo")
	require.NoError(t, err)
	assert.True(t, result.Safe)
	assert.Equal(t, "approved", result.Status)
}

func TestModerate_Flagged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"p","moderation":[{"status":"rejected","kind":"aws_rek"}]}`))
	}))
	defer server.Close()

	service := newServerBackedService(server.URL, nil)
	result, err := service.Moderate(context.Background(), "p")
	require.NoError(t, err)
	assert.False(t, result.Safe)
	assert.Equal(t, "flagged", result.Status)
	assert.Equal(t, []string{"aws_rek"}, result.Categories)
}

func TestModerate_ApprovedNoIssues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"p","moderation":[{"status":"approved","kind":"aws_rek"}]}`))
	}))
	defer server.Close()

	service := newServerBackedService(server.URL, nil)
	result, err := service.Moderate(context.Background(), "p")
	require.NoError(t, err)
	assert.True(t, result.Safe)
	assert.Equal(t, []string{"No issues detected"}, result.Categories)
}

// --- 测试视频转写 ---

func TestTranscribe_DemoFallback(t *testing.T) {
	service := newDemoService()

	result, err := service.Transcribe(context.Background(), "media-studio/clip")
	require.NoError(t, err)
	assert.Contains(t, result.Transcript, "Transcription add-on required")
}

func TestTranscribe_RemoteSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/resources/video/upload/")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"p","info":{"raw_convert":{"google_speech":{"data":[{"transcript":"hello there"},{"transcript":"general kenobi"}]}}}}`))
	}))
	defer server.Close()

	service := newServerBackedService(server.URL, nil)
	result, err := service.Transcribe(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "hello there general kenobi", result.Transcript)
}
