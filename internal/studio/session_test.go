package studio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anoixa/media-studio/database/models"
	assetsrepo "github.com/anoixa/media-studio/database/repo/assets"
	favoritesrepo "github.com/anoixa/media-studio/database/repo/favorites"
	"github.com/anoixa/media-studio/internal/assets"
	"github.com/anoixa/media-studio/internal/mediaapi"
	"github.com/anoixa/media-studio/internal/transform"
)

// fakeTimer 可手动触发的假计时器
type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// fakeClock 记录计时器的假时钟，测试手动推进
type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	timer := &fakeTimer{fn: fn}
	c.timers = append(c.timers, timer)
	return timer
}

// fire 触发最近一个未停止的计时器
func (c *fakeClock) fire() {
	if len(c.timers) == 0 {
		return
	}
	timer := c.timers[len(c.timers)-1]
	if !timer.stopped {
		timer.fn()
	}
}

func testAsset() *models.Asset {
	return &models.Asset{
		Title:    "Sunset",
		Kind:     models.AssetKindImage,
		PublicID: "media-studio/sunset",
	}
}

// --- 测试阶段流转 ---

func TestSession_InitialPhase(t *testing.T) {
	session := NewSession(&fakeClock{}, time.Second, "demo")
	assert.Equal(t, PhaseHome, session.Phase())
	assert.Nil(t, session.Asset())
}

// TestSession_SelectMode_BeforeAsset 先挑工具再挑素材也是合法顺序，生成才要求已选资产
func TestSession_SelectMode_BeforeAsset(t *testing.T) {
	session := NewSession(&fakeClock{}, time.Second, "demo")

	assert.NoError(t, session.SelectMode(transform.ModeRemove))
	assert.Equal(t, PhaseModeSelected, session.Phase())

	assert.ErrorIs(t, session.Generate(), ErrNoAsset)

	session.SelectAsset(testAsset())
	assert.NoError(t, session.Generate())
}

func TestSession_Generate_FullCycle(t *testing.T) {
	clock := &fakeClock{}
	session := NewSession(clock, time.Second, "demo")

	session.SelectAsset(testAsset())
	assert.NoError(t, session.SelectMode(transform.ModeRestore))
	assert.Equal(t, PhaseModeSelected, session.Phase())

	assert.NoError(t, session.Generate())
	assert.Equal(t, PhaseGenerating, session.Phase())

	// 计时器到点后进入 generated
	clock.fire()
	assert.Equal(t, PhaseGenerated, session.Phase())
}

func TestSession_Generate_RequiresMode(t *testing.T) {
	session := NewSession(&fakeClock{}, time.Second, "demo")
	session.SelectAsset(testAsset())
	assert.ErrorIs(t, session.Generate(), ErrNoMode)
}

// TestSession_Generate_RejectsConcurrent 生成中拒绝再次生成和换模式
func TestSession_Generate_RejectsConcurrent(t *testing.T) {
	clock := &fakeClock{}
	session := NewSession(clock, time.Second, "demo")

	session.SelectAsset(testAsset())
	assert.NoError(t, session.SelectMode(transform.ModeRestore))
	assert.NoError(t, session.Generate())

	assert.ErrorIs(t, session.Generate(), ErrGenerating)
	assert.ErrorIs(t, session.SelectMode(transform.ModeRemove), ErrGenerating)
}

// TestSession_SelectAsset_ResetsState 切资产清空参数与结果并停掉挂起的计时器，已选模式保留
func TestSession_SelectAsset_ResetsState(t *testing.T) {
	clock := &fakeClock{}
	session := NewSession(clock, time.Second, "demo")

	session.SelectAsset(testAsset())
	assert.NoError(t, session.SelectMode(transform.ModeRemove))
	assert.NoError(t, session.UpdateRequest(func(req *transform.Request) {
		req.Prompt = "power lines"
	}))
	assert.NoError(t, session.Generate())

	session.SelectAsset(testAsset())
	assert.Equal(t, PhaseModeSelected, session.Phase())

	// 自由文本被清空，模式保留
	assert.NotContains(t, session.PreviewURL(), "power lines")

	// 被停掉的计时器不再触发状态流转
	clock.fire()
	assert.Equal(t, PhaseModeSelected, session.Phase())

	// 保留下来的模式可直接生成
	assert.NoError(t, session.Generate())
}

// TestSession_SelectAsset_WithoutMode 未选模式时切资产停在 home
func TestSession_SelectAsset_WithoutMode(t *testing.T) {
	session := NewSession(&fakeClock{}, time.Second, "demo")
	session.SelectAsset(testAsset())
	assert.Equal(t, PhaseHome, session.Phase())
}

// TestSession_Discard 丢弃回到 mode-selected 并清空自由文本，可直接重新生成
func TestSession_Discard(t *testing.T) {
	clock := &fakeClock{}
	session := NewSession(clock, time.Second, "demo")

	// 没有生成结果时不能丢弃
	assert.ErrorIs(t, session.Discard(), ErrNotGenerated)

	session.SelectAsset(testAsset())
	assert.NoError(t, session.SelectMode(transform.ModeRemove))
	assert.NoError(t, session.UpdateRequest(func(req *transform.Request) {
		req.Prompt = "power lines"
	}))
	assert.NoError(t, session.Generate())
	clock.fire()

	assert.NoError(t, session.Discard())
	assert.Equal(t, PhaseModeSelected, session.Phase())

	// 自由文本已清空，预览回到无提示词形态
	assert.NotContains(t, session.PreviewURL(), "power lines")

	// 模式保留，改参数后可直接再次生成
	assert.NoError(t, session.UpdateRequest(func(req *transform.Request) {
		req.Prompt = "street sign"
	}))
	assert.NoError(t, session.Generate())
	clock.fire()
	assert.Equal(t, PhaseGenerated, session.Phase())
}

// --- 测试 UpdateRequest 与 PreviewURL ---

func TestSession_UpdateRequest(t *testing.T) {
	clock := &fakeClock{}
	session := NewSession(clock, time.Second, "demo")

	// 未选模式时不能更新参数
	err := session.UpdateRequest(func(req *transform.Request) {})
	assert.ErrorIs(t, err, ErrNoMode)

	session.SelectAsset(testAsset())
	assert.NoError(t, session.SelectMode(transform.ModeRemove))

	assert.NoError(t, session.UpdateRequest(func(req *transform.Request) {
		req.Prompt = "power lines"
	}))

	// 参数变化即时反映在预览 URL 上
	assert.Contains(t, session.PreviewURL(), "e_gen_remove:prompt_power lines")
}

func TestSession_PreviewURL(t *testing.T) {
	session := NewSession(&fakeClock{}, time.Second, "demo")
	assert.Equal(t, "", session.PreviewURL())

	session.SelectAsset(testAsset())
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/media-studio/sunset", session.PreviewURL())
}

// --- 测试 Save ---

func TestSession_Save(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Asset{}, &models.Favorite{}))

	svc := assets.NewService(
		assetsrepo.NewRepository(db),
		favoritesrepo.NewRepository(db),
		mediaapi.NewClient(mediaapi.Config{}),
		nil, nil, 0, "http://localhost:3000",
	)
	ctx := context.Background()

	clock := &fakeClock{}
	session := NewSession(clock, time.Second, "demo")

	// 没有生成结果时不能保存
	_, err = session.Save(ctx, svc, 1, "")
	assert.ErrorIs(t, err, ErrNotGenerated)

	session.SelectAsset(testAsset())
	assert.NoError(t, session.SelectMode(transform.ModeRestore))
	assert.NoError(t, session.Generate())
	clock.fire()

	saved, err := session.Save(ctx, svc, 1, "")
	assert.NoError(t, err)
	assert.Equal(t, PhaseSaved, session.Phase())

	// 另存为新资产行，共享远端存储键，标题自动带上模式
	assert.Equal(t, "media-studio/sunset", saved.PublicID)
	assert.Equal(t, "Sunset (restore)", saved.Title)
	assert.Equal(t, uint(1), saved.UserID)
}

// --- 测试 Close ---

func TestSession_Close(t *testing.T) {
	clock := &fakeClock{}
	session := NewSession(clock, time.Second, "demo")

	session.SelectAsset(testAsset())
	assert.NoError(t, session.SelectMode(transform.ModeRestore))
	assert.NoError(t, session.Generate())

	session.Close()
	assert.Equal(t, PhaseHome, session.Phase())
	assert.Nil(t, session.Asset())

	clock.fire()
	assert.Equal(t, PhaseHome, session.Phase())
}

// --- 测试分析状态 ---

func TestSession_Analyze(t *testing.T) {
	session := NewSession(&fakeClock{}, time.Second, "demo")
	ctx := context.Background()

	assert.Equal(t, AnalysisIdle, session.AnalysisFor("tags").State)

	result, err := session.Analyze(ctx, "tags", func(ctx context.Context) (any, error) {
		return []string{"nature"}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"nature"}, result)

	analysis := session.AnalysisFor("tags")
	assert.Equal(t, AnalysisResult, analysis.State)
	assert.Equal(t, []string{"nature"}, analysis.Result)
}

// TestSession_Analyze_FailureKeepsPriorResult 分析失败保留上一次结果
func TestSession_Analyze_FailureKeepsPriorResult(t *testing.T) {
	session := NewSession(&fakeClock{}, time.Second, "demo")
	ctx := context.Background()

	_, err := session.Analyze(ctx, "ocr", func(ctx context.Context) (any, error) {
		return "Hello World", nil
	})
	assert.NoError(t, err)

	runErr := errors.New("provider timeout")
	_, err = session.Analyze(ctx, "ocr", func(ctx context.Context) (any, error) {
		return nil, runErr
	})
	assert.ErrorIs(t, err, runErr)

	analysis := session.AnalysisFor("ocr")
	assert.Equal(t, AnalysisError, analysis.State)
	assert.Equal(t, "Hello World", analysis.Result)
	assert.ErrorIs(t, analysis.Err, runErr)
}

// TestSession_Analyze_IndependentTools 各工具状态互不影响
func TestSession_Analyze_IndependentTools(t *testing.T) {
	session := NewSession(&fakeClock{}, time.Second, "demo")
	ctx := context.Background()

	_, err := session.Analyze(ctx, "tags", func(ctx context.Context) (any, error) {
		return []string{"nature"}, nil
	})
	assert.NoError(t, err)

	_, err = session.Analyze(ctx, "moderate", func(ctx context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)

	assert.Equal(t, AnalysisResult, session.AnalysisFor("tags").State)
	assert.Equal(t, AnalysisError, session.AnalysisFor("moderate").State)
	assert.Equal(t, AnalysisIdle, session.AnalysisFor("transcribe").State)
}
