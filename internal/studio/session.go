package studio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anoixa/media-studio/database/models"
	"github.com/anoixa/media-studio/internal/assets"
	"github.com/anoixa/media-studio/internal/transform"
)

// Phase 编辑会话阶段
type Phase string

const (
	PhaseHome         Phase = "home"
	PhaseModeSelected Phase = "mode-selected"
	PhaseGenerating   Phase = "generating"
	PhaseGenerated    Phase = "generated"
	PhaseSaved        Phase = "saved"
)

var (
	// ErrNoAsset 尚未选中资产
	ErrNoAsset = errors.New("no asset selected")
	// ErrNoMode 尚未选择变换模式
	ErrNoMode = errors.New("no transformation mode selected")
	// ErrGenerating 已有生成在进行中
	ErrGenerating = errors.New("generation already in progress")
	// ErrNotGenerated 当前没有可保存/可丢弃的生成结果
	ErrNotGenerated = errors.New("nothing generated yet")
)

// Clock 计时器注入点，测试用假时钟驱动
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer 可停止的计时器
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// RealClock 真实时钟
func RealClock() Clock { return realClock{} }

// AnalysisState 单个分析工具的状态
type AnalysisState string

const (
	AnalysisIdle    AnalysisState = "idle"
	AnalysisRunning AnalysisState = "analyzing"
	AnalysisResult  AnalysisState = "result"
	AnalysisError   AnalysisState = "error"
)

// Analysis 单个分析工具的状态与最近一次结果。
// 失败只更新错误，之前的结果保留。
type Analysis struct {
	State  AnalysisState
	Result any
	Err    error
}

// Session 一次编辑会话的显式状态。
// 阶段流转：home → mode-selected → generating → generated → saved，
// discard 回到 mode-selected。选模式不要求已选资产，生成才要求。
// "generating" 不等远端：交付时变换在拉取 URL 时才发生，
// 这里只是计时器驱动的展示性等待，时钟可注入。
type Session struct {
	clock         Clock
	generateDelay time.Duration
	cloudName     string

	mu       sync.Mutex
	phase    Phase
	asset    *models.Asset
	request  transform.Request
	timer    Timer
	analyses map[string]*Analysis
}

// NewSession 创建编辑会话
func NewSession(clock Clock, generateDelay time.Duration, cloudName string) *Session {
	if clock == nil {
		clock = RealClock()
	}
	return &Session{
		clock:         clock,
		generateDelay: generateDelay,
		cloudName:     cloudName,
		phase:         PhaseHome,
		analyses:      make(map[string]*Analysis),
	}
}

// Phase 当前阶段
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Asset 当前选中的资产
func (s *Session) Asset() *models.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.asset
}

// SelectAsset 切换资产会清空模式参数与已生成结果，已选的模式保留
func (s *Session) SelectAsset(asset *models.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.asset = asset
	mode := s.request.Mode
	s.request = transform.Request{Mode: mode}
	if mode != transform.ModeNone {
		s.phase = PhaseModeSelected
	} else {
		s.phase = PhaseHome
	}
}

// SelectMode 选择变换模式，切换模式会丢弃之前的生成结果。
// 不要求已选资产，先挑工具再挑素材也是合法顺序。
func (s *Session) SelectMode(mode transform.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseGenerating {
		return ErrGenerating
	}
	s.stopTimerLocked()
	s.request = transform.Request{Mode: mode}
	s.phase = PhaseModeSelected
	return nil
}

// UpdateRequest 更新当前模式的参数，模式本身不变
func (s *Session) UpdateRequest(update func(req *transform.Request)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseModeSelected && s.phase != PhaseGenerated {
		return ErrNoMode
	}
	update(&s.request)
	return nil
}

// Generate 启动生成。需要已选资产和模式，且没有生成在进行中。
// 计时器到点后自动进入 generated。
func (s *Session) Generate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset == nil {
		return ErrNoAsset
	}
	if s.request.Mode == transform.ModeNone {
		return ErrNoMode
	}
	if s.phase == PhaseGenerating {
		return ErrGenerating
	}

	s.phase = PhaseGenerating
	s.timer = s.clock.AfterFunc(s.generateDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.phase == PhaseGenerating {
			s.phase = PhaseGenerated
		}
	})
	return nil
}

// PreviewURL 当前参数下的交付 URL，随参数变化即时更新
func (s *Session) PreviewURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset == nil {
		return ""
	}
	req := s.request
	return transform.DeliveryURL(s.cloudName, transform.Kind(s.asset.Kind), s.asset.PublicID, &req)
}

// Save 把生成结果另存为新的资产行，远端对象共享同一个存储键
func (s *Session) Save(ctx context.Context, svc *assets.Service, userID uint, title string) (*models.Asset, error) {
	s.mu.Lock()
	if s.phase != PhaseGenerated {
		s.mu.Unlock()
		return nil, ErrNotGenerated
	}
	asset := s.asset
	mode := s.request.Mode
	s.mu.Unlock()

	if title == "" {
		title = fmt.Sprintf("%s (%s)", asset.Title, mode)
	}
	saved, err := svc.Create(ctx, userID, assets.CreateInput{
		Title:         title,
		Description:   asset.Description,
		Kind:          asset.Kind,
		PublicID:      asset.PublicID,
		OriginalSize:  asset.OriginalSize,
		ProcessedSize: asset.ProcessedSize,
		Duration:      asset.Duration,
		SelfHosted:    asset.SelfHosted,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.phase = PhaseSaved
	s.mu.Unlock()
	return saved, nil
}

// Discard 丢弃生成结果，清空自由文本输入后回到 mode-selected，
// 模式本身保留，可直接改参数重新生成
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseGenerated {
		return ErrNotGenerated
	}
	s.request.Prompt = ""
	s.request.Prompt2 = ""
	s.phase = PhaseModeSelected
	return nil
}

// Close 终止会话并停掉挂起的计时器
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.phase = PhaseHome
	s.asset = nil
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// AnalysisFor 某个分析工具的当前状态，从未运行过时为 idle
func (s *Session) AnalysisFor(tool string) Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.analyses[tool]; ok {
		return *a
	}
	return Analysis{State: AnalysisIdle}
}

// Analyze 执行一次分析。每个工具独立走 idle → analyzing → {result|error}，
// 失败保留之前的结果。
func (s *Session) Analyze(ctx context.Context, tool string, run func(ctx context.Context) (any, error)) (any, error) {
	s.mu.Lock()
	a, ok := s.analyses[tool]
	if !ok {
		a = &Analysis{State: AnalysisIdle}
		s.analyses[tool] = a
	}
	if a.State == AnalysisRunning {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s analysis already in progress", tool)
	}
	a.State = AnalysisRunning
	s.mu.Unlock()

	result, err := run(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		a.State = AnalysisError
		a.Err = err
		return nil, err
	}
	a.State = AnalysisResult
	a.Result = result
	a.Err = nil
	return result, nil
}
