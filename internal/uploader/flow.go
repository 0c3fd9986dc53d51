package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/anoixa/media-studio/internal/mediaapi"
	"github.com/anoixa/media-studio/internal/transform"
)

// State 上传流程状态
type State string

const (
	StateIdle                State = "idle"
	StateAwaitingCredentials State = "awaiting-credentials"
	StateTransferring        State = "transferring"
	StatePersisting          State = "persisting"
	StateComplete            State = "complete"
	StateFailed              State = "failed"
)

var (
	// ErrTooLarge 文件超过大小上限，在任何网络调用之前拒绝
	ErrTooLarge = errors.New("file exceeds the upload size limit")
	// ErrNotIdle 流程是一次性的，只能从 idle 启动
	ErrNotIdle = errors.New("upload flow already started")
)

// Transport 字节搬运与补偿删除的后端，生产环境由托管服务客户端实现
type Transport interface {
	Upload(ctx context.Context, kind transform.Kind, filename string, file io.Reader, folder string) (*mediaapi.UploadResult, error)
	Destroy(ctx context.Context, kind transform.Kind, publicID string) error
}

// PersistFunc 上传完成后落元数据，失败会触发补偿删除
type PersistFunc func(ctx context.Context, result *mediaapi.UploadResult) error

// Input 一次上传的完整描述
type Input struct {
	Kind     transform.Kind
	Filename string
	Size     int64
	Reader   io.Reader
	Folder   string
}

// Flow 单次上传流程的状态机：
// idle → awaiting-credentials → transferring(0-100) → persisting → complete，
// 任何非 idle 状态都可能终止到 failed。实例一次性，不复用。
type Flow struct {
	transport Transport
	persist   PersistFunc
	maxBytes  int64

	mu       sync.Mutex
	state    State
	progress int
	failure  error

	// OnProgress 进度回调，0-100 单调不减，可为 nil
	OnProgress func(percent int)
}

// NewFlow 创建上传流程
func NewFlow(transport Transport, persist PersistFunc, maxBytes int64) *Flow {
	return &Flow{
		transport: transport,
		persist:   persist,
		maxBytes:  maxBytes,
		state:     StateIdle,
	}
}

// State 当前状态
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Progress 当前进度百分比
func (f *Flow) Progress() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.progress
}

// Err 失败原因，未失败时为 nil
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failure
}

// Run 执行整个上传流程。ctx 取消会中断传输并以 failed 终止。
func (f *Flow) Run(ctx context.Context, input Input) (*mediaapi.UploadResult, error) {
	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return nil, ErrNotIdle
	}
	f.state = StateAwaitingCredentials
	f.mu.Unlock()

	// 大小上限在任何网络调用之前检查
	if f.maxBytes > 0 && input.Size > f.maxBytes {
		return nil, f.fail(ErrTooLarge)
	}
	if !input.Kind.Valid() {
		return nil, f.fail(fmt.Errorf("unsupported media kind %q", input.Kind))
	}
	if input.Reader == nil {
		return nil, f.fail(errors.New("no file content"))
	}
	if err := ctx.Err(); err != nil {
		return nil, f.fail(err)
	}

	f.setState(StateTransferring)
	reader := &progressReader{
		ctx:    ctx,
		inner:  input.Reader,
		total:  input.Size,
		report: f.setProgress,
	}

	result, err := f.transport.Upload(ctx, input.Kind, input.Filename, reader, input.Folder)
	if err != nil {
		return nil, f.fail(fmt.Errorf("transfer failed: %w", err))
	}
	f.setProgress(100)

	f.setState(StatePersisting)
	if f.persist != nil {
		if err := f.persist(ctx, result); err != nil {
			// 字节已经在远端但元数据没落下来，补偿删除远端对象
			f.compensate(input.Kind, result.PublicID)
			return nil, f.fail(fmt.Errorf("persist failed: %w", err))
		}
	}

	f.setState(StateComplete)
	return result, nil
}

// compensate 尽力删除已上传的远端对象，失败只记日志
func (f *Flow) compensate(kind transform.Kind, publicID string) {
	if publicID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := f.transport.Destroy(ctx, kind, publicID); err != nil {
		log.Printf("[uploader] compensating destroy failed for %s: %v", publicID, err)
	}
}

func (f *Flow) setState(state State) {
	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
}

func (f *Flow) fail(err error) error {
	f.mu.Lock()
	f.state = StateFailed
	f.failure = err
	f.mu.Unlock()
	return err
}

// setProgress 进度单调不减
func (f *Flow) setProgress(percent int) {
	f.mu.Lock()
	if percent < f.progress {
		f.mu.Unlock()
		return
	}
	if percent > 100 {
		percent = 100
	}
	f.progress = percent
	callback := f.OnProgress
	f.mu.Unlock()

	if callback != nil {
		callback(percent)
	}
}

// progressReader 把读取进度换算成百分比，并在 ctx 取消时中断传输
type progressReader struct {
	ctx    context.Context
	inner  io.Reader
	total  int64
	read   int64
	report func(int)
}

func (r *progressReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := r.inner.Read(p)
	if n > 0 {
		r.read += int64(n)
		if r.total > 0 {
			percent := int(r.read * 100 / r.total)
			if percent > 99 {
				// 100 只在传输真正结束后上报
				percent = 99
			}
			r.report(percent)
		}
	}
	return n, err
}
