package library

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/anoixa/media-studio/database/models"
)

// SortField 列表排序字段
type SortField string

const (
	SortByCreated SortField = "created"
	SortByTitle   SortField = "title"
	SortBySize    SortField = "size"
)

// SortOrder 排序方向
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// 批量删除的并发上限
const bulkDeleteConcurrency = 4

// Sort 稳定排序，未知字段回退按创建时间。原切片不动，返回排好序的副本。
func Sort(items []*models.Asset, field SortField, order SortOrder) []*models.Asset {
	sorted := make([]*models.Asset, len(items))
	copy(sorted, items)

	less := func(a, b *models.Asset) bool {
		switch field {
		case SortByTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortBySize:
			// 按上传时的原始大小排，派生覆盖只改 processed_size
			return a.OriginalSize < b.OriginalSize
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == OrderDesc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// Selection 多选状态
type Selection struct {
	mu  sync.Mutex
	ids map[uint]bool
}

// NewSelection 创建空的多选状态
func NewSelection() *Selection {
	return &Selection{ids: make(map[uint]bool)}
}

// Toggle 切换单项选中状态，返回切换后是否选中
func (s *Selection) Toggle(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids[id] {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = true
	return true
}

// Contains 某项是否选中
func (s *Selection) Contains(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[id]
}

// Count 选中数量
func (s *Selection) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs 选中的 ID 快照
func (s *Selection) IDs() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clear 清空选中
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[uint]bool)
}

// BulkResult 批量删除的结果
type BulkResult struct {
	Succeeded []uint
	Failed    map[uint]error
}

// DeleteFunc 删除单个资产
type DeleteFunc func(ctx context.Context, id uint) error

// BulkDelete 并发批量删除，全部跑完再汇总，单项失败不影响其它项。
// 只有确认删除成功的 ID 进入 Succeeded，调用方据此从视图移除。
func BulkDelete(ctx context.Context, ids []uint, remove DeleteFunc) *BulkResult {
	result := &BulkResult{
		Failed: make(map[uint]error),
	}
	if len(ids) == 0 {
		return result
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(bulkDeleteConcurrency)

	for _, id := range ids {
		id := id
		group.Go(func() error {
			err := remove(groupCtx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[id] = err
			} else {
				result.Succeeded = append(result.Succeeded, id)
			}
			// 全量结算语义：不让单项失败取消其它删除
			return nil
		})
	}
	_ = group.Wait()

	sort.Slice(result.Succeeded, func(i, j int) bool { return result.Succeeded[i] < result.Succeeded[j] })
	return result
}
