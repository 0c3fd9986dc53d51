package drafts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anoixa/media-studio/database/models"
	assetsrepo "github.com/anoixa/media-studio/database/repo/assets"
	draftsrepo "github.com/anoixa/media-studio/database/repo/drafts"
)

// setupTestService 创建测试服务，并为每个用户准备一条资产
func setupTestService(t *testing.T) (*Service, *models.Asset) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Asset{}, &models.Draft{}))

	asset := &models.Asset{
		Title:    "Sunset",
		Kind:     models.AssetKindImage,
		PublicID: "media-studio/sunset",
		UserID:   1,
	}
	assert.NoError(t, db.Create(asset).Error)

	svc := NewService(draftsrepo.NewRepository(db), assetsrepo.NewRepository(db))
	return svc, asset
}

// --- 测试 Save ---

func TestService_Save_Create(t *testing.T) {
	svc, asset := setupTestService(t)

	draft, err := svc.Save(1, SaveInput{
		AssetID: asset.ID,
		Caption: "Golden hour ✨",
		Format:  "story",
	})
	assert.NoError(t, err)
	assert.NotZero(t, draft.ID)
	assert.Equal(t, "Golden hour ✨", draft.Caption)
	assert.Equal(t, "story", draft.Format)
}

func TestService_Save_DefaultFormat(t *testing.T) {
	svc, asset := setupTestService(t)

	draft, err := svc.Save(1, SaveInput{AssetID: asset.ID})
	assert.NoError(t, err)
	assert.Equal(t, "original", draft.Format)
}

func TestService_Save_Update(t *testing.T) {
	svc, asset := setupTestService(t)

	draft, err := svc.Save(1, SaveInput{AssetID: asset.ID, Caption: "first", Format: "post"})
	assert.NoError(t, err)

	updated, err := svc.Save(1, SaveInput{
		ID:      draft.ID,
		AssetID: asset.ID,
		Caption: "second",
		Format:  "landscape",
	})
	assert.NoError(t, err)
	assert.Equal(t, draft.ID, updated.ID)
	assert.Equal(t, "second", updated.Caption)
	assert.Equal(t, "landscape", updated.Format)

	// 更新不产生新行
	list, err := svc.List(1)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_Save_Validation(t *testing.T) {
	svc, asset := setupTestService(t)

	// 缺 asset_id
	_, err := svc.Save(1, SaveInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 未知格式
	_, err = svc.Save(1, SaveInput{AssetID: asset.ID, Format: "billboard"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 超长文案
	_, err = svc.Save(1, SaveInput{AssetID: asset.ID, Caption: strings.Repeat("x", maxCaptionLength+1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestService_Save_AssetOwnership 引用他人或不存在的资产同样被拒绝
func TestService_Save_AssetOwnership(t *testing.T) {
	svc, asset := setupTestService(t)

	// 他人的资产
	_, err := svc.Save(2, SaveInput{AssetID: asset.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 不存在的资产
	_, err = svc.Save(1, SaveInput{AssetID: 9999})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestService_Save_UpdateOtherUsers 不能更新他人的草稿
func TestService_Save_UpdateOtherUsers(t *testing.T) {
	svc, asset := setupTestService(t)

	draft, err := svc.Save(1, SaveInput{AssetID: asset.ID})
	assert.NoError(t, err)

	// 用户 2 没有这条草稿也没有这条资产
	_, err = svc.Save(2, SaveInput{ID: draft.ID, AssetID: asset.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// --- 测试 List / Get / Delete ---

func TestService_List_ScopedToUser(t *testing.T) {
	svc, asset := setupTestService(t)

	_, err := svc.Save(1, SaveInput{AssetID: asset.ID, Caption: "one"})
	assert.NoError(t, err)
	_, err = svc.Save(1, SaveInput{AssetID: asset.ID, Caption: "two"})
	assert.NoError(t, err)

	list, err := svc.List(1)
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	others, err := svc.List(2)
	assert.NoError(t, err)
	assert.Empty(t, others)
}

func TestService_Get_MergedNotFound(t *testing.T) {
	svc, asset := setupTestService(t)

	draft, err := svc.Save(1, SaveInput{AssetID: asset.ID})
	assert.NoError(t, err)

	found, err := svc.Get(1, draft.ID)
	assert.NoError(t, err)
	assert.Equal(t, draft.ID, found.ID)

	_, err = svc.Get(2, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(1, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	svc, asset := setupTestService(t)

	draft, err := svc.Save(1, SaveInput{AssetID: asset.ID})
	assert.NoError(t, err)

	// 他人不能删除
	assert.ErrorIs(t, svc.Delete(2, draft.ID), ErrNotFound)

	assert.NoError(t, svc.Delete(1, draft.ID))
	_, err = svc.Get(1, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// 重复删除
	assert.ErrorIs(t, svc.Delete(1, draft.ID), ErrNotFound)
}
