package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anoixa/media-studio/database/models"
	assetsrepo "github.com/anoixa/media-studio/database/repo/assets"
	favoritesrepo "github.com/anoixa/media-studio/database/repo/favorites"
	"github.com/anoixa/media-studio/internal/mediaapi"
	"github.com/anoixa/media-studio/internal/transform"
)

// setupTestDB 创建测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Asset{}, &models.Favorite{})
	assert.NoError(t, err)

	return db
}

// newTestService 创建测试服务，media 默认未配置
func newTestService(t *testing.T, media *mediaapi.Client) *Service {
	db := setupTestDB(t)
	if media == nil {
		media = mediaapi.NewClient(mediaapi.Config{})
	}
	return NewService(
		assetsrepo.NewRepository(db),
		favoritesrepo.NewRepository(db),
		media,
		nil,
		nil,
		0,
		"http://localhost:3000",
	)
}

func validInput() CreateInput {
	return CreateInput{
		Title:         "Sunset",
		Kind:          models.AssetKindImage,
		PublicID:      "media-studio/sunset",
		OriginalSize:  2048,
		ProcessedSize: 1024,
	}
}

// --- 测试 Create ---

func TestService_Create(t *testing.T) {
	svc := newTestService(t, nil)

	asset, err := svc.Create(context.Background(), 1, validInput())
	assert.NoError(t, err)
	assert.NotZero(t, asset.ID)
	assert.Equal(t, "Sunset", asset.Title)
	assert.Equal(t, uint(1), asset.UserID)
}

func TestService_Create_TrimsWhitespace(t *testing.T) {
	svc := newTestService(t, nil)

	input := validInput()
	input.Title = "  Sunset  "
	input.Description = "  over the bay  "

	asset, err := svc.Create(context.Background(), 1, input)
	assert.NoError(t, err)
	assert.Equal(t, "Sunset", asset.Title)
	assert.Equal(t, "over the bay", asset.Description)
}

func TestService_Create_Validation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	// 空标题
	input := validInput()
	input.Title = "   "
	_, err := svc.Create(ctx, 1, input)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 超长标题
	input = validInput()
	for len(input.Title) <= maxTitleLength {
		input.Title += "xxxxxxxxxx"
	}
	_, err = svc.Create(ctx, 1, input)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 非法类型
	input = validInput()
	input.Kind = "audio"
	_, err = svc.Create(ctx, 1, input)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 缺 public_id
	input = validInput()
	input.PublicID = ""
	_, err = svc.Create(ctx, 1, input)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 负数尺寸
	input = validInput()
	input.OriginalSize = -1
	_, err = svc.Create(ctx, 1, input)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// --- 测试 List ---

func TestService_List(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	input := validInput()
	_, err := svc.Create(ctx, 1, input)
	assert.NoError(t, err)

	video := validInput()
	video.Title = "Clip"
	video.Kind = models.AssetKindVideo
	video.PublicID = "media-studio/clip"
	_, err = svc.Create(ctx, 1, video)
	assert.NoError(t, err)

	// kind 为空返回全部
	all, err := svc.List(ctx, 1, "")
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	videos, err := svc.List(ctx, 1, models.AssetKindVideo)
	assert.NoError(t, err)
	assert.Len(t, videos, 1)
	assert.Equal(t, "Clip", videos[0].Title)

	// 其他用户看不到
	others, err := svc.List(ctx, 2, "")
	assert.NoError(t, err)
	assert.Empty(t, others)

	// 非法类型
	_, err = svc.List(ctx, 1, "audio")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// --- 测试 Get ---

// TestService_Get_MergedNotFound 他人的资产与不存在的资产同样返回 ErrNotFound
func TestService_Get_MergedNotFound(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	asset, err := svc.Create(ctx, 1, validInput())
	assert.NoError(t, err)

	found, err := svc.Get(1, asset.ID)
	assert.NoError(t, err)
	assert.Equal(t, asset.ID, found.ID)

	// 他人记录
	_, err = svc.Get(2, asset.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// 不存在的记录
	_, err = svc.Get(1, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- 测试 Delete ---

func TestService_Delete(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	asset, err := svc.Create(ctx, 1, validInput())
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, 1, asset.ID))

	_, err = svc.Get(1, asset.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// 重复删除
	assert.ErrorIs(t, svc.Delete(ctx, 1, asset.ID), ErrNotFound)
}

func TestService_Delete_OtherUser(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	asset, err := svc.Create(ctx, 1, validInput())
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, 2, asset.ID), ErrNotFound)

	// 原记录仍在
	_, err = svc.Get(1, asset.ID)
	assert.NoError(t, err)
}

// TestService_Delete_ClearsFavorites 删除资产时清掉指向它的收藏
func TestService_Delete_ClearsFavorites(t *testing.T) {
	db := setupTestDB(t)
	favRepo := favoritesrepo.NewRepository(db)
	svc := NewService(
		assetsrepo.NewRepository(db),
		favRepo,
		mediaapi.NewClient(mediaapi.Config{}),
		nil, nil, 0, "http://localhost:3000",
	)
	ctx := context.Background()

	asset, err := svc.Create(ctx, 1, validInput())
	assert.NoError(t, err)

	err = favRepo.Upsert(&models.Favorite{UserID: 1, PublicID: asset.PublicID, Kind: asset.Kind, Title: asset.Title})
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, 1, asset.ID))

	favorites, err := favRepo.ListByUser(1)
	assert.NoError(t, err)
	assert.Empty(t, favorites)
}

// --- 测试 Derive ---

// newDeriveService 创建带假托管服务的测试服务
func newDeriveService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	server := httptest.NewServer(handler)
	media := mediaapi.NewClient(mediaapi.Config{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
	}).WithAPIBase(server.URL)

	db := setupTestDB(t)
	svc := NewService(
		assetsrepo.NewRepository(db),
		favoritesrepo.NewRepository(db),
		media,
		nil, nil, 0, "http://localhost:3000",
	)
	return svc, server
}

func explicitResponse(w http.ResponseWriter, derivedBytes int64) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{
		"public_id": "media-studio/sunset",
		"bytes": 1024,
		"secure_url": "https://res.cloudinary.com/demo/image/upload/media-studio/sunset.jpg",
		"eager": [{"bytes": ` + strconv.FormatInt(derivedBytes, 10) + `, "secure_url": "https://res.cloudinary.com/demo/image/upload/ar_1:1,c_fill,g_auto/media-studio/sunset.jpg"}]
	}`))
}

func TestService_Derive_SocialCopy(t *testing.T) {
	svc, server := newDeriveService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "ar_1:1,c_fill,g_auto", r.FormValue("eager"))
		explicitResponse(w, 400)
	})
	defer server.Close()
	ctx := context.Background()

	asset, err := svc.Create(ctx, 1, validInput())
	assert.NoError(t, err)

	result, err := svc.Derive(ctx, 1, asset.ID, DeriveInput{
		Variant:     VariantSocial,
		AspectRatio: transform.AspectSquare,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(400), result.Bytes)
	assert.Equal(t, int64(624), result.SavedBytes) // 1024 - 400

	// 另存为新资产行，共享 public_id
	assert.NotEqual(t, asset.ID, result.Asset.ID)
	assert.Equal(t, asset.PublicID, result.Asset.PublicID)
	assert.Equal(t, "Sunset (social)", result.Asset.Title)

	all, err := svc.List(ctx, 1, "")
	assert.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestService_Derive_Overwrite(t *testing.T) {
	svc, server := newDeriveService(t, func(w http.ResponseWriter, r *http.Request) {
		explicitResponse(w, 400)
	})
	defer server.Close()
	ctx := context.Background()

	asset, err := svc.Create(ctx, 1, validInput())
	assert.NoError(t, err)

	result, err := svc.Derive(ctx, 1, asset.ID, DeriveInput{
		Variant:   VariantQuality,
		Overwrite: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, asset.ID, result.Asset.ID)

	updated, err := svc.Get(1, asset.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(400), updated.ProcessedSize)

	// 覆盖不新增资产行
	all, err := svc.List(ctx, 1, "")
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestService_Derive_Validation(t *testing.T) {
	svc, server := newDeriveService(t, func(w http.ResponseWriter, r *http.Request) {
		explicitResponse(w, 400)
	})
	defer server.Close()
	ctx := context.Background()

	asset, err := svc.Create(ctx, 1, validInput())
	assert.NoError(t, err)

	// social 缺宽高比
	_, err = svc.Derive(ctx, 1, asset.ID, DeriveInput{Variant: VariantSocial})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// teaser 要求视频
	_, err = svc.Derive(ctx, 1, asset.ID, DeriveInput{Variant: VariantTeaser})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 未知变体
	_, err = svc.Derive(ctx, 1, asset.ID, DeriveInput{Variant: "mystery"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 他人资产
	_, err = svc.Derive(ctx, 2, asset.ID, DeriveInput{Variant: VariantQuality})
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestService_Derive_TeaserClampsDuration 预览时长不超过原片
func TestService_Derive_TeaserClampsDuration(t *testing.T) {
	var eager string
	svc, server := newDeriveService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		eager = r.FormValue("eager")
		explicitResponse(w, 400)
	})
	defer server.Close()
	ctx := context.Background()

	video := validInput()
	video.Kind = models.AssetKindVideo
	video.PublicID = "media-studio/clip"
	video.Duration = 6.5
	asset, err := svc.Create(ctx, 1, video)
	assert.NoError(t, err)

	_, err = svc.Derive(ctx, 1, asset.ID, DeriveInput{Variant: VariantTeaser})
	assert.NoError(t, err)
	assert.Equal(t, "e_preview:duration_6", eager)
}

// TestService_Derive_SelfHosted 自托管资产不支持派生
func TestService_Derive_SelfHosted(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	input := validInput()
	input.SelfHosted = true
	asset, err := svc.Create(ctx, 1, input)
	assert.NoError(t, err)

	_, err = svc.Derive(ctx, 1, asset.ID, DeriveInput{Variant: VariantQuality})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

// --- 测试 URL 生成 ---

func TestService_DeliveryURL(t *testing.T) {
	media := mediaapi.NewClient(mediaapi.Config{CloudName: "demo", APIKey: "k", APISecret: "s"})
	svc := newTestService(t, media)

	hosted := &models.Asset{Kind: models.AssetKindImage, PublicID: "media-studio/sunset"}
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/media-studio/sunset", svc.DeliveryURL(hosted, nil))

	selfHosted := &models.Asset{Kind: models.AssetKindImage, PublicID: "media-studio/local.jpg", SelfHosted: true}
	assert.Equal(t, "http://localhost:3000/media/media-studio/local.jpg", svc.DeliveryURL(selfHosted, nil))
}

func TestService_ThumbnailURL(t *testing.T) {
	media := mediaapi.NewClient(mediaapi.Config{CloudName: "demo", APIKey: "k", APISecret: "s"})
	svc := newTestService(t, media)

	image := &models.Asset{Kind: models.AssetKindImage, PublicID: "p1"}
	assert.Contains(t, svc.ThumbnailURL(image), "/image/upload/c_fill,w_400,h_400/p1")

	video := &models.Asset{Kind: models.AssetKindVideo, PublicID: "v1"}
	assert.Contains(t, svc.ThumbnailURL(video), "so_0/v1.jpg")
}
