package transform

// Kind 媒体类型
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Valid 是否为受支持的媒体类型
func (k Kind) Valid() bool {
	return k == KindImage || k == KindVideo
}

// Mode 交付时变换模式
type Mode string

const (
	ModeNone       Mode = ""
	ModeFill       Mode = "fill"       // 生成式扩图
	ModeRemove     Mode = "remove"     // 生成式移除
	ModeReplace    Mode = "replace"    // 生成式替换
	ModeRecolor    Mode = "recolor"    // 生成式改色
	ModeBackground Mode = "bg-replace" // 背景替换
	ModeRestore    Mode = "restore"    // 画质修复
	ModeSmartCrop  Mode = "crop"       // 智能裁剪
	ModeQuality    Mode = "quality"    // 自动压缩
	ModePreview    Mode = "preview"    // 视频精彩片段预览
)

// AspectRatio 裁剪/扩图宽高比，固定枚举
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectClassic   AspectRatio = "4:3"
	AspectWide      AspectRatio = "16:9"
	AspectVertical  AspectRatio = "9:16"
	AspectCinema    AspectRatio = "21:9"
	AspectPortrait  AspectRatio = "4:5"
)

var aspectRatios = map[AspectRatio]bool{
	AspectSquare:   true,
	AspectClassic:  true,
	AspectWide:     true,
	AspectVertical: true,
	AspectCinema:   true,
	AspectPortrait: true,
}

// Valid 是否为受支持的宽高比
func (a AspectRatio) Valid() bool {
	return aspectRatios[a]
}

// AspectRatios 返回全部受支持的宽高比
func AspectRatios() []AspectRatio {
	return []AspectRatio{AspectSquare, AspectClassic, AspectWide, AspectVertical, AspectCinema, AspectPortrait}
}

// Gravity 智能裁剪焦点策略，固定枚举
type Gravity string

const (
	GravityAuto    Gravity = "auto"         // AI 自动
	GravityFaces   Gravity = "auto:faces"   // 人脸优先
	GravityClassic Gravity = "auto:classic" // 经典显著性
	GravityCenter  Gravity = "center"
	GravityNorth   Gravity = "north"
	GravitySouth   Gravity = "south"
)

var gravities = map[Gravity]bool{
	GravityAuto:    true,
	GravityFaces:   true,
	GravityClassic: true,
	GravityCenter:  true,
	GravityNorth:   true,
	GravitySouth:   true,
}

// Valid 是否为受支持的焦点策略
func (g Gravity) Valid() bool {
	return gravities[g]
}

// Gravities 返回全部受支持的焦点策略
func Gravities() []Gravity {
	return []Gravity{GravityAuto, GravityFaces, GravityClassic, GravityCenter, GravityNorth, GravitySouth}
}

// Request 一次交付时变换的完整描述，仅存在于内存中，用于拼 URL
type Request struct {
	Mode        Mode
	AspectRatio AspectRatio
	Gravity     Gravity

	// 生成式模式的自由文本载荷，原样透传，不做校验
	Prompt  string // 目标对象 / 场景描述
	Prompt2 string // 替换对象 / 目标颜色

	// 1-99 显式压缩质量（压缩预览路径），与 q_auto 互斥
	Quality int

	// 预览片段时长（秒），0 取默认值
	PreviewDuration int
}
