package mediaapi

// UploadResult 上传接口返回的资源元数据
type UploadResult struct {
	PublicID  string  `json:"public_id" mapstructure:"public_id"`
	Bytes     int64   `json:"bytes" mapstructure:"bytes"`
	Duration  float64 `json:"duration" mapstructure:"duration"`
	Format    string  `json:"format" mapstructure:"format"`
	Width     int     `json:"width" mapstructure:"width"`
	Height    int     `json:"height" mapstructure:"height"`
	SecureURL string  `json:"secure_url" mapstructure:"secure_url"`
}

// ModerationItem 审核结果条目
type ModerationItem struct {
	Status string `mapstructure:"status"`
	Kind   string `mapstructure:"kind"`
}

// TextAnnotation OCR 识别出的文本块
type TextAnnotation struct {
	Description string `mapstructure:"description"`
}

// OCRBlock OCR 插件返回的数据块
type OCRBlock struct {
	TextAnnotations []TextAnnotation `mapstructure:"textAnnotations"`
}

// SpeechSegment 语音转写片段
type SpeechSegment struct {
	Transcript string `mapstructure:"transcript"`
}

// ResourceInfo 插件产生的附加信息，字段是否存在取决于账号开通的插件
type ResourceInfo struct {
	OCR struct {
		AdvOCR struct {
			Data []OCRBlock `mapstructure:"data"`
		} `mapstructure:"adv_ocr"`
	} `mapstructure:"ocr"`

	RawConvert struct {
		GoogleSpeech struct {
			Data []SpeechSegment `mapstructure:"data"`
		} `mapstructure:"google_speech"`
	} `mapstructure:"raw_convert"`
}

// Resource Admin API 返回的资源详情
// 插件字段松散且随账号配置变化，统一先解析成 map 再用 mapstructure 落到这里
type Resource struct {
	PublicID   string           `mapstructure:"public_id"`
	Format     string           `mapstructure:"format"`
	Width      int              `mapstructure:"width"`
	Height     int              `mapstructure:"height"`
	Bytes      int64            `mapstructure:"bytes"`
	Tags       []string         `mapstructure:"tags"`
	Colors     [][]any          `mapstructure:"colors"`
	Moderation []ModerationItem `mapstructure:"moderation"`
	Info       ResourceInfo     `mapstructure:"info"`
}

// DominantColor 主色调（colors 数组首项），无数据时返回空串
func (r *Resource) DominantColor() string {
	if len(r.Colors) == 0 || len(r.Colors[0]) == 0 {
		return ""
	}
	color, _ := r.Colors[0][0].(string)
	return color
}

// Derived eager 变换产出的派生资源
type Derived struct {
	Bytes     int64  `json:"bytes" mapstructure:"bytes"`
	SecureURL string `json:"secure_url" mapstructure:"secure_url"`
}

// ExplicitResult explicit 接口（eager 变换）的返回
type ExplicitResult struct {
	PublicID  string    `json:"public_id" mapstructure:"public_id"`
	Bytes     int64     `json:"bytes" mapstructure:"bytes"`
	SecureURL string    `json:"secure_url" mapstructure:"secure_url"`
	Eager     []Derived `json:"eager" mapstructure:"eager"`
}

// DerivedBytes 派生资源大小，无 eager 结果时回退原始大小
func (r *ExplicitResult) DerivedBytes() int64 {
	if len(r.Eager) > 0 && r.Eager[0].Bytes > 0 {
		return r.Eager[0].Bytes
	}
	return r.Bytes
}

// DerivedURL 派生资源 URL，无 eager 结果时回退原始 URL
func (r *ExplicitResult) DerivedURL() string {
	if len(r.Eager) > 0 && r.Eager[0].SecureURL != "" {
		return r.Eager[0].SecureURL
	}
	return r.SecureURL
}

// ResourceOptions Admin API 查询时要求返回的插件数据
type ResourceOptions struct {
	Tags       bool
	Colors     bool
	Moderation bool
	OCR        bool // adv_ocr 插件
	Speech     bool // google_speech 插件
}
