package transform

import (
	"fmt"
	"strings"
)

// 托管媒体服务的交付域名
const deliveryHost = "https://res.cloudinary.com"

const defaultPreviewDuration = 5

// Build 把变换请求拼成托管服务可识别的单段变换串。
// 纯函数：相同输入永远得到相同输出；缺省参数直接省略而不是输出空 token。
// token 顺序固定：裁剪/宽高比 → 焦点 → 生成式操作 → 质量/格式。
func Build(req *Request) string {
	if req == nil || req.Mode == ModeNone {
		return ""
	}

	var tokens []string

	switch req.Mode {
	case ModeFill:
		tokens = appendCropTokens(tokens, req.AspectRatio, "pad", req.Gravity)
		tokens = append(tokens, generative("b_gen_fill", promptArg(req.Prompt)))
	case ModeSmartCrop:
		tokens = appendCropTokens(tokens, req.AspectRatio, "fill", req.Gravity)
	case ModeRemove:
		if req.Prompt != "" {
			tokens = append(tokens, generative("e_gen_remove", promptArg(req.Prompt)))
		}
	case ModeReplace:
		if req.Prompt != "" && req.Prompt2 != "" {
			tokens = append(tokens, generative("e_gen_replace", "from_"+req.Prompt+";to_"+req.Prompt2))
		}
	case ModeRecolor:
		if req.Prompt != "" && req.Prompt2 != "" {
			tokens = append(tokens, generative("e_gen_recolor", "prompt_"+req.Prompt+";to-color_"+req.Prompt2))
		}
	case ModeBackground:
		tokens = append(tokens, generative("e_gen_background_replace", promptArg(req.Prompt)))
	case ModeRestore:
		tokens = append(tokens, "e_gen_restore")
	case ModePreview:
		duration := req.PreviewDuration
		if duration <= 0 {
			duration = defaultPreviewDuration
		}
		tokens = append(tokens, fmt.Sprintf("e_preview:duration_%d", duration))
	case ModeQuality:
		// f_auto/q_auto 成对出现，与显式 q_<n> 互斥
		if req.Quality > 0 && req.Quality < 100 {
			tokens = append(tokens, fmt.Sprintf("q_%d", req.Quality), "f_auto")
		} else {
			tokens = append(tokens, "f_auto", "q_auto")
		}
	}

	return strings.Join(tokens, ",")
}

// appendCropTokens 裁剪类模式共用的 ar/c/g token，焦点缺省回退 AI 自动
func appendCropTokens(tokens []string, ratio AspectRatio, crop string, gravity Gravity) []string {
	if ratio.Valid() {
		tokens = append(tokens, "ar_"+string(ratio))
	}
	tokens = append(tokens, "c_"+crop)
	if !gravity.Valid() {
		gravity = GravityAuto
	}
	return append(tokens, "g_"+string(gravity))
}

func generative(op, arg string) string {
	if arg == "" {
		return op
	}
	return op + ":" + arg
}

func promptArg(prompt string) string {
	if prompt == "" {
		return ""
	}
	return "prompt_" + prompt
}

// DeliveryURL 生成可直接拉取的资源 URL。
// 不校验 publicID；错误的引用在拉取时由托管服务拒绝，而不是在构造时报错。
func DeliveryURL(cloudName string, kind Kind, publicID string, req *Request) string {
	if publicID == "" {
		return ""
	}
	component := Build(req)
	if component == "" {
		return fmt.Sprintf("%s/%s/%s/upload/%s", deliveryHost, cloudName, kind, publicID)
	}
	return fmt.Sprintf("%s/%s/%s/upload/%s/%s", deliveryHost, cloudName, kind, component, publicID)
}

// VideoThumbnailURL 视频封面帧（首帧）URL
func VideoThumbnailURL(cloudName, publicID string, width, height int) string {
	if publicID == "" {
		return ""
	}
	if width <= 0 {
		width = 400
	}
	if height <= 0 {
		height = 225
	}
	return fmt.Sprintf("%s/%s/video/upload/c_fill,w_%d,h_%d,so_0/%s.jpg", deliveryHost, cloudName, width, height, publicID)
}

// ImageURL 图片缩略 URL
func ImageURL(cloudName, publicID string, width, height int) string {
	if publicID == "" {
		return ""
	}
	if width <= 0 {
		width = 400
	}
	if height <= 0 {
		height = 400
	}
	return fmt.Sprintf("%s/%s/image/upload/c_fill,w_%d,h_%d/%s", deliveryHost, cloudName, width, height, publicID)
}
