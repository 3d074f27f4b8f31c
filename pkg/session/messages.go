package session

import (
	"fmt"

	"github.com/shouni/gemini-design-kit/pkg/domain"
)

// 会話ログに出す定型文です。
const (
	GreetingText          = "Hello! I'm your design assistant. Let's create something great today."
	ResetText             = "Project archived. Let's start again!"
	UpscaleSummaryText    = "Enhance resolution (upscale)"
	UpscaleReplyText      = "Image restored and enhanced."
	UpscaleApologyText    = "Upscale failed."
	GenerationApologyText = "Sorry, I had a problem generating the image. Please try again."
	CandidateConfirmText  = "Candidate selected."
	autoDescription       = "automatic"
)

// summaryText は生成トリガー時にユーザー側に残す要約です。文面はモードごとに変わるのだ。
func summaryText(mode domain.Mode, cfg domain.Config) string {
	switch mode {
	case domain.ModeReformat:
		return fmt.Sprintf("Adjust format to %s (keep subject)", cfg.AspectRatio)
	case domain.ModeVariation:
		return "Create a creative variation of this image"
	case domain.ModeRefine:
		return fmt.Sprintf("Refine image: %s", cfg.SubjectDescription)
	default:
		desc := cfg.SubjectDescription
		if desc == "" {
			desc = autoDescription
		}
		return fmt.Sprintf("Create image (%s) - %s", cfg.Niche, desc)
	}
}

// replyText は生成成功時のモデル側の返答です。
func replyText(mode domain.Mode, count int) string {
	if count > 1 {
		return fmt.Sprintf("Generated %d candidates. Pick the one you like.", count)
	}
	switch mode {
	case domain.ModeVariation:
		return "Variation generated."
	case domain.ModeReformat:
		return "Format adjusted successfully."
	default:
		return "Design generated successfully."
	}
}

func formatSetText(r domain.AspectRatio) string {
	return fmt.Sprintf("Format set: %s", r)
}
