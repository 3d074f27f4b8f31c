package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shouni/gemini-design-kit/pkg/domain"
)

// clause は設定から指示文の一節を作る関数です。空文字なら何も追加しません。
type clause func(cfg domain.Config) string

// lightDirectionPhrases は 9 セルの方向を自然言語に変換する表です。
var lightDirectionPhrases = map[domain.LightingDirection]string{
	domain.LightTopLeft:      "top left",
	domain.LightTopCenter:    "top",
	domain.LightTopRight:     "top right",
	domain.LightMiddleLeft:   "left",
	domain.LightCenter:       "front",
	domain.LightMiddleRight:  "right",
	domain.LightBottomLeft:   "bottom left",
	domain.LightBottomCenter: "bottom",
	domain.LightBottomRight:  "bottom right",
}

// DirectionPhrase はライト方向の言い回しを返します。未知の値は "side" なのだ。
func DirectionPhrase(d domain.LightingDirection) string {
	if p, ok := lightDirectionPhrases[d]; ok {
		return p
	}
	return "side"
}

// ShotPhrase はズーム値からショットの種類を決めます。
func ShotPhrase(zoom float64) string {
	switch {
	case zoom <= 3:
		return "Close-up detail shot."
	case zoom <= 7:
		return "Medium waist-up shot."
	default:
		return "Wide full-body shot."
	}
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CameraClause はショット、角度、構図をまとめたカメラ指示です。
func CameraClause(cfg domain.Config) string {
	return fmt.Sprintf("Camera: %s Angle: %s degrees rotation, %s degrees vertical tilt. %s",
		ShotPhrase(cfg.CameraZoom),
		formatDegrees(cfg.CameraAngle),
		formatDegrees(cfg.CameraVertical),
		CompositionClause(cfg.SubjectPosition),
	)
}

// CompositionClause は被写体の配置に応じた構図指示です。
func CompositionClause(p domain.Position) string {
	switch p {
	case domain.PositionTop:
		return "Composition: place the subject at the top of the frame, leaving negative space below."
	case domain.PositionBottom:
		return "Composition: place the subject at the bottom of the frame, leaving negative space above."
	default:
		return "Composition: subject perfectly centered, symmetrical framing."
	}
}

// LightingClause はリムライトとフィルライトの指示です。どちらも無効なら空文字を返します。
func LightingClause(cfg domain.Config) string {
	var b strings.Builder
	if cfg.RimLight {
		fmt.Fprintf(&b, "DRAMATIC LIGHTING: Strong volumetric rim light (backlight/contour light) coming from the %s. ", DirectionPhrase(cfg.LightingDirection))
		fmt.Fprintf(&b, "The rim light color is %s. This light should trace the edges of the subject strongly.", cfg.LightingColor)
	}
	if cfg.FillLight {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("Add soft, diffused fill light to reveal details in the shadows.")
	}
	return b.String()
}

func literal(s string) clause {
	return func(domain.Config) string { return s }
}

func subjectClause(cfg domain.Config) string {
	if strings.TrimSpace(cfg.SubjectDescription) == "" {
		return ""
	}
	return fmt.Sprintf("Subject: %s.", cfg.SubjectDescription)
}

func secondaryHandOffClause(cfg domain.Config) string {
	if cfg.SecondaryImage == nil {
		return ""
	}
	return "Integrate elements/style from the second reference image provided into the main composition."
}

func styleClause(cfg domain.Config) string {
	s, ok := domain.LookupStyle(cfg.Niche)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Style: %s.", s.Modifier)
}

func finishClause(cfg domain.Config) string {
	return fmt.Sprintf("Background color: %s. Quality: 8k, photorealistic, cinematic.", cfg.BackgroundColor)
}

// referenceTagsClause は添付順に画像へ役割のタグを付けます。
// 番号はオーケストレーターが添付する順序と一致させるのだ。
func referenceTagsClause(cfg domain.Config) string {
	var tags []string
	n := 0
	if cfg.SubjectImage != nil {
		n++
		tags = append(tags, fmt.Sprintf("[IMAGE %d: MAIN SUBJECT/IDENTITY SOURCE]", n))
	}
	if cfg.SecondaryImage != nil {
		n++
		tags = append(tags, fmt.Sprintf("[IMAGE %d: REFERENCE STYLE/POSE/CLOTHING]", n))
	}
	return strings.Join(tags, " ")
}

func refineInstructionClause(cfg domain.Config) string {
	return fmt.Sprintf("Requested change: %s", cfg.SubjectDescription)
}

func reformatTaskClause(cfg domain.Config) string {
	return fmt.Sprintf("TASK: OUTPAINTING. Extend the frame of the provided source image to the new aspect ratio %s.", cfg.AspectRatio)
}
