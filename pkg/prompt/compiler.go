// Package prompt は設定と生成モードから、生成サービスへの指示文を組み立てます。
// 同じ入力からは常に同じ文字列を返す純粋関数だけで構成されています。
package prompt

import (
	"strings"

	"github.com/shouni/gemini-design-kit/pkg/domain"
)

// UpscaleInstruction はアップスケール要求に使う固定の指示文です。
const UpscaleInstruction = "Upscale this image to 4k, enhancing textures and lighting details."

const (
	identityLock = "IDENTITY LOCK: Do NOT redraw, move, resize or restyle the existing subject or content. " +
		"Every existing pixel of the source image must be preserved exactly as it is."
	edgeAnalysis = "EDGE ANALYSIS: Inspect the texture, color and lighting along every border of the source image " +
		"before extending it."
	seamlessExtension = "SEAMLESS EXTENSION: Continue the dominant edge type outward. Extend studio backdrops as the same smooth gradient, " +
		"extend environments with matching scenery and perspective, and continue textures and patterns without visible seams."
	noPadding = "FORBIDDEN: No flat-color padding, no letterboxing or pillarboxing, no borders, no blurred or mirrored bars."
	lightingContinuity = "LIGHTING CONTINUITY: The new areas must match the light direction, color temperature and shadow falloff " +
		"of the source image."

	variationInstruction = "Create a creative variation of the provided reference image. " +
		"Keep the same subject, style and composition, but vary the pose and the lighting nuances."

	refineTask     = "TASK: EDIT the provided image."
	refinePreserve = "Apply ONLY the requested change. Preserve the subject identity, composition and style of the original image otherwise."

	createFraming = "Create a professional, high-end composed image."
)

// templates はモードごとの節の並びです。新しい節やモードはここに追加するのだ。
var templates = map[domain.Mode][]clause{
	domain.ModeReformat: {
		reformatTaskClause,
		literal(identityLock),
		literal(edgeAnalysis),
		literal(seamlessExtension),
		literal(noPadding),
		literal(lightingContinuity),
	},
	domain.ModeVariation: {
		literal(variationInstruction),
	},
	domain.ModeRefine: {
		literal(refineTask),
		refineInstructionClause,
		LightingClause,
		CameraClause,
		literal(refinePreserve),
	},
	domain.ModeCreate: {
		literal(createFraming),
		subjectClause,
		secondaryHandOffClause,
		CameraClause,
		LightingClause,
		styleClause,
		finishClause,
		referenceTagsClause,
	},
}

// ResolveMode はフラグと直前画像の有無から、固定の優先順位でモードを決めます。
// Reformat > Variation > Refine > Create の順で最初に当てはまるものを選ぶのだ。
// Reformat と Variation は直前の画像が必須で、ない場合は ValidationGapError を返します。
func ResolveMode(hasPrior, isVariation, isReformat bool) (domain.Mode, error) {
	switch {
	case isReformat:
		if !hasPrior {
			return domain.ModeReformat, &domain.ValidationGapError{Mode: domain.ModeReformat}
		}
		return domain.ModeReformat, nil
	case isVariation:
		if !hasPrior {
			return domain.ModeVariation, &domain.ValidationGapError{Mode: domain.ModeVariation}
		}
		return domain.ModeVariation, nil
	case hasPrior:
		return domain.ModeRefine, nil
	default:
		return domain.ModeCreate, nil
	}
}

// Compile は設定とモードから指示文を組み立てます。
func Compile(cfg domain.Config, mode domain.Mode) string {
	parts := make([]string, 0, len(templates[mode]))
	for _, c := range templates[mode] {
		if s := strings.TrimSpace(c(cfg)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
