package prompt

import (
	"strings"
	"testing"

	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name        string
		hasPrior    bool
		isVariation bool
		isReformat  bool
		want        domain.Mode
		wantGap     bool
	}{
		{name: "何もなければ Create なのだ", want: domain.ModeCreate},
		{name: "直前画像があれば Refine なのだ", hasPrior: true, want: domain.ModeRefine},
		{name: "Variation フラグ", hasPrior: true, isVariation: true, want: domain.ModeVariation},
		{name: "Reformat フラグ", hasPrior: true, isReformat: true, want: domain.ModeReformat},
		{name: "両方立っていれば Reformat が優先なのだ", hasPrior: true, isVariation: true, isReformat: true, want: domain.ModeReformat},
		{name: "直前画像なしの Reformat は契約違反", isReformat: true, want: domain.ModeReformat, wantGap: true},
		{name: "直前画像なしの Variation は契約違反", isVariation: true, want: domain.ModeVariation, wantGap: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveMode(tt.hasPrior, tt.isVariation, tt.isReformat)
			assert.Equal(t, tt.want, got)
			if tt.wantGap {
				require.Error(t, err)
				assert.True(t, domain.IsValidationGap(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCompile_Deterministic(t *testing.T) {
	cfg := domain.DefaultConfig().
		WithSubjectDescription("ceramic mug").
		WithRimLight(true).
		WithFillLight(true).
		WithNiche("tech")

	for _, mode := range []domain.Mode{domain.ModeCreate, domain.ModeRefine, domain.ModeVariation, domain.ModeReformat} {
		first := Compile(cfg, mode)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Compile(cfg, mode), "mode %s", mode)
		}
	}
}

func TestShotPhrase(t *testing.T) {
	assert.Equal(t, "Close-up detail shot.", ShotPhrase(3))
	assert.Equal(t, "Medium waist-up shot.", ShotPhrase(3.5))
	assert.Equal(t, "Medium waist-up shot.", ShotPhrase(7))
	assert.Equal(t, "Wide full-body shot.", ShotPhrase(7.1))
}

func TestCameraClause(t *testing.T) {
	cfg := domain.DefaultConfig().WithCameraAngle(-45).WithCameraVertical(12.5).WithSubjectPosition(domain.PositionTop)

	got := CameraClause(cfg)

	assert.Contains(t, got, "-45 degrees rotation")
	assert.Contains(t, got, "12.5 degrees vertical tilt")
	assert.Contains(t, got, "top of the frame, leaving negative space below")
}

func TestCompositionClause(t *testing.T) {
	assert.Contains(t, CompositionClause(domain.PositionBottom), "negative space above")
	assert.Contains(t, CompositionClause(domain.PositionCenter), "perfectly centered")
}

func TestLightingClause(t *testing.T) {
	t.Run("リムもフィルも無効なら何も出さないのだ", func(t *testing.T) {
		assert.Empty(t, LightingClause(domain.DefaultConfig()))
	})

	t.Run("center は front に変換されるのだ", func(t *testing.T) {
		cfg := domain.DefaultConfig().WithRimLight(true).WithLightingDirection(domain.LightCenter).WithLightingColor("#ff00aa")
		got := LightingClause(cfg)
		assert.Contains(t, got, "coming from the front")
		assert.Contains(t, got, "#ff00aa")
	})

	t.Run("未知の方向は side になるのだ", func(t *testing.T) {
		cfg := domain.DefaultConfig().WithRimLight(true).WithLightingDirection("diagonal")
		assert.Contains(t, LightingClause(cfg), "coming from the side")
	})

	t.Run("フィルライトはリムライトと独立なのだ", func(t *testing.T) {
		got := LightingClause(domain.DefaultConfig().WithFillLight(true))
		assert.Contains(t, got, "diffused fill light")
		assert.NotContains(t, got, "rim light")
	})
}

func TestCompile_Create(t *testing.T) {
	t.Run("スタジオポートレートの基本形なのだ", func(t *testing.T) {
		cfg := domain.DefaultConfig().WithSubjectDescription("studio portrait").WithImageCount(1)

		got := Compile(cfg, domain.ModeCreate)

		assert.True(t, strings.HasPrefix(got, createFraming))
		assert.Contains(t, got, "Subject: studio portrait.")
		assert.NotContains(t, got, "rim light")
		assert.NotContains(t, got, "fill light")
		assert.Contains(t, got, "Background color: #111111.")
		assert.NotContains(t, got, "[IMAGE")
	})

	t.Run("節の順序は カメラ → ライト → スタイル → 背景 なのだ", func(t *testing.T) {
		cfg := domain.DefaultConfig().WithRimLight(true).WithNiche("dental")
		got := Compile(cfg, domain.ModeCreate)

		camera := strings.Index(got, "Camera:")
		light := strings.Index(got, "DRAMATIC LIGHTING")
		style := strings.Index(got, "Style:")
		bg := strings.Index(got, "Background color:")
		require.True(t, camera >= 0 && light >= 0 && style >= 0 && bg >= 0)
		assert.Less(t, camera, light)
		assert.Less(t, light, style)
		assert.Less(t, style, bg)
	})

	t.Run("参照画像があればタグと取り込み指示を付けるのだ", func(t *testing.T) {
		subj := domain.NewImageRef("image/png", []byte("s"))
		sec := domain.NewImageRef("image/png", []byte("t"))
		cfg := domain.DefaultConfig().WithSubjectImage(&subj).WithSecondaryImage(&sec)

		got := Compile(cfg, domain.ModeCreate)

		assert.Contains(t, got, "second reference image")
		assert.Contains(t, got, "[IMAGE 1: MAIN SUBJECT/IDENTITY SOURCE]")
		assert.Contains(t, got, "[IMAGE 2: REFERENCE STYLE/POSE/CLOTHING]")
	})

	t.Run("スタイル参照だけなら IMAGE 1 になるのだ", func(t *testing.T) {
		sec := domain.NewImageRef("image/png", []byte("t"))
		got := Compile(domain.DefaultConfig().WithSecondaryImage(&sec), domain.ModeCreate)
		assert.Contains(t, got, "[IMAGE 1: REFERENCE STYLE/POSE/CLOTHING]")
	})

	t.Run("未知のニッチはスタイル節を出さないのだ", func(t *testing.T) {
		got := Compile(domain.DefaultConfig().WithNiche("nope"), domain.ModeCreate)
		assert.NotContains(t, got, "Style:")
	})
}

func TestCompile_Refine(t *testing.T) {
	cfg := domain.DefaultConfig().WithSubjectDescription("make the mug red").WithRimLight(true)

	got := Compile(cfg, domain.ModeRefine)

	assert.True(t, strings.HasPrefix(got, refineTask))
	assert.Contains(t, got, "Requested change: make the mug red")
	assert.Contains(t, got, "Camera:")
	assert.Contains(t, got, "DRAMATIC LIGHTING")
	assert.True(t, strings.HasSuffix(got, refinePreserve))
	assert.NotContains(t, got, "Background color")
}

func TestCompile_Variation(t *testing.T) {
	got := Compile(domain.DefaultConfig().WithSubjectDescription("ignored"), domain.ModeVariation)
	assert.Equal(t, variationInstruction, got)
}

func TestCompile_Reformat(t *testing.T) {
	cfg := domain.DefaultConfig().WithAspectRatio(domain.AspectWide).WithImageCount(3).WithRimLight(true)

	got := Compile(cfg, domain.ModeReformat)

	assert.Contains(t, got, "16:9")
	assert.NotContains(t, got, "Background color")
	assert.NotContains(t, got, "DRAMATIC LIGHTING")

	// 節の順序: 固定 → 境界解析 → 拡張 → パディング禁止 → ライト継続
	order := []string{"IDENTITY LOCK", "EDGE ANALYSIS", "SEAMLESS EXTENSION", "FORBIDDEN", "LIGHTING CONTINUITY"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(got, marker)
		require.GreaterOrEqual(t, idx, 0, marker)
		assert.Greater(t, idx, last, marker)
		last = idx
	}
	assert.Contains(t, got, "letterboxing")
}
