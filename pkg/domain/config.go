package domain

import (
	"fmt"

	"github.com/shouni/gemini-design-kit/pkg/utils"
)

const (
	MinCameraAngle    = -180.0
	MaxCameraAngle    = 180.0
	MinCameraVertical = -90.0
	MaxCameraVertical = 90.0
	MinCameraZoom     = 1.0
	MaxCameraZoom     = 10.0
	MinImageCount     = 1
	MaxImageCount     = 4
)

// AspectRatio は出力画像のアスペクト比です。
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectPortrait  AspectRatio = "3:4"
	AspectLandscape AspectRatio = "4:3"
	AspectStory     AspectRatio = "9:16"
	AspectWide      AspectRatio = "16:9"
)

// AspectRatios は選択可能なアスペクト比の一覧です。
var AspectRatios = []AspectRatio{AspectSquare, AspectPortrait, AspectLandscape, AspectStory, AspectWide}

// ParseAspectRatio は文字列をアスペクト比として検証します。
func ParseAspectRatio(s string) (AspectRatio, error) {
	for _, r := range AspectRatios {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unsupported aspect ratio: %q", s)
}

// Position は被写体の配置です。
type Position string

const (
	PositionCenter Position = "center"
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// ParsePosition は文字列を配置として検証します。
func ParsePosition(s string) (Position, error) {
	switch p := Position(s); p {
	case PositionCenter, PositionTop, PositionBottom:
		return p, nil
	}
	return "", fmt.Errorf("unsupported subject position: %q", s)
}

// LightingDirection は 3x3 グリッドのライト方向です。
type LightingDirection string

const (
	LightTopLeft      LightingDirection = "top-left"
	LightTopCenter    LightingDirection = "top-center"
	LightTopRight     LightingDirection = "top-right"
	LightMiddleLeft   LightingDirection = "middle-left"
	LightCenter       LightingDirection = "center"
	LightMiddleRight  LightingDirection = "middle-right"
	LightBottomLeft   LightingDirection = "bottom-left"
	LightBottomCenter LightingDirection = "bottom-center"
	LightBottomRight  LightingDirection = "bottom-right"
)

// LightingDirections は 9 セルを行優先で並べたものです。
var LightingDirections = []LightingDirection{
	LightTopLeft, LightTopCenter, LightTopRight,
	LightMiddleLeft, LightCenter, LightMiddleRight,
	LightBottomLeft, LightBottomCenter, LightBottomRight,
}

// ParseLightingDirection は文字列をライト方向として検証します。
func ParseLightingDirection(s string) (LightingDirection, error) {
	for _, d := range LightingDirections {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unsupported lighting direction: %q", s)
}

// Config はクリエイティブパラメータの記録です。
// 更新は常に With* で新しい値を作り、共有された値を書き換えません。
// 範囲外の値は検証せずにそのまま保持するので、値を作る側が Clamp* で丸めるのだ。
type Config struct {
	SubjectImage       *ImageRef         `json:"subject_image,omitempty"`
	SecondaryImage     *ImageRef         `json:"secondary_image,omitempty"`
	SubjectDescription string            `json:"subject_description"`
	SubjectPosition    Position          `json:"subject_position"`
	CameraAngle        float64           `json:"camera_angle"`
	CameraVertical     float64           `json:"camera_vertical"`
	CameraZoom         float64           `json:"camera_zoom"`
	Niche              string            `json:"niche"`
	StudioLightActive  bool              `json:"studio_light_active"`
	RimLight           bool              `json:"rim_light"`
	FillLight          bool              `json:"fill_light"`
	LightingDirection  LightingDirection `json:"lighting_direction"`
	LightingColor      string            `json:"lighting_color"`
	BackgroundColor    string            `json:"background_color"`
	AspectRatio        AspectRatio       `json:"aspect_ratio"`
	ImageCount         int               `json:"image_count"`
}

// DefaultConfig はセッション開始時の設定を返します。
func DefaultConfig() Config {
	return Config{
		SubjectPosition:   PositionCenter,
		CameraZoom:        5,
		Niche:             StyleAuto,
		LightingDirection: LightTopRight,
		LightingColor:     "#00ff00",
		BackgroundColor:   "#111111",
		AspectRatio:       AspectSquare,
		ImageCount:        1,
	}
}

// Clone は参照画像のバイナリまで含めて複製します。
func (c Config) Clone() Config {
	out := c
	out.SubjectImage = CloneImagePtr(c.SubjectImage)
	out.SecondaryImage = CloneImagePtr(c.SecondaryImage)
	return out
}

func (c Config) WithSubjectImage(img *ImageRef) Config {
	c.SubjectImage = CloneImagePtr(img)
	return c
}

func (c Config) WithSecondaryImage(img *ImageRef) Config {
	c.SecondaryImage = CloneImagePtr(img)
	return c
}

func (c Config) WithSubjectDescription(s string) Config {
	c.SubjectDescription = s
	return c
}

func (c Config) WithSubjectPosition(p Position) Config {
	c.SubjectPosition = p
	return c
}

func (c Config) WithCameraAngle(v float64) Config {
	c.CameraAngle = v
	return c
}

func (c Config) WithCameraVertical(v float64) Config {
	c.CameraVertical = v
	return c
}

func (c Config) WithCameraZoom(v float64) Config {
	c.CameraZoom = v
	return c
}

func (c Config) WithNiche(id string) Config {
	c.Niche = id
	return c
}

func (c Config) WithStudioLight(on bool) Config {
	c.StudioLightActive = on
	return c
}

func (c Config) WithRimLight(on bool) Config {
	c.RimLight = on
	return c
}

func (c Config) WithFillLight(on bool) Config {
	c.FillLight = on
	return c
}

func (c Config) WithLightingDirection(d LightingDirection) Config {
	c.LightingDirection = d
	return c
}

func (c Config) WithLightingColor(hex string) Config {
	c.LightingColor = hex
	return c
}

func (c Config) WithBackgroundColor(hex string) Config {
	c.BackgroundColor = hex
	return c
}

func (c Config) WithAspectRatio(r AspectRatio) Config {
	c.AspectRatio = r
	return c
}

func (c Config) WithImageCount(n int) Config {
	c.ImageCount = n
	return c
}

// ImageSlot は参照画像を差し込む枠です。
type ImageSlot int

const (
	SlotSubject ImageSlot = iota
	SlotSecondary
)

// WithImage は枠を指定して参照画像を差し替えます。2つの枠は互いに独立なのだ。
func (c Config) WithImage(slot ImageSlot, img *ImageRef) Config {
	if slot == SlotSecondary {
		return c.WithSecondaryImage(img)
	}
	return c.WithSubjectImage(img)
}

func ClampCameraAngle(v float64) float64 {
	return utils.Clamp(v, MinCameraAngle, MaxCameraAngle)
}

func ClampCameraVertical(v float64) float64 {
	return utils.Clamp(v, MinCameraVertical, MaxCameraVertical)
}

func ClampCameraZoom(v float64) float64 {
	return utils.Clamp(v, MinCameraZoom, MaxCameraZoom)
}

func ClampImageCount(n int) int {
	return utils.Clamp(n, MinImageCount, MaxImageCount)
}
