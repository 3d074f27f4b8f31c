package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_With(t *testing.T) {
	t.Run("更新は新しい値を返し、元の値を変えないのだ", func(t *testing.T) {
		base := DefaultConfig()
		next := base.WithSubjectDescription("studio portrait").WithCameraZoom(8).WithRimLight(true)

		assert.Equal(t, "", base.SubjectDescription)
		assert.Equal(t, 5.0, base.CameraZoom)
		assert.False(t, base.RimLight)
		assert.Equal(t, "studio portrait", next.SubjectDescription)
		assert.Equal(t, 8.0, next.CameraZoom)
		assert.True(t, next.RimLight)
	})

	t.Run("範囲外の値も検証せずに保持するのだ", func(t *testing.T) {
		c := DefaultConfig().WithCameraZoom(42)
		assert.Equal(t, 42.0, c.CameraZoom)
	})

	t.Run("画像の枠は独立して更新できるのだ", func(t *testing.T) {
		subj := NewImageRef("image/png", []byte("s"))
		sec := NewImageRef("image/png", []byte("t"))

		a := DefaultConfig().WithImage(SlotSecondary, &sec).WithImage(SlotSubject, &subj)
		b := DefaultConfig().WithImage(SlotSubject, &subj).WithImage(SlotSecondary, &sec)

		assert.Equal(t, a, b)
		require.NotNil(t, a.SubjectImage)
		assert.Equal(t, subj.ID, a.SubjectImage.ID)
	})
}

func TestConfig_Clone(t *testing.T) {
	img := NewImageRef("image/png", []byte("subject"))
	c := DefaultConfig().WithSubjectImage(&img)

	cp := c.Clone()
	cp.SubjectImage.Data[0] = 'X'

	assert.Equal(t, "subject", string(c.SubjectImage.Data))
}

func TestClampHelpers(t *testing.T) {
	assert.Equal(t, MaxCameraAngle, ClampCameraAngle(720))
	assert.Equal(t, MinCameraVertical, ClampCameraVertical(-100))
	assert.Equal(t, MinCameraZoom, ClampCameraZoom(0))
	assert.Equal(t, MaxImageCount, ClampImageCount(9))
	assert.Equal(t, 3, ClampImageCount(3))
}

func TestParsers(t *testing.T) {
	r, err := ParseAspectRatio("16:9")
	require.NoError(t, err)
	assert.Equal(t, AspectWide, r)

	_, err = ParseAspectRatio("2:1")
	assert.Error(t, err)

	p, err := ParsePosition("top")
	require.NoError(t, err)
	assert.Equal(t, PositionTop, p)

	_, err = ParseLightingDirection("north")
	assert.Error(t, err)
}

func TestLookupStyle(t *testing.T) {
	s, ok := LookupStyle("fashion")
	require.True(t, ok)
	assert.Contains(t, s.Modifier, "editorial studio lighting")

	_, ok = LookupStyle("unknown")
	assert.False(t, ok)
}

func TestErrors(t *testing.T) {
	t.Run("ValidationGap は errors.As で判別できるのだ", func(t *testing.T) {
		var err error = &ValidationGapError{Mode: ModeReformat}
		assert.True(t, IsValidationGap(err))
		assert.Contains(t, err.Error(), "reformat")
	})

	t.Run("GenerationError は元のエラーを Unwrap できるのだ", func(t *testing.T) {
		cause := errors.New("boom")
		err := &GenerationError{Kind: BatchFailure, Mode: ModeCreate, Index: 2, Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "candidate 2")
	})
}
