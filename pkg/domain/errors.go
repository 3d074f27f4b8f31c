package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy は生成処理中に次の生成が要求されたことを示します。
	ErrBusy = errors.New("a generation is already in progress")
	// ErrNoActiveImage はアクティブな画像が必要な操作で画像がないことを示します。
	ErrNoActiveImage = errors.New("no active image")
	// ErrCandidateNotFound は指定された候補が存在しないことを示します。
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrImageNotFound は履歴に指定の画像がないことを示します。
	ErrImageNotFound = errors.New("image not found in history")
	// ErrProjectNotFound はアーカイブに指定のプロジェクトがないことを示します。
	ErrProjectNotFound = errors.New("project not found")
	// ErrNoImageData は生成サービスが画像データを返さなかったことを示します。
	ErrNoImageData = errors.New("no image data returned")
)

// ValidationGapError は必須の参照画像なしでモードが呼ばれた契約違反です。
// 実行時に回復するものではなく、呼び出し側が事前条件を確認するべきものなのだ。
type ValidationGapError struct {
	Mode Mode
}

func (e *ValidationGapError) Error() string {
	return fmt.Sprintf("%s mode requires a source image", e.Mode)
}

// FailureKind は生成失敗の種類です。
type FailureKind string

const (
	GenerationFailure FailureKind = "generation_failure"
	BatchFailure      FailureKind = "batch_failure"
	UpscaleFailure    FailureKind = "upscale_failure"
)

// GenerationError は外部サービス呼び出しの失敗を表します。
// Index は最初に失敗した候補の番号で、アップスケールでは -1 です。
type GenerationError struct {
	Kind  FailureKind
	Mode  Mode
	Index int
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Kind == BatchFailure {
		return fmt.Sprintf("%s: %s candidate %d: %v", e.Kind, e.Mode, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsValidationGap は err が ValidationGapError を含むかを返します。
func IsValidationGap(err error) bool {
	var gap *ValidationGapError
	return errors.As(err, &gap)
}
