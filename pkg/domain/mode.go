package domain

// Mode はどの指示テンプレートを組み立てるかを決める生成モードです。
type Mode int

const (
	ModeCreate Mode = iota
	ModeRefine
	ModeVariation
	ModeReformat
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeRefine:
		return "refine"
	case ModeVariation:
		return "variation"
	case ModeReformat:
		return "reformat"
	default:
		return "unknown"
	}
}

// RequiresSource は直前の画像が必須のモードかどうかを返します。
func (m Mode) RequiresSource() bool {
	return m != ModeCreate
}

// SingleCandidate は imageCount に関わらず1枚しか生成しないモードかどうかを返します。
func (m Mode) SingleCandidate() bool {
	return m == ModeRefine || m == ModeReformat
}
