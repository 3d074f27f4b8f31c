package domain

// StyleAuto はモデルにスタイルを任せるデフォルトのニッチです。
const StyleAuto = "auto"

// Style はニッチ（業種・雰囲気）ごとのスタイル修飾子です。
type Style struct {
	ID       string
	Label    string
	Modifier string
}

// Styles は選択可能なスタイルの一覧です。
var Styles = []Style{
	{
		ID:       StyleAuto,
		Label:    "AI decides",
		Modifier: "analyze the subject and context to determine the best professional design style, lighting, and composition automatically for high aesthetic impact",
	},
	{
		ID:       "marketing",
		Label:    "Marketing",
		Modifier: "professional digital marketing aesthetic, high conversion, abstract tech elements, deep blue and neon accents, clean typography space",
	},
	{
		ID:       "dental",
		Label:    "Dentistry",
		Modifier: "pristine medical aesthetic, bright white and teal lighting, clean, sterile environment, confident smiling professional vibe",
	},
	{
		ID:       "workshop",
		Label:    "Workshop",
		Modifier: "gritty garage texture, dramatic lighting, metallic surfaces, high contrast, warm orange and steel gray tones",
	},
	{
		ID:       "fashion",
		Label:    "Fashion",
		Modifier: "editorial studio lighting, minimal background, focus on texture and fabric, high fashion pose, soft shadows",
	},
	{
		ID:       "tech",
		Label:    "Technology",
		Modifier: "modern minimalist, isometric 3D elements, glassmorphism, soft gradients, futuristic",
	},
}

// LookupStyle は ID からスタイルを探します。
func LookupStyle(id string) (Style, bool) {
	for _, s := range Styles {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}
