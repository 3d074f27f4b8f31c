package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shouni/gemini-design-kit/pkg/domain"
)

type setter func(domain.Config, string) (domain.Config, error)

// settings は "/set <key> <value>" で変更できる項目です。数値は範囲内に丸めるのだ。
var settings = map[string]setter{
	"subject": func(c domain.Config, v string) (domain.Config, error) {
		return c.WithSubjectDescription(v), nil
	},
	"position": func(c domain.Config, v string) (domain.Config, error) {
		p, err := domain.ParsePosition(v)
		if err != nil {
			return c, err
		}
		return c.WithSubjectPosition(p), nil
	},
	"angle": floatSetter(func(c domain.Config, f float64) domain.Config {
		return c.WithCameraAngle(domain.ClampCameraAngle(f))
	}),
	"vertical": floatSetter(func(c domain.Config, f float64) domain.Config {
		return c.WithCameraVertical(domain.ClampCameraVertical(f))
	}),
	"zoom": floatSetter(func(c domain.Config, f float64) domain.Config {
		return c.WithCameraZoom(domain.ClampCameraZoom(f))
	}),
	"niche": func(c domain.Config, v string) (domain.Config, error) {
		if _, ok := domain.LookupStyle(v); !ok {
			return c, fmt.Errorf("unknown niche: %q", v)
		}
		return c.WithNiche(v), nil
	},
	"studio": boolSetter(domain.Config.WithStudioLight),
	"rim":    boolSetter(domain.Config.WithRimLight),
	"fill":   boolSetter(domain.Config.WithFillLight),
	"direction": func(c domain.Config, v string) (domain.Config, error) {
		d, err := domain.ParseLightingDirection(v)
		if err != nil {
			return c, err
		}
		return c.WithLightingDirection(d), nil
	},
	"color": func(c domain.Config, v string) (domain.Config, error) {
		return c.WithLightingColor(v), nil
	},
	"background": func(c domain.Config, v string) (domain.Config, error) {
		return c.WithBackgroundColor(v), nil
	},
	"count": func(c domain.Config, v string) (domain.Config, error) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("count must be an integer: %w", err)
		}
		return c.WithImageCount(domain.ClampImageCount(n)), nil
	},
}

func floatSetter(apply func(domain.Config, float64) domain.Config) setter {
	return func(c domain.Config, v string) (domain.Config, error) {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, fmt.Errorf("not a number: %q", v)
		}
		return apply(c, f), nil
	}
}

func boolSetter(apply func(domain.Config, bool) domain.Config) setter {
	return func(c domain.Config, v string) (domain.Config, error) {
		switch strings.ToLower(v) {
		case "on", "true", "1", "yes":
			return apply(c, true), nil
		case "off", "false", "0", "no":
			return apply(c, false), nil
		}
		return c, fmt.Errorf("expected on/off: %q", v)
	}
}

// applySetting は1項目を設定に反映した新しい値を返します。失敗したら元の値のままなのだ。
func applySetting(c domain.Config, key, value string) (domain.Config, error) {
	set, ok := settings[strings.ToLower(key)]
	if !ok {
		return c, fmt.Errorf("unknown setting %q (available: %s)", key, joinKeys())
	}
	return set(c, strings.TrimSpace(value))
}

func settingKeys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinKeys() string {
	return strings.Join(settingKeys(), ", ")
}

// cutSetting は "key=value" を分解します。
func cutSetting(kv string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(kv, "=")
	key = strings.TrimSpace(key)
	return key, value, ok && key != ""
}
