package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Script selects which character script the engine should recognize for
// languages whose models are split per script.
type Script string

const (
	ScriptAutodetect  Script = "autodetect"
	ScriptSimplified  Script = "simplified"
	ScriptTraditional Script = "traditional"
)

// ParseScript validates a script selection string.
func ParseScript(value string) (Script, error) {
	switch Script(strings.ToLower(strings.TrimSpace(value))) {
	case ScriptAutodetect, "":
		return ScriptAutodetect, nil
	case ScriptSimplified:
		return ScriptSimplified, nil
	case ScriptTraditional:
		return ScriptTraditional, nil
	default:
		return "", fmt.Errorf("unknown script %q (want autodetect, simplified, or traditional)", value)
	}
}

// Normalize maps a user language selection ("en", "eng", "en-US",
// "chi_sim+chi_tra", ...) to the engine model code. Chinese resolves per
// the script selection; autodetect loads both variants.
func Normalize(input string, script Script) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("language must not be empty")
	}

	// Already a model code, possibly a "+"-joined list; pass through.
	if strings.Contains(input, "+") || strings.Contains(input, "_") {
		return input, nil
	}

	code := input
	if len(input) != 3 || !isASCIILower(input) {
		tag, err := language.Parse(input)
		if err != nil {
			return "", fmt.Errorf("unrecognized language %q: %w", input, err)
		}
		base, _ := tag.Base()
		code = base.ISO3()
	}

	if code == "zho" || code == "chi" {
		switch script {
		case ScriptSimplified:
			return "chi_sim", nil
		case ScriptTraditional:
			return "chi_tra", nil
		default:
			return "chi_sim+chi_tra", nil
		}
	}
	return code, nil
}

func isASCIILower(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
