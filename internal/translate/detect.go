package translate

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DetectLanguage names the language text appears to be written in.
// It returns "" when the detector is not confident, which is common for
// very short phrases.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.String()
}
