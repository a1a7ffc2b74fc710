package translate

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// japanesePattern matches hiragana, katakana, katakana phonetic extensions
// and halfwidth katakana. Kanji alone is ambiguous with Chinese, so only
// kana counts as Japanese.
var japanesePattern = regexp.MustCompile(`[\x{3040}-\x{30FF}\x{31F0}-\x{31FF}\x{FF66}-\x{FF9F}]`)

// IsJapanese reports whether the text contains Japanese kana.
func IsJapanese(raw string) bool {
	return japanesePattern.MatchString(raw)
}

// Engine translates text into a target language.
type Engine interface {
	// Name returns the engine identifier.
	Name() string

	// Translate returns the translation of text, or an error when the
	// service is unreachable or answers unusably.
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// Translator gates an Engine behind language detection: Chinese targets
// only translate text that actually contains Japanese, since round-tripping
// Chinese through a translation service loses content.
type Translator struct {
	engine Engine
	target string
	logger *slog.Logger
}

// NewTranslator wraps an engine for the given target language.
func NewTranslator(engine Engine, targetLanguage string, logger *slog.Logger) *Translator {
	return &Translator{
		engine: engine,
		target: targetLanguage,
		logger: logger.With(slog.String("component", "translator")),
	}
}

// Translate translates text, returning it unchanged when the gate decides
// translation is unnecessary. Failures are best-effort: the caller gets the
// original text back and a warning is logged.
func (t *Translator) Translate(ctx context.Context, text string) string {
	if text == "" || t.engine == nil {
		return text
	}
	if !IsJapanese(text) && strings.Contains(t.target, "zh_") {
		return text
	}

	translated, err := t.engine.Translate(ctx, text, t.target)
	if err != nil {
		t.logger.Warn("translation failed",
			slog.String("engine", t.engine.Name()),
			slog.String("error", err.Error()))
		return text
	}
	if translated == "" {
		return text
	}
	return translated
}
