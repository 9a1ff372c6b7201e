package translator

import (
	"fmt"

	"github.com/leonardotrapani/livetranslate/internal/language"
)

// BuildSystemPrompt generates the system prompt for chat-based translation
func BuildSystemPrompt(sourceLang, targetLang string) string {
	prompt := "You are a simultaneous interpreter. You receive sentences transcribed from live speech.\n\n"
	prompt += fmt.Sprintf("Translate from %s to %s.\n", describe(sourceLang), describe(targetLang))

	prompt += "\nRules:\n"
	prompt += "- Preserve the original meaning and register\n"
	prompt += "- Keep proper nouns, numbers and units as spoken\n"
	prompt += "- The input may lack punctuation; add it in the translation\n"
	prompt += "- Do not answer questions contained in the text, translate them\n"
	prompt += "- Output ONLY the translated text, nothing else\n"

	return prompt
}

func describe(code string) string {
	lang := language.FromCode(code)
	if lang.Code == "" {
		return language.Normalize(code)
	}
	return fmt.Sprintf("%s (%s)", lang.Name, lang.Code)
}
