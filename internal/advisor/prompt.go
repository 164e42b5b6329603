package advisor

import (
	"fmt"
	"neonfit/studio-tracker/internal/domain"
	"strconv"
	"strings"
)

type Language string

const (
	English Language = "en"
	Chinese Language = "zh"
)

// ParseLanguage maps "zh" (any case, optionally with a region) to Chinese and
// everything else to English.
func ParseLanguage(s string) Language {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "zh") {
		return Chinese
	}
	return English
}

const (
	SystemInstruction = "You are an elite fitness coach for a private studio."
	DefaultQuestion   = "Analyze recent performance and suggest the next progression."
	NoAdviceMessage   = "No advice generated."

	// historySize is how many of the most recent workouts go into the prompt.
	historySize = 10
)

// MissingKeyMessage is shown instead of advice when no API key is configured.
func MissingKeyMessage(lang Language) string {
	if lang == Chinese {
		return "未配置 Kimi API Key：请设置 ADVISOR_API_KEY（或 VITE_KIMI_API_KEY）后重启服务。"
	}
	return "Kimi API key missing: set ADVISOR_API_KEY (or VITE_KIMI_API_KEY) and restart the service."
}

// FailureMessage is shown instead of advice when the completion call fails.
func FailureMessage(lang Language) string {
	if lang == Chinese {
		return "调用 Kimi AI 出错，请检查 Key / 网络 / 余额。"
	}
	return "Kimi AI request failed. Check key/network/quota."
}

func languageDirective(lang Language) string {
	if lang == Chinese {
		return "Please respond in Chinese (Simplified)."
	}
	return "Please respond in English."
}

// FormatWorkout renders one history line, e.g. "- 2024-01-01: Squat 3x8 @ 50kg".
func FormatWorkout(w domain.Workout) string {
	return fmt.Sprintf("- %s: %s %dx%d @ %skg",
		w.Date, w.Exercise, w.Sets, w.Reps, strconv.FormatFloat(w.Weight, 'f', -1, 64))
}

// BuildPrompt assembles the coaching prompt from the member's name, their last
// workouts, the coach's question and the reply language. A blank question is
// replaced by DefaultQuestion.
func BuildPrompt(memberName string, workouts []domain.Workout, question string, lang Language) string {
	if strings.TrimSpace(question) == "" {
		question = DefaultQuestion
	}
	recent := workouts
	if len(recent) > historySize {
		recent = recent[len(recent)-historySize:]
	}
	lines := make([]string, 0, len(recent))
	for _, w := range recent {
		lines = append(lines, FormatWorkout(w))
	}

	var b strings.Builder
	b.WriteString(SystemInstruction + "\n\n")
	b.WriteString("Member Profile:\n")
	b.WriteString("Name: " + memberName + "\n")
	b.WriteString("Recent Training History:\n")
	if len(lines) > 0 {
		b.WriteString(strings.Join(lines, "\n") + "\n")
	}
	b.WriteString("\nUser Question (Coach's query):\n")
	b.WriteString(strconv.Quote(question) + "\n\n")
	b.WriteString(languageDirective(lang) + "\n")
	b.WriteString("Keep the advice concise, professional, and motivating. Focus on progressive overload.")
	return b.String()
}
