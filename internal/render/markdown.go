// Package render formats ranking data as Telegram MarkdownV2 text.
//
// Renderers never reach into storage: every value they print is passed in.
package render

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ParseMode is the Telegram parse mode every renderer targets.
const ParseMode = tgbotapi.ModeMarkdownV2

// Escape makes s safe to embed in MarkdownV2 text.
func Escape(s string) string {
	return tgbotapi.EscapeText(ParseMode, s)
}

// Number formats n with thousands separators, e.g. 12,345. The result is
// already escaped.
func Number(n int64) string {
	return Escape(message.NewPrinter(language.English).Sprintf("%d", n))
}

// Title capitalises every word of s.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}
