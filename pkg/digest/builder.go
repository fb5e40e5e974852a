package digest

import (
	"fmt"
	"html"
	"strings"

	"github.com/dailybrief/dailybrief/pkg/domain"
)

// Build assembles processed items into the digest message. Every derived
// field is HTML-escaped for Telegram's HTML parse mode so markup in titles
// or model output cannot break the block structure. The result is hard
// truncated to maxLength runes, safely under Telegram's 4096 limit.
func Build(items []domain.ProcessedItem, maxLength int) string {
	var lines []string
	for i, item := range items {
		lines = append(lines,
			fmt.Sprintf("📌 Insight #%d:", i+1),
			fmt.Sprintf("🗞 Title: %s", html.EscapeString(item.Title)),
			fmt.Sprintf("✍️ English Summary (Formal): %s", html.EscapeString(item.EnglishSummary)),
			fmt.Sprintf("🈯 Persian Translation (Formal): %s", html.EscapeString(item.PersianSummary)),
			"", // blank separator between blocks
		)
	}

	msg := strings.Join(lines, "\n")
	if runes := []rune(msg); len(runes) > maxLength {
		msg = string(runes[:maxLength])
	}
	return msg
}
