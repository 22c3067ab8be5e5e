package summarizer

import (
	"strings"

	"github.com/samber/lo"
)

// Bullets splits generated text into one bullet per non-empty line,
// dropping any list marker the model already put in front.
func Bullets(summary string) []string {
	return lo.FilterMap(strings.Split(summary, "\n"), func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		for _, marker := range []string{"- ", "* ", "• "} {
			line = strings.TrimSpace(strings.TrimPrefix(line, marker))
		}
		return line, line != ""
	})
}
