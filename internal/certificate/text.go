package certificate

import (
	"strings"

	"little-genius/internal/domain"
)

// TextRenderer produces the printable plain text version of a certificate.
type TextRenderer struct{}

func (TextRenderer) Render(result domain.ResultSummary) (domain.Certificate, error) {
	lines := Lines(result)
	width := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	border := "+" + strings.Repeat("-", width+4) + "+"

	var b strings.Builder
	b.WriteString(border + "\n")
	for _, line := range lines {
		pad := width - len([]rune(line))
		left := pad / 2
		b.WriteString("|  " + strings.Repeat(" ", left) + line + strings.Repeat(" ", pad-left) + "  |\n")
	}
	b.WriteString(border + "\n")

	return domain.Certificate{
		Filename:    Filename(result.PlayerName, "txt"),
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte(b.String()),
	}, nil
}
