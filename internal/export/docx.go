package export

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var reBold = regexp.MustCompile(`\*\*(.+?)\*\*`)

// WriteDocx saves the minutes as a .docx: title, summary bullets, then the transcript
func WriteDocx(path string, m Minutes) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), m.Title, true, 16)
	addStyledRun(doc.AddParagraph(""), m.CreatedAt.Format("2006-01-02 15:04"), false, fontSize)

	addStyledRun(doc.AddParagraph(""), "Meeting Summary (MoM)", true, 15)
	if len(m.Bullets) == 0 {
		addStyledRun(doc.AddParagraph(""), "No summary available.", false, fontSize)
	}
	for _, bullet := range m.Bullets {
		addRichText(doc.AddParagraph(""), "• "+bullet)
	}

	addStyledRun(doc.AddParagraph(""), "Full Transcript", true, 15)
	for _, para := range paragraphs(m.Transcript) {
		addStyledRun(doc.AddParagraph(""), para, false, fontSize)
	}

	return doc.SaveTo(path)
}

// paragraphs splits a transcript on blank lines; a flat transcript stays one paragraph
func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
