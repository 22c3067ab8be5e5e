// Package export renders a finished session as files a user can keep:
// a plain transcript, a markdown minutes page and a styled .docx.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Minutes is the content of one processed recording
type Minutes struct {
	Title      string
	Transcript string
	Bullets    []string
	CreatedAt  time.Time
}

// Markdown renders the minutes as a markdown page
func (m Minutes) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n_%s_\n\n## Meeting Summary (MoM)\n\n", m.Title, m.CreatedAt.Format("2006-01-02 15:04"))
	if len(m.Bullets) == 0 {
		b.WriteString("_No summary available._\n")
	}
	for _, bullet := range m.Bullets {
		fmt.Fprintf(&b, "- %s\n", bullet)
	}
	fmt.Fprintf(&b, "\n## Full Transcript\n\n%s\n", strings.TrimSpace(m.Transcript))
	return b.String()
}

// WriteAll writes <base>.txt, <base>.md and <base>.docx into dir and returns their paths
func WriteAll(dir, base string, m Minutes) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	txtPath := filepath.Join(dir, base+".txt")
	if err := os.WriteFile(txtPath, []byte(strings.TrimSpace(m.Transcript)+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("write transcript: %w", err)
	}

	mdPath := filepath.Join(dir, base+".md")
	if err := os.WriteFile(mdPath, []byte(m.Markdown()), 0644); err != nil {
		return nil, fmt.Errorf("write minutes: %w", err)
	}

	docxPath := filepath.Join(dir, base+".docx")
	if err := WriteDocx(docxPath, m); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}

	return []string{txtPath, mdPath, docxPath}, nil
}
