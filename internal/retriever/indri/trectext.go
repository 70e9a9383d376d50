package indri

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/convsearch/internal/domain"
)

var (
	docnoRe    = regexp.MustCompile(`(?s)<DOCNO>(.*?)</DOCNO>`)
	headlineRe = regexp.MustCompile(`(?s)<HEADLINE>(.*?)</HEADLINE>`)
	titleRe    = regexp.MustCompile(`(?s)<TITLE>(.*?)</TITLE>`)
	textRe     = regexp.MustCompile(`(?s)<TEXT>(.*?)</TEXT>`)
)

// ParseTrecText parses one TREC-text record into a Document. The record id is
// taken from DOCNO, the title from HEADLINE (or TITLE), and the body from the
// concatenation of all TEXT sections. Callers owning an engine-internal id
// overwrite ID afterwards.
func ParseTrecText(content string) (domain.Document, error) {
	if !strings.Contains(content, "<TEXT>") {
		return domain.Document{}, fmt.Errorf("no TEXT section in record")
	}

	var doc domain.Document

	if m := docnoRe.FindStringSubmatch(content); m != nil {
		doc.ID = strings.TrimSpace(m[1])
	}
	if m := headlineRe.FindStringSubmatch(content); m != nil {
		doc.Title = collapseSpace(m[1])
	} else if m := titleRe.FindStringSubmatch(content); m != nil {
		doc.Title = collapseSpace(m[1])
	}

	var parts []string
	for _, m := range textRe.FindAllStringSubmatch(content, -1) {
		if t := collapseSpace(m[1]); t != "" {
			parts = append(parts, t)
		}
	}
	doc.Text = strings.Join(parts, " ")

	return doc, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
