// Package frontmatter splits a page source document into its TOML
// frontmatter block and Markdown body, and rejoins them. The delimiter
// line scan follows the teacher's bufio.Scanner line-by-line split
// (astrophena-site/site.go Page.parse), generalized from its JSON
// curly-brace delimiters to the fixed "+++" fence this format uses (spec
// §6, invariant 3 "round trip").
package frontmatter

import (
	"bufio"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

const delimiter = "+++"

// Splitter implements usecases.FrontmatterSplitter.
type Splitter struct{}

func New() Splitter { return Splitter{} }

var _ usecases.FrontmatterSplitter = Splitter{}

// Split scans doc line by line for the opening and closing "+++" fence
// lines, decodes the TOML block between them, and returns the remainder as
// the Markdown body. A document with no leading "+++" line has empty
// frontmatter and the whole document as its body.
func (Splitter) Split(doc string) (entities.FrontMatter, string, error) {
	fm := entities.NewFrontMatter()

	scanner := bufio.NewScanner(strings.NewReader(doc))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var tomlBlock, body strings.Builder
	var reachedClose, sawOpen bool
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if lineNo == 1 {
			if strings.TrimSpace(line) != delimiter {
				// No frontmatter fence: the whole document is the body.
				body.WriteString(line)
				body.WriteString("\n")
				continue
			}
			sawOpen = true
			continue
		}

		if sawOpen && !reachedClose {
			if strings.TrimSpace(line) == delimiter {
				reachedClose = true
				continue
			}
			tomlBlock.WriteString(line)
			tomlBlock.WriteString("\n")
			continue
		}

		body.WriteString(line)
		body.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return fm, "", entities.NewError(entities.ErrKindParse, "failed to scan document", err)
	}

	bodyText := body.String()
	if !strings.HasSuffix(doc, "\n") {
		bodyText = strings.TrimSuffix(bodyText, "\n")
	}

	if !sawOpen {
		return fm, bodyText, nil
	}
	if sawOpen && !reachedClose {
		return fm, "", entities.NewError(entities.ErrKindParse, "frontmatter fence was never closed", nil)
	}

	if err := toml.Unmarshal([]byte(tomlBlock.String()), &fm); err != nil {
		return fm, "", entities.NewError(entities.ErrKindParse, "failed to decode TOML frontmatter", err)
	}

	return fm, bodyText, nil
}

// Join rebuilds a source document from a FrontMatter and body: Split of the
// result returns fm and body again for any body that contains no line that
// is exactly "+++" (spec invariant 3).
func (Splitter) Join(fm entities.FrontMatter, body string) (string, error) {
	encoded, err := toml.Marshal(fm)
	if err != nil {
		return "", entities.NewError(entities.ErrKindParse, "failed to encode TOML frontmatter", err)
	}

	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteString("\n")
	b.Write(encoded)
	if !strings.HasSuffix(string(encoded), "\n") {
		b.WriteString("\n")
	}
	b.WriteString(delimiter)
	b.WriteString("\n")
	b.WriteString(body)
	return b.String(), nil
}
