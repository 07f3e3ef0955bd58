// Package parser turns raw model output into question/answer pairs.
package parser

import (
	"strings"

	"github.com/futig/qagen/internal/entity"
)

var (
	questionPrefixes = []string{"Q1:", "Q2:", "Q3:", "Q:", "Question:"}
	answerPrefixes   = []string{"A1:", "A2:", "A3:", "A:", "Answer:"}
)

// Parser extracts pairs from "Q1: ... / A1: ..." formatted text. Every pair is
// tagged with the identifier of the backend that produced it.
type Parser struct {
	sourceType string
}

func New(sourceType string) *Parser {
	return &Parser{sourceType: sourceType}
}

// Parse scans the response line by line. A question is kept until the next
// answer line; a question that gets no answer before the next question or the
// end of the text is dropped. Lines matching neither prefix set are ignored.
func (p *Parser) Parse(raw string) []entity.QAPair {
	pairs := make([]entity.QAPair, 0)

	var pending *string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case hasAnyPrefix(line, questionPrefixes):
			question := afterColon(line)
			pending = &question

		case hasAnyPrefix(line, answerPrefixes):
			if pending == nil {
				continue
			}
			pairs = append(pairs, entity.NewQAPair(*pending, afterColon(line), p.sourceType))
			pending = nil
		}
	}

	complete := pairs[:0]
	for _, pair := range pairs {
		if pair.IsComplete() {
			complete = append(complete, pair)
		}
	}

	return complete
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func afterColon(line string) string {
	_, rest, _ := strings.Cut(line, ":")
	return strings.TrimSpace(rest)
}
