package mapping

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"ingest/internal/services"
)

const (
	csvDelimiter = ','
	csvQuote     = '|'
)

// ReadCSV reads two-column mapping rows (input, output) and calls add for
// each new input key in file order. Cells are trimmed; rows repeating an
// earlier input key are skipped. On a malformed row ReadCSV stops and returns
// an error carrying the line number; rows delivered before it stay delivered.
// The returned count is the number of rules passed to add.
func ReadCSV(r io.Reader, add func(Rule)) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "mapping", "read csv", "", err)
	}

	seen := make(map[string]struct{})
	added := 0
	parser := csvParser{data: data, line: 1}
	for {
		startLine := parser.line
		row, err := parser.next()
		if err == io.EOF {
			return added, nil
		}
		if err != nil {
			return added, services.Wrap(services.ErrValidation, "mapping", "read csv", fmt.Sprintf("line %d", startLine), err)
		}
		if isBlankRow(row) {
			continue
		}
		if len(row) < 2 {
			return added, services.Wrap(services.ErrValidation, "mapping", "read csv", fmt.Sprintf("line %d", startLine), fmt.Errorf("expected 2 columns, got %d", len(row)))
		}
		key := strings.TrimSpace(row[0])
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		add(Rule{Input: key, Output: strings.TrimSpace(row[1])})
		added++
	}
}

func isBlankRow(row []string) bool {
	return len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "")
}

// csvParser splits records on commas with '|' as the quote character.
// Inside a quoted field a doubled '|' is a literal '|' and line breaks are
// kept; outside one a '|' is literal.
type csvParser struct {
	data []byte
	pos  int
	line int
}

var (
	errUnterminatedQuote = fmt.Errorf("unterminated %q quote", csvQuote)
	errNULByte           = fmt.Errorf("line contains NUL byte")
)

func (p *csvParser) next() ([]string, error) {
	if p.pos >= len(p.data) {
		return nil, io.EOF
	}
	var (
		fields []string
		field  bytes.Buffer
	)
	atFieldStart := true
	quoted := false
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		if c == 0 {
			return nil, errNULByte
		}
		if quoted {
			switch {
			case c == csvQuote && p.pos < len(p.data) && p.data[p.pos] == csvQuote:
				field.WriteByte(csvQuote)
				p.pos++
			case c == csvQuote:
				quoted = false
			default:
				if c == '\n' {
					p.line++
				}
				field.WriteByte(c)
			}
			continue
		}
		switch c {
		case csvQuote:
			if atFieldStart {
				quoted = true
				atFieldStart = false
				continue
			}
			field.WriteByte(c)
		case csvDelimiter:
			fields = append(fields, field.String())
			field.Reset()
			atFieldStart = true
			continue
		case '\r':
			if p.pos < len(p.data) && p.data[p.pos] == '\n' {
				continue
			}
			p.line++
			return append(fields, field.String()), nil
		case '\n':
			p.line++
			return append(fields, field.String()), nil
		default:
			field.WriteByte(c)
		}
		atFieldStart = false
	}
	if quoted {
		return nil, errUnterminatedQuote
	}
	return append(fields, field.String()), nil
}
