package medrec

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const (
	recordFields = 6
	fieldSep     = " "

	// emptyField stands for a zero length field, which would otherwise vanish
	// from the line and shift every field after it.
	emptyField = `\e`
)

// encodeLine renders rec as one line of the record file:
//
//	<name> <age> <gender> <medical_history> <diagnosis> <prescription>\n
//
// Whitespace inside a field is escaped, a field without whitespace or
// backslashes is written as is.
func encodeLine(rec *Record) []byte {
	var sb strings.Builder
	sb.Grow(len(rec.Name) + len(rec.Gender) + len(rec.MedicalHistory) +
		len(rec.Diagnosis) + len(rec.Prescription) + 16)

	sb.WriteString(encodeField(rec.Name))
	sb.WriteString(fieldSep)
	sb.WriteString(strconv.Itoa(rec.Age))
	for _, field := range []string{rec.Gender, rec.MedicalHistory, rec.Diagnosis, rec.Prescription} {
		sb.WriteString(fieldSep)
		sb.WriteString(encodeField(field))
	}
	sb.WriteByte('\n')

	return []byte(sb.String())
}

// decodeLine parses one line of the record file. The line must split into
// exactly six whitespace separated tokens and the age must be a non-negative
// integer, otherwise ErrMalformedLine is returned.
func decodeLine(line string) (*Record, error) {
	tokens := strings.Fields(line)
	if len(tokens) != recordFields {
		return nil, errors.Wrapf(ErrMalformedLine, "want %d fields, got %d", recordFields, len(tokens))
	}

	age, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedLine, "bad age %q", tokens[1])
	}
	if age < 0 {
		return nil, errors.Wrapf(ErrMalformedLine, "negative age %d", age)
	}

	return NewRecord(
		decodeField(tokens[0]),
		age,
		decodeField(tokens[2]),
		decodeField(tokens[3]),
		decodeField(tokens[4]),
		decodeField(tokens[5]),
	), nil
}

func encodeField(field string) string {
	if field == "" {
		return emptyField
	}
	if !strings.ContainsFunc(field, needsEscape) {
		return field
	}

	var sb strings.Builder
	sb.Grow(len(field) + 8)
	for _, r := range field {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case ' ':
			sb.WriteString(`\s`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if unicode.IsSpace(r) {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

func needsEscape(r rune) bool {
	return r == '\\' || unicode.IsSpace(r)
}

// decodeField reverses encodeField. Unknown escapes are kept verbatim.
func decodeField(token string) string {
	if token == emptyField {
		return ""
	}
	if !strings.Contains(token, `\`) {
		return token
	}

	var sb strings.Builder
	sb.Grow(len(token))
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c != '\\' || i+1 == len(token) {
			sb.WriteByte(c)
			continue
		}

		switch token[i+1] {
		case '\\':
			sb.WriteByte('\\')
		case 's':
			sb.WriteByte(' ')
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 'u':
			if i+6 <= len(token) {
				if code, err := strconv.ParseUint(token[i+2:i+6], 16, 32); err == nil {
					sb.WriteRune(rune(code))
					i += 5
					continue
				}
			}
			sb.WriteString(token[i : i+2])
		default:
			sb.WriteString(token[i : i+2])
		}
		i++
	}

	return sb.String()
}
