// Package wire cleans up the remote service's JSON before it is parsed.
//
// The service emits some identifiers and counters as bare integers. They are
// opaque tokens to the client, so Repair quotes every bare integer that is the
// value of an object field. Digits inside string values are never touched.
package wire

import (
	"encoding/json"

	"couples-sync/internal/domain"
)

// Repair rewrites `"field": 123` into `"field": "123"` wherever the integer is
// followed (after optional whitespace) by ',', '}' or ']'. Anything else is
// copied verbatim; the result is not validated. Repair is idempotent.
func Repair(body []byte) []byte {
	out := make([]byte, 0, len(body)+16)
	i := 0
	for i < len(body) {
		if body[i] != '"' {
			out = append(out, body[i])
			i++
			continue
		}

		end := scanString(body, i)
		out = append(out, body[i:end]...)
		i = end

		colon := skipSpace(body, i)
		if colon >= len(body) || body[colon] != ':' {
			continue
		}
		numStart := skipSpace(body, colon+1)
		numEnd := scanInteger(body, numStart)
		if numEnd == numStart {
			continue
		}
		delim := skipSpace(body, numEnd)
		if delim >= len(body) || !isDelimiter(body[delim]) {
			continue
		}

		out = append(out, body[i:numStart]...)
		out = append(out, '"')
		out = append(out, body[numStart:numEnd]...)
		out = append(out, '"')
		i = numEnd
	}
	return out
}

// Decode repairs body and unmarshals it into v. Any parse failure is reported
// as a MalformedResponse.
func Decode(body []byte, v interface{}) error {
	if err := json.Unmarshal(Repair(body), v); err != nil {
		return domain.NewMalformedResponseError("response body is not valid JSON after repair", err)
	}
	return nil
}

// scanString returns the index just past the closing quote of the string
// starting at start, or len(b) when it is unterminated.
func scanString(b []byte, start int) int {
	for i := start + 1; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(b)
}

// scanInteger returns the end of an optionally signed run of digits at start,
// or start when there is none.
func scanInteger(b []byte, start int) int {
	i := start
	if i < len(b) && b[i] == '-' {
		i++
	}
	digits := i
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == digits {
		return start
	}
	return i
}

func skipSpace(b []byte, i int) int {
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

func isDelimiter(c byte) bool {
	return c == ',' || c == '}' || c == ']'
}
