// Package codec packs quiz answers into the single integer the remote service
// stores per submission.
//
// Each answer in 1..4 becomes two bits (1=00, 2=01, 3=10, 4=11). The codes are
// concatenated in question order and read as an unsigned binary number, which
// is sent in base 10. In dual mode the partner guesses follow all self
// answers. Leading zero bits are lost in transit, so decoding always needs the
// question count.
package codec

import (
	"fmt"
	"math/big"
	"strings"

	"couples-sync/internal/domain"
)

// Mode selects the bit layout.
type Mode int

const (
	// ModeSingle packs one answer per question.
	ModeSingle Mode = iota
	// ModeDual packs self answers followed by partner guesses.
	ModeDual
)

func (m Mode) String() string {
	if m == ModeDual {
		return "dual"
	}
	return "single"
}

const bitsPerAnswer = 2

var codes = [...]string{"00", "01", "10", "11"}

// Encode packs answers in single mode.
func Encode(answers []int) (string, error) {
	return pack(answers)
}

// EncodeDual packs self answers followed by the same number of partner
// guesses.
func EncodeDual(self, guesses []int) (string, error) {
	if len(self) != len(guesses) {
		return "", domain.NewInvalidInputError(
			fmt.Sprintf("got %d answers but %d partner guesses", len(self), len(guesses)))
	}
	all := make([]int, 0, len(self)+len(guesses))
	all = append(all, self...)
	all = append(all, guesses...)
	return pack(all)
}

// Decode unpacks a single-mode value for questionCount questions.
func Decode(packed string, questionCount int) ([]int, error) {
	return unpack(packed, questionCount)
}

// DecodeDual unpacks a dual-mode value into self answers and partner guesses.
func DecodeDual(packed string, questionCount int) (self, guesses []int, err error) {
	all, err := unpack(packed, 2*questionCount)
	if err != nil {
		return nil, nil, err
	}
	return all[:questionCount], all[questionCount:], nil
}

// EncodeMode dispatches on mode; guesses are ignored in single mode.
func EncodeMode(mode Mode, answers, guesses []int) (string, error) {
	if mode == ModeDual {
		return EncodeDual(answers, guesses)
	}
	return Encode(answers)
}

func pack(answers []int) (string, error) {
	if len(answers) == 0 {
		return "", domain.NewInvalidInputError("no answers to encode")
	}
	var bits strings.Builder
	bits.Grow(len(answers) * bitsPerAnswer)
	for i, a := range answers {
		if a < domain.MinAnswerChoice || a > domain.MaxAnswerChoice {
			return "", domain.NewInvalidAnswerValueError(i, a)
		}
		bits.WriteString(codes[a-domain.MinAnswerChoice])
	}

	n, ok := new(big.Int).SetString(bits.String(), 2)
	if !ok {
		return "", domain.NewInternalError("failed to pack answers", nil)
	}
	return n.String(), nil
}

func unpack(packed string, count int) ([]int, error) {
	if count <= 0 {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("answer count must be positive, got %d", count))
	}
	n, ok := new(big.Int).SetString(strings.TrimSpace(packed), 10)
	if !ok || n.Sign() < 0 {
		return nil, domain.NewMalformedResponseError(fmt.Sprintf("packed answer %q is not a non-negative integer", packed), nil)
	}

	width := count * bitsPerAnswer
	bits := n.Text(2)
	if n.Sign() == 0 {
		bits = ""
	}
	if len(bits) > width {
		return nil, domain.NewMalformedResponseError(
			fmt.Sprintf("packed answer %s needs %d bits, more than %d answers allow", packed, len(bits), count), nil)
	}
	bits = strings.Repeat("0", width-len(bits)) + bits

	answers := make([]int, count)
	for i := range answers {
		code := bits[i*bitsPerAnswer : (i+1)*bitsPerAnswer]
		answers[i] = int(code[0]-'0')*2 + int(code[1]-'0') + domain.MinAnswerChoice
	}
	return answers, nil
}
