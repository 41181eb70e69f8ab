package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"profilehub/internal/apperror"
)

const msgInvalidUpdate = "Invalid data received for update."

var errInvalidUpdate = apperror.Validation(msgInvalidUpdate)

// DecodeUpdate parses a profile update body. The object must carry age, dob
// and contact, none of them null. Age is coerced leniently: numbers are
// truncated, strings contribute their leading integer ("30yrs" is 30, "abc"
// is 0) and booleans count as 1 or 0. Dob and contact take strings or
// numbers, numbers kept as written.
func DecodeUpdate(body []byte) (UpdateRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return UpdateRequest{}, errInvalidUpdate
	}
	// the body is exactly one object
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return UpdateRequest{}, errInvalidUpdate
	}

	age, ok := coerceInt(fields["age"])
	if !ok {
		return UpdateRequest{}, errInvalidUpdate
	}
	dob, ok := coerceText(fields["dob"])
	if !ok {
		return UpdateRequest{}, errInvalidUpdate
	}
	contact, ok := coerceText(fields["contact"])
	if !ok {
		return UpdateRequest{}, errInvalidUpdate
	}

	return UpdateRequest{Age: age, DOB: dob, Contact: contact}, nil
}

func coerceInt(v any) (int64, bool) {
	switch v := v.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil || f >= math.MaxInt64 || f <= math.MinInt64 {
			return 0, false
		}
		return int64(f), true
	case string:
		return leadingInt(v)
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// leadingInt reads an optionally signed run of digits after leading
// whitespace. No digits means zero. A prefix that overflows int64 is rejected.
func leadingInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, true
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func coerceText(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}
