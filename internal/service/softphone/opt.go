package softphone

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type optState uint8

const (
	optUnset optState = iota
	optCleared
	optValued
)

// Opt distinguishes a field that was not sent, one that was sent empty (or null),
// and one that carries a value.
type Opt[T any] struct {
	value T
	state optState
}

func Some[T any](v T) Opt[T] { return Opt[T]{value: v, state: optValued} }

func Cleared[T any]() Opt[T] { return Opt[T]{state: optCleared} }

// IsSet reports whether the field was present in the request at all.
func (o Opt[T]) IsSet() bool { return o.state != optUnset }

func (o Opt[T]) IsCleared() bool { return o.state == optCleared }

// Get returns the value only when the field carries one.
func (o Opt[T]) Get() (T, bool) { return o.value, o.state == optValued }

func (o Opt[T]) Or(fallback T) T {
	if o.state == optValued {
		return o.value
	}
	return fallback
}

func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "null", `""`:
		*o = Cleared[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// FlexInt accepts both 2 and "2"; the legacy front end posts numbers as form strings.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	*n = FlexInt(v)
	return nil
}

// Bool accepts true, "true", 1 and "1".
type Bool bool

func (v *Bool) UnmarshalJSON(b []byte) error {
	switch strings.ToLower(strings.Trim(string(bytes.TrimSpace(b)), `"`)) {
	case "true", "1", "on", "yes":
		*v = true
	default:
		*v = false
	}
	return nil
}

// FlexString accepts JSON strings and numbers; park numbers arrive as either.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}
