package formdata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const (
	CountSuffix   = "_count"
	NumbersSuffix = "_numbers"
)

var (
	ErrRowOutOfRange = errors.New("formdata: row index out of range")
	ErrInvalidNumber = errors.New("formdata: value is not a whole number")
)

// FileRef is the value stored for an uploaded image.
type FileRef struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
}

// Store is the key/value map filled while a generated form is being
// completed. Keys are component names plus the derived "<name>_count" and
// "<name>_numbers" keys of repeatable rows.
type Store struct {
	mu     sync.RWMutex
	values map[string]any
}

func NewStore() *Store {
	return &Store{values: make(map[string]any)}
}

// Set upserts name. Writing a zero "<base>_count" also deletes <base>.
func (s *Store) Set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(name, value)
}

func (s *Store) set(name string, value any) {
	if base, ok := strings.CutSuffix(name, CountSuffix); ok && isZero(value) {
		delete(s.values, base)
	}
	s.values[name] = value
}

// Get returns the value stored under name.
func (s *Store) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return copyValue(v), ok
}

// Delete removes name.
func (s *Store) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, name)
}

// Len reports the number of keys held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Snapshot returns a copy of every value. Row lists are copied too.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = copyValue(v)
	}
	return out
}

// Reset clears every value.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]any)
}

// Rows returns the content strings and numbers of the repeatable field name.
func (s *Store) Rows(name string) ([]string, []any) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contents, numbers := s.rows(name)
	return append([]string(nil), contents...), append([]any(nil), numbers...)
}

// RowCount returns the declared row count of name.
func (s *Store) RowCount(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return toCount(s.values[name+CountSuffix])
}

// ResizeRows declares n rows for name. Existing rows are kept by index, new
// rows are padded with empty strings and shrinking truncates from the end.
// Zero rows clears both lists.
func (s *Store) ResizeRows(name string, n int) {
	if n < 0 {
		n = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if n == 0 {
		delete(s.values, name+NumbersSuffix)
		s.set(name+CountSuffix, 0)
		return
	}

	contents, numbers := s.rows(name)
	nextContents := make([]string, n)
	nextNumbers := make([]any, n)
	for i := 0; i < n; i++ {
		nextNumbers[i] = ""
		if i < len(contents) {
			nextContents[i] = contents[i]
		}
		if i < len(numbers) && numbers[i] != nil {
			nextNumbers[i] = numbers[i]
		}
	}
	s.set(name+CountSuffix, n)
	s.values[name] = nextContents
	s.values[name+NumbersSuffix] = nextNumbers
}

// SetRowContent writes the content string of row i.
func (s *Store) SetRowContent(name string, i int, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contents, _ := s.rows(name)
	if i < 0 || i >= len(contents) {
		return fmt.Errorf("%w: %s[%d]", ErrRowOutOfRange, name, i)
	}
	next := append([]string(nil), contents...)
	next[i] = content
	s.values[name] = next
	return nil
}

// SetRowNumber writes the number of row i. An empty string clears the slot;
// anything else must parse as an integer.
func (s *Store) SetRowNumber(name string, i int, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, numbers := s.rows(name)
	if i < 0 || i >= len(numbers) {
		return fmt.Errorf("%w: %s[%d]", ErrRowOutOfRange, name, i)
	}

	var value any = ""
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
		}
		value = n
	}
	next := append([]any(nil), numbers...)
	next[i] = value
	s.values[name+NumbersSuffix] = next
	return nil
}

// DeleteRow removes row i from both lists and updates the count.
func (s *Store) DeleteRow(name string, i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contents, numbers := s.rows(name)
	if i < 0 || i >= len(contents) {
		return fmt.Errorf("%w: %s[%d]", ErrRowOutOfRange, name, i)
	}

	nextContents := append(append([]string(nil), contents[:i]...), contents[i+1:]...)
	nextNumbers := append([]any(nil), numbers...)
	if i < len(nextNumbers) {
		nextNumbers = append(nextNumbers[:i], nextNumbers[i+1:]...)
	}
	s.values[name] = nextContents
	s.values[name+NumbersSuffix] = nextNumbers
	s.set(name+CountSuffix, len(nextContents))
	return nil
}

func (s *Store) rows(name string) ([]string, []any) {
	contents, _ := s.values[name].([]string)
	numbers, _ := s.values[name+NumbersSuffix].([]any)
	return contents, numbers
}

// toCount reads a row count written either by ResizeRows or through Set with
// a decoded JSON number.
func toCount(value any) int {
	f, ok := toFloat(value)
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}

func isZero(value any) bool {
	switch v := value.(type) {
	case int:
		return v == 0
	case int64:
		return v == 0
	case float64:
		return v == 0
	default:
		return false
	}
}

func copyValue(v any) any {
	switch typed := v.(type) {
	case []string:
		out := make([]string, len(typed))
		copy(out, typed)
		return out
	case []any:
		out := make([]any, len(typed))
		copy(out, typed)
		return out
	default:
		return v
	}
}
