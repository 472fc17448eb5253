package lifecycle

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Summary maps each present category to its record count. A singleton
// category is stored with count 1 and rendered as true.
type Summary map[Category]int64

// Set records a count, dropping zero or negative counts
func (s Summary) Set(category Category, count int64) {
	if count <= 0 {
		return
	}
	if category.IsSingleton() {
		count = 1
	}
	s[category] = count
}

// HasProfile reports whether the profile singleton was present
func (s Summary) HasProfile() bool {
	return s[CategoryProfile] > 0
}

// Total is the number of records across all categories
func (s Summary) Total() int64 {
	var total int64
	for _, n := range s {
		total += n
	}
	return total
}

// MarshalJSON writes categories in their fixed order; singletons become true.
func (s Summary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, category := range SummaryCategories() {
		n, ok := s[category]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(strconv.Quote(string(category)))
		buf.WriteByte(':')
		if category.IsSingleton() {
			buf.WriteString("true")
		} else {
			buf.WriteString(strconv.FormatInt(n, 10))
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts both counts and booleans
func (s *Summary) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Summary{}
	for key, value := range raw {
		var flag bool
		if err := json.Unmarshal(value, &flag); err == nil {
			if flag {
				out[Category(key)] = 1
			}
			continue
		}
		var n int64
		if err := json.Unmarshal(value, &n); err != nil {
			return err
		}
		out.Set(Category(key), n)
	}
	*s = out
	return nil
}
