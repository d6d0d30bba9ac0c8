package cmd

import (
	"strconv"
	"strings"

	"github.com/spacemeshos/go-prefixsum/input"
)

// Int64List is a comma separated list of integers.
// Set replaces the list instead of appending to it.
type Int64List struct {
	values *[]int64
}

// NewInt64List binds the flag value to values.
func NewInt64List(values *[]int64) *Int64List {
	return &Int64List{values: values}
}

func (l *Int64List) String() string {
	if l.values == nil {
		return ""
	}
	parts := make([]string, 0, len(*l.values))
	for _, v := range *l.values {
		parts = append(parts, strconv.FormatInt(v, 10))
	}
	return strings.Join(parts, ",")
}

// Set implements pflag.Value.Set.
func (l *Int64List) Set(value string) error {
	values, err := input.ParseList(value)
	if err != nil {
		return err
	}
	*l.values = values
	return nil
}

// Type implements pflag.Value.Type.
func (*Int64List) Type() string {
	return "int64List"
}
