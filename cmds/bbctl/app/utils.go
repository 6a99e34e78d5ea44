package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/utils"
)

func PrintTable(w io.Writer, columns []string, rows [][]string) {
	max := make([]int, len(columns))
	for i, s := range columns {
		max[i] = len(s)
	}
	for _, cols := range rows {
		for i, s := range cols {
			if max[i] < len(s) {
				max[i] = len(s)
			}
		}
	}

	f := formatString(max)
	printLine(w, columns, f)
	for _, cols := range rows {
		printLine(w, cols, f)
	}
}

func printLine(w io.Writer, cols []string, msg string) {
	args := utils.TransformSlice(cols, func(s string) any { return s })
	fmt.Fprintf(w, "%s\n", strings.TrimRight(fmt.Sprintf(msg, args...), " "))
}

func formatString(max []int) string {
	msg := ""
	for _, l := range max {
		msg += fmt.Sprintf("%%-%ds ", l)
	}
	return msg[:len(msg)-1]
}

// Format is an output format flag value.
type Format string

var _ pflag.Value = (*Format)(nil)

func (f *Format) String() string {
	return string(*f)
}

func (f *Format) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "json", "yaml":
		*f = Format(s)
		return nil
	default:
		return fmt.Errorf("invalid output format %q (json or yaml expected)", s)
	}
}

func (f *Format) Type() string {
	return "format"
}

// Output writes structured data in the requested format.
// It returns false for the default (table) format.
func Output(w io.Writer, format Format, v interface{}) (bool, error) {
	switch format {
	case "":
		return false, nil
	case "json":
		data, err := json.Marshal(v)
		if err != nil {
			return true, err
		}
		fmt.Fprintf(w, "%s\n", string(data))
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return true, err
		}
		fmt.Fprintf(w, "%s", string(data))
	default:
		return true, fmt.Errorf("invalid output format %q", format)
	}
	return true, nil
}

func kindList(list []blocks.Kind) string {
	return utils.JoinFunc(list, ",", blocks.Kind.String)
}
