package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/decompiler/metadata"
)

// textWriter renders a result in the text format.
type textWriter interface {
	writeText(w io.Writer) error
}

// writeResult writes v in the configured format. v carries json and yaml
// tags for the structured formats.
func writeResult(w io.Writer, format string, v textWriter) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return v.writeText(w)
}

// readInput decodes a hex argument, or the contents of a file when the
// argument starts with '@'. Files may hold raw bytes or hex text.
func readInput(arg string) ([]byte, error) {
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if b, err := metadata.ParseHex(string(data)); err == nil {
			return b, nil
		}
		return data, nil
	}
	return metadata.ParseHex(arg)
}
