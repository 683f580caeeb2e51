package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

func decodeYAML(source string, data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var terr *yaml.TypeError
	if errors.As(err, &terr) && len(terr.Errors) > 0 {
		pe.Message = strings.Join(terr.Errors, "; ")
		pe.Line = yamlLine(terr.Errors[0])
		return pe
	}
	pe.Line = yamlLine(err.Error())
	return pe
}

// yamlLine extracts N from messages of the form "...line N: ...".
func yamlLine(msg string) int {
	i := strings.Index(msg, "line ")
	if i < 0 {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(msg[i:], "line %d", &n); err != nil {
		return 0
	}
	return n
}
