package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Envelope is the shape of every CLI result.
type Envelope struct {
	Data any            `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

// ErrorEnvelope is written to stderr when a command fails.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteData wraps v in an Envelope.
func WriteData(w io.Writer, v any, meta map[string]any, pretty bool) error {
	return WriteJSON(w, Envelope{Data: v, Meta: meta}, pretty)
}

func WriteError(w io.Writer, code, msg string, pretty bool) error {
	return WriteJSON(w, ErrorEnvelope{Error: ErrorBody{Code: code, Message: msg}}, pretty)
}
