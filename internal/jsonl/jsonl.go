// Package jsonl reads and writes snippet records in JSON Lines form.
// Malformed lines are skipped and counted rather than failing the batch.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/panbanda/winnow/pkg/models"
)

// maxLineBytes bounds a single record line. Snippets are code fragments,
// not whole files, so 16MB is generous. Longer lines are skipped and
// counted, never buffered and never fatal.
const maxLineBytes = 16 * 1024 * 1024

// recordSchema validates the input contract before decoding. Unknown
// fields pass through untouched.
const recordSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["language", "code"],
  "properties": {
    "language": {"type": "string", "minLength": 1},
    "file_path": {"type": "string"},
    "start_line": {"type": "integer", "minimum": 0},
    "end_line": {"type": "integer", "minimum": 0},
    "loc": {"type": "integer", "minimum": 0},
    "code": {"type": "string", "minLength": 1},
    "docstring": {"type": "string"},
    "metadata": {"type": ["object", "null"]}
  }
}`

// Reader decodes records line by line, validating each against the input
// schema before it enters the batch.
type Reader struct {
	br      *bufio.Reader
	schema  *jsonschema.Schema
	skipped int
}

// NewReader wraps r. Compiling the embedded schema cannot fail at runtime
// unless the schema text itself is broken, which the tests pin.
func NewReader(r io.Reader) (*Reader, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(recordSchema)))
	if err != nil {
		return nil, fmt.Errorf("parsing record schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.schema.json", doc); err != nil {
		return nil, fmt.Errorf("adding record schema: %w", err)
	}
	schema, err := compiler.Compile("record.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling record schema: %w", err)
	}

	return &Reader{br: bufio.NewReaderSize(r, 64*1024), schema: schema}, nil
}

// Skipped reports how many lines failed to decode or validate so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// ReadAll materializes every valid record in input order.
func (r *Reader) ReadAll() ([]*models.Record, error) {
	var records []*models.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// Next returns the next valid record, skipping and counting lines that
// are oversized, invalid JSON, or schema violations. Returns io.EOF when
// the input is exhausted. A bad line never aborts the remaining input.
func (r *Reader) Next() (*models.Record, error) {
	for {
		line, tooLong, err := r.readLine()
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		atEOF := err == io.EOF

		if tooLong {
			r.skipped++
		} else {
			line = bytes.TrimSpace(line)
			if len(line) > 0 {
				if rec, ok := r.decode(line); ok {
					return rec, nil
				}
			}
		}

		if atEOF {
			return nil, io.EOF
		}
	}
}

// readLine returns the next line without its terminator. A line longer
// than maxLineBytes is consumed to its end but reported tooLong with no
// content, keeping memory bounded.
func (r *Reader) readLine() (line []byte, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, readErr := r.br.ReadSlice('\n')
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > maxLineBytes {
				tooLong = true
				buf = nil
			}
		}

		switch readErr {
		case nil:
			if tooLong {
				return nil, true, nil
			}
			return bytes.TrimSuffix(buf, []byte("\n")), false, nil
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if tooLong {
				return nil, true, io.EOF
			}
			return buf, false, io.EOF
		default:
			return nil, false, readErr
		}
	}
}

// decode validates and unmarshals one line, counting failures as skipped.
func (r *Reader) decode(line []byte) (*models.Record, bool) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(line))
	if err != nil {
		r.skipped++
		return nil, false
	}
	if err := r.schema.Validate(doc); err != nil {
		r.skipped++
		return nil, false
	}

	var rec models.Record
	if err := json.Unmarshal(line, &rec); err != nil {
		r.skipped++
		return nil, false
	}
	return &rec, true
}

// Writer emits records as one JSON object per line.
type Writer struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &Writer{w: bw, enc: enc}
}

// Write emits one record. Encoder appends the trailing newline.
func (w *Writer) Write(rec *models.Record) error {
	return w.enc.Encode(rec)
}

// WriteAll emits records in order.
func (w *Writer) WriteAll(records []*models.Record) error {
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush drains buffered output.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
