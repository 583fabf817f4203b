package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/lgbarn/pgnfmt-go/internal/config"
)

// GameWriter is the interface for writing games to output.
// Different implementations handle different output formats (PGN, JSON, etc.).
type GameWriter interface {
	// WriteGame writes a single game to the output.
	WriteGame(rec *GameRecord) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close closes the writer and releases any resources.
	// For batch writers (like JSON), this also writes any pending output.
	Close() error
}

// NewWriter returns the writer selected by cfg.
func NewWriter(w io.Writer, cfg *config.Config) GameWriter {
	if cfg.Output.TitlesOnly {
		return NewTitleWriter(w)
	}
	switch cfg.Output.Format {
	case config.JSON:
		return NewJSONWriter(w, cfg)
	case config.YAML:
		return NewYAMLWriter(w, cfg)
	default:
		return NewPGNWriter(w, cfg)
	}
}

// PGNWriter writes games in PGN format, separated by blank lines.
type PGNWriter struct {
	w          io.Writer
	serializer *Serializer
	written    int
}

// NewPGNWriter creates a new PGN writer.
func NewPGNWriter(w io.Writer, cfg *config.Config) *PGNWriter {
	return &PGNWriter{
		w:          w,
		serializer: NewSerializer(cfg),
	}
}

// WriteGame writes a game in PGN format.
func (pw *PGNWriter) WriteGame(rec *GameRecord) error {
	sep := ""
	if pw.written > 0 {
		sep = "\n"
	}
	_, err := fmt.Fprintf(pw.w, "%s%s\n", sep, pw.serializer.Record(rec.Tags, rec.Plies, rec.Result))
	if err == nil {
		pw.written++
	}
	return err
}

// Flush flushes the PGN writer (no-op for PGN as it writes immediately).
func (pw *PGNWriter) Flush() error {
	return nil
}

// Close closes the PGN writer.
func (pw *PGNWriter) Close() error {
	return nil
}

// TitleWriter writes one title line per game.
type TitleWriter struct {
	w io.Writer
}

// NewTitleWriter creates a new title writer.
func NewTitleWriter(w io.Writer) *TitleWriter {
	return &TitleWriter{w: w}
}

// WriteGame writes the game's title.
func (tw *TitleWriter) WriteGame(rec *GameRecord) error {
	_, err := fmt.Fprintln(tw.w, rec.Title)
	return err
}

// Flush is a no-op.
func (tw *TitleWriter) Flush() error {
	return nil
}

// Close is a no-op.
func (tw *TitleWriter) Close() error {
	return nil
}

// JSONWriter writes games in JSON format.
// It buffers games and writes them as a JSON array on Close or Flush.
type JSONWriter struct {
	w            io.Writer
	keepComments bool
	games        []*ExportGame
}

// NewJSONWriter creates a new JSON writer that batches games and writes
// them as an array on Close().
func NewJSONWriter(w io.Writer, cfg *config.Config) *JSONWriter {
	return &JSONWriter{
		w:            w,
		keepComments: cfg.Output.KeepComments,
		games:        make([]*ExportGame, 0),
	}
}

// WriteGame buffers a game for JSON output.
func (jw *JSONWriter) WriteGame(rec *GameRecord) error {
	jw.games = append(jw.games, ToExport(rec, jw.keepComments))
	return nil
}

// Flush writes all buffered games as a JSON array.
func (jw *JSONWriter) Flush() error {
	if len(jw.games) == 0 {
		return nil
	}

	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	err := enc.Encode(&ExportOutput{Games: jw.games})

	// Clear buffer after writing
	jw.games = jw.games[:0]

	return err
}

// Close flushes and closes the JSON writer.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}

// YAMLWriter writes each game as its own YAML document.
type YAMLWriter struct {
	enc          *yaml.Encoder
	keepComments bool
}

// NewYAMLWriter creates a new YAML writer.
func NewYAMLWriter(w io.Writer, cfg *config.Config) *YAMLWriter {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &YAMLWriter{
		enc:          enc,
		keepComments: cfg.Output.KeepComments,
	}
}

// WriteGame writes a game as a YAML document.
func (yw *YAMLWriter) WriteGame(rec *GameRecord) error {
	return yw.enc.Encode(ToExport(rec, yw.keepComments))
}

// Flush is a no-op; the encoder writes each document as it is encoded.
func (yw *YAMLWriter) Flush() error {
	return nil
}

// Close finishes the YAML stream.
func (yw *YAMLWriter) Close() error {
	return yw.enc.Close()
}
