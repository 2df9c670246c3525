package converter

import (
	"errors"
	"fmt"
	"io"
	"os"

	"csv2json/importer"
	"csv2json/internal/logging"
	"csv2json/output"
	"csv2json/record"
)

// Result is the outcome of one conversion. Err is nil on success.
type Result struct {
	InputPath  string
	OutputPath string
	Format     string
	Header     record.Header
	Rows       int
	Err        error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Converter runs conversions and prints the progress contract: one
// "Converting:" line, then either "Done!" or a single "Got error:" line.
type Converter struct {
	Stdout io.Writer
	Stderr io.Writer
	Log    logging.Logger
}

func New(stdout, stderr io.Writer, log logging.Logger) *Converter {
	return &Converter{Stdout: stdout, Stderr: stderr, Log: log}
}

// Default writes to the process streams and discards diagnostics.
func Default() *Converter {
	return New(os.Stdout, os.Stderr, logging.Nop())
}

// Convert reads the whole input, then writes the output. The output path is
// not touched unless every input row was read successfully.
func (c *Converter) Convert(options Options) Result {
	options = options.withDefaults()
	fmt.Fprintf(c.Stdout, "Converting: %s into %s\n", options.InputPath, options.OutputPath)

	result := Result{
		InputPath:  ResolvePath(options.BaseDir, options.InputPath),
		OutputPath: ResolvePath(options.BaseDir, options.OutputPath),
		Format:     output.DetectFormat(options.OutputPath, options.OutputFormat),
	}
	c.Log.Debug().
		Str("input", result.InputPath).
		Str("output", result.OutputPath).
		Str("output_format", result.Format).
		Msg("resolved paths")

	if err := c.convert(options, &result); err != nil {
		result.Err = err
		c.Log.Debug().Err(err).Bool("input_not_found", errors.Is(err, importer.ErrInputNotFound)).Msg("conversion failed")
		fmt.Fprintf(c.Stderr, "Got error: %v\n", err)
		return result
	}

	fmt.Fprintln(c.Stdout, "Done!")
	return result
}

func (c *Converter) convert(options Options, result *Result) error {
	writer, err := output.WriterForFormat(result.Format, output.Options{
		Table:      options.Table,
		SourcePath: options.InputPath,
	})
	if err != nil {
		return err
	}

	source, err := importer.Open(result.InputPath, importer.Options{
		Format:    options.Format,
		Delimiter: options.Delimiter,
		Sheet:     options.Sheet,
	})
	if err != nil {
		return err
	}
	defer source.Close()

	doc, err := Collect(source)
	if err != nil {
		return err
	}
	result.Header = source.Header()
	result.Rows = len(doc)
	c.Log.Debug().Int("columns", len(result.Header)).Int("rows", result.Rows).Msg("parsed input")

	return writer.Write(result.OutputPath, result.Header, doc)
}

// Collect drains source, mapping every row through its header in arrival order.
func Collect(source importer.Source) (record.Document, error) {
	header := source.Header()
	doc := make(record.Document, 0, 128)
	for {
		fields, err := source.Next()
		if err == io.EOF {
			return doc, nil
		}
		if err != nil {
			return nil, err
		}
		doc = append(doc, record.Build(header, fields))
	}
}
