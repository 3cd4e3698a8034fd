package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/bfv/blogkit/internal/policy"
	"github.com/rs/zerolog/log"
)

// stdinPath selects standard input instead of a file.
const stdinPath = "-"

// readInput reads the file at path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == stdinPath {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// loadConfig reads and validates a policy config.
func loadConfig(path, format string, stdin io.Reader) (*policy.Config, error) {
	f, err := policy.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Str("format", string(f)).Msg("config read")

	cfg, err := policy.Load(data, f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}

// writeOutput writes data to outputPath, or to stdout when outputPath is
// empty.
func writeOutput(outputPath string, stdout io.Writer, data []byte) error {
	var out io.Writer = stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file %q: %w", outputPath, err)
		}
		defer f.Close()
		out = f
		log.Debug().Str("path", outputPath).Msg("writing to file")
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
