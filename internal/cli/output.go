package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/midai/internal/config"
	"github.com/alexanderramin/midai/internal/domain"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type outputFormat string

const (
	outputAuto outputFormat = "auto"
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
)

func (o *outputFormat) String() string { return string(*o) }
func (o *outputFormat) Type() string   { return "format" }

func (o *outputFormat) Set(v string) error {
	switch f := outputFormat(strings.ToLower(v)); f {
	case outputAuto, outputText, outputJSON:
		*o = f
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want auto, text or json)", v)
	}
}

type globalOptions struct {
	output outputFormat
	user   string
}

func addGlobalFlags(fs *pflag.FlagSet, opts *globalOptions) {
	fs.VarP(&opts.output, "output", "o", "Output format: auto, text or json (auto is text on a terminal)")
	fs.StringVar(&opts.user, "user", opts.user, "User id for stored preferences, pins and plans")
}

// render writes v as indented JSON, or the text rendering when the output is
// text or an interactive terminal.
func (o *globalOptions) render(cmd *cobra.Command, v any, text func() string) error {
	out := cmd.OutOrStdout()
	if o.wantJSON(out) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprint(out, text())
	return err
}

func (o *globalOptions) wantJSON(out io.Writer) bool {
	switch o.output {
	case outputJSON:
		return true
	case outputText:
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

// readJSON decodes path, or stdin for "-", into dst.
func readJSON(cmd *cobra.Command, path string, dst any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return domain.NewValidationError(path, "invalid json: %v", err)
	}
	return nil
}

// loadPack reads a context pack and, when settingsFile is set, replaces the
// settings it carries.
func loadPack(cmd *cobra.Command, path, settingsFile string) (*domain.ContextPack, error) {
	if path == "" {
		return nil, domain.NewValidationError("context", "--context is required")
	}
	var pack domain.ContextPack
	if err := readJSON(cmd, path, &pack); err != nil {
		return nil, err
	}
	if settingsFile != "" {
		s, err := config.LoadSettings(settingsFile)
		if err != nil {
			return nil, err
		}
		pack.Settings = s
	}
	return &pack, nil
}

// packLocation returns the pack timezone, UTC when it does not resolve.
func packLocation(pack *domain.ContextPack) *time.Location {
	loc, err := pack.Settings.WithDefaults().Location()
	if err != nil {
		return time.UTC
	}
	return loc
}
