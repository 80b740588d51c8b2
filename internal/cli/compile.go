package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/quickbook/internal/configloader"
	"github.com/yaklabco/quickbook/internal/logging"
	"github.com/yaklabco/quickbook/internal/ui/pretty"
	"github.com/yaklabco/quickbook/pkg/config"
	"github.com/yaklabco/quickbook/pkg/deps"
	"github.com/yaklabco/quickbook/pkg/diag"
	"github.com/yaklabco/quickbook/pkg/fsutil"
	"github.com/yaklabco/quickbook/pkg/quickbook"
)

type compileFlags struct {
	noPrettyPrint       bool
	noSelfLinkedHeaders bool
	indent              int
	linewidth           int
	includePaths        []string
	defines             []string
	outputFile          string
	outputDeps          string
	imageLocation       string
	xincludeBase        string
	msErrors            bool
	expectErrors        bool
	strict              bool
	watch               bool
	summary             bool
	noContext           bool
}

func addCompileFlags(cmd *cobra.Command, flags *compileFlags) {
	cmd.Flags().BoolVar(&flags.noPrettyPrint, "no-pretty-print", false, "disable XML pretty printing")
	cmd.Flags().BoolVar(&flags.noSelfLinkedHeaders, "no-self-linked-headers", false,
		"stop headings linking to themselves")
	cmd.Flags().IntVar(&flags.indent, "indent", config.DefaultIndent, "indentation spaces of pretty printed output")
	cmd.Flags().IntVar(&flags.linewidth, "linewidth", config.DefaultLineWidth, "line width of pretty printed output")
	cmd.Flags().StringArrayVarP(&flags.includePaths, "include-path", "I", nil, "add a directory to the include path")
	cmd.Flags().StringArrayVarP(&flags.defines, "define", "D", nil, "define a macro: name=value or name")
	cmd.Flags().StringVar(&flags.outputFile, "output-file", "", `output file, "-" for standard output`)
	cmd.Flags().StringVar(&flags.outputDeps, "output-deps", "",
		"write the dependency list to FILE[,FORMAT] where FORMAT is deps, checked or escaped")
	cmd.Flags().StringVar(&flags.imageLocation, "image-location", "", "directory images are looked up in")
	cmd.Flags().StringVar(&flags.xincludeBase, "xinclude-base", "", "directory xinclude paths are relative to")
	cmd.Flags().BoolVar(&flags.msErrors, "ms-errors", false, "report errors in Visual Studio format")
	cmd.Flags().BoolVar(&flags.expectErrors, "expect-errors", false, "succeed only when errors are reported")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "count warnings as errors")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "recompile when the input or its dependencies change")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a summary block after compiling")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in diagnostics")
}

// cliConfig maps the flags that were given onto a Config, leaving the rest
// unset so configuration files still apply.
func (f *compileFlags) cliConfig(cmd *cobra.Command, input string) *config.Config {
	changed := cmd.Flags().Changed
	cfg := &config.Config{
		Input:        input,
		Output:       f.outputFile,
		IncludePaths: f.includePaths,
		Defines:      f.defines,
		ExpectErrors: f.expectErrors,
		Watch:        f.watch,
	}

	if changed("no-pretty-print") {
		cfg.PrettyPrint = config.Bool(!f.noPrettyPrint)
	}
	if changed("no-self-linked-headers") {
		cfg.SelfLinkedHeaders = config.Bool(!f.noSelfLinkedHeaders)
	}
	if changed("indent") {
		cfg.Indent = config.Int(f.indent)
	}
	if changed("linewidth") {
		cfg.LineWidth = config.Int(f.linewidth)
	}
	if changed("strict") {
		cfg.Strict = config.Bool(f.strict)
	}
	if f.msErrors {
		cfg.DiagnosticFormat = config.DiagnosticMS
	}
	cfg.ImageLocation = f.imageLocation
	cfg.XIncludeBase = f.xincludeBase

	if f.outputDeps != "" {
		cfg.DepsOutput, cfg.DepsFormat = splitDepsOutput(f.outputDeps)
	}

	if color, err := cmd.Flags().GetString("color"); err == nil && changed("color") {
		cfg.Color = config.ColorMode(color)
	}
	if debug, err := cmd.Flags().GetBool("debug"); err == nil {
		cfg.Debug = debug
	}

	return cfg
}

// splitDepsOutput splits "FILE[,FORMAT]". A suffix that is not a known
// format is part of the file name.
func splitDepsOutput(value string) (string, string) {
	if i := strings.LastIndexByte(value, ','); i >= 0 {
		if format := value[i+1:]; configloader.IsValidDepsFormat(format) {
			return value[:i], format
		}
	}
	return value, ""
}

// OutputPath returns where the document is written: the explicit path, or
// the input with an .xml extension.
func OutputPath(cfg *config.Config) string {
	if cfg.Output != "" {
		return cfg.Output
	}
	return strings.TrimSuffix(cfg.Input, filepath.Ext(cfg.Input)) + ".xml"
}

func runCompile(cmd *cobra.Command, input string, flags *compileFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    flags.cliConfig(cmd, input),
	})
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: errors.Join(errors.New("failed to load configuration"), err)}
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldInput, cfg.Input,
		logging.FieldIncludePaths, cfg.IncludePaths,
		logging.FieldDefines, cfg.Defines,
		logging.FieldPrettyPrint, cfg.PrettyPrintEnabled(),
	)

	c := newCompiler(cmd, cfg, flags)
	if cfg.Watch {
		return c.watch(ctx)
	}

	outcome, err := c.run(ctx)
	if err != nil {
		return err
	}
	return outcome.exitError()
}

// compiler runs one configured compilation, possibly repeatedly.
type compiler struct {
	cfg     *config.Config
	stdout  io.Writer
	stderr  io.Writer
	styles  *pretty.Styles
	printer *pretty.Printer
	summary bool
	logger  *log.Logger
}

func newCompiler(cmd *cobra.Command, cfg *config.Config, flags *compileFlags) *compiler {
	stderr := cmd.ErrOrStderr()
	styles := pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), stderr))

	format := diag.FormatGNU
	if cfg.DiagnosticFormat == config.DiagnosticMS {
		format = diag.FormatMS
	}

	return &compiler{
		cfg:    cfg,
		stdout: cmd.OutOrStdout(),
		stderr: stderr,
		styles: styles,
		printer: pretty.NewPrinter(stderr, styles, pretty.PrinterOptions{
			Format:      format,
			ShowContext: !flags.noContext,
			Width:       pretty.TerminalWidth(stderr),
		}),
		summary: flags.summary,
		logger:  logging.FromContext(cmd.Context()),
	}
}

// outcome is what one compilation produced.
type outcome struct {
	errors       int
	warnings     int
	deps         *deps.Tracker
	expectErrors bool
}

func (o *outcome) exitError() error {
	code := ExitCodeForErrors(o.errors, o.expectErrors)
	if code == ExitSuccess {
		return nil
	}
	return &ExitError{Code: code, Err: ErrCompileFailed}
}

func (c *compiler) options() quickbook.Options {
	return quickbook.Options{
		IncludePaths:      c.cfg.IncludePaths,
		Defines:           c.cfg.Defines,
		SelfLinkedHeaders: c.cfg.SelfLinkedHeadersEnabled(),
		PrettyPrint:       c.cfg.PrettyPrintEnabled(),
		Indent:            c.cfg.IndentWidth(),
		LineWidth:         c.cfg.WrapWidth(),
		ImageLocation:     c.cfg.ImageLocation,
		XIncludeBase:      c.cfg.XIncludeBase,
		Sink:              c.printer,
		Logger:            c.logger,
	}
}

// run compiles the document once. The returned error is set only when the
// output could not be written; compilation errors are counted in the
// outcome.
func (c *compiler) run(ctx context.Context) (*outcome, error) {
	logger := c.logger
	start := time.Now()

	out := &outcome{expectErrors: c.cfg.ExpectErrors, deps: deps.NewTracker()}
	result, err := quickbook.Compile(ctx, c.cfg.Input, c.options())
	if result == nil {
		c.printer.Report(diag.Diagnostic{
			Severity: diag.SeverityError,
			Path:     c.cfg.Input,
			Message:  fmt.Sprintf("Unable to open file: %v", err),
		})
		out.errors = 1
		out.deps.Add(c.cfg.Input, false)
		return out, nil
	}

	out.errors, out.warnings, out.deps = result.Errors, result.Warnings, result.Deps
	if c.cfg.StrictEnabled() {
		out.errors += out.warnings
	}
	if err != nil {
		logger.Debug("compilation stopped", logging.FieldError, err)
	}

	output := OutputPath(c.cfg)
	if !result.Fatal {
		if err := fsutil.WriteOutput(ctx, output, []byte(result.Output), c.stdout); err != nil {
			return nil, &ExitError{Code: ExitIOError, Err: fmt.Errorf("write output: %w", err)}
		}
		logger.Debug("wrote output", logging.FieldOutput, output, logging.FieldBytes, len(result.Output))
	} else {
		output = ""
	}

	if err := c.writeDeps(ctx, result.Deps); err != nil {
		return nil, &ExitError{Code: ExitIOError, Err: err}
	}

	stats := pretty.Stats{
		Input:        c.cfg.Input,
		Errors:       out.errors,
		Warnings:     out.warnings,
		Dependencies: len(result.Deps.Found()),
		Duration:     time.Since(start),
	}
	if output != fsutil.Stdout {
		stats.Output = output
	}

	logger.Debug("compiled",
		logging.FieldInput, c.cfg.Input,
		logging.FieldErrors, out.errors,
		logging.FieldWarnings, out.warnings,
		logging.FieldDuration, stats.Duration,
	)

	if c.summary {
		_, _ = io.WriteString(c.stderr, c.styles.FormatSummary(stats))
	} else if out.errors > 0 || out.warnings > 0 {
		_, _ = io.WriteString(c.stderr, c.styles.FormatSummaryOneLine(stats))
	}

	return out, nil
}

func (c *compiler) writeDeps(ctx context.Context, tracker *deps.Tracker) error {
	if c.cfg.DepsOutput == "" {
		return nil
	}

	format, err := deps.ParseFormat(c.cfg.DepsFormat)
	if err != nil {
		return fmt.Errorf("dependency format: %w", err)
	}

	content := []byte(tracker.Write(format))
	if c.cfg.DepsOutput == fsutil.Stdout {
		return fsutil.WriteOutput(ctx, fsutil.Stdout, content, c.stdout)
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, c.cfg.DepsOutput, content, fsutil.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("write dependencies: %w", err)
	}
	c.logger.Debug("dependencies",
		logging.FieldPath, c.cfg.DepsOutput,
		logging.FieldDepsFormat, format,
		"written", written,
	)
	return nil
}
