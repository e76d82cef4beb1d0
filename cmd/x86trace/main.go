// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ezrec/x86trace/compiler"
	"github.com/ezrec/x86trace/server"
	"github.com/ezrec/x86trace/trace"
)

// output holds the flags shared by commands that print a trace.
type output struct {
	setup  []string
	format string
	diff   bool
}

func (o *output) flags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&o.setup, "set", nil, "Register assignment applied before the first step, e.g. rax=STACK_TOP-64")
	cmd.Flags().StringVar(&o.format, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&o.diff, "diff", false, "Print only the changes between steps (text format)")
}

// write prints a trace in the requested format.
func (o *output) write(out io.Writer, tr trace.Trace) (err error) {
	switch o.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tr)
	case "text":
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}

	for n, step := range tr {
		fmt.Fprintf(out, "step %d: %v\n", n, step.Instruction)
		if o.diff && n > 0 {
			var text string
			text, err = trace.Diff(tr[n-1], step)
			if err != nil {
				return
			}
			fmt.Fprint(out, text)
			continue
		}
		fmt.Fprint(out, step.Tree().String())
	}

	return
}

// openInput opens a file, or stdin for "-".
func openInput(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// logFault logs the decoded form of the instruction that stopped a run.
func logFault(builder *trace.Builder, err error) {
	if !builder.Verbose {
		return
	}

	inst, ok := builder.Fault(err)
	if ok {
		log.Printf("x86trace: line %d: %v", inst.LineNo, inst.String())
	}
}

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "x86trace",
		Short:         "Step through x86-64 assembly on a simulated register file and stack",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	var traceOut output
	traceCmd := &cobra.Command{
		Use:   "trace [file.s]",
		Short: "Trace an assembly listing (stdin if no file or -)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}

			inf, err := openInput(name)
			if err != nil {
				return
			}
			defer inf.Close()

			builder := &trace.Builder{Verbose: verbose, Setup: traceOut.setup}
			tr, err := builder.BuildFrom(inf)
			if err != nil {
				logFault(builder, err)
				return fmt.Errorf("%v: %w", name, err)
			}

			return traceOut.write(cmd.OutOrStdout(), tr)
		},
	}
	traceOut.flags(traceCmd)

	var compilerPath string
	var workDir string
	var timeout time.Duration

	var compileOut output
	var keep bool
	compileCmd := &cobra.Command{
		Use:   "compile file.rs",
		Short: "Compile a source file and trace the resulting listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return
			}

			ctx := context.Background()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			comp := compiler.NewCompiler(compilerPath)
			comp.Verbose = verbose
			comp.WorkDir = workDir
			comp.Keep = keep

			lines, err := comp.Compile(ctx, string(source))
			if err != nil {
				return fmt.Errorf("%v: %w", args[0], err)
			}

			builder := &trace.Builder{Verbose: verbose, Setup: compileOut.setup}
			tr, err := builder.Build(lines)
			if err != nil {
				logFault(builder, err)
				return fmt.Errorf("%v: %w", args[0], err)
			}

			return compileOut.write(cmd.OutOrStdout(), tr)
		},
	}
	compileOut.flags(compileCmd)
	compileCmd.Flags().BoolVar(&keep, "keep", false, "Keep the generated source and listing files")

	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /compile for the visualizer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comp := compiler.NewCompiler(compilerPath)
			comp.Verbose = verbose
			comp.WorkDir = workDir

			srv := server.NewServer(comp)
			srv.Verbose = verbose
			srv.Timeout = timeout

			return srv.ListenAndServe(addr)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "127.0.0.1:5000", "Listen address")

	for _, cmd := range []*cobra.Command{compileCmd, serveCmd} {
		cmd.Flags().StringVar(&compilerPath, "compiler", "./a.out", "Compiler executable")
		cmd.Flags().StringVar(&workDir, "workdir", "tmp", "Directory for compiler work files")
		cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Limit on a single compile (0 for none)")
	}

	rootCmd.AddCommand(traceCmd, compileCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}
