// Package compiler runs the external compiler that turns source text into
// an assembly listing.
//
// The compiler is invoked as `<path> <file>.rs` and is expected to write
// `<file>.s` next to its input. A non-zero exit status is a compile failure
// carrying the compiler's diagnostics; anything else that prevents reading
// the listing is a transport failure.
package compiler

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ezrec/x86trace/cpu"
)

const (
	SOURCE_EXT   = ".rs" // Extension of the source file handed to the compiler.
	ASSEMBLY_EXT = ".s"  // Extension of the listing written by the compiler.

	WAIT_DELAY = time.Second // Grace period for output after the compiler is killed.
)

// Compiler drives an external compiler executable.
type Compiler struct {
	Verbose bool   // If set, logs each compiler invocation.
	Path    string // Path to the compiler executable.
	WorkDir string // Directory for source and listing files; os.TempDir() if empty.
	Keep    bool   // If set, the source and listing files are not removed.
}

// NewCompiler creates a compiler driver for an executable.
func NewCompiler(path string) *Compiler {
	return &Compiler{Path: path}
}

// workDir returns the absolute directory for work files, creating it if
// needed. The compiler runs inside it, so relative paths would not resolve.
func (c *Compiler) workDir() (dir string, err error) {
	dir = c.WorkDir
	if len(dir) == 0 {
		dir = os.TempDir()
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return
	}

	err = os.MkdirAll(dir, 0o755)

	return
}

// Compile compiles source text, returning the assembly listing as lines.
func (c *Compiler) Compile(ctx context.Context, source string) (lines []string, err error) {
	if len(c.Path) == 0 {
		err = &ErrTransport{Err: ErrNoCompiler}
		return
	}

	dir, err := c.workDir()
	if err != nil {
		err = &ErrTransport{Err: err}
		return
	}

	base := filepath.Join(dir, uuid.NewString())
	infile := base + SOURCE_EXT
	outfile := base + ASSEMBLY_EXT

	err = os.WriteFile(infile, []byte(source), 0o644)
	if err != nil {
		err = &ErrTransport{Err: err}
		return
	}

	if !c.Keep {
		defer os.Remove(infile)
		defer os.Remove(outfile)
	}

	if c.Verbose {
		log.Printf("compiler: %v %v", c.Path, infile)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, infile)
	cmd.Dir = dir
	cmd.Stderr = &stderr
	cmd.WaitDelay = WAIT_DELAY

	err = cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			err = &ErrCompile{Status: exitErr.ExitCode(), Diagnostic: stderr.String()}
		} else {
			err = &ErrTransport{Err: errors.Join(err, ctx.Err())}
		}
		return
	}

	lines, err = readListing(outfile)
	if err != nil {
		err = &ErrTransport{Err: err}
		return
	}

	if c.Verbose {
		log.Printf("compiler: %v: %v", outfile, f("%d lines", len(lines)))
	}

	return
}

// readListing reads an assembly listing, one entry per line.
func readListing(path string) (lines []string, err error) {
	inf, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = errors.Join(ErrNoOutput, err)
		}
		return
	}
	defer inf.Close()

	scanner := bufio.NewScanner(inf)
	scanner.Buffer(nil, cpu.MAX_LINE)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	err = scanner.Err()

	return
}
