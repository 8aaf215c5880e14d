// Package vm wires the class-file parser and the interpreter together
// into a single entry point: load a class, then run one of its methods.
package vm

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"jvmlite/internal/classfile"
	"jvmlite/internal/interp"
	"jvmlite/internal/runtime"
)

// VM owns one interpreter instance and the host I/O streams it runs
// against.
type VM struct {
	Interp *interp.Interp
	Log    *zap.SugaredLogger
	Debug  bool
}

// New constructs a VM reading from stdin and writing to stdout.
func New(stdin io.Reader, stdout io.Writer, log *zap.SugaredLogger, debug bool) *VM {
	return &VM{
		Interp: interp.New(stdin, stdout, log),
		Log:    log,
		Debug:  debug,
	}
}

// NewLogger builds the zap logger used for VM lifecycle diagnostics.
// verbose selects the development encoder (human-readable, debug level);
// otherwise a quiet production encoder at warn level is used so normal
// runs stay limited to the program's own stdout.
func NewLogger(verbose bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return logger.Sugar(), nil
}

// LoadFile reads, parses, and registers a single .class file.
func (v *VM) LoadFile(path string) (*classfile.Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	class, err := classfile.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if err := v.Interp.LoadClass(class); err != nil {
		return nil, err
	}
	if v.Debug {
		dumpClass(class)
	}
	return class, nil
}

// Run invokes methodName on class and, in debug mode, pretty-prints the
// result (the class summary is printed by LoadFile).
func (v *VM) Run(class *classfile.Class, methodName string) (runtime.Value, bool, error) {
	v.Log.Debugw("invoking", "class", class.Name, "method", methodName)
	result, hasResult, err := v.Interp.Invoke(class, methodName)
	if err != nil {
		v.Log.Warnw("execution failed", "class", class.Name, "method", methodName, "error", err)
		return result, hasResult, err
	}
	if v.Debug {
		dumpResult(methodName, result, hasResult)
	}
	return result, hasResult, nil
}
