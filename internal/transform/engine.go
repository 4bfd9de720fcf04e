package transform

import (
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"path"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"

	"codeberg.org/snonux/flashreel/internal/vocab"
)

// LibraryPrefix is the import path prefix of helper libraries
const LibraryPrefix = "flashreel/"

// DefaultTimeout bounds a single transform call
const DefaultTimeout = 2 * time.Second

// DefaultSource is the identity transform
const DefaultSource = `// Process receives the current pair and returns the fields to display.
// Keys: "word", "translation", and optionally "wordHtml", "translationHtml".
// Allowed imports: strings, strconv, unicode, fmt, regexp, ... and the
// helper libraries flashreel/pinyin, flashreel/markup, flashreel/text.

func Process(pair map[string]string) map[string]interface{} {
	// Example: convert to uppercase
	// return map[string]interface{}{"word": strings.ToUpper(pair["word"])}

	return map[string]interface{}{
		"word":        pair["word"],
		"translation": pair["translation"],
	}
}
`

// SampleEntry is the pair used by Engine.Test
var SampleEntry = vocab.Entry{Word: "hello", Translation: "你好"}

// allowedPackages are the stdlib packages transforms may import. Nothing
// with filesystem, network, process or unsafe access.
var allowedPackages = []string{
	"bytes",
	"fmt",
	"math",
	"regexp",
	"sort",
	"strconv",
	"strings",
	"unicode",
	"unicode/utf8",
}

// Library is a read-only helper capability exposed to transforms. Symbols
// maps exported names to host values; they are shared by reference with
// every interpreter.
type Library interface {
	Name() string
	Symbols() map[string]reflect.Value
}

// Config holds engine configuration
type Config struct {
	Libraries []Library
	Timeout   time.Duration
	Logger    *zap.Logger
}

// Result is the outcome of applying a transform
type Result struct {
	Pair   DisplayPair
	Output map[string]interface{} // raw transform output, nil on failure
	Err    error                  // *TransformError or nil
}

// Engine applies user transforms to vocabulary entries
type Engine struct {
	exports interp.Exports
	allowed map[string]bool
	timeout time.Duration
	logger  *zap.Logger
}

// NewEngine creates a new transform engine
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = &Config{}
	}

	e := &Engine{
		exports: interp.Exports{},
		allowed: make(map[string]bool),
		timeout: config.Timeout,
		logger:  config.Logger,
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}

	for _, pkg := range allowedPackages {
		e.allowed[pkg] = true
	}
	for key, symbols := range stdlib.Symbols {
		if e.allowed[path.Dir(key)] {
			e.exports[key] = symbols
		}
	}

	for _, lib := range config.Libraries {
		importPath := LibraryPrefix + lib.Name()
		e.allowed[importPath] = true
		e.exports[importPath+"/"+lib.Name()] = lib.Symbols()
	}

	return e
}

// AllowedImports returns the import paths transforms may use
func (e *Engine) AllowedImports() []string {
	var imports []string
	for pkg := range e.allowed {
		imports = append(imports, pkg)
	}
	sort.Strings(imports)
	return imports
}

// Apply derives the display pair of entry. The fields are swapped first
// when swap is set, then source is compiled and run. On any failure the
// swapped pair is returned unchanged together with the error.
func (e *Engine) Apply(ctx context.Context, entry vocab.Entry, swap bool, source string) Result {
	pair := fromEntry(entry, swap)

	if strings.TrimSpace(source) == "" {
		return Result{Pair: pair}
	}

	out, err := e.run(ctx, pair, source)
	if err != nil {
		e.logger.Warn("Post-processing error",
			zap.String("word", pair.Word),
			zap.Error(err),
		)
		return Result{Pair: pair, Err: err}
	}

	return Result{Pair: merge(pair, out), Output: out}
}

// Test runs source against SampleEntry
func (e *Engine) Test(ctx context.Context, source string) Result {
	return e.Apply(ctx, SampleEntry, false, source)
}

func (e *Engine) run(ctx context.Context, pair DisplayPair, source string) (map[string]interface{}, error) {
	src, pkg, imports, err := prepare(source)
	if err != nil {
		return nil, &TransformError{Stage: StageCompile, Err: err}
	}

	var forbidden []string
	for _, imp := range imports {
		if !e.allowed[imp] {
			forbidden = append(forbidden, imp)
		}
	}
	if len(forbidden) > 0 {
		return nil, &TransformError{
			Stage: StageImport,
			Err:   fmt.Errorf("forbidden imports %v (allowed: %v)", forbidden, e.AllowedImports()),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Interpreter output and panic traces go to the log, never the terminal
	stdout := &zapio.Writer{Log: e.logger.With(zap.String("stream", "stdout")), Level: zap.DebugLevel}
	stderr := &zapio.Writer{Log: e.logger.With(zap.String("stream", "stderr")), Level: zap.DebugLevel}
	defer stdout.Close()
	defer stderr.Close()

	i := interp.New(interp.Options{Stdout: stdout, Stderr: stderr})
	if err := i.Use(e.exports); err != nil {
		return nil, &TransformError{Stage: StageCompile, Err: fmt.Errorf("failed to load symbols: %w", err)}
	}

	if _, err := i.EvalWithContext(ctx, src); err != nil {
		if ctx.Err() != nil {
			return nil, &TransformError{Stage: StageTimeout, Err: ctx.Err()}
		}
		return nil, &TransformError{Stage: StageCompile, Err: err}
	}

	v, err := i.Eval(pkg + ".Process")
	if err != nil {
		return nil, &TransformError{Stage: StageLookup, Err: fmt.Errorf("Process function not found: %w", err)}
	}
	if err := checkSignature(v); err != nil {
		return nil, &TransformError{Stage: StageLookup, Err: err}
	}

	// The call runs inside the interpreter so a timeout halts it
	raw, err := i.EvalWithContext(ctx, callExpr(pkg, pair.input()))
	if err != nil {
		if ctx.Err() != nil {
			return nil, &TransformError{Stage: StageTimeout, Err: ctx.Err()}
		}
		var p interp.Panic
		if errors.As(err, &p) {
			return nil, &TransformError{Stage: StageRun, Err: fmt.Errorf("panic: %v", p.Value)}
		}
		return nil, &TransformError{Stage: StageRun, Err: err}
	}

	return normalize(unwrap(raw))
}

// prepare adds a package clause when the source has none and returns the
// source, its package name and its imports
func prepare(source string) (string, string, []string, error) {
	fset := token.NewFileSet()

	src := source
	f, err := parser.ParseFile(fset, "transform.go", src, parser.ImportsOnly)
	if err != nil {
		src = "package main\n\n" + source
		var wrapErr error
		f, wrapErr = parser.ParseFile(fset, "transform.go", src, parser.ImportsOnly)
		if wrapErr != nil {
			return "", "", nil, err
		}
	}

	var imports []string
	for _, is := range f.Imports {
		imp, err := strconv.Unquote(is.Path.Value)
		if err != nil {
			return "", "", nil, err
		}
		imports = append(imports, imp)
	}

	return src, f.Name.Name, imports, nil
}

// checkSignature rejects a Process that is not one of the accepted
// function types
func checkSignature(v reflect.Value) error {
	if !v.IsValid() || !v.CanInterface() {
		return errors.New("Process is not a function")
	}

	switch fn := v.Interface().(type) {
	case func(map[string]string) map[string]interface{},
		func(map[string]string) map[string]string,
		func(map[string]string) interface{}:
		return nil
	default:
		return fmt.Errorf("Process has signature %T, expected func(map[string]string) map[string]interface{}", fn)
	}
}

// callExpr builds the Process call with the pair as a map literal
func callExpr(pkg string, in map[string]string) string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(pkg)
	sb.WriteString(".Process(map[string]string{")
	for n, k := range keys {
		if n > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(k))
		sb.WriteString(": ")
		sb.WriteString(strconv.Quote(in[k]))
	}
	sb.WriteString("})")
	return sb.String()
}

// unwrap returns the dynamic value of an interpreter result
func unwrap(v reflect.Value) interface{} {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// normalize accepts map results only; everything else is a failure
func normalize(raw interface{}) (map[string]interface{}, error) {
	switch r := raw.(type) {
	case map[string]interface{}:
		if r == nil {
			return nil, &TransformError{Stage: StageShape, Err: errors.New("Process returned a nil map")}
		}
		return r, nil
	case map[string]string:
		if r == nil {
			return nil, &TransformError{Stage: StageShape, Err: errors.New("Process returned a nil map")}
		}
		out := make(map[string]interface{}, len(r))
		for k, v := range r {
			out[k] = v
		}
		return out, nil
	default:
		return nil, &TransformError{Stage: StageShape, Err: fmt.Errorf("Process returned %T, expected a map", raw)}
	}
}
