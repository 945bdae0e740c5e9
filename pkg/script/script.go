// Package script provides the Lisp scripting surface over the lifecycle
// service. It wraps zygomys in a sandboxed environment; a script drives
// the same operations the UI does (add, resize, move, duplicate, remove,
// undo/redo), so scripted edits are fully undoable.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/lifecycle"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter around one lifecycle service.
// Each call to Evaluate creates a fresh sandboxed environment; only the
// service state carries over between runs.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	service *lifecycle.Service
}

// NewEngine creates an engine bound to a service.
func NewEngine(service *lifecycle.Service) *Engine {
	return &Engine{service: service}
}

// Evaluate runs a script against the service.
//
// Return semantics:
//   - On success: nil errors + nil error
//   - On parse/eval failure: eval errors + nil error
//   - On fatal failure (timeout, panic): nil + error
func (e *Engine) Evaluate(source string) ([]EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		evalErrs, err := e.evaluate(source)
		ch <- evalResult{errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) ([]EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, e.service)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return parseZygomysError(err), nil
	}

	return nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers when the message carries them.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
