// Package words defines the word and module model: the callable units the
// interpreter dispatches and the namespaces that hold them.
package words

import (
	"sync"
	"time"

	"forthic/internal/errors"
	"forthic/internal/token"
	"forthic/internal/value"
)

// Interp is the view of the interpreter that words execute against. The
// interp package provides the concrete implementation; words only depend on
// this interface.
type Interp interface {
	StackPush(v value.Value)
	StackPop() (value.Value, error)
	StackPeek() value.Value

	CurModule() *Module
	AppModule() *Module
	ModulePush(m *Module)
	ModulePop() (*Module, error)
	// LastPoppedModule returns the module most recently closed by '}'.
	LastPoppedModule() *Module
	FindModule(name string) (*Module, error)

	// Run executes Forthic source against the current stack and scope chain.
	Run(source string) error

	Timezone() *time.Location

	StartProfiling()
	StopProfiling()
	ProfileReport() value.Value
}

type Word interface {
	Name() string
	Execute(ctx Interp) error
	IsMemo() bool
	Location() *token.CodeLocation
}

type baseWord struct {
	name string
	loc  *token.CodeLocation
}

func (w *baseWord) Name() string                  { return w.name }
func (w *baseWord) IsMemo() bool                  { return false }
func (w *baseWord) Location() *token.CodeLocation { return w.loc }

// PushValueWord pushes a copy of a fixed value.
type PushValueWord struct {
	baseWord
	value value.Value
}

func NewPushValueWord(name string, v value.Value) *PushValueWord {
	return &PushValueWord{baseWord: baseWord{name: name}, value: v}
}

func (w *PushValueWord) Execute(ctx Interp) error {
	ctx.StackPush(w.value.Clone())
	return nil
}

// DefinitionWord holds the verbatim source text between a definition's name
// and its ';'. Executing it re-runs that text against the live stack and
// scope chain, so the body sees whatever modules are open at call time.
type DefinitionWord struct {
	baseWord
	source string
}

func NewDefinitionWord(name, source string, loc *token.CodeLocation) *DefinitionWord {
	return &DefinitionWord{baseWord: baseWord{name: name, loc: loc}, source: source}
}

func (w *DefinitionWord) Source() string { return w.source }

// NeedsModuleScope marks words whose execution re-enters Run and therefore
// must see their defining module on the scope chain.
func (w *DefinitionWord) NeedsModuleScope() bool { return true }

func (w *DefinitionWord) Execute(ctx Interp) error {
	if err := ctx.Run(w.source); err != nil {
		return &errors.WordError{Word: w.name, Loc: w.loc, Err: err}
	}
	return nil
}

// NativeFunc is the signature of a word implemented in Go.
type NativeFunc func(ctx Interp) error

// ErrorHandler can intercept a failure from a native word. Returning nil
// suppresses the error.
type ErrorHandler interface {
	Handle(err error, wordName string, ctx Interp) error
}

// NativeWord wraps a Go function plus an ordered list of error handlers that
// are tried when the function fails.
type NativeWord struct {
	baseWord
	fn       NativeFunc
	mu       sync.Mutex
	handlers []ErrorHandler
}

func NewNativeWord(name string, fn NativeFunc) *NativeWord {
	return &NativeWord{baseWord: baseWord{name: name}, fn: fn}
}

func (w *NativeWord) AddErrorHandler(h ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

func (w *NativeWord) Execute(ctx Interp) error {
	err := w.fn(ctx)
	if err == nil {
		return nil
	}
	w.mu.Lock()
	handlers := make([]ErrorHandler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()
	for _, h := range handlers {
		if handled := h.Handle(err, w.name, ctx); handled == nil {
			return nil
		}
	}
	return err
}

// MemoWord caches the single value its inner word leaves on the stack. The
// cache is guarded so concurrent interpreters sharing a module observe either
// the cached value or a full recomputation, never a torn state.
type MemoWord struct {
	baseWord
	inner Word

	mu     sync.Mutex
	cached value.Value
	filled bool
}

func NewMemoWord(inner Word) *MemoWord {
	return &MemoWord{baseWord: baseWord{name: inner.Name(), loc: inner.Location()}, inner: inner}
}

func (w *MemoWord) IsMemo() bool { return true }

func (w *MemoWord) NeedsModuleScope() bool { return needsModuleScope(w.inner) }

func (w *MemoWord) Execute(ctx Interp) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.filled {
		ctx.StackPush(w.cached.Clone())
		return nil
	}
	return w.refreshLocked(ctx)
}

// Clear drops the cached value without recomputing.
func (w *MemoWord) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cached = nil
	w.filled = false
}

// Refresh recomputes the value and leaves the fresh copy on the stack.
func (w *MemoWord) Refresh(ctx Interp) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cached = nil
	w.filled = false
	return w.refreshLocked(ctx)
}

func (w *MemoWord) refreshLocked(ctx Interp) error {
	if err := w.inner.Execute(ctx); err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	w.cached = v.Clone()
	w.filled = true
	ctx.StackPush(v)
	return nil
}

// MemoBangWord is the "NAME!" companion: it clears the memo cache and leaves
// the stack untouched.
type MemoBangWord struct {
	baseWord
	memo *MemoWord
}

func NewMemoBangWord(memo *MemoWord) *MemoBangWord {
	return &MemoBangWord{baseWord: baseWord{name: memo.Name() + "!"}, memo: memo}
}

func (w *MemoBangWord) Execute(ctx Interp) error {
	w.memo.Clear()
	return nil
}

// MemoBangAtWord is the "NAME!@" companion: it clears the cache, recomputes,
// and leaves the fresh value on the stack.
type MemoBangAtWord struct {
	baseWord
	memo *MemoWord
}

func NewMemoBangAtWord(memo *MemoWord) *MemoBangAtWord {
	return &MemoBangAtWord{baseWord: baseWord{name: memo.Name() + "!@"}, memo: memo}
}

func (w *MemoBangAtWord) Execute(ctx Interp) error {
	return w.memo.Refresh(ctx)
}

func (w *MemoBangAtWord) NeedsModuleScope() bool { return needsModuleScope(w.memo) }

// needsModuleScope reports whether executing w re-enters Run, in which case
// the word must see its defining module on the scope chain. Native words
// keep the caller's module so that variable and export words act on it.
func needsModuleScope(w Word) bool {
	if ms, ok := w.(interface{ NeedsModuleScope() bool }); ok {
		return ms.NeedsModuleScope()
	}
	return false
}

// ImportedWord resolves a word from another module at call time. Words that
// re-enter Run execute with the owning module pushed on the scope chain, so
// their bodies resolve against it; native words run in the caller's scope.
type ImportedWord struct {
	baseWord
	module *Module
	target string
}

func NewImportedWord(name string, module *Module, target string) *ImportedWord {
	return &ImportedWord{baseWord: baseWord{name: name}, module: module, target: target}
}

func (w *ImportedWord) NeedsModuleScope() bool { return true }

func (w *ImportedWord) Execute(ctx Interp) error {
	target, err := w.module.FindWord(w.target)
	if err != nil {
		return &errors.UnknownWord{Word: w.name}
	}
	if !needsModuleScope(target) {
		return target.Execute(ctx)
	}
	ctx.ModulePush(w.module)
	err = target.Execute(ctx)
	if _, popErr := ctx.ModulePop(); popErr != nil && err == nil {
		err = popErr
	}
	return err
}

// Variable is a named mutable slot scoped to a module.
type Variable struct {
	mu    sync.Mutex
	name  string
	value value.Value
}

func NewVariable(name string) *Variable {
	return &Variable{name: name, value: value.NULL}
}

func (v *Variable) Name() string { return v.name }

func (v *Variable) Get() value.Value {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

func (v *Variable) Set(val value.Value) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = val
}
