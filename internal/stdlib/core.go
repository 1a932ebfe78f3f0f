package stdlib

import (
	"strings"

	"forthic/internal/errors"
	"forthic/internal/options"
	"forthic/internal/value"
	"forthic/internal/words"
)

// NewCoreModule builds the core module: stack shuffling, variables, module
// plumbing, interpretation and profiling.
func NewCoreModule() *words.Module {
	m := words.NewModule("core")

	addWord(m, "POP", wordPop)
	addWord(m, "DUP", wordDup)
	addWord(m, "SWAP", wordSwap)

	addWord(m, "VARIABLES", wordVariables)
	addWord(m, "!", wordStore)
	addWord(m, "@", wordFetch)
	addWord(m, "!@", wordStoreFetch)

	addWord(m, "IDENTITY", wordNop)
	addWord(m, "NOP", wordNop)
	addWord(m, "NULL", wordNull)
	addWord(m, "ARRAY?", wordIsArray)
	addWord(m, "DEFAULT", wordDefault)
	addWord(m, "~>", wordToOptions)

	addWord(m, "EXPORT", wordExport)
	addWord(m, "USE-MODULE", wordUseModule)
	addWord(m, "INTERPRET", wordInterpret)
	addWord(m, "MEMO", wordMemo)

	addWord(m, "PROFILE-START", wordProfileStart)
	addWord(m, "PROFILE-END", wordProfileEnd)
	addWord(m, "PROFILE-REPORT", wordProfileReport)

	return m
}

func wordPop(ctx words.Interp) error {
	_, err := ctx.StackPop()
	return err
}

func wordDup(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	ctx.StackPush(v)
	ctx.StackPush(v.Clone())
	return nil
}

func wordSwap(ctx words.Interp) error {
	b, err := ctx.StackPop()
	if err != nil {
		return err
	}
	a, err := ctx.StackPop()
	if err != nil {
		return err
	}
	ctx.StackPush(b)
	ctx.StackPush(a)
	return nil
}

// wordVariables declares every name in an array as a variable of the current
// module. Names starting with "__" are reserved.
func wordVariables(ctx words.Interp) error {
	arr, err := popArray(ctx)
	if err != nil {
		return err
	}
	for _, item := range arr.Items {
		name, ok := value.AsString(item)
		if !ok {
			continue
		}
		if err := checkVarName(name); err != nil {
			return err
		}
		ctx.CurModule().DeclareVariable(name)
	}
	return nil
}

// wordStore is "!": ( value varname -- ). The variable is declared on first
// use.
func wordStore(ctx words.Interp) error {
	name, err := popString(ctx)
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	if err := checkVarName(name); err != nil {
		return err
	}
	ctx.CurModule().DeclareVariable(name).Set(v)
	return nil
}

// wordFetch is "@": ( varname -- value ). Fetching an undeclared variable
// declares it and yields NULL.
func wordFetch(ctx words.Interp) error {
	name, err := popString(ctx)
	if err != nil {
		return err
	}
	if err := checkVarName(name); err != nil {
		return err
	}
	ctx.StackPush(ctx.CurModule().DeclareVariable(name).Get())
	return nil
}

// wordStoreFetch is "!@": stores like "!" but leaves the value on the stack.
func wordStoreFetch(ctx words.Interp) error {
	name, err := popString(ctx)
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	if err := checkVarName(name); err != nil {
		return err
	}
	ctx.CurModule().DeclareVariable(name).Set(v)
	ctx.StackPush(v)
	return nil
}

func checkVarName(name string) error {
	if strings.HasPrefix(name, "__") {
		return &errors.ParseError{Note: "variable names may not start with '__'", Text: name}
	}
	return nil
}

func wordNop(ctx words.Interp) error {
	return nil
}

func wordNull(ctx words.Interp) error {
	ctx.StackPush(value.NULL)
	return nil
}

func wordIsArray(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	_, isArray := v.(*value.Array)
	ctx.StackPush(value.FromBool(isArray))
	return nil
}

// wordDefault replaces NULL or the empty string with a fallback:
// ( value default -- value-or-default ).
func wordDefault(ctx words.Interp) error {
	fallback, err := ctx.StackPop()
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	if value.IsNull(v) {
		ctx.StackPush(fallback)
		return nil
	}
	if s, ok := value.AsString(v); ok && s == "" {
		ctx.StackPush(fallback)
		return nil
	}
	ctx.StackPush(v)
	return nil
}

// wordToOptions is "~>": converts a flat option array into a record of
// option key/value pairs. A non-array or malformed array yields NULL.
func wordToOptions(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	arr, ok := value.AsArray(v)
	if !ok {
		ctx.StackPush(value.NULL)
		return nil
	}
	opts, err := options.FromArray(arr.Items)
	if err != nil {
		ctx.StackPush(value.NULL)
		return nil
	}
	ctx.StackPush(opts.ToRecord())
	return nil
}

// wordExport marks an array of word names as exported from the current
// module.
func wordExport(ctx words.Interp) error {
	arr, err := popArray(ctx)
	if err != nil {
		return err
	}
	for _, item := range arr.Items {
		if name, ok := value.AsString(item); ok {
			ctx.CurModule().ExportWord(name)
		}
	}
	return nil
}

// wordUseModule imports the most recently closed "{ ... }" block into the
// current module: ( prefix -- ). A NULL or empty prefix imports without
// qualification.
func wordUseModule(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	prefix := ""
	if s, ok := value.AsString(v); ok {
		prefix = s
	}
	m := ctx.LastPoppedModule()
	if m == nil {
		return &errors.ParseError{Note: "no module block to import"}
	}
	ctx.CurModule().ImportModule(m, prefix)
	return nil
}

// wordInterpret runs a string as Forthic against the live stack.
func wordInterpret(ctx words.Interp) error {
	source, err := popString(ctx)
	if err != nil {
		return err
	}
	return ctx.Run(source)
}

// wordMemo defines a memoized word from a name and a Forthic string:
// ( name forthic -- ). The usual "NAME!" and "NAME!@" companions come along.
func wordMemo(ctx words.Interp) error {
	source, err := popString(ctx)
	if err != nil {
		return err
	}
	name, err := popString(ctx)
	if err != nil {
		return err
	}
	def := words.NewDefinitionWord(name, source, nil)
	ctx.CurModule().AddMemoWords(def, false)
	return nil
}

func wordProfileStart(ctx words.Interp) error {
	ctx.StartProfiling()
	return nil
}

func wordProfileEnd(ctx words.Interp) error {
	ctx.StopProfiling()
	return nil
}

func wordProfileReport(ctx words.Interp) error {
	ctx.StackPush(ctx.ProfileReport())
	return nil
}
