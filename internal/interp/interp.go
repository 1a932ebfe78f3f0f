// Package interp implements the Forthic interpreter: a token loop over a
// streaming lexer, a value stack, and a module scope chain.
package interp

import (
	"log/slog"
	"time"

	"forthic/internal/errors"
	"forthic/internal/lexer"
	"forthic/internal/literals"
	"forthic/internal/stack"
	"forthic/internal/token"
	"forthic/internal/value"
	"forthic/internal/words"
)

// compileState tracks an open ": NAME" or "@: NAME" until its ';'. The body
// is captured verbatim from the source between bodyStart and the semicolon.
type compileState struct {
	name      string
	memo      bool
	bodyStart int
	loc       token.CodeLocation
}

// ProfileEntry records one word dispatch while profiling is on.
type ProfileEntry struct {
	Word  string
	Start time.Time
	End   time.Time
}

type Interpreter struct {
	stack       *stack.Stack
	lex         *lexer.Lexer
	app         *words.Module
	moduleStack []*words.Module
	lastPopped  *words.Module

	tz       *time.Location
	handlers []literals.Handler

	compile *compileState
	depth   int

	profiling bool
	profile   []ProfileEntry
}

// New creates an interpreter with an empty application module. An empty
// timezone name means UTC.
func New(timezone string) (*Interpreter, error) {
	tz := time.UTC
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, err
		}
		tz = loc
	}
	app := words.NewModule("")
	return &Interpreter{
		stack:       stack.New(),
		lex:         lexer.New(),
		app:         app,
		moduleStack: []*words.Module{app},
		tz:          tz,
		handlers:    literals.Default(tz),
	}, nil
}

// Run executes Forthic source. At the top level the source is appended to
// the persistent lexer, so a call that ends mid-string or mid-comment simply
// returns and the next call continues the construct. Re-entrant calls (a
// definition body running) use a private lexer and must be complete.
func (i *Interpreter) Run(source string) error {
	if i.depth == 0 {
		i.lex.Append(source)
		return i.runLoop(i.lex, true)
	}
	sub := lexer.New()
	sub.Append(source)
	return i.runLoop(sub, false)
}

// RunInModule executes source with the named registered module as the
// current module. Failures are wrapped with the module name.
func (i *Interpreter) RunInModule(name, source string) error {
	m, err := i.app.FindModule(name)
	if err != nil {
		return err
	}
	i.ModulePush(m)
	err = i.Run(source)
	if _, popErr := i.ModulePop(); popErr != nil && err == nil {
		err = popErr
	}
	if err != nil {
		return &errors.WordError{Word: name, Err: err}
	}
	return nil
}

// Reset clears the stack, the scope chain and any half-open definition, and
// starts a fresh token stream. Registered words and modules survive.
func (i *Interpreter) Reset() {
	i.stack.Clear()
	i.lex = lexer.New()
	i.moduleStack = i.moduleStack[:1]
	i.lastPopped = nil
	i.compile = nil
	i.profiling = false
	i.profile = nil
}

func (i *Interpreter) runLoop(lx *lexer.Lexer, streaming bool) error {
	i.depth++
	defer func() { i.depth-- }()

	for {
		tok, err := lx.NextToken()
		if err == lexer.ErrMoreInput {
			if streaming {
				// Wait for the next Run call to finish the construct.
				return nil
			}
			loc := lx.Pos()
			excerpt := lx.Slice(loc, loc)
			return &errors.ParseError{
				Note: "unterminated string or comment",
				Loc:  &token.CodeLocation{Start: loc, End: loc + 1, Excerpt: excerpt, ExcerptStart: loc},
			}
		}
		if err != nil {
			return err
		}

		done, err := i.handleToken(lx, tok)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (i *Interpreter) handleToken(lx *lexer.Lexer, tok token.Token) (bool, error) {
	// While a definition is open, tokens belong to the captured body and
	// only the tokens that close or illegally nest definitions matter.
	if i.compile != nil {
		switch tok.Type {
		case token.START_DEF, token.START_MEMO:
			i.compile = nil
			return false, &errors.ParseError{Note: "definition inside definition", Text: tok.Text, Loc: &tok.Loc}
		case token.END_DEF:
			return false, i.finishDefinition(lx, tok)
		case token.EOS:
			name, loc := i.compile.name, i.compile.loc
			i.compile = nil
			return false, &errors.ParseError{Note: "definition missing ';'", Text: name, Loc: &loc}
		default:
			return false, nil
		}
	}

	switch tok.Type {
	case token.EOS:
		return true, nil
	case token.COMMENT:
		return false, nil
	case token.STRING:
		i.stack.Push(&value.Str{Value: tok.Text})
	case token.DOT_SYMBOL:
		// Dot symbols keep their leading '.' so they can act as option
		// markers downstream.
		i.stack.Push(&value.Str{Value: tok.Text})
	case token.START_ARRAY:
		i.stack.Push(value.MARKER)
	case token.END_ARRAY:
		return false, i.endArray(tok)
	case token.START_MODULE:
		i.ModulePush(words.NewModule(""))
	case token.END_MODULE:
		m, err := i.ModulePop()
		if err != nil {
			return false, errors.WithLocation(err, &tok.Loc)
		}
		i.lastPopped = m
	case token.START_DEF, token.START_MEMO:
		i.compile = &compileState{
			name:      tok.Text,
			memo:      tok.Type == token.START_MEMO,
			bodyStart: tok.Loc.End,
			loc:       tok.Loc,
		}
	case token.END_DEF:
		return false, &errors.ParseError{Note: "';' without definition", Loc: &tok.Loc}
	case token.WORD:
		return false, i.handleWord(tok)
	}
	return false, nil
}

func (i *Interpreter) finishDefinition(lx *lexer.Lexer, tok token.Token) error {
	c := i.compile
	i.compile = nil
	body := lx.Slice(c.bodyStart, tok.Loc.Start)
	loc := c.loc
	def := words.NewDefinitionWord(c.name, body, &loc)
	if c.memo {
		i.CurModule().AddMemoWords(def, false)
	} else {
		i.CurModule().AddWord(def)
	}
	slog.Debug("defined word", "name", c.name, "memo", c.memo)
	return nil
}

// endArray collects values down to the nearest array marker and pushes them
// as an array in source order.
func (i *Interpreter) endArray(tok token.Token) error {
	var items []value.Value
	for {
		v, err := i.stack.Pop()
		if err != nil {
			return errors.WithLocation(err, &tok.Loc)
		}
		if _, isMarker := v.(*value.ArrayMarker); isMarker {
			break
		}
		items = append(items, v)
	}
	for left, right := 0, len(items)-1; left < right; left, right = left+1, right-1 {
		items[left], items[right] = items[right], items[left]
	}
	i.stack.Push(&value.Array{Items: items})
	return nil
}

// handleWord tries literal handlers in order, then resolves the word through
// the scope chain from innermost module out.
func (i *Interpreter) handleWord(tok token.Token) error {
	for _, handler := range i.handlers {
		if v := handler(tok.Text); v != nil {
			i.stack.Push(v)
			return nil
		}
	}

	for j := len(i.moduleStack) - 1; j >= 0; j-- {
		w, err := i.moduleStack[j].FindWord(tok.Text)
		if err != nil {
			continue
		}
		return i.executeWord(w, &tok.Loc)
	}
	return &errors.UnknownWord{Word: tok.Text, Loc: &tok.Loc}
}

func (i *Interpreter) executeWord(w words.Word, loc *token.CodeLocation) error {
	slog.Debug("execute word", "word", w.Name())
	// Nested dispatches can grow the profile slice, so keep the index, not a
	// pointer into it.
	idx := -1
	if i.profiling {
		idx = len(i.profile)
		i.profile = append(i.profile, ProfileEntry{Word: w.Name(), Start: time.Now()})
	}
	err := w.Execute(i)
	if idx >= 0 && idx < len(i.profile) {
		// A PROFILE-START inside the word resets the buffer; skip then.
		i.profile[idx].End = time.Now()
	}
	return errors.WithLocation(err, loc)
}

// ----- words.Interp -----

func (i *Interpreter) StackPush(v value.Value) {
	i.stack.Push(v)
}

func (i *Interpreter) StackPop() (value.Value, error) {
	return i.stack.Pop()
}

func (i *Interpreter) StackPeek() value.Value {
	return i.stack.Peek()
}

// Stack exposes the value stack for hosts and tests.
func (i *Interpreter) Stack() *stack.Stack {
	return i.stack
}

func (i *Interpreter) CurModule() *words.Module {
	return i.moduleStack[len(i.moduleStack)-1]
}

func (i *Interpreter) AppModule() *words.Module {
	return i.app
}

func (i *Interpreter) ModulePush(m *words.Module) {
	i.moduleStack = append(i.moduleStack, m)
}

func (i *Interpreter) ModulePop() (*words.Module, error) {
	if len(i.moduleStack) <= 1 {
		return nil, &errors.ParseError{Note: "no module to close"}
	}
	m := i.moduleStack[len(i.moduleStack)-1]
	i.moduleStack = i.moduleStack[:len(i.moduleStack)-1]
	return m, nil
}

func (i *Interpreter) LastPoppedModule() *words.Module {
	return i.lastPopped
}

// RegisterModule makes a module findable by name and importable from code.
func (i *Interpreter) RegisterModule(m *words.Module) {
	i.app.RegisterModule(m)
}

func (i *Interpreter) FindModule(name string) (*words.Module, error) {
	return i.app.FindModule(name)
}

// ImportModule imports a module into the application module under a prefix.
func (i *Interpreter) ImportModule(m *words.Module, prefix string) {
	i.app.RegisterModule(m)
	i.app.ImportModule(m, prefix)
}

func (i *Interpreter) Timezone() *time.Location {
	return i.tz
}

// SetTimezone switches the zone used for naive datetime literals and the
// datetime words.
func (i *Interpreter) SetTimezone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	i.tz = loc
	i.handlers = literals.Default(loc)
	return nil
}

// ----- profiling -----

func (i *Interpreter) StartProfiling() {
	i.profiling = true
	i.profile = nil
}

func (i *Interpreter) StopProfiling() {
	i.profiling = false
}

// Profile returns the raw dispatch records collected so far.
func (i *Interpreter) Profile() []ProfileEntry {
	out := make([]ProfileEntry, len(i.profile))
	copy(out, i.profile)
	return out
}

// ProfileReport aggregates the collected dispatches into an array of
// {word, count, micros} records.
func (i *Interpreter) ProfileReport() value.Value {
	type agg struct {
		count  int64
		micros int64
	}
	byWord := map[string]*agg{}
	var order []string
	for _, e := range i.profile {
		a, ok := byWord[e.Word]
		if !ok {
			a = &agg{}
			byWord[e.Word] = a
			order = append(order, e.Word)
		}
		a.count++
		a.micros += e.End.Sub(e.Start).Microseconds()
	}

	items := make([]value.Value, 0, len(order))
	for _, word := range order {
		a := byWord[word]
		rec := value.NewRecord()
		rec.Fields["word"] = &value.Str{Value: word}
		rec.Fields["count"] = &value.Int{Value: a.count}
		rec.Fields["micros"] = &value.Int{Value: a.micros}
		items = append(items, rec)
	}
	return &value.Array{Items: items}
}
