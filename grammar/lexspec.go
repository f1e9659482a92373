package grammar

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nihei9/lookahead/spec"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
)

// lexSpecName names the compiled lexical specification. The lexer generator
// requires a snake_case identifier.
const lexSpecName = "lookahead"

// checkLexicalPatterns compiles the token definitions into a lexical
// specification and reports the definitions the lexer generator rejects.
func (a *analysis) checkLexicalPatterns() bool {
	ls := a.genLexSpec()
	if len(ls.entries) == 0 {
		return true
	}

	tracer().Debugf("compiling %v lexical entries", len(ls.entries))
	_, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    lexSpecName,
		Entries: ls.entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err == nil {
		return true
	}
	if len(cErrs) == 0 {
		a.diags.errorf(CodeInvalidTokenPattern, semErrInvalidTokenPattern, ls.firstPos(), "%v", err)
		return false
	}
	for _, cErr := range cErrs {
		var b strings.Builder
		writeCompileError(&b, cErr, ls)
		re, ok := ls.kind2Regexp[cErr.Kind]
		if !ok {
			a.diags.errorf(CodeInvalidTokenPattern, semErrInvalidTokenPattern, ls.firstPos(), "%v", b.String())
			continue
		}
		a.diags.errorf(CodeInvalidTokenPattern, semErrInvalidTokenPattern, re.Pos, "%v", b.String())
	}
	return false
}

type lexSpec struct {
	entries     []*mlspec.LexEntry
	kind2Regexp map[mlspec.LexKindName]*Regexp
}

func (ls *lexSpec) firstPos() (pos spec.Position) {
	for _, e := range ls.entries {
		if re, ok := ls.kind2Regexp[e.Kind]; ok {
			return re.Pos
		}
	}
	return pos
}

func (ls *lexSpec) name(kind mlspec.LexKindName) string {
	re, ok := ls.kind2Regexp[kind]
	if !ok {
		return string(kind)
	}
	if re.Label != "" {
		return "<" + re.Label + ">"
	}
	if re.Kind == RegexpKindString {
		return fmt.Sprintf("%q", re.Text)
	}
	return string(kind)
}

func writeCompileError(w *strings.Builder, cErr *mlcompiler.CompileError, ls *lexSpec) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", ls.name(cErr.Kind), cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

func fragmentName(id RegexpID) mlspec.LexKindName {
	return mlspec.LexKindName(fmt.Sprintf("f_%v", id))
}

func (a *analysis) genLexSpec() *lexSpec {
	ls := &lexSpec{
		kind2Regexp: map[mlspec.LexKindName]*Regexp{},
	}
	for _, tp := range a.g.tokenProductions {
		for _, rs := range tp.Specs {
			re := a.g.Regexp(rs.Regexp)
			if !isDefinition(re) || a.attrs.ignored[re.ID] || a.attrs.merged[re.ID] {
				continue
			}
			pattern, ok := a.genPattern(re.ID, tp.IgnoreCase)
			if !ok {
				continue
			}
			if re.Label != "" {
				kind := fragmentName(re.ID)
				ls.kind2Regexp[kind] = re
				ls.entries = append(ls.entries, &mlspec.LexEntry{
					Fragment: true,
					Kind:     kind,
					Pattern:  mlspec.LexPattern(pattern),
				})
			}
			if re.Private {
				continue
			}

			var modes []mlspec.LexModeName
			for _, state := range tp.States {
				modes = append(modes, a.modeName(state))
			}
			var push mlspec.LexModeName
			if rs.NextState != "" {
				push = a.modeName(rs.NextState)
			}
			kind := mlspec.LexKindName(fmt.Sprintf("t_%v", a.attrs.ordinal[re.ID]))
			ls.kind2Regexp[kind] = re
			ls.entries = append(ls.entries, &mlspec.LexEntry{
				Modes:   modes,
				Kind:    kind,
				Pattern: mlspec.LexPattern(pattern),
				Push:    push,
			})
		}
	}
	return ls
}

func (a *analysis) modeName(state string) mlspec.LexModeName {
	if state == DefaultLexicalState {
		return mlspec.LexModeNameDefault
	}
	for i, s := range a.g.LexicalStates() {
		if s == state {
			return mlspec.LexModeName(fmt.Sprintf("s_%v", i))
		}
	}
	return mlspec.LexModeName(state)
}

// genPattern translates a regular expression into the pattern syntax of the
// lexer generator. It reports false when the expression refers to a token
// that has no definition, such as <EOF>.
func (a *analysis) genPattern(id RegexpID, ignoreCase bool) (string, bool) {
	re := a.g.Regexp(id)
	switch re.Kind {
	case RegexpKindString:
		if !ignoreCase {
			return mlspec.EscapePattern(re.Text), true
		}
		var b strings.Builder
		for _, r := range re.Text {
			lower, upper := unicode.ToLower(r), unicode.ToUpper(r)
			if lower == upper {
				b.WriteString(mlspec.EscapePattern(string(r)))
				continue
			}
			fmt.Fprintf(&b, "[%c%c]", lower, upper)
		}
		return b.String(), true
	case RegexpKindPattern:
		return "(" + re.Text + ")", true
	case RegexpKindRef:
		target := a.attrs.refTarget[id]
		if target.IsNil() {
			return "", false
		}
		return fmt.Sprintf(`\f{%v}`, fragmentName(target)), true
	case RegexpKindSequence, RegexpKindChoice:
		elems := make([]string, 0, len(re.Children))
		for _, c := range re.Children {
			p, ok := a.genPattern(c, ignoreCase)
			if !ok {
				return "", false
			}
			elems = append(elems, p)
		}
		if re.Kind == RegexpKindChoice {
			return "(" + strings.Join(elems, "|") + ")", true
		}
		return strings.Join(elems, ""), true
	case RegexpKindZeroOrOne, RegexpKindZeroOrMore, RegexpKindOneOrMore:
		p, ok := a.genPattern(re.Children[0], ignoreCase)
		if !ok {
			return "", false
		}
		op := "?"
		switch re.Kind {
		case RegexpKindZeroOrMore:
			op = "*"
		case RegexpKindOneOrMore:
			op = "+"
		}
		return "(" + p + ")" + op, true
	}
	return "", false
}
