package eval_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vlang-run/vlang/internal/builtin"
	"github.com/vlang-run/vlang/internal/eval"
	"github.com/vlang-run/vlang/internal/lexer"
	"github.com/vlang-run/vlang/internal/token"
)

// runScript lexes and runs src with print/len/str/num registered,
// returning everything written by print and the interpreter used (so
// callers can inspect Clean() / Result afterward).
func runScript(t *testing.T, src string) (string, *eval.Interp) {
	t.Helper()
	toks, lexErr := lexer.Scan(src)
	if lexErr != nil {
		t.Fatalf("Scan(%q): %v", src, lexErr)
	}
	cur := token.NewCursor(src, toks)
	interp := eval.New("<test>", cur)
	var out bytes.Buffer
	builtin.Register(interp.Scope, &out)
	if err := interp.Run(); err != nil {
		t.Fatalf("Run(%q): %v", src, err)
	}
	return out.String(), interp
}

func TestScenarioArithmeticPrecedence(t *testing.T) {
	out, _ := runScript(t, `let a = 2 + 3 * 4; print(a);`)
	if strings.TrimRight(out, "\n") != "14" {
		t.Fatalf("output = %q, want %q", out, "14\n")
	}
}

func TestScenarioClassicForLoopStringBuild(t *testing.T) {
	out, _ := runScript(t, `let s = ""; for (let i = 0; i < 3; i += 1) { s += "x"; } print(s);`)
	if strings.TrimRight(out, "\n") != "xxx" {
		t.Fatalf("output = %q, want %q", out, "xxx\n")
	}
}

func TestScenarioRecursiveFactorial(t *testing.T) {
	out, _ := runScript(t, `function fact(n) { if (n <= 1) { return 1; } return n * fact(n - 1); } print(fact(5));`)
	if strings.TrimRight(out, "\n") != "120" {
		t.Fatalf("output = %q, want %q", out, "120\n")
	}
}

func TestScenarioForOfOverObjectValues(t *testing.T) {
	out, _ := runScript(t, `let o = {a:1, b:2}; let sum = 0; for (let v of o) { sum += v; } print(sum);`)
	if strings.TrimRight(out, "\n") != "3" {
		t.Fatalf("output = %q, want %q", out, "3\n")
	}
}

func TestScenarioClosuresCaptureDistinctBindings(t *testing.T) {
	out, _ := runScript(t, `let mk = function(n){ return function(){ return n; }; }; let f = mk(7); let g = mk(9); print(f() + g());`)
	if strings.TrimRight(out, "\n") != "16" {
		t.Fatalf("output = %q, want %q", out, "16\n")
	}
}

func TestScenarioArraySpreadInLiteral(t *testing.T) {
	out, _ := runScript(t, `let xs = [1,2,3]; let ys = [0, ...xs, 4]; print(ys);`)
	if strings.TrimRight(out, "\n") != "[0,1,2,3,4]" {
		t.Fatalf("output = %q, want %q", out, "[0,1,2,3,4]\n")
	}
}

func TestClosureCaptureAccumulatesAcrossCalls(t *testing.T) {
	out, _ := runScript(t, `
		let f = (function(){ let x = 0; return function(){ x += 1; return x; }; })();
		print(f());
		print(f());
		print(f());
	`)
	got := strings.Fields(out)
	want := []string{"1", "2", "3"}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("output = %v, want %v", got, want)
	}
}

func TestTypeofResults(t *testing.T) {
	out, _ := runScript(t, `
		print(typeof null);
		print(typeof 0);
		print(typeof "");
		print(typeof []);
		print(typeof {});
		print(typeof function(){});
	`)
	got := strings.Fields(out)
	want := []string{"null", "number", "string", "array", "object", "function"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("typeof result[%d] = %q, want %q (all: %v)", i, got[i], w, got)
		}
	}
}

func TestTypeofUndeclaredStillErrors(t *testing.T) {
	toks, lexErr := lexer.Scan(`typeof nope;`)
	if lexErr != nil {
		t.Fatalf("Scan: %v", lexErr)
	}
	cur := token.NewCursor(`typeof nope;`, toks)
	interp := eval.New("<test>", cur)
	var out bytes.Buffer
	builtin.Register(interp.Scope, &out)
	if err := interp.Run(); err == nil {
		t.Fatal("typeof of an undeclared identifier should still raise a reference error")
	}
}

func TestObjectIterationOrderIsInsertionOrder(t *testing.T) {
	out, _ := runScript(t, `for (let k in {a:1,b:2,c:3}) { print(k); }`)
	got := strings.Fields(out)
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("iteration order = %v, want %v", got, want)
		}
	}
}

func TestBreakOnlyAffectsInnermostLoop(t *testing.T) {
	out, _ := runScript(t, `
		let hits = 0;
		for (let i = 0; i < 3; i += 1) {
			for (let j = 0; j < 3; j += 1) {
				if (j == 1) { break; }
				hits += 1;
			}
		}
		print(hits);
	`)
	if strings.TrimRight(out, "\n") != "3" {
		t.Fatalf("output = %q, want %q (break should only stop the inner loop once per outer iteration)", out, "3\n")
	}
}

func TestContinueOnlyAffectsInnermostLoop(t *testing.T) {
	out, _ := runScript(t, `
		let hits = 0;
		for (let i = 0; i < 2; i += 1) {
			for (let j = 0; j < 3; j += 1) {
				if (j == 1) { continue; }
				hits += 1;
			}
		}
		print(hits);
	`)
	if strings.TrimRight(out, "\n") != "4" {
		t.Fatalf("output = %q, want %q", out, "4\n")
	}
}

func TestCleanAfterSuccessfulTopLevelRun(t *testing.T) {
	_, interp := runScript(t, `let x = 1; let y = x + 1;`)
	if !interp.Clean() {
		t.Fatal("Clean() should hold after a successful top-level run: only the global frame, no pending flags, undefined result")
	}
}

// TestSkimAndExecuteReachSameFinalCursorPosition exercises spec §8's
// "skim and execute consume the same token count" property: the same
// program, differing only in which branch of an if/else the condition
// selects, must fully consume every token of both branches (one
// executed, one skimmed) and land on the same final cursor index.
func TestSkimAndExecuteReachSameFinalCursorPosition(t *testing.T) {
	run := func(cond string) int {
		src := `let flag = ` + cond + `; if (flag) { let a = 1 + 2 * 3; let b = [1,2,3]; } else { let c = "x" + "y"; let d = !false; } let done = true;`
		toks, err := lexer.Scan(src)
		if err != nil {
			t.Fatalf("Scan(%q): %v", src, err)
		}
		cur := token.NewCursor(src, toks)
		interp := eval.New("<test>", cur)
		builtin.Register(interp.Scope, &bytes.Buffer{})
		if err := interp.Run(); err != nil {
			t.Fatalf("Run(%q): %v", src, err)
		}
		if cur.Pos() != len(toks)-1 {
			t.Fatalf("cursor stopped at %d, want %d (end of tokens before EOF)", cur.Pos(), len(toks)-1)
		}
		return cur.Pos()
	}
	if got, want := run("true"), run("false"); got != want {
		t.Fatalf("final cursor positions differ: true-branch=%d false-branch=%d", got, want)
	}
}

func TestDefaultParameterAndRestBinding(t *testing.T) {
	out, _ := runScript(t, `
		function greet(name, punct = "!", ...rest) {
			print(name + punct);
			print(len(rest));
		}
		greet("hi");
		greet("hi", "?", 1, 2);
	`)
	got := strings.Fields(out)
	want := []string{"hi!", "0", "hi?", "2"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("output[%d] = %q, want %q (all: %v)", i, got[i], w, got)
		}
	}
}

func TestOptionalChainingOnNullReturnsNullAndFailsOnWrite(t *testing.T) {
	out, _ := runScript(t, `let o = null; print(o?.x);`)
	if strings.TrimRight(out, "\n") != "null" {
		t.Fatalf("output = %q, want %q", out, "null\n")
	}

	src := `let o = null; o?.x = 1;`
	toks, lexErr := lexer.Scan(src)
	if lexErr != nil {
		t.Fatalf("Scan: %v", lexErr)
	}
	cur := token.NewCursor(src, toks)
	interp := eval.New("<test>", cur)
	builtin.Register(interp.Scope, &bytes.Buffer{})
	if err := interp.Run(); err == nil {
		t.Fatal("assigning through an optional-chain accessor on a null holder should fail")
	}
}

// TestDivisionAndModuloByZeroProduceIEEE754Specials matches the
// original implementation's bare float division: no runtime error on
// a zero divisor, just Infinity/-Infinity/NaN propagating like any
// other number.
func TestDivisionAndModuloByZeroProduceIEEE754Specials(t *testing.T) {
	out, _ := runScript(t, `
		print(1 / 0);
		print(-1 / 0);
		print(0 / 0);
		print(5 % 0);
		let n = 10; n /= 0; print(n);
	`)
	got := strings.Fields(out)
	want := []string{"Infinity", "-Infinity", "NaN", "NaN", "Infinity"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("result[%d] = %q, want %q (all: %v)", i, got[i], w, got)
		}
	}
}

// TestOutOfRangeAccessYieldsNullNotUndefined exercises spec §3's
// invariant that undefined is an internal-only marker never observable
// from script: a missing array slot or object key reads back as null.
func TestOutOfRangeAccessYieldsNullNotUndefined(t *testing.T) {
	out, _ := runScript(t, `
		let a = [1, 2];
		print(a[99]);
		print(typeof a[99]);
		let o = {x: 1};
		print(o.missing);
		print(typeof o.missing);
	`)
	got := strings.Fields(out)
	want := []string{"null", "null", "null", "null"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("result[%d] = %q, want %q (all: %v)", i, got[i], w, got)
		}
	}
}
