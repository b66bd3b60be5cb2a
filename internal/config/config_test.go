package config

import "testing"

func TestLoadFromFlagsWithArgsSplitsScriptAndItsArgv(t *testing.T) {
	c := New()
	if err := c.LoadFromFlagsWithArgs([]string{"-trace-file", "out.jsonl", "script.vl", "--flag", "arg"}); err != nil {
		t.Fatalf("LoadFromFlagsWithArgs: %v", err)
	}
	if c.TraceFile != "out.jsonl" {
		t.Fatalf("TraceFile = %q, want %q", c.TraceFile, "out.jsonl")
	}
	if c.ScriptFile != "script.vl" {
		t.Fatalf("ScriptFile = %q, want %q", c.ScriptFile, "script.vl")
	}
	want := []string{"--flag", "arg"}
	if len(c.Args) != len(want) || c.Args[0] != want[0] || c.Args[1] != want[1] {
		t.Fatalf("Args = %v, want %v", c.Args, want)
	}
}

func TestLoadFromFlagsWithArgsEvalMode(t *testing.T) {
	c := New()
	if err := c.LoadFromFlagsWithArgs([]string{"-c", "1 + 1"}); err != nil {
		t.Fatalf("LoadFromFlagsWithArgs: %v", err)
	}
	if c.EvalExpr != "1 + 1" {
		t.Fatalf("EvalExpr = %q, want %q", c.EvalExpr, "1 + 1")
	}
	if c.ScriptFile != "" {
		t.Fatalf("ScriptFile = %q, want empty in eval mode", c.ScriptFile)
	}
	if c.Mode() != ModeEval {
		t.Fatalf("Mode() = %v, want ModeEval", c.Mode())
	}
}

func TestLoadFromFlagsWithArgsReplMode(t *testing.T) {
	c := New()
	if err := c.LoadFromFlagsWithArgs([]string{"-repl"}); err != nil {
		t.Fatalf("LoadFromFlagsWithArgs: %v", err)
	}
	if !c.ReplMode || c.Mode() != ModeRepl {
		t.Fatalf("ReplMode=%v Mode()=%v, want true/ModeRepl", c.ReplMode, c.Mode())
	}
}

func TestLoadFromFlagsWithArgsNoScriptDefaultsToRepl(t *testing.T) {
	c := New()
	if err := c.LoadFromFlagsWithArgs(nil); err != nil {
		t.Fatalf("LoadFromFlagsWithArgs: %v", err)
	}
	if c.Mode() != ModeRepl {
		t.Fatalf("Mode() = %v, want ModeRepl", c.Mode())
	}
}

func TestLoadFromEnvOverridesDefaultsButFlagsWinAfter(t *testing.T) {
	t.Setenv("VLANG_PROMPT", "env> ")
	t.Setenv("VLANG_TRACE_FILE", "env-trace.jsonl")
	t.Setenv("VLANG_HISTORY_FILE", "env-history")

	c := New()
	c.LoadFromEnv()
	if c.Prompt != "env> " || c.TraceFile != "env-trace.jsonl" || c.HistoryFile != "env-history" {
		t.Fatalf("LoadFromEnv did not apply overrides: %+v", c)
	}

	if err := c.LoadFromFlagsWithArgs([]string{"-prompt", "flag> "}); err != nil {
		t.Fatalf("LoadFromFlagsWithArgs: %v", err)
	}
	if c.Prompt != "flag> " {
		t.Fatalf("Prompt = %q, want flag value to win over env", c.Prompt)
	}
	if c.TraceFile != "env-trace.jsonl" {
		t.Fatalf("TraceFile = %q, want env value preserved when flag absent", c.TraceFile)
	}
}

func TestValidateRejectsMultipleModes(t *testing.T) {
	c := New()
	c.ScriptFile = "a.vl"
	c.ReplMode = true
	if err := c.Validate(); err == nil {
		t.Fatal("Validate should reject a script file combined with -repl")
	}
}

func TestValidateAcceptsSingleMode(t *testing.T) {
	c := New()
	c.ScriptFile = "a.vl"
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil for a single mode", err)
	}
}

func TestModeDefaultsToReplWhenNothingSet(t *testing.T) {
	c := New()
	if c.Mode() != ModeRepl {
		t.Fatalf("Mode() = %v, want ModeRepl", c.Mode())
	}
}
