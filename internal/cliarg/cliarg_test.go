package cliarg_test

import (
	"io"
	"strings"
	"testing"

	"github.com/petasbytes/twig/internal/cliarg"
)

func testSchema() cliarg.Schema {
	return cliarg.Schema{
		Name: "twig",
		Flags: []cliarg.FlagSpec{
			{Name: "model", Abbrev: "m", Kind: cliarg.KindString, Default: "claude", Usage: "model alias"},
			{Name: "raw", Abbrev: "r", Kind: cliarg.KindBool, Usage: "raw output"},
			{Name: "temperature", Abbrev: "t", Kind: cliarg.KindFloat, Usage: "sampling temperature"},
		},
		Commands: []cliarg.CommandSpec{
			{Name: "history", Abbrev: "H", Kind: cliarg.KindBool, ID: cliarg.CmdHistory, Usage: "view history"},
			{Name: "wipe", Abbrev: "w", Kind: cliarg.KindBool, ID: cliarg.CmdWipe, Usage: "wipe history"},
			{Name: "get", Abbrev: "g", Kind: cliarg.KindInt, ID: cliarg.CmdGet, Usage: "get message N"},
		},
	}
}

func allRegistered() map[cliarg.CommandID]bool {
	return map[cliarg.CommandID]bool{
		cliarg.CmdHistory: true,
		cliarg.CmdWipe:    true,
		cliarg.CmdGet:     true,
	}
}

func parse(t *testing.T, argv ...string) *cliarg.Values {
	t.Helper()
	v, err := cliarg.Parse(testSchema(), argv, io.Discard)
	if err != nil {
		t.Fatalf("parse %v: %v", argv, err)
	}
	return v
}

func TestValidate_AllCommandsRegistered(t *testing.T) {
	if err := testSchema().Validate(allRegistered()); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate_MissingHandlerRejected(t *testing.T) {
	reg := allRegistered()
	delete(reg, cliarg.CmdWipe)
	if err := testSchema().Validate(reg); err == nil {
		t.Fatal("expected error for unregistered command handler")
	}
}

func TestValidate_DuplicateNameRejected(t *testing.T) {
	s := testSchema()
	s.Flags = append(s.Flags, cliarg.FlagSpec{Name: "history", Kind: cliarg.KindBool})
	if err := s.Validate(allRegistered()); err == nil {
		t.Fatal("expected error for duplicate name")
	}
}

func TestParse_FlagKindsAndDefaults(t *testing.T) {
	v := parse(t, "-m", "haiku", "--raw", "-t", "0.7")
	if v.String("model") != "haiku" {
		t.Fatalf("model: %q", v.String("model"))
	}
	if !v.Bool("raw") {
		t.Fatal("raw should be set")
	}
	if v.Float("temperature") != 0.7 {
		t.Fatalf("temperature: %v", v.Float("temperature"))
	}

	v = parse(t)
	if v.String("model") != "claude" {
		t.Fatalf("default model: %q", v.String("model"))
	}
	if v.Command != cliarg.CmdNone {
		t.Fatalf("expected CmdNone, got %v", v.Command)
	}
}

func TestParse_VariadicQueryJoined(t *testing.T) {
	v := parse(t, "-m", "haiku", "what", "is", "go")
	if v.Query != "what is go" {
		t.Fatalf("query: %q", v.Query)
	}
}

func TestParse_CommandWithValue(t *testing.T) {
	v := parse(t, "-g", "3")
	if v.Command != cliarg.CmdGet || v.CommandInt != 3 {
		t.Fatalf("got command=%v arg=%d", v.Command, v.CommandInt)
	}
}

func TestParse_AbbrevAndLongAreSameCommand(t *testing.T) {
	v := parse(t, "-H")
	if v.Command != cliarg.CmdHistory {
		t.Fatalf("abbrev: got %v", v.Command)
	}
	v = parse(t, "--history")
	if v.Command != cliarg.CmdHistory {
		t.Fatalf("long: got %v", v.Command)
	}
}

func TestParse_MutuallyExclusiveCommands(t *testing.T) {
	_, err := cliarg.Parse(testSchema(), []string{"-H", "-w"}, io.Discard)
	if err == nil {
		t.Fatal("expected mutual-exclusion error")
	}
	if !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_UnknownFlagErrors(t *testing.T) {
	if _, err := cliarg.Parse(testSchema(), []string{"--nope"}, io.Discard); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}
