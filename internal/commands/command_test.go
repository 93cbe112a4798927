package commands

import (
	"errors"
	"testing"
	"time"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/clear", TypeClear},
		{"export", TypeExport},
		{"export ~/exports", TypeExport},
		{"/remind 30m", TypeRemind},
		{"remind 2h 4", TypeRemind},
		{"attach notes/q4 plan.pdf", TypeAttach},
		{"link https://go.dev", TypeLink},
		{"detach 1f0c", TypeDetach},
		{"history", TypeHistory},
		{"history clear", TypeHistory},
		{"show Achievements", TypeShow},
		{"quick summary", TypeQuick},
		{"HOME", TypeHome},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, err := Parse("remind 90m 6")
	if err != nil {
		t.Fatalf("parse remind: %v", err)
	}
	if cmd.Remind.After != 90*time.Minute || cmd.Remind.MessageID != "6" {
		t.Fatalf("unexpected remind args: %+v", cmd.Remind)
	}

	cmd, err = Parse("attach notes/q4 plan.pdf")
	if err != nil {
		t.Fatalf("parse attach: %v", err)
	}
	if cmd.Attach.Path != "notes/q4 plan.pdf" {
		t.Fatalf("unexpected path: %q", cmd.Attach.Path)
	}

	cmd, err = Parse("history clear")
	if err != nil || !cmd.History.Clear {
		t.Fatalf("expected history clear, got %+v err=%v", cmd.History, err)
	}

	cmd, err = Parse("show Achievements")
	if err != nil || cmd.Show.View != "achievements" {
		t.Fatalf("expected lowercased view, got %+v err=%v", cmd.Show, err)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{
		"remind",
		"remind soon",
		"remind -5m",
		"attach",
		"link",
		"link a b",
		"detach",
		"history purge",
		"show inbox",
		"quick dance",
	} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "  ", "/"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input, got %v", in, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/link https://go.dev")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Link: func(a LinkArgs) (Result, error) {
			called = true
			if a.URL != "https://go.dev" {
				t.Fatalf("unexpected url: %q", a.URL)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteNoArgCommands(t *testing.T) {
	var got []Type
	handlers := Handlers{
		Clear: func() (Result, error) { got = append(got, TypeClear); return Result{}, nil },
		Home:  func() (Result, error) { got = append(got, TypeHome); return Result{}, nil },
	}
	for _, in := range []string{"clear", "home"} {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if _, err := Execute(cmd, handlers); err != nil {
			t.Fatalf("execute %q: %v", in, err)
		}
	}
	if len(got) != 2 || got[0] != TypeClear || got[1] != TypeHome {
		t.Fatalf("unexpected dispatch order: %v", got)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("show history")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
