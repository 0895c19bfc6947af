package commands

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add Drink water", TypeAdd},
		{"done drink water", TypeDone},
		{"toggle sample1", TypeDone},
		{"delete sample2", TypeDelete},
		{"rm sample2", TypeDelete},
		{"markall", TypeMarkAll},
		{"/mark-all", TypeMarkAll},
		{"export", TypeExport},
		{"import ./backup.json", TypeImport},
		{"show Calendar", TypeShow},
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

func TestParseAddOptions(t *testing.T) {
	cmd, err := Parse("add Morning stretch cat:Health days:1,3,5")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := AddArgs{Name: "Morning stretch", Category: "health", Frequency: "custom", Days: []int{1, 3, 5}}
	if !reflect.DeepEqual(*cmd.Add, want) {
		t.Fatalf("unexpected add args: %+v", *cmd.Add)
	}

	cmd, err = Parse("add Review week freq:weekly")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Frequency != "weekly" || cmd.Add.Name != "Review week" {
		t.Fatalf("unexpected add args: %+v", *cmd.Add)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		in   string
		code ErrorCode
	}{
		{"", ErrCodeEmptyInput},
		{"/", ErrCodeEmptyInput},
		{"/unknown do x", ErrCodeUnknownCommand},
		{"add cat:health", ErrCodeInvalidArgument},
		{"add Run days:1,9", ErrCodeInvalidArgument},
		{"done", ErrCodeInvalidArgument},
		{"import", ErrCodeInvalidArgument},
		{"show", ErrCodeInvalidArgument},
		{"show settings", ErrCodeInvalidArgument},
	}
	for _, tc := range cases {
		_, err := Parse(tc.in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != tc.code {
			t.Fatalf("parse %q: expected %s, got %v", tc.in, tc.code, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/done read")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Done: func(a RefArgs) (Result, error) {
			called = true
			if a.Ref != "read" {
				t.Fatalf("unexpected ref: %q", a.Ref)
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

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("markall")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
