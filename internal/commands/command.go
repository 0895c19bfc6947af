package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeDone    Type = "done"
	TypeDelete  Type = "delete"
	TypeMarkAll Type = "markall"
	TypeExport  Type = "export"
	TypeImport  Type = "import"
	TypeShow    Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries the habit name plus the optional cat:, freq: and days:
// tokens, e.g. "add Stretch cat:health freq:custom days:1,3,5".
type AddArgs struct {
	Name      string
	Category  string
	Frequency string
	Days      []int
}

type RefArgs struct {
	Ref string
}

type ExportArgs struct {
	Dir string
}

type ImportArgs struct {
	Path string
}

type ShowArgs struct {
	Tab string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Ref    *RefArgs
	Export *ExportArgs
	Import *ImportArgs
	Show   *ShowArgs
}

var tabs = []string{"dashboard", "habits", "analytics", "calendar"}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, "toggle":
		return parseRef(input, TypeDone, args)
	case TypeDelete, "rm":
		return parseRef(input, TypeDelete, args)
	case TypeMarkAll, "mark-all":
		return Command{Type: TypeMarkAll, Raw: input}, nil
	case TypeExport:
		return Command{Type: TypeExport, Raw: input, Export: &ExportArgs{Dir: strings.Join(args, " ")}}, nil
	case TypeImport:
		if len(args) == 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "import requires a file path"}
		}
		return Command{Type: TypeImport, Raw: input, Import: &ImportArgs{Path: strings.Join(args, " ")}}, nil
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	name := make([]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		switch {
		case ok && strings.EqualFold(key, "cat"):
			out.Category = strings.ToLower(value)
		case ok && strings.EqualFold(key, "freq"):
			out.Frequency = strings.ToLower(value)
		case ok && strings.EqualFold(key, "days"):
			days, err := parseDays(value)
			if err != nil {
				return Command{}, err
			}
			out.Days = days
		default:
			name = append(name, arg)
		}
	}
	out.Name = strings.TrimSpace(strings.Join(name, " "))
	if out.Name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a habit name"}
	}
	if len(out.Days) > 0 && out.Frequency == "" {
		out.Frequency = "custom"
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseDays(value string) ([]int, error) {
	fields := strings.Split(value, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		d, err := strconv.Atoi(f)
		if err != nil || d < 0 || d > 6 {
			return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid weekday %q (0=Sun..6=Sat)", f)}
		}
		out = append(out, d)
	}
	return out, nil
}

func parseRef(raw string, typ Type, args []string) (Command, error) {
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a habit name or id", typ)}
	}
	return Command{Type: typ, Raw: raw, Ref: &RefArgs{Ref: ref}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a tab"}
	}
	tab := strings.ToLower(args[0])
	for _, known := range tabs {
		if tab == known {
			return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Tab: tab}}, nil
		}
	}
	return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown tab %q (%s)", tab, strings.Join(tabs, ", "))}
}
