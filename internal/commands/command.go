package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/grace/internal/model"
)

type Type string

const (
	TypeClear   Type = "clear"
	TypeExport  Type = "export"
	TypeRemind  Type = "remind"
	TypeAttach  Type = "attach"
	TypeLink    Type = "link"
	TypeDetach  Type = "detach"
	TypeHistory Type = "history"
	TypeShow    Type = "show"
	TypeQuick   Type = "quick"
	TypeHome    Type = "home"
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

// Views reachable with "show".
var Views = []string{"chat", "history", "achievements", "reminders", "settings", "help", "about"}

type ExportArgs struct {
	// Dir overrides the configured export directory when set.
	Dir string
}

type RemindArgs struct {
	After time.Duration
	// MessageID targets a specific assistant message; empty means the latest.
	MessageID string
}

type AttachArgs struct {
	Path string
}

type LinkArgs struct {
	URL string
}

type DetachArgs struct {
	ID string
}

type HistoryArgs struct {
	Clear bool
}

type ShowArgs struct {
	View string
}

type QuickArgs struct {
	Action string
}

type Command struct {
	Type    Type
	Raw     string
	Export  *ExportArgs
	Remind  *RemindArgs
	Attach  *AttachArgs
	Link    *LinkArgs
	Detach  *DetachArgs
	History *HistoryArgs
	Show    *ShowArgs
	Quick   *QuickArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeClear, TypeHome:
		return Command{Type: Type(head), Raw: input}, nil
	case TypeExport:
		return Command{Type: TypeExport, Raw: input, Export: &ExportArgs{Dir: strings.Join(args, " ")}}, nil
	case TypeRemind:
		return parseRemind(input, args)
	case TypeAttach:
		return parseAttach(input, args)
	case TypeLink:
		return parseLink(input, args)
	case TypeDetach:
		if len(args) != 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "detach requires an attachment id"}
		}
		return Command{Type: TypeDetach, Raw: input, Detach: &DetachArgs{ID: args[0]}}, nil
	case TypeHistory:
		return parseHistory(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeQuick:
		return parseQuick(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires a duration and an optional message id"}
	}
	after, err := time.ParseDuration(args[0])
	if err != nil || after <= 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid duration %q", args[0])}
	}
	out := &RemindArgs{After: after}
	if len(args) == 2 {
		out.MessageID = args[1]
	}
	return Command{Type: TypeRemind, Raw: raw, Remind: out}, nil
}

func parseAttach(raw string, args []string) (Command, error) {
	path := strings.TrimSpace(strings.Join(args, " "))
	if path == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "attach requires a file path"}
	}
	return Command{Type: TypeAttach, Raw: raw, Attach: &AttachArgs{Path: path}}, nil
}

func parseLink(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "link requires a single url"}
	}
	return Command{Type: TypeLink, Raw: raw, Link: &LinkArgs{URL: args[0]}}, nil
}

func parseHistory(raw string, args []string) (Command, error) {
	switch {
	case len(args) == 0:
		return Command{Type: TypeHistory, Raw: raw, History: &HistoryArgs{}}, nil
	case len(args) == 1 && strings.EqualFold(args[0], "clear"):
		return Command{Type: TypeHistory, Raw: raw, History: &HistoryArgs{Clear: true}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "usage: history [clear]"}
	}
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a view"}
	}
	view := strings.ToLower(args[0])
	for _, v := range Views {
		if v == view {
			return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{View: view}}, nil
		}
	}
	return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown view %q (one of %s)", view, strings.Join(Views, ", "))}
}

func parseQuick(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "quick requires an action"}
	}
	action := strings.ToLower(args[0])
	if _, ok := model.QuickActionByID(action); !ok {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown quick action %q", action)}
	}
	return Command{Type: TypeQuick, Raw: raw, Quick: &QuickArgs{Action: action}}, nil
}
