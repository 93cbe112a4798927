package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Clear   func() (Result, error)
	Export  func(ExportArgs) (Result, error)
	Remind  func(RemindArgs) (Result, error)
	Attach  func(AttachArgs) (Result, error)
	Link    func(LinkArgs) (Result, error)
	Detach  func(DetachArgs) (Result, error)
	History func(HistoryArgs) (Result, error)
	Show    func(ShowArgs) (Result, error)
	Quick   func(QuickArgs) (Result, error)
	Home    func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeClear:
		if handlers.Clear == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Clear()
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Export(*cmd.Export)
	case TypeRemind:
		if handlers.Remind == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Remind(*cmd.Remind)
	case TypeAttach:
		if handlers.Attach == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Attach(*cmd.Attach)
	case TypeLink:
		if handlers.Link == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Link(*cmd.Link)
	case TypeDetach:
		if handlers.Detach == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Detach(*cmd.Detach)
	case TypeHistory:
		if handlers.History == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.History(*cmd.History)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Show(*cmd.Show)
	case TypeQuick:
		if handlers.Quick == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Quick(*cmd.Quick)
	case TypeHome:
		if handlers.Home == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Home()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
