package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Bulk     func(BulkArgs) (Result, error)
	User     func(UserArgs) (Result, error)
	Complete func(CompleteArgs) (Result, error)
	Predict  func(PredictArgs) (Result, error)
	Refresh  func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeBulk:
		if handlers.Bulk == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Bulk(*cmd.Bulk)
	case TypeUser:
		if handlers.User == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.User(*cmd.User)
	case TypeComplete:
		if handlers.Complete == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Complete(*cmd.Complete)
	case TypePredict:
		if handlers.Predict == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Predict(*cmd.Predict)
	case TypeRefresh:
		if handlers.Refresh == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Refresh()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
