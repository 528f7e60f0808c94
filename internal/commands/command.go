package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeBulk     Type = "bulk"
	TypeUser     Type = "user"
	TypeComplete Type = "complete"
	TypePredict  Type = "predict"
	TypeRefresh  Type = "refresh"
)

// Types lists every command in palette order.
func Types() []Type {
	return []Type{TypeAdd, TypeBulk, TypeUser, TypeComplete, TypePredict, TypeRefresh}
}

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

type AddArgs struct {
	Text string
}

// BulkArgs holds texts split on ';'. Blank entries are kept for the
// assistant to skip.
type BulkArgs struct {
	Texts []string
}

type UserArgs struct {
	UserID string
}

type CompleteArgs struct {
	Partial string
}

type PredictArgs struct {
	Text string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Bulk     *BulkArgs
	User     *UserArgs
	Complete *CompleteArgs
	Predict  *PredictArgs
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

	head, rest, _ := strings.Cut(raw, " ")
	head = strings.ToLower(head)
	rest = strings.TrimSpace(rest)

	switch Type(head) {
	case TypeAdd:
		if rest == "" {
			return Command{}, invalid("add requires task text")
		}
		return Command{Type: TypeAdd, Raw: input, Add: &AddArgs{Text: rest}}, nil
	case TypeBulk:
		return parseBulk(input, rest)
	case TypeUser:
		fields := strings.Fields(rest)
		if len(fields) != 1 {
			return Command{}, invalid("user requires exactly one id")
		}
		return Command{Type: TypeUser, Raw: input, User: &UserArgs{UserID: fields[0]}}, nil
	case TypeComplete:
		if rest == "" {
			return Command{}, invalid("complete requires partial text")
		}
		return Command{Type: TypeComplete, Raw: input, Complete: &CompleteArgs{Partial: rest}}, nil
	case TypePredict:
		if rest == "" {
			return Command{}, invalid("predict requires task text")
		}
		return Command{Type: TypePredict, Raw: input, Predict: &PredictArgs{Text: rest}}, nil
	case TypeRefresh:
		return Command{Type: TypeRefresh, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseBulk(raw, rest string) (Command, error) {
	parts := strings.Split(rest, ";")
	texts := make([]string, 0, len(parts))
	nonBlank := 0
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			nonBlank++
		}
		texts = append(texts, p)
	}
	if nonBlank == 0 {
		return Command{}, invalid("bulk requires tasks separated by ';'")
	}
	return Command{Type: TypeBulk, Raw: raw, Bulk: &BulkArgs{Texts: texts}}, nil
}

func invalid(msg string) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: msg}
}
