package engine

import (
	"encoding/json"
)

// Status is the outcome class of a command execution.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Response is the command result envelope. Every executed command yields
// either {"status":"ok","data":...} or {"status":"error","msg":...}.
type Response struct {
	Status        Status
	StatusMessage string
	Data          any
}

// OKResponse wraps a successful command result.
func OKResponse(d any) Response {
	return Response{
		Status: StatusOK,
		Data:   d,
	}
}

// ErrorResponse wraps a command failure.
func ErrorResponse(err error) Response {
	return Response{
		Status:        StatusError,
		StatusMessage: err.Error(),
	}
}

// Map renders the response as the wire-shape map.
func (r Response) Map() map[string]any {
	if r.Status == StatusOK {
		return map[string]any{
			"status": r.Status,
			"data":   r.Data,
		}
	}
	return map[string]any{
		"status": r.Status,
		"msg":    r.StatusMessage,
	}
}

// JSON renders the response envelope as JSON bytes.
func (r Response) JSON() []byte {
	b, err := json.Marshal(r.Map())
	if err != nil {
		return []byte{}
	}
	return b
}

func (r Response) String() string {
	return string(r.JSON())
}
