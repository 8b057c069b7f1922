package model

import "net/http"

// Message is the envelope of every API response. Code carries the outcome;
// the HTTP status on the wire stays 200.
type Message struct {
	Code int64  `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func NewMessage(code int, msg string, data any) Message {
	return Message{Code: int64(code), Msg: msg, Data: data}
}

func (m Message) OK() bool {
	return m.Code == http.StatusOK
}
