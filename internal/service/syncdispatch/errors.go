package syncdispatch

import "errors"

var (
	// ErrNoRecipient возвращается, если письму некому уйти
	ErrNoRecipient = errors.New("syncdispatch: no recipient")
)
