package errors

import (
	"fmt"
)

var (
	ErrInvalidConfig = fmt.Errorf("agora: invalid config")
	ErrNotFound      = fmt.Errorf("agora: not found")
	ErrInvalidParams = fmt.Errorf("agora: invalid params")
	ErrUpstream      = fmt.Errorf("agora: upstream model failed")
	ErrInternal      = fmt.Errorf("agora: internal error")
)
