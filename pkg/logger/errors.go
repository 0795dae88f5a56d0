package logger

import "errors"

var errUnknownOutput = errors.New("unknown log output")
