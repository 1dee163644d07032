package errors

// Short messages carried in the error envelope, keyed by status.
const (
	MsgBadRequest       = "bad request"
	MsgNotFound         = "resource not found"
	MsgMethodNotAllowed = "method not allowed"
	MsgUnprocessable    = "unprocessable"
	MsgInternalError    = "internal server error"
)
