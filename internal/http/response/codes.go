package response

const (
	CodeOK         = 0
	CodeBadRequest = 400
	CodeNotFound   = 404
	CodeConflict   = 409
	CodeTooMany    = 429
	CodeInternal   = 500
)
