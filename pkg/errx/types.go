package errx

// Type categorizes an error and decides its default HTTP status.
type Type string

const (
	TypeInternal      Type = "INTERNAL"
	TypeValidation    Type = "VALIDATION"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeExternal      Type = "EXTERNAL"
)

func (t Type) String() string {
	return string(t)
}

func typeToHTTPStatus(t Type) int {
	switch t {
	case TypeValidation:
		return 400
	case TypeAuthorization:
		return 401
	case TypeNotFound:
		return 404
	case TypeConflict:
		return 409
	case TypeExternal:
		return 502
	default:
		return 500
	}
}
