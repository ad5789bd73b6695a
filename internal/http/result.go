package httpapi

// Result is the response envelope the dashboard's axios layer expects:
// code 2000 means success, anything else is surfaced as an error toast.
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

// Paged wraps list responses with the total row count for pagination.
type Paged[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
