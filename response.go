package franklinwh

// Response is the envelope the FranklinWH API wraps around every result.
type Response[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Success bool   `json:"success"`
	Total   int    `json:"total,omitempty"`
	Result  T      `json:"result"`
}

// Err maps a non-success envelope onto the error taxonomy. The vendor signals
// token problems with envelope code 401 even on an HTTP 200 response.
func (r Response[T]) Err(statusCode int, body []byte) error {
	if r.Success || r.Code == codeOK {
		return nil
	}

	if r.Code == codeUnauthorized {
		return &AuthError{
			StatusCode: statusCode,
			Code:       r.Code,
			Message:    r.Message,
		}
	}

	return &VendorError{
		StatusCode: statusCode,
		Code:       r.Code,
		Message:    r.Message,
		Body:       string(body),
	}
}
