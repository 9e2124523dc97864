package api

// Response envelope processing. Every backend response is expected to be
// either {success: true, data: ...} or {success: false, error: {message,
// code, details}}. Nothing about the wire payload is trusted: the envelope,
// the data shape, and every field access go through guards and defensive
// accessors, and no malformed payload may panic past this boundary.

// Pagination describes the envelope returned alongside paginated payloads
type Pagination struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
}

// Page is a validated page of transformed entities
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// IsSuccess reports whether the response carries a success envelope,
// without validating or transforming the payload
func IsSuccess(response any) bool {
	m, ok := response.(map[string]any)
	if !ok {
		return false
	}
	return boolean(m, "success", false)
}

// ExtractError pulls the backend error out of a failure envelope without
// full processing. Returns nil when the response is not a failure envelope.
func ExtractError(response any) *Error {
	m, ok := response.(map[string]any)
	if !ok {
		return nil
	}
	if boolean(m, "success", true) {
		return nil
	}
	errObj, ok := asObject(m["error"])
	if !ok {
		return nil
	}
	return serverError(errObj)
}

func serverError(errObj map[string]any) *Error {
	return &Error{
		Kind:    ServerError,
		Message: str(errObj, "message", "Unknown server error"),
		Code:    str(errObj, "code", ""),
		Details: errObj["details"],
	}
}

// ProcessResponse validates a decoded response body against the envelope
// contract and the expected data shape, then transforms the payload into a
// domain value. All failure modes come back as a typed *Error; a panicking
// guard or transformer is absorbed and reported as a ServerError.
func ProcessResponse[T any](response any, guard Guard, transform func(map[string]any) T) (result T, apiErr *Error) {
	m, ok := response.(map[string]any)
	if !ok {
		return result, newError(ValidationError, "Invalid response format")
	}

	// A failure envelope short-circuits only when it carries an error
	// object; a bare success:false (or a missing success key) falls
	// through to the shape guard like any other payload.
	if !boolean(m, "success", true) {
		if errObj, ok := asObject(m["error"]); ok {
			return result, serverError(errObj)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			apiErr = newError(ServerError, "Processing error")
		}
	}()

	data := m["data"]
	if guard != nil && !guard(data) {
		return result, newError(ValidationError, "Response data does not match expected type")
	}

	obj, ok := asObject(data)
	if !ok {
		return result, newError(ValidationError, "Response data does not match expected type")
	}
	return transform(obj), nil
}

// ProcessPaginatedResponse is ProcessResponse for list endpoints: the data
// object must carry an item array under itemsKey and a pagination envelope.
func ProcessPaginatedResponse[T any](response any, itemsKey string, guard Guard, transform func(any) []T) (page Page[T], apiErr *Error) {
	m, ok := response.(map[string]any)
	if !ok {
		return page, newError(ValidationError, "Invalid response format")
	}

	if !boolean(m, "success", true) {
		if errObj, ok := asObject(m["error"]); ok {
			return page, serverError(errObj)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			apiErr = newError(ServerError, "Processing error")
		}
	}()

	data, ok := asObject(m["data"])
	if !ok {
		return page, newError(ValidationError, "Response data does not match expected type")
	}

	rawItems, ok := data[itemsKey].([]any)
	if !ok {
		return page, newError(ValidationError, "Response data does not match expected type")
	}
	if guard != nil && !guard(rawItems) {
		return page, newError(ValidationError, "Response data does not match expected type")
	}

	pg, ok := asObject(data["pagination"])
	if !ok {
		return page, newError(ValidationError, "Response is missing pagination data")
	}

	page.Items = transform(rawItems)
	page.Pagination = Pagination{
		CurrentPage:  integer(pg, "currentPage", 1),
		TotalPages:   integer(pg, "totalPages", 1),
		TotalItems:   integer(pg, "totalItems", len(page.Items)),
		ItemsPerPage: integer(pg, "itemsPerPage", len(page.Items)),
	}
	return page, nil
}
