package ambachtapi

// ErrorResponse is the error body of the backend
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type checkRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type checkResponse struct {
	Available bool `json:"available"`
}
