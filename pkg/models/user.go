package models

// User is an account managed through the console. The password never comes
// back from the API; it is only sent, hashed, in UserRequest.
type User struct {
	ID              ID     `json:"id"`
	Username        string `json:"username"`
	Admin           bool   `json:"admin"`
	ContentTypeID   ID     `json:"content_type_id"`
	ContentTypeName string `json:"content_type_name"`
	DateCreated     string `json:"date_created"`
}

// UserRequest is the create/update body for /users. Empty content type
// fields are sent as null and a blank password is left out so an update
// keeps the stored one.
type UserRequest struct {
	Username        string  `json:"username"`
	Admin           bool    `json:"admin"`
	ContentTypeID   *string `json:"content_type_id"`
	ContentTypeName *string `json:"content_type_name"`
	Password        string  `json:"password,omitempty"`
}

// SignInRequest is the /signin body. Password is the SHA-256 hex digest.
type SignInRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// SignInResponse is returned by /signin and /logout
type SignInResponse struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SignInSuccessMessage is the message the backend sends on a good login
const SignInSuccessMessage = "Authentication successful"

// ErrorResponse is the backend's error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse is a plain success envelope
type MessageResponse struct {
	Message string `json:"message"`
}

// SuccessResponse is returned by create, update and delete calls.
// Type and category creation return the full entity; only its id is kept.
type SuccessResponse struct {
	ID      ID     `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}
