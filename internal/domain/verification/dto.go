package verification

type SubmitRequestBody struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type ResolveRequestBody struct {
	Approved *bool `json:"approved" validate:"required"`
}

type SetVerificationBody struct {
	Verified *bool `json:"verified" validate:"required"`
}

// StatusResponse is what a creative sees about their own verification.
type StatusResponse struct {
	Verified bool     `json:"verified"`
	Request  *Request `json:"request,omitempty"`
}
