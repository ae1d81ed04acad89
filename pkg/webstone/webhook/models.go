package webhook

// HookBody Hook body.
type HookBody struct {
	Event    string      `json:"event"`
	Metadata interface{} `json:"metadata"`
}

// ErrorHookBody Error event hook body.
type ErrorHookBody struct {
	RequestPath string `json:"requestPath"`
	Method      string `json:"method"`
	Message     string `json:"message"`
	StatusCode  int    `json:"statusCode"`
}

// LoginHookBody Login event hook body.
type LoginHookBody struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
