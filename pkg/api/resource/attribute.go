package resource

// AttributeInput is the request body of the set-attribute endpoint
type AttributeInput struct {
	EnvironmentID string `json:"environmentId"`
	SessionID     string `json:"sessionId"`
	Key           string `json:"key"`
	Value         string `json:"value"`
}

// ValidateAttributeInput returns field-level validation details, empty on success
func ValidateAttributeInput(r *AttributeInput) map[string]string {
	details := make(map[string]string)
	if r.EnvironmentID == "" {
		details["environmentId"] = "required"
	}
	if r.SessionID == "" {
		details["sessionId"] = "required"
	}
	if r.Key == "" {
		details["key"] = "required"
	}
	if r.Value == "" {
		details["value"] = "required"
	}

	return details
}

// UserIDInput is the request body of the set-user-id endpoint
type UserIDInput struct {
	EnvironmentID string `json:"environmentId"`
	SessionID     string `json:"sessionId"`
	UserID        string `json:"userId"`
}

// ValidateUserIDInput returns field-level validation details, empty on success
func ValidateUserIDInput(r *UserIDInput) map[string]string {
	details := make(map[string]string)
	if r.EnvironmentID == "" {
		details["environmentId"] = "required"
	}
	if r.SessionID == "" {
		details["sessionId"] = "required"
	}
	if r.UserID == "" {
		details["userId"] = "required"
	}

	return details
}
