package databar

type EnrichInput struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
}

type EnrichOutput struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	LinkedInURL string `json:"linkedin_url"`
	JobTitle    string `json:"job_title"`
}

type errorResponse struct {
	Error string `json:"error"`
}
