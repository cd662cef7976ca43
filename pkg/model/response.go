package model

import "time"

// ResponseMeta carries request context recorded alongside a submission.
type ResponseMeta struct {
	URL       string            `json:"url"`
	UserAgent ResponseUserAgent `json:"userAgent"`
}

// ResponseUserAgent is a reduced user agent summary
type ResponseUserAgent struct {
	Browser string `json:"browser,omitempty"`
	Device  string `json:"device,omitempty"`
	OS      string `json:"os,omitempty"`
}

// Response is a model of the persistency layer
type Response struct {
	ID       string                 `json:"id"`
	SurveyID string                 `json:"surveyId"`
	PersonID *string                `json:"personId"`
	Finished bool                   `json:"finished"`
	Data     map[string]interface{} `json:"data"`
	Meta     ResponseMeta           `json:"meta"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
