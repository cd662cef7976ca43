package model

// JsState is the consolidated state bundle returned to the client widget on
// every sync call. It is assembled fresh per call and never stored; only its
// components are individually cached.
type JsState struct {
	Person              *Person       `json:"person"`
	Session             *Session      `json:"session"`
	Surveys             []Survey      `json:"surveys"`
	NoCodeActionClasses []ActionClass `json:"noCodeActionClasses"`
	Product             *Product      `json:"product"`
}
