package conversation

import "fmt"

// ResponseType tags a dialogue response variant.
type ResponseType string

const (
	ResponseInfo                ResponseType = "INFO"
	ResponseGatheringInfo       ResponseType = "GATHERING_INFO"
	ResponseConfirmingParams    ResponseType = "CONFIRMING_PARAMS"
	ResponseNodeRecommendations ResponseType = "NODE_RECOMMENDATIONS"
	ResponseCompleted           ResponseType = "COMPLETED"
	ResponseError               ResponseType = "ERROR"
)

// Response is the outbound result of one dialogue operation. Only the
// fields relevant to the variant are populated.
type Response struct {
	Type               ResponseType      `json:"type"`
	Message            string            `json:"message"`
	Parameters         map[string]any    `json:"parameters,omitempty"`
	MissingParameters  map[string]string `json:"missingParameters,omitempty"`
	NextQuestion       string            `json:"nextQuestion,omitempty"`
	Summary            string            `json:"summary,omitempty"`
	Action             string            `json:"action,omitempty"`
	RequiresUserAction bool              `json:"requiresUserAction"`
}

// Info builds an informational response that needs no user action.
func Info(message string) *Response {
	return &Response{Type: ResponseInfo, Message: message}
}

// GatheringInfo builds a response asking the user for missing parameters.
func GatheringInfo(nextQuestion string, missingParams map[string]string, currentParams map[string]any) *Response {
	return &Response{
		Type:               ResponseGatheringInfo,
		Message:            "More information is needed to continue",
		NextQuestion:       nextQuestion,
		MissingParameters:  missingParams,
		Parameters:         currentParams,
		RequiresUserAction: true,
	}
}

// ConfirmingParameters builds a response presenting parameters for review.
func ConfirmingParameters(message string, params map[string]any, summary string) *Response {
	return &Response{
		Type:               ResponseConfirmingParams,
		Message:            message,
		Parameters:         params,
		Summary:            summary,
		RequiresUserAction: true,
	}
}

// NodeRecommendations builds a response carrying generated node
// configuration recommendations for the user to confirm.
func NodeRecommendations(message string, recommendations map[string]any, summary string) *Response {
	return &Response{
		Type:               ResponseNodeRecommendations,
		Message:            message,
		Parameters:         recommendations,
		Summary:            summary,
		RequiresUserAction: true,
	}
}

// Completed builds the terminal success response.
func Completed(message string, finalParams map[string]any, summary string) *Response {
	return &Response{
		Type:       ResponseCompleted,
		Message:    message,
		Parameters: finalParams,
		Summary:    summary,
	}
}

// Error builds the terminal failure response.
func Error(message string) *Response {
	return &Response{Type: ResponseError, Message: message}
}

// WithAction annotates the response with a suggested follow-up action.
func (r *Response) WithAction(action string) *Response {
	r.Action = action
	return r
}

func (r *Response) String() string {
	return fmt.Sprintf("Response{type=%s, message=%q, requiresUserAction=%t}",
		r.Type, r.Message, r.RequiresUserAction)
}
