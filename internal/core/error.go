package core

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrIllegalMove       = "ILLEGAL_MOVE"
	ErrNotYourTurn       = "NOT_YOUR_TURN"
	ErrNotYourPiece      = "NOT_YOUR_PIECE"
	ErrInvalidPosition   = "INVALID_POSITION"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInternalError     = "INTERNAL_ERROR"
	ErrUnauthorized      = "UNAUTHORIZED"
	ErrUnavailable       = "SERVICE_UNAVAILABLE"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
