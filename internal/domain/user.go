package domain

// UserProfile represents a chat user known to the bot
type UserProfile struct {
	UserID         int64
	FirstName      string
	PortalUsername string
	PortalPassword string
}

// HasUsername reports whether a portal username was captured
func (p UserProfile) HasUsername() bool {
	return p.PortalUsername != ""
}

// HasPassword reports whether a portal password was captured
func (p UserProfile) HasPassword() bool {
	return p.PortalPassword != ""
}

// HasCredentials reports whether both portal credentials were captured
func (p UserProfile) HasCredentials() bool {
	return p.HasUsername() && p.HasPassword()
}

// Stage represents user's position in the credential dialogue
type Stage string

const (
	StageNone             Stage = "none"
	StageAwaitingUsername Stage = "awaiting_username"
	StageAwaitingPassword Stage = "awaiting_password"
)

// IsOpen reports whether the stage expects credential input
func (s Stage) IsOpen() bool {
	return s == StageAwaitingUsername || s == StageAwaitingPassword
}

// Action is what the conversation asks the router to do next
type Action int

const (
	ActionPassThrough Action = iota
	ActionPromptUsername
	ActionPromptPassword
	ActionFetchGrades
)

func (a Action) String() string {
	switch a {
	case ActionPromptUsername:
		return "prompt_username"
	case ActionPromptPassword:
		return "prompt_password"
	case ActionFetchGrades:
		return "fetch_grades"
	default:
		return "pass_through"
	}
}
