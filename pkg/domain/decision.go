package domain

// AccessDecision is the outcome the route guard computes for a request to a
// protected path. It is ephemeral and never persisted.
type AccessDecision int

const (
	DecisionAllow AccessDecision = iota
	DecisionRedirectToLogin
	DecisionRedirectToVerify
	DecisionRedirectToDashboard
)

func (d AccessDecision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectToLogin:
		return "redirect_to_login"
	case DecisionRedirectToVerify:
		return "redirect_to_verify"
	case DecisionRedirectToDashboard:
		return "redirect_to_dashboard"
	default:
		return "unknown"
	}
}
