package model

// Role assignment attribute keys as returned by the Role Assignment Service.
const (
	AttributeJurisdiction = "jurisdiction"
	AttributeRegion       = "region"
	AttributeBaseLocation = "baseLocation"
	AttributeCaseID       = "caseId"
	AttributeCaseType     = "caseType"
)

// Grant types.
const (
	GrantTypeBasic      = "BASIC"
	GrantTypeSpecific   = "SPECIFIC"
	GrantTypeStandard   = "STANDARD"
	GrantTypeChallenged = "CHALLENGED"
	GrantTypeExcluded   = "EXCLUDED"
)

// RoleAssignment is one grant held by an actor, as reported by the Role Assignment Service.
type RoleAssignment struct {
	ID             string            `json:"id"`
	ActorID        string            `json:"actorId"`
	RoleName       string            `json:"roleName"`
	RoleCategory   string            `json:"roleCategory"`
	RoleType       string            `json:"roleType"`
	Classification string            `json:"classification"`
	GrantType      string            `json:"grantType"`
	Attributes     map[string]string `json:"attributes"`
	Authorisations []string          `json:"authorisations"`
}

func (r RoleAssignment) Attribute(key string) string {
	if r.Attributes == nil {
		return ""
	}
	return r.Attributes[key]
}
