package entity

// PrincipalKind separates the two trust domains a caller can belong to.
// An operator token must never satisfy an end-user check and vice versa.
type PrincipalKind string

const (
	PrincipalOperator PrincipalKind = "operator"
	PrincipalEndUser  PrincipalKind = "end_user"
)

// Principal is the resolved caller identity, produced once by the access
// guard and passed explicitly into every service operation. It is never
// re-derived downstream.
type Principal struct {
	Kind           PrincipalKind
	OrganizationId string          // set for operators
	Session        *ContactSession // set for end users
}

func (p Principal) IsOperator() bool {
	return p.Kind == PrincipalOperator
}

// OwnsConversation reports whether the principal's scope matches the
// conversation's owning organization or session.
func (p Principal) OwnsConversation(c *Conversation) bool {
	if p.Kind == PrincipalOperator {
		return c.OrganizationId == p.OrganizationId
	}
	return p.Session != nil && c.ContactSessionId == p.Session.Id
}
