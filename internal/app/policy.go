package app

// Roles carried by API tokens.
const (
	RoleAdmin      = "admin"
	RoleEnseignant = "enseignant"
	RoleEtudiant   = "etudiant"
)

// Actions and resources known to the policy table.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionSign   = "sign"
	ActionList   = "list"

	ResourceStudent     = "etudiant"
	ResourceTeacher     = "enseignant"
	ResourceCourse      = "cours"
	ResourceGrade       = "note"
	ResourceEligibility = "eligibilite"
	ResourceCertificate = "certificat"
)

type policyRule struct {
	role      string
	action    string
	resource  string
	ownerOnly bool
}

// policies is the single declarative authorization table. Admin is handled
// by the wildcard check in Allowed, so "admin bypasses everything" lives in
// exactly one place instead of being repeated per resource.
var policies = []policyRule{
	{RoleEnseignant, ActionRead, ResourceStudent, false},
	{RoleEnseignant, ActionCreate, ResourceGrade, false},
	{RoleEnseignant, ActionUpdate, ResourceGrade, false},
	{RoleEnseignant, ActionRead, ResourceGrade, false},
	{RoleEnseignant, ActionRead, ResourceEligibility, false},

	{RoleEtudiant, ActionRead, ResourceStudent, true},
	{RoleEtudiant, ActionRead, ResourceGrade, true},
	{RoleEtudiant, ActionRead, ResourceEligibility, true},
	{RoleEtudiant, ActionCreate, ResourceCertificate, true},
	{RoleEtudiant, ActionRead, ResourceCertificate, true},
}

// Allowed evaluates the policy table for one (role, action, resource)
// request. isOwner reports whether the caller owns the targeted record,
// which only matters for ownerOnly rules.
func Allowed(role, action, resource string, isOwner bool) bool {
	if role == RoleAdmin {
		return true
	}
	for _, rule := range policies {
		if rule.role != role || rule.action != action || rule.resource != resource {
			continue
		}
		if rule.ownerOnly && !isOwner {
			continue
		}
		return true
	}
	return false
}
