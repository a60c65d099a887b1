package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	testCases := []struct {
		name     string
		role     string
		action   string
		resource string
		isOwner  bool
		expected bool
	}{
		{"admin passes everything", RoleAdmin, ActionDelete, ResourceGrade, false, true},
		{"admin signs certificates", RoleAdmin, ActionSign, ResourceCertificate, false, true},
		{"admin lists certificates", RoleAdmin, ActionList, ResourceCertificate, false, true},

		{"teacher records grades", RoleEnseignant, ActionCreate, ResourceGrade, false, true},
		{"teacher edits grades", RoleEnseignant, ActionUpdate, ResourceGrade, false, true},
		{"teacher reads any eligibility", RoleEnseignant, ActionRead, ResourceEligibility, false, true},
		{"teacher cannot delete grades", RoleEnseignant, ActionDelete, ResourceGrade, false, false},
		{"teacher cannot sign", RoleEnseignant, ActionSign, ResourceCertificate, false, false},
		{"teacher cannot create students", RoleEnseignant, ActionCreate, ResourceStudent, false, false},

		{"student reads own record", RoleEtudiant, ActionRead, ResourceStudent, true, true},
		{"student cannot read others", RoleEtudiant, ActionRead, ResourceStudent, false, false},
		{"student reads own grades", RoleEtudiant, ActionRead, ResourceGrade, true, true},
		{"student requests own certificate", RoleEtudiant, ActionCreate, ResourceCertificate, true, true},
		{"student cannot request for others", RoleEtudiant, ActionCreate, ResourceCertificate, false, false},
		{"student cannot record grades", RoleEtudiant, ActionCreate, ResourceGrade, false, false},
		{"student cannot list all certificates", RoleEtudiant, ActionList, ResourceCertificate, true, false},

		{"unknown role gets nothing", "visiteur", ActionRead, ResourceStudent, true, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Allowed(tc.role, tc.action, tc.resource, tc.isOwner))
		})
	}
}
