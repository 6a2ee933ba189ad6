// Package signature encodes task and searcher scoping into colon-delimited
// signature strings. A task matches a searcher when their filter signature sets
// overlap and their role signature sets overlap.
//
// Filter signature: state:jurisdiction:roleCategory:workType:region:location
// Role signature:   jurisdiction:region:location:roleName:caseId:permission:classification:authorization
//
// The task side emits every combination of each concrete facet value and the
// wildcard, so that a searcher that does not constrain a facet (and sends "*")
// still matches. Empty values are encoded as the wildcard only.
package signature

import (
	"sort"
	"strings"

	"taskmanagement/internal/model"
)

const (
	Wildcard  = "*"
	separator = ":"
)

// FilterSignatures returns the filter signatures stored for a task.
func FilterSignatures(task *model.Task) []string {
	categories := []string{Wildcard}
	for _, role := range task.TaskRoles {
		if role.Read && role.RoleCategory != "" {
			categories = append(categories, role.RoleCategory)
		}
	}

	return combine([][]string{
		withWildcard(string(task.State)),
		withWildcard(task.Jurisdiction),
		unique(categories),
		withWildcard(task.WorkType),
		withWildcard(task.Region),
		withWildcard(task.Location),
	})
}

// RoleSignatures returns the role signatures stored for a task, one family per
// role grant and permission token the grant holds.
func RoleSignatures(task *model.Task) []string {
	var out []string
	classification := orWildcard(task.SecurityClassification)

	for _, role := range task.TaskRoles {
		permissions := role.SignaturePermissions()
		if len(permissions) == 0 {
			continue
		}
		authorizations := []string{Wildcard}
		if len(role.Authorizations) > 0 {
			authorizations = unique(role.Authorizations)
		}

		out = append(out, combine([][]string{
			withWildcard(task.Jurisdiction),
			withWildcard(task.Region),
			withWildcard(task.Location),
			{role.RoleName},
			withWildcard(task.CaseID),
			permissions,
			{classification},
			authorizations,
		})...)
	}
	return unique(out)
}

// SearchFilterSignatures returns the searcher-side filter signatures for a request.
// Regions are not part of the request and always encode as the wildcard.
func SearchFilterSignatures(req *model.SearchRequest) []string {
	states := make([]string, 0, len(req.CFTTaskStates))
	for _, s := range req.CFTTaskStates {
		states = append(states, string(s))
	}

	return combine([][]string{
		valuesOrWildcard(states),
		valuesOrWildcard(req.Jurisdictions),
		valuesOrWildcard(req.RoleCategories),
		valuesOrWildcard(req.WorkTypes),
		{Wildcard},
		valuesOrWildcard(req.Locations),
	})
}

// SearchRoleSignatures returns the searcher-side role signatures derived from the
// searcher's role assignments, requiring the given permission token.
// Excluded grants never contribute signatures.
func SearchRoleSignatures(assignments []model.RoleAssignment, permission string) []string {
	var out []string
	for _, ra := range assignments {
		if ra.GrantType == model.GrantTypeExcluded || ra.RoleName == "" {
			continue
		}
		authorizations := append([]string{Wildcard}, ra.Authorisations...)

		out = append(out, combine([][]string{
			{orWildcard(ra.Attribute(model.AttributeJurisdiction))},
			{orWildcard(ra.Attribute(model.AttributeRegion))},
			{orWildcard(ra.Attribute(model.AttributeBaseLocation))},
			{ra.RoleName},
			{orWildcard(ra.Attribute(model.AttributeCaseID))},
			{permission},
			ClassificationsVisibleTo(ra.Classification),
			unique(authorizations),
		})...)
	}
	return unique(out)
}

// ExcludedCaseIDs lists the cases the searcher is explicitly excluded from.
func ExcludedCaseIDs(assignments []model.RoleAssignment) []string {
	var out []string
	for _, ra := range assignments {
		if ra.GrantType != model.GrantTypeExcluded {
			continue
		}
		if caseID := ra.Attribute(model.AttributeCaseID); caseID != "" {
			out = append(out, caseID)
		}
	}
	return unique(out)
}

// ClassificationsVisibleTo returns the task classifications a role with the given
// classification may see. Unknown or empty classifications see PUBLIC only.
func ClassificationsVisibleTo(classification string) []string {
	switch strings.ToUpper(classification) {
	case model.ClassificationRestricted:
		return []string{model.ClassificationPublic, model.ClassificationPrivate, model.ClassificationRestricted}
	case model.ClassificationPrivate:
		return []string{model.ClassificationPublic, model.ClassificationPrivate}
	default:
		return []string{model.ClassificationPublic}
	}
}

func combine(facets [][]string) []string {
	acc := []string{""}
	for i, values := range facets {
		next := make([]string, 0, len(acc)*len(values))
		for _, prefix := range acc {
			for _, v := range values {
				if i == 0 {
					next = append(next, v)
					continue
				}
				next = append(next, prefix+separator+v)
			}
		}
		acc = next
	}
	return unique(acc)
}

func withWildcard(v string) []string {
	if v == "" || v == Wildcard {
		return []string{Wildcard}
	}
	return []string{v, Wildcard}
}

func orWildcard(v string) string {
	if v == "" {
		return Wildcard
	}
	return v
}

func valuesOrWildcard(values []string) []string {
	if len(values) == 0 {
		return []string{Wildcard}
	}
	return unique(values)
}

func unique(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
