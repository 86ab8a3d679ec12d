package jira

// Named field sets control which issue fields are requested per call.
// Wildcard tokens ("*navigable", "*all") pass through verbatim to Jira's
// field-selection parameter.
var fieldSets = map[string][]string{
	"basic": {
		"summary",
		"description",
		"status",
		"issuetype",
		"priority",
		"assignee",
		"labels",
		"created",
		"updated",
	},
	"navigable": {"*navigable"},
	"full":      {"*all"},
}

// ResolveFieldSet maps a field-set name to the concrete list of field
// identifiers to request. Unrecognized names fall back to the navigable set.
func ResolveFieldSet(name string) []string {
	if fields, ok := fieldSets[name]; ok {
		return fields
	}
	return fieldSets["navigable"]
}
