// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reporter

import "github.com/pdiddy/grants-reporter/pkg/types"

// normalizeRow flattens the nested objects of one raw result row. It is
// total: missing or malformed subfields yield absent values, never a panic.
// When include is non-empty only the requested keys are kept.
func normalizeRow(raw map[string]any, include []IncludeField) types.ProjectRecord {
	rec := make(types.ProjectRecord, len(raw))
	if len(include) == 0 {
		for k, v := range raw {
			rec[k] = v
		}
	} else {
		for _, f := range include {
			if v, ok := raw[f.Key()]; ok {
				rec[f.Key()] = v
			}
		}
	}

	if v, ok := rec["organization"]; ok {
		rec["organization"] = flattenOrganization(v)
	}
	if v, ok := rec["agency_ic_admin"]; ok {
		rec["agency_ic_admin"] = flattenAgency(v)
	}
	if v, ok := rec["principal_investigators"]; ok {
		rec["principal_investigators"] = flattenInvestigators(v)
	}
	return rec
}

// flattenOrganization keeps org_name and org_state.
func flattenOrganization(v any) any {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := map[string]any{}
	for _, key := range []string{"org_name", "org_state"} {
		if s, ok := obj[key].(string); ok && s != "" {
			out[key] = s
		}
	}
	return out
}

// flattenAgency collapses the administering agency to its abbreviation.
func flattenAgency(v any) any {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	if s, ok := obj["abbreviation"].(string); ok && s != "" {
		return s
	}
	return nil
}

// flattenInvestigators collapses the PI list to full names.
func flattenInvestigators(v any) any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(list))
	for _, item := range list {
		pi, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if name, ok := pi["full_name"].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}
