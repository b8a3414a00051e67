// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reporter

import (
	"sort"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/pdiddy/grants-reporter/internal/criteria"
)

// IncludeField names a project field the API can return. The value is the
// API's include_fields spelling; Key is the snake_case key in result rows.
type IncludeField string

const (
	FieldApplID                 IncludeField = "ApplId"
	FieldSubprojectID           IncludeField = "SubprojectId"
	FieldFiscalYear             IncludeField = "FiscalYear"
	FieldProjectNum             IncludeField = "ProjectNum"
	FieldProjectSerialNum       IncludeField = "ProjectSerialNum"
	FieldCoreProjectNum         IncludeField = "CoreProjectNum"
	FieldOrganization           IncludeField = "Organization"
	FieldOrganizationType       IncludeField = "OrganizationType"
	FieldAwardType              IncludeField = "AwardType"
	FieldActivityCode           IncludeField = "ActivityCode"
	FieldAwardAmount            IncludeField = "AwardAmount"
	FieldIsActive               IncludeField = "IsActive"
	FieldPrincipalInvestigators IncludeField = "PrincipalInvestigators"
	FieldContactPiName          IncludeField = "ContactPiName"
	FieldProgramOfficers        IncludeField = "ProgramOfficers"
	FieldAgencyIcAdmin          IncludeField = "AgencyIcAdmin"
	FieldAgencyIcFundings       IncludeField = "AgencyIcFundings"
	FieldAgencyCode             IncludeField = "AgencyCode"
	FieldCongDist               IncludeField = "CongDist"
	FieldProjectStartDate       IncludeField = "ProjectStartDate"
	FieldProjectEndDate         IncludeField = "ProjectEndDate"
	FieldBudgetStart            IncludeField = "BudgetStart"
	FieldBudgetEnd              IncludeField = "BudgetEnd"
	FieldAwardNoticeDate        IncludeField = "AwardNoticeDate"
	FieldFundingMechanism       IncludeField = "FundingMechanism"
	FieldDirectCostAmt          IncludeField = "DirectCostAmt"
	FieldIndirectCostAmt        IncludeField = "IndirectCostAmt"
	FieldProjectTitle           IncludeField = "ProjectTitle"
	FieldAbstractText           IncludeField = "AbstractText"
	FieldTerms                  IncludeField = "Terms"
	FieldPrefTerms              IncludeField = "PrefTerms"
	FieldPhrText                IncludeField = "PhrText"
	FieldSpendingCategoriesDesc IncludeField = "SpendingCategoriesDesc"
	FieldOpportunityNumber      IncludeField = "OpportunityNumber"
	FieldCfdaCode               IncludeField = "CfdaCode"
	FieldArraFunded             IncludeField = "ArraFunded"
)

var fieldKeys = map[IncludeField]string{
	FieldApplID:                 "appl_id",
	FieldSubprojectID:           "subproject_id",
	FieldFiscalYear:             "fiscal_year",
	FieldProjectNum:             "project_num",
	FieldProjectSerialNum:       "project_serial_num",
	FieldCoreProjectNum:         "core_project_num",
	FieldOrganization:           "organization",
	FieldOrganizationType:       "organization_type",
	FieldAwardType:              "award_type",
	FieldActivityCode:           "activity_code",
	FieldAwardAmount:            "award_amount",
	FieldIsActive:               "is_active",
	FieldPrincipalInvestigators: "principal_investigators",
	FieldContactPiName:          "contact_pi_name",
	FieldProgramOfficers:        "program_officers",
	FieldAgencyIcAdmin:          "agency_ic_admin",
	FieldAgencyIcFundings:       "agency_ic_fundings",
	FieldAgencyCode:             "agency_code",
	FieldCongDist:               "cong_dist",
	FieldProjectStartDate:       "project_start_date",
	FieldProjectEndDate:         "project_end_date",
	FieldBudgetStart:            "budget_start",
	FieldBudgetEnd:              "budget_end",
	FieldAwardNoticeDate:        "award_notice_date",
	FieldFundingMechanism:       "funding_mechanism",
	FieldDirectCostAmt:          "direct_cost_amt",
	FieldIndirectCostAmt:        "indirect_cost_amt",
	FieldProjectTitle:           "project_title",
	FieldAbstractText:           "abstract_text",
	FieldTerms:                  "terms",
	FieldPrefTerms:              "pref_terms",
	FieldPhrText:                "phr_text",
	FieldSpendingCategoriesDesc: "spending_categories_desc",
	FieldOpportunityNumber:      "opportunity_number",
	FieldCfdaCode:               "cfda_code",
	FieldArraFunded:             "arra_funded",
}

// Key returns the snake_case key the field has in result rows.
func (f IncludeField) Key() string {
	return fieldKeys[f]
}

// ParseIncludeField accepts the API spelling ("AwardAmount"), the row key
// ("award_amount"), or the upper-case constant form ("AWARD_AMOUNT").
func ParseIncludeField(s string) (IncludeField, error) {
	want := squash(s)
	for f := range fieldKeys {
		if squash(string(f)) == want {
			return f, nil
		}
	}
	return "", criteria.NewValidationError("include_fields", "unknown field %q", s)
}

// ParseIncludeFields parses every entry, dropping duplicates.
func ParseIncludeFields(raw []string) ([]IncludeField, error) {
	seen := make(map[IncludeField]bool, len(raw))
	out := make([]IncludeField, 0, len(raw))
	for _, s := range raw {
		f, err := ParseIncludeField(s)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// UnmarshalText rejects fields outside the vocabulary while decoding tool input.
func (f *IncludeField) UnmarshalText(text []byte) error {
	parsed, err := ParseIncludeField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// JSONSchema lists the vocabulary for tool callers.
func (IncludeField) JSONSchema() *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "string", Description: "Project field to return"}
	for _, f := range AllFields() {
		s.Enum = append(s.Enum, string(f))
	}
	return s
}

// AllFields returns the vocabulary in API spelling, sorted.
func AllFields() []IncludeField {
	out := make([]IncludeField, 0, len(fieldKeys))
	for f := range fieldKeys {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func squash(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(s)
}
