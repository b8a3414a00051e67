// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import (
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

// Agency is an NIH institute or center code. The vocabulary is closed:
// ParseAgency rejects codes outside it.
type Agency string

const (
	AgencyCLC   Agency = "CLC"
	AgencyCSR   Agency = "CSR"
	AgencyCIT   Agency = "CIT"
	AgencyFIC   Agency = "FIC"
	AgencyNCATS Agency = "NCATS"
	AgencyNCCIH Agency = "NCCIH"
	AgencyNCI   Agency = "NCI"
	AgencyNCRR  Agency = "NCRR"
	AgencyNEI   Agency = "NEI"
	AgencyNHGRI Agency = "NHGRI"
	AgencyNHLBI Agency = "NHLBI"
	AgencyNIA   Agency = "NIA"
	AgencyNIAAA Agency = "NIAAA"
	AgencyNIAID Agency = "NIAID"
	AgencyNIAMS Agency = "NIAMS"
	AgencyNIBIB Agency = "NIBIB"
	AgencyNICHD Agency = "NICHD"
	AgencyNIDA  Agency = "NIDA"
	AgencyNIDCD Agency = "NIDCD"
	AgencyNIDCR Agency = "NIDCR"
	AgencyNIDDK Agency = "NIDDK"
	AgencyNIEHS Agency = "NIEHS"
	AgencyNIGMS Agency = "NIGMS"
	AgencyNIH   Agency = "NIH"
	AgencyNIMH  Agency = "NIMH"
	AgencyNIMHD Agency = "NIMHD"
	AgencyNINDS Agency = "NINDS"
	AgencyNINR  Agency = "NINR"
	AgencyNLM   Agency = "NLM"
	AgencyOD    Agency = "OD"
)

// DefaultAgencies is applied when tool input omits the agencies key.
var DefaultAgencies = []Agency{AgencyNIH}

var agencyNames = map[Agency]string{
	AgencyCLC:   "Clinical Center",
	AgencyCSR:   "Center for Scientific Review",
	AgencyCIT:   "Center for Information Technology",
	AgencyFIC:   "John E. Fogarty International Center",
	AgencyNCATS: "National Center for Advancing Translational Sciences",
	AgencyNCCIH: "National Center for Complementary and Integrative Health",
	AgencyNCI:   "National Cancer Institute",
	AgencyNCRR:  "National Center for Research Resources",
	AgencyNEI:   "National Eye Institute",
	AgencyNHGRI: "National Human Genome Research Institute",
	AgencyNHLBI: "National Heart, Lung, and Blood Institute",
	AgencyNIA:   "National Institute on Aging",
	AgencyNIAAA: "National Institute on Alcohol Abuse and Alcoholism",
	AgencyNIAID: "National Institute of Allergy and Infectious Diseases",
	AgencyNIAMS: "National Institute of Arthritis and Musculoskeletal and Skin Diseases",
	AgencyNIBIB: "National Institute of Biomedical Imaging and Bioengineering",
	AgencyNICHD: "Eunice Kennedy Shriver National Institute of Child Health and Human Development",
	AgencyNIDA:  "National Institute on Drug Abuse",
	AgencyNIDCD: "National Institute on Deafness and Other Communication Disorders",
	AgencyNIDCR: "National Institute of Dental and Craniofacial Research",
	AgencyNIDDK: "National Institute of Diabetes and Digestive and Kidney Diseases",
	AgencyNIEHS: "National Institute of Environmental Health Sciences",
	AgencyNIGMS: "National Institute of General Medical Sciences",
	AgencyNIH:   "National Institutes of Health",
	AgencyNIMH:  "National Institute of Mental Health",
	AgencyNIMHD: "National Institute on Minority Health and Health Disparities",
	AgencyNINDS: "National Institute of Neurological Disorders and Stroke",
	AgencyNINR:  "National Institute of Nursing Research",
	AgencyNLM:   "National Library of Medicine",
	AgencyOD:    "Office of the Director",
}

// Agencies returns every known agency code in alphabetical order.
func Agencies() []Agency {
	out := make([]Agency, 0, len(agencyNames))
	for a := range agencyNames {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseAgency matches s case-insensitively against the known codes.
func ParseAgency(s string) (Agency, error) {
	a := Agency(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := agencyNames[a]; !ok {
		return "", NewValidationError("agency", "unknown agency code %q", s)
	}
	return a, nil
}

// FullName returns the display name, or the code itself when unknown.
func (a Agency) FullName() string {
	if name, ok := agencyNames[a]; ok {
		return name
	}
	return string(a)
}

// UnmarshalText rejects unknown codes while decoding tool input.
func (a *Agency) UnmarshalText(text []byte) error {
	parsed, err := ParseAgency(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// JSONSchema lists the closed vocabulary for tool callers.
func (Agency) JSONSchema() *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:        "string",
		Description: "NIH institute or center code",
	}
	for _, a := range Agencies() {
		s.Enum = append(s.Enum, string(a))
	}
	return s
}
