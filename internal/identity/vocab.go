package identity

import "strings"

const (
	RegionEuropean       = "European"
	RegionNorthAmerican  = "North American"
	RegionLatinAmerican  = "Latin American"
	RegionEastAsian      = "East Asian"
	RegionSouthAsian     = "South Asian"
	RegionSoutheastAsian = "Southeast Asian"
	RegionMiddleEastern  = "Middle Eastern"
	RegionAfrican        = "African"
	RegionOceanian       = "Oceanian"
	// RegionIndigenous is not tied to any country below.
	RegionIndigenous     = "Indigenous"
)

// Country ties a Wikidata item, an ISO 3166 code and a demonym to a heritage region.
type Country struct {
	QID     string
	ISO2    string
	Demonym string
	Region  string
}

var countries = []Country{
	{"Q142", "FR", "French", RegionEuropean},
	{"Q183", "DE", "German", RegionEuropean},
	{"Q38", "IT", "Italian", RegionEuropean},
	{"Q29", "ES", "Spanish", RegionEuropean},
	{"Q145", "GB", "British", RegionEuropean},
	{"Q34", "SE", "Swedish", RegionEuropean},
	{"Q35", "DK", "Danish", RegionEuropean},
	{"Q55", "NL", "Dutch", RegionEuropean},
	{"Q40", "AT", "Austrian", RegionEuropean},
	{"Q39", "CH", "Swiss", RegionEuropean},
	{"Q36", "PL", "Polish", RegionEuropean},
	{"Q37", "LT", "Lithuanian", RegionEuropean},
	{"Q33", "FI", "Finnish", RegionEuropean},
	{"Q20", "NO", "Norwegian", RegionEuropean},
	{"Q159", "RU", "Russian", RegionEuropean},
	{"Q31", "BE", "Belgian", RegionEuropean},
	{"Q45", "PT", "Portuguese", RegionEuropean},
	{"Q27", "IE", "Irish", RegionEuropean},
	{"Q41", "GR", "Greek", RegionEuropean},
	{"Q213", "CZ", "Czech", RegionEuropean},
	{"Q28", "HU", "Hungarian", RegionEuropean},
	{"Q212", "UA", "Ukrainian", RegionEuropean},

	{"Q30", "US", "American", RegionNorthAmerican},
	{"Q16", "CA", "Canadian", RegionNorthAmerican},
	{"Q96", "MX", "Mexican", RegionNorthAmerican},

	{"Q148", "CN", "Chinese", RegionEastAsian},
	{"Q17", "JP", "Japanese", RegionEastAsian},
	{"Q884", "KR", "Korean", RegionEastAsian},
	{"Q865", "TW", "Taiwanese", RegionEastAsian},

	{"Q668", "IN", "Indian", RegionSouthAsian},
	{"Q843", "PK", "Pakistani", RegionSouthAsian},
	{"Q902", "BD", "Bangladeshi", RegionSouthAsian},
	{"Q889", "AF", "Afghan", RegionSouthAsian},
	{"Q854", "LK", "Sri Lankan", RegionSouthAsian},

	{"Q334", "SG", "Singaporean", RegionSoutheastAsian},
	{"Q833", "MY", "Malaysian", RegionSoutheastAsian},
	{"Q928", "PH", "Filipino", RegionSoutheastAsian},
	{"Q252", "ID", "Indonesian", RegionSoutheastAsian},
	{"Q869", "TH", "Thai", RegionSoutheastAsian},
	{"Q881", "VN", "Vietnamese", RegionSoutheastAsian},
	{"Q424", "KH", "Cambodian", RegionSoutheastAsian},
	{"Q819", "LA", "Laotian", RegionSoutheastAsian},
	{"Q836", "MM", "Burmese", RegionSoutheastAsian},

	{"Q878", "AE", "Emirati", RegionMiddleEastern},
	{"Q858", "SY", "Syrian", RegionMiddleEastern},
	{"Q796", "IQ", "Iraqi", RegionMiddleEastern},
	{"Q794", "IR", "Iranian", RegionMiddleEastern},
	{"Q801", "IL", "Israeli", RegionMiddleEastern},
	{"Q822", "LB", "Lebanese", RegionMiddleEastern},
	{"Q43", "TR", "Turkish", RegionMiddleEastern},
	{"Q851", "SA", "Saudi", RegionMiddleEastern},

	{"Q258", "ZA", "South African", RegionAfrican},
	{"Q1033", "NG", "Nigerian", RegionAfrican},
	{"Q1028", "MA", "Moroccan", RegionAfrican},
	{"Q79", "EG", "Egyptian", RegionAfrican},
	{"Q1049", "SD", "Sudanese", RegionAfrican},
	{"Q1016", "LY", "Libyan", RegionAfrican},
	{"Q114", "KE", "Kenyan", RegionAfrican},
	{"Q117", "GH", "Ghanaian", RegionAfrican},
	{"Q115", "ET", "Ethiopian", RegionAfrican},
	{"Q1041", "SN", "Senegalese", RegionAfrican},
	{"Q1036", "UG", "Ugandan", RegionAfrican},
	{"Q1037", "RW", "Rwandan", RegionAfrican},
	{"Q924", "TZ", "Tanzanian", RegionAfrican},
	{"Q954", "ZW", "Zimbabwean", RegionAfrican},
	{"Q1008", "CI", "Ivorian", RegionAfrican},
	{"Q1009", "CM", "Cameroonian", RegionAfrican},
	{"Q974", "CD", "Congolese", RegionAfrican},
	{"Q1019", "MG", "Malagasy", RegionAfrican},
	{"Q1020", "MW", "Malawian", RegionAfrican},
	{"Q953", "ZM", "Zambian", RegionAfrican},
	{"Q1029", "MZ", "Mozambican", RegionAfrican},
	{"Q948", "TN", "Tunisian", RegionAfrican},
	{"Q262", "DZ", "Algerian", RegionAfrican},
	{"Q912", "ML", "Malian", RegionAfrican},
	{"Q1030", "NA", "Namibian", RegionAfrican},

	{"Q414", "AR", "Argentine", RegionLatinAmerican},
	{"Q155", "BR", "Brazilian", RegionLatinAmerican},
	{"Q298", "CL", "Chilean", RegionLatinAmerican},
	{"Q739", "CO", "Colombian", RegionLatinAmerican},
	{"Q241", "CU", "Cuban", RegionLatinAmerican},
	{"Q736", "EC", "Ecuadorian", RegionLatinAmerican},
	{"Q804", "PA", "Panamanian", RegionLatinAmerican},
	{"Q717", "VE", "Venezuelan", RegionLatinAmerican},
	{"Q750", "BO", "Bolivian", RegionLatinAmerican},
	{"Q733", "PY", "Paraguayan", RegionLatinAmerican},
	{"Q77", "UY", "Uruguayan", RegionLatinAmerican},
	{"Q419", "PE", "Peruvian", RegionLatinAmerican},
	{"Q774", "GT", "Guatemalan", RegionLatinAmerican},
	{"Q783", "HN", "Honduran", RegionLatinAmerican},
	{"Q792", "SV", "Salvadoran", RegionLatinAmerican},
	{"Q811", "NI", "Nicaraguan", RegionLatinAmerican},
	{"Q800", "CR", "Costa Rican", RegionLatinAmerican},
	{"Q790", "HT", "Haitian", RegionLatinAmerican},
	{"Q786", "DO", "Dominican", RegionLatinAmerican},
	{"Q766", "JM", "Jamaican", RegionLatinAmerican},
	{"Q754", "TT", "Trinidadian", RegionLatinAmerican},
	{"Q1183", "PR", "Puerto Rican", RegionLatinAmerican},

	{"Q408", "AU", "Australian", RegionOceanian},
	{"Q664", "NZ", "New Zealander", RegionOceanian},
}

var (
	byQID     = make(map[string]Country, len(countries))
	byISO2    = make(map[string]Country, len(countries))
	byDemonym = make(map[string]Country, len(countries))
)

func init() {
	for _, c := range countries {
		byQID[c.QID] = c
		byISO2[c.ISO2] = c
		byDemonym[strings.ToLower(c.Demonym)] = c
	}
}

// RegionForQID maps a Wikidata country item (bare QID or entity URI).
func RegionForQID(qid string) (string, bool) {
	c, ok := byQID[LastPathSegment(qid)]
	return c.Region, ok
}

func RegionForISO2(code string) (string, bool) {
	c, ok := byISO2[strings.ToUpper(strings.TrimSpace(code))]
	return c.Region, ok
}

func RegionForDemonym(demonym string) (string, bool) {
	c, ok := byDemonym[strings.ToLower(strings.TrimSpace(demonym))]
	return c.Region, ok
}

var wikidataGenders = map[string]Gender{
	"Q6581072":  GenderFemale,
	"Q1052281":  GenderFemale, // trans woman
	"Q6581097":  GenderMale,
	"Q2449503":  GenderMale, // trans man
	"Q48270":    GenderNonBinary,
	"Q1097630":  GenderNonBinary, // intersex
	"Q12964198": GenderNonBinary, // genderqueer
	"Q18116794": GenderNonBinary, // genderfluid
}

// GenderForQID maps a Wikidata sex-or-gender item (bare QID or entity URI).
func GenderForQID(qid string) Gender {
	if g, ok := wikidataGenders[LastPathSegment(qid)]; ok {
		return g
	}
	return GenderUnknown
}

// LastPathSegment returns the part of an entity URI after the final '/'.
func LastPathSegment(uri string) string {
	uri = strings.TrimRight(strings.TrimSpace(uri), "/")
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
