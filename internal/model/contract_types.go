package model

// ContractTypeCode maps the leading character of a contract identifier
// to a coarse plan-category label.
type ContractTypeCode struct {
	Code  string // single character, e.g. "H"
	Label string
}

// DefaultContractTypes lists the known CMS contract number prefixes in
// canonical order.
var DefaultContractTypes = []ContractTypeCode{
	{Code: "H", Label: "Local MA / HMO / Cost / PACE"},
	{Code: "R", Label: "Regional PPO"},
	{Code: "S", Label: "Standalone PDP"},
	{Code: "E", Label: "Employer / Union Direct"},
	{Code: "9", Label: "Other / Demo"},
}

// ContractTypeOther is the label for unrecognized prefix codes.
const ContractTypeOther = "Other"

// ContractTypeTable is an immutable prefix→label lookup injected into the
// join engine at construction.
type ContractTypeTable map[string]string

// NewContractTypeTable builds a lookup table from a code list.
func NewContractTypeTable(codes []ContractTypeCode) ContractTypeTable {
	t := make(ContractTypeTable, len(codes))
	for _, c := range codes {
		t[c.Code] = c.Label
	}
	return t
}

// Label returns the plan-category label for a normalized contract
// identifier, or ContractTypeOther when the prefix is unknown.
func (t ContractTypeTable) Label(contractID string) string {
	if contractID == "" {
		return ContractTypeOther
	}
	if label, ok := t[contractID[:1]]; ok {
		return label
	}
	return ContractTypeOther
}
