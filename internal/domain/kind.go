package domain

// Kind identifies one of the configured tabular datasets.
type Kind string

const (
	KindContractors Kind = "contractors"
	KindRisks       Kind = "risks"
	KindErrors      Kind = "errors"
	KindProcesses   Kind = "processes"
)

// Kinds lists every supported dataset kind.
func Kinds() []Kind {
	return []Kind{KindContractors, KindRisks, KindErrors, KindProcesses}
}

// ParseKind validates a dataset kind received from the API.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	switch k {
	case KindContractors, KindRisks, KindErrors, KindProcesses:
		return k, true
	}
	return "", false
}

// RiskCategory narrows the risks dataset before classification.
type RiskCategory string

const (
	RiskCategoryNIOKR         RiskCategory = "niokr"
	RiskCategoryProduct       RiskCategory = "product_project"
	RiskCategoryManufacturing RiskCategory = "manufacturing"
)

// ParseRiskCategory validates a risk category received from the API.
// The empty string is valid and means "no category narrowing".
func ParseRiskCategory(s string) (RiskCategory, bool) {
	c := RiskCategory(s)
	switch c {
	case "", RiskCategoryNIOKR, RiskCategoryProduct, RiskCategoryManufacturing:
		return c, true
	}
	return "", false
}
