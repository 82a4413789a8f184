package domain

// Flow type codes partition the transition table into independent
// sub-graphs. A ticket keeps its flow type for its whole lifetime.
const (
	FlowCodeCustomer = "CUST"
	FlowCodeInternal = "INT"
)

// FlowType partitions the workflow into customer-facing and internal flows.
type FlowType struct {
	ID   int64
	Code string
	Name string
}

// IsInternal reports whether the flow type denotes an internal flow.
func (f FlowType) IsInternal() bool {
	return f.Code == FlowCodeInternal
}
