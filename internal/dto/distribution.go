package dto

// RunDistributionRequest triggers a distribution batch. Period is an explicit
// "YYYY-MM" label; when omitted the handler fills in the current UTC month so
// the engine itself never reads the wall clock for idempotency decisions.
type RunDistributionRequest struct {
	Period string `json:"period" binding:"omitempty,len=7"`
}
