package metrics

// Metric attribute keys.
const (
	AttrMethod = "method"
	AttrRoute  = "route"
	AttrStatus = "status"
	AttrResult = "result"
)
