package metrics

// Attribute keys shared by the OTel instruments.
const (
	AttrPath   = "path"
	AttrEntity = "entity"
	AttrMethod = "method"
	AttrRoute  = "route"
	AttrStatus = "status"
)
