package log

// Structured field names shared across packages.
const (
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldRoute     = "route"
	FieldStatus    = "status"
	FieldBytes     = "bytes"
	FieldLatency   = "latency"
	FieldClientIP  = "client_ip"
	FieldService   = "service"

	FieldItemID    = "item_id"
	FieldQuery     = "query"
	FieldCacheKey  = "cache_key"
	FieldHits      = "hits"
	FieldImagePath = "image_path"
	FieldDriver    = "driver"
)
