package statuspage

// Error messages
const (
	ErrPayloadDecode = "malformed webhook payload"
	ErrPayloadField  = "malformed field"
	ErrPayloadShape  = "no component_update or incident key"
	ErrStoreContains = "failed to check seen store"
	ErrStoreInsert   = "failed to record incident as seen"
)
