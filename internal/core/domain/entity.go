package domain

// Entity is a decoded Dataverse JSON object. Responses are passed through to
// the caller opaquely; no schema is enforced on the attributes.
type Entity = map[string]any
