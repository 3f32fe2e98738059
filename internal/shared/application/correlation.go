package application

import "github.com/google/uuid"

// CorrelationID turns a request correlation id into the uuid events carry.
// Ids that are not uuids, such as those set by upstream proxies, are hashed
// so every event of one request still shares an id.
func CorrelationID(id string) uuid.UUID {
	if id == "" {
		return uuid.New()
	}
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))
}
