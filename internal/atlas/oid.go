package atlas

import (
	"encoding/json"
	"fmt"
)

// OID is a document identifier as it appears in gateway responses. The
// Data API serializes ObjectIDs either as a plain hex string or as the
// extended-JSON form {"$oid": "..."} depending on the negotiated response
// mode, so OID accepts both.
type OID string

// UnmarshalJSON implements json.Unmarshaler.
func (o *OID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*o = OID(s)
		return nil
	}

	var ext struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(data, &ext); err != nil {
		return fmt.Errorf("decoding object id: %w", err)
	}
	*o = OID(ext.OID)
	return nil
}

// ObjectID returns the extended-JSON clause that matches the given document
// id, for use as a filter value: {"_id": ObjectID(id)}.
func ObjectID(id string) map[string]any {
	return map[string]any{"$oid": id}
}
