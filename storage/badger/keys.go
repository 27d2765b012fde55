package badger

import "fmt"

// Key prefixes for different record types
const (
	tenantPromptPrefix = "tenprm"
	sourceRecordPrefix = "srcrec"
)

// makeTenantPromptKey generates the key for a tenant's system prompt.
func makeTenantPromptKey(tenantID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", tenantPromptPrefix, tenantID))
}

// makeSourceKey generates the key for a source record.
// Format: prefix:tenant:ref
func makeSourceKey(tenantID, ref string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", sourceRecordPrefix, tenantID, ref))
}

// makeSourcePrefix generates the iteration prefix for a tenant's sources.
func makeSourcePrefix(tenantID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", sourceRecordPrefix, tenantID))
}
