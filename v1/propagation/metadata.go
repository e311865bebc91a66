package propagation

import (
	"strings"

	"google.golang.org/grpc/metadata"
)

// MetadataCarrier adapts gRPC metadata.MD to the carrier interface so trace
// context can ride on RPC call metadata.
//
// gRPC metadata values must be ASCII (binary values need a "-bin" suffixed
// key, which the W3C format never produces). Set drops any key or value that
// cannot be represented instead of failing, matching the codec's best-effort
// injection contract.
type MetadataCarrier struct {
	MD metadata.MD
}

// Get returns the first value associated with the key, or "" when absent.
func (c MetadataCarrier) Get(key string) string {
	values := c.MD.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Set stores the key/value pair. Keys are lowercased per gRPC metadata
// convention. Non-ASCII keys or values are dropped silently.
func (c MetadataCarrier) Set(key, value string) {
	if !validMetadataKey(key) || !validMetadataValue(value) {
		return
	}
	c.MD.Set(strings.ToLower(key), value)
}

// Keys lists the keys stored in the carrier.
func (c MetadataCarrier) Keys() []string {
	keys := make([]string, 0, len(c.MD))
	for k := range c.MD {
		keys = append(keys, k)
	}
	return keys
}

// validMetadataKey reports whether key is a legal gRPC metadata key:
// digits, lowercase or uppercase letters, and "-_." only.
func validMetadataKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case '0' <= c && c <= '9':
		case 'a' <= c && c <= 'z':
		case 'A' <= c && c <= 'Z':
		case c == '-' || c == '_' || c == '.':
		default:
			return false
		}
	}
	return true
}

// validMetadataValue reports whether value is printable ASCII plus space,
// the only encoding gRPC accepts for non-binary metadata values.
func validMetadataValue(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}
