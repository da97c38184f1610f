package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintCheckID_StableAndFieldsIndependent(t *testing.T) {
	id1 := FingerprintCheckID("warehouse", "orders_not_null", "orders")
	id2 := FingerprintCheckID("warehouse", "orders_not_null", "orders")
	assert.Equal(t, id1, id2, "fingerprint must be deterministic")

	// Unrelated fields (threshold, filter) are not part of the input, so
	// callers comparing two descriptors that only differ there should
	// pass the same three strings and get the same id.
	idWithDifferentDataset := FingerprintCheckID("warehouse", "orders_not_null", "vendors")
	assert.NotEqual(t, id1, idWithDifferentDataset, "dataset change must change the id")

	idWithDifferentName := FingerprintCheckID("warehouse", "vendors_not_null", "orders")
	assert.NotEqual(t, id1, idWithDifferentName)

	idWithDifferentSource := FingerprintCheckID("reporting", "orders_not_null", "orders")
	assert.NotEqual(t, id1, idWithDifferentSource)
}

func TestFingerprintCheckID_NoFieldConcatenationCollision(t *testing.T) {
	// "a" + "bc" must not collide with "ab" + "c" across the separator.
	a := FingerprintCheckID("a", "bc", "x")
	b := FingerprintCheckID("ab", "c", "x")
	assert.NotEqual(t, a, b)
}

func TestFingerprintCheckID_IsHexSHA256(t *testing.T) {
	id := FingerprintCheckID("warehouse", "orders_not_null", "orders")
	require.Len(t, id, 64)
	assert.True(t, isHex(id))
}

func TestStoredDatasetIdentifier_ShortPassesThrough(t *testing.T) {
	short := "orders"
	assert.Equal(t, short, StoredDatasetIdentifier(short))
}

func TestStoredDatasetIdentifier_LongIsHashed(t *testing.T) {
	long := "SELECT " + strings.Repeat("a", maxStoredDatasetLen+1)
	hashed := StoredDatasetIdentifier(long)
	assert.Len(t, hashed, 64)
	assert.True(t, isHex(hashed))
	assert.NotEqual(t, long, hashed)
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
