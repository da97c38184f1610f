package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// fieldSeparator is the byte weiser places between the fingerprinted
// fields so that, e.g., datasource "a"+name "bc" can never collide with
// datasource "ab"+name "c".
const fieldSeparator = 0x1F

// FingerprintCheckID computes the stable checkId for a declared check:
// SHA-256 over (datasource, check-name, dataset-identifier), joined by
// 0x1F. Dimension values and time buckets are never part of the input —
// they are recorded as separate MetricRecord columns so that history for a
// single checkId groups every partition of the declared check.
func FingerprintCheckID(datasource, checkName, datasetIdentifier string) string {
	h := sha256.New()
	h.Write([]byte(datasource))
	h.Write([]byte{fieldSeparator})
	h.Write([]byte(checkName))
	h.Write([]byte{fieldSeparator})
	h.Write([]byte(datasetIdentifier))
	return hex.EncodeToString(h.Sum(nil))
}

// maxStoredDatasetLen is the longest dataset identifier weiser will store
// verbatim in MetricRecord.Dataset; longer raw-SQL identifiers are hashed
// for storage (DESIGN.md, Open Question 2) while the canonical text is
// always kept in DatasetText.
const maxStoredDatasetLen = 256

// StoredDatasetIdentifier returns the value to store in MetricRecord.Dataset
// for the given canonical dataset identifier: the identifier itself if
// short enough, otherwise its SHA-256 hex digest.
func StoredDatasetIdentifier(datasetIdentifier string) string {
	if len(datasetIdentifier) <= maxStoredDatasetLen {
		return datasetIdentifier
	}
	sum := sha256.Sum256([]byte(datasetIdentifier))
	return hex.EncodeToString(sum[:])
}
