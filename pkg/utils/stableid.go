package utils

import (
	"crypto/sha256"
	"encoding/binary"
)

// Surrogate key ranges per table family. Tables that share a primary key
// space must use disjoint ranges, so the movement/demand space and the
// fleet reference space never overlap.
const (
	MovementIDMin = 100000
	MovementIDMax = 999999

	FleetIDMin = 1000
	FleetIDMax = 10999
)

// StableID maps an external record identifier onto [min, max]. The same
// external id always yields the same internal id, which is what makes the
// staged upsert idempotent across runs without a persisted sequence.
//
// SHA-256 of the id string, first 4 bytes as a big-endian unsigned
// integer, reduced modulo the range size. Collisions between distinct
// external ids are possible and are surfaced as duplicate-id warnings
// during transformation; they are not corrected here.
func StableID(externalID string, min, max int) int {
	sum := sha256.Sum256([]byte(externalID))
	n := binary.BigEndian.Uint32(sum[:4])
	rangeSize := uint32(max - min + 1)
	return int(n%rangeSize) + min
}

// MovementStableID maps an external flight-leg id into the six-digit
// movement/demand key space.
func MovementStableID(externalID string) int {
	return StableID(externalID, MovementIDMin, MovementIDMax)
}

// FleetStableID maps an external aircraft or aircraft-type id into the
// fleet reference key space.
func FleetStableID(externalID string) int {
	return StableID(externalID, FleetIDMin, FleetIDMax)
}
