package dds

import (
	"encoding/binary"
	"encoding/hex"
)

// GUID identifies a DDS entity: a 12 byte participant prefix followed by a
// 4 byte entity id.
type GUID [16]byte

// GUIDUnknown is the zero GUID.
var GUIDUnknown GUID

func (g GUID) Prefix() [12]byte {
	var p [12]byte
	copy(p[:], g[:12])
	return p
}

func (g GUID) EntityID() uint32 {
	return binary.BigEndian.Uint32(g[12:])
}

func (g GUID) IsUnknown() bool {
	return g == GUIDUnknown
}

func (g GUID) String() string {
	return hex.EncodeToString(g[:12]) + "." + hex.EncodeToString(g[12:])
}

// NewGUID builds a GUID from a participant prefix and an entity id.
func NewGUID(prefix [12]byte, entityID uint32) GUID {
	var g GUID
	copy(g[:12], prefix[:])
	binary.BigEndian.PutUint32(g[12:], entityID)
	return g
}

// InstanceHandle is the opaque local handle of an instance or entity. For
// built-in topics it carries the GUID of the announced entity.
type InstanceHandle [16]byte

// HandleNil is the nil instance handle.
var HandleNil InstanceHandle

func (h InstanceHandle) IsNil() bool {
	return h == HandleNil
}

func (h InstanceHandle) GUID() GUID {
	return GUID(h)
}

// BuiltinTopicKey is the key field of built-in topic data.
type BuiltinTopicKey [4]uint32

// GUID converts the key to the GUID it was derived from.
func (k BuiltinTopicKey) GUID() GUID {
	var g GUID
	for i, v := range k {
		binary.BigEndian.PutUint32(g[i*4:], v)
	}
	return g
}

// KeyFromGUID is the inverse of BuiltinTopicKey.GUID.
func KeyFromGUID(g GUID) BuiltinTopicKey {
	var k BuiltinTopicKey
	for i := range k {
		k[i] = binary.BigEndian.Uint32(g[i*4:])
	}
	return k
}
