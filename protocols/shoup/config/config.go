// Package config implements the CBOR record format for persisting
// PrivateKey, Share, SignatureShare, and VerificationData values: every
// integer is stored as a length-prefixed, unsigned big-endian byte string.
package config

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/shoup/threshold-rsa/protocols/shoup"
)

// PrivateKeyRecord is the on-the-wire form of a PrivateKey: five unsigned
// big-endian integers with implicit length prefixes (CBOR byte strings
// carry their own length).
type PrivateKeyRecord struct {
	P []byte `cbor:"p"`
	Q []byte `cbor:"q"`
	D []byte `cbor:"d"`
	M []byte `cbor:"m"`
	E []byte `cbor:"e"`
}

// MarshalPrivateKey encodes key as a CBOR PrivateKeyRecord.
func MarshalPrivateKey(key *shoup.PrivateKey) ([]byte, error) {
	record := PrivateKeyRecord{
		P: key.P.Bytes(),
		Q: key.Q.Bytes(),
		D: key.D.Bytes(),
		M: key.M.Bytes(),
		E: key.E.Bytes(),
	}
	data, err := cbor.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("config: marshalling private key: %w", err)
	}
	return data, nil
}

// UnmarshalPrivateKey decodes a CBOR PrivateKeyRecord back into a
// PrivateKey.
func UnmarshalPrivateKey(data []byte) (*shoup.PrivateKey, error) {
	var record PrivateKeyRecord
	if err := cbor.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("config: unmarshalling private key: %w", err)
	}
	return &shoup.PrivateKey{
		P: new(big.Int).SetBytes(record.P),
		Q: new(big.Int).SetBytes(record.Q),
		D: new(big.Int).SetBytes(record.D),
		M: new(big.Int).SetBytes(record.M),
		E: new(big.Int).SetBytes(record.E),
	}, nil
}

// ShareRecord is the on-the-wire form of a Share: a u32 party index and a
// length-prefixed big-endian share value.
type ShareRecord struct {
	Index uint32 `cbor:"i"`
	Value []byte `cbor:"s"`
}

// MarshalShare encodes s as a CBOR ShareRecord.
func MarshalShare(s *shoup.Share) ([]byte, error) {
	record := ShareRecord{Index: uint32(s.Index), Value: s.Value.Bytes()}
	data, err := cbor.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("config: marshalling share: %w", err)
	}
	return data, nil
}

// UnmarshalShare decodes a CBOR ShareRecord back into a Share.
func UnmarshalShare(data []byte) (*shoup.Share, error) {
	var record ShareRecord
	if err := cbor.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("config: unmarshalling share: %w", err)
	}
	return &shoup.Share{
		Index: int(record.Index),
		Value: new(big.Int).SetBytes(record.Value),
	}, nil
}

// SignatureShareRecord is the on-the-wire form of a SignatureShare: a u32
// party index and three length-prefixed unsigned big-endian integers. z
// is an integer sum of non-negative terms and c is a hash output, so
// neither is ever negative; MarshalSignatureShare rejects a negative Z or
// C rather than silently dropping its sign through Bytes().
type SignatureShareRecord struct {
	Index uint32 `cbor:"i"`
	Xi    []byte `cbor:"xi"`
	Z     []byte `cbor:"z"`
	C     []byte `cbor:"c"`
}

// MarshalSignatureShare encodes s as a CBOR SignatureShareRecord.
func MarshalSignatureShare(s *shoup.SignatureShare) ([]byte, error) {
	if s.Z.Sign() < 0 {
		return nil, fmt.Errorf("config: signature share z must be non-negative")
	}
	if s.C.Sign() < 0 {
		return nil, fmt.Errorf("config: signature share c must be non-negative")
	}
	record := SignatureShareRecord{
		Index: uint32(s.Index),
		Xi:    s.Xi.Bytes(),
		Z:     s.Z.Bytes(),
		C:     s.C.Bytes(),
	}
	data, err := cbor.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("config: marshalling signature share: %w", err)
	}
	return data, nil
}

// UnmarshalSignatureShare decodes a CBOR SignatureShareRecord back into a
// SignatureShare.
func UnmarshalSignatureShare(data []byte) (*shoup.SignatureShare, error) {
	var record SignatureShareRecord
	if err := cbor.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("config: unmarshalling signature share: %w", err)
	}
	return &shoup.SignatureShare{
		Index: int(record.Index),
		Xi:    new(big.Int).SetBytes(record.Xi),
		Z:     new(big.Int).SetBytes(record.Z),
		C:     new(big.Int).SetBytes(record.C),
	}, nil
}

// verificationEntry is one (party index, v_i) pair in a VerificationRecord.
// CBOR maps with integer keys round-trip awkwardly across encoders, so the
// record uses a flat slice instead of map[int][]byte.
type verificationEntry struct {
	Index uint32 `cbor:"i"`
	Vi    []byte `cbor:"vi"`
}

// VerificationRecord is the on-the-wire form of VerificationData: the
// shared base v and one v_i entry per shareholder.
type VerificationRecord struct {
	V       []byte              `cbor:"v"`
	Entries []verificationEntry `cbor:"entries"`
}

// MarshalVerification encodes vd as a CBOR VerificationRecord.
func MarshalVerification(vd *shoup.VerificationData) ([]byte, error) {
	record := VerificationRecord{V: vd.V.Bytes()}
	for index, vi := range vd.Vi {
		record.Entries = append(record.Entries, verificationEntry{Index: uint32(index), Vi: vi.Bytes()})
	}
	data, err := cbor.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("config: marshalling verification data: %w", err)
	}
	return data, nil
}

// UnmarshalVerification decodes a CBOR VerificationRecord back into
// VerificationData.
func UnmarshalVerification(data []byte) (*shoup.VerificationData, error) {
	var record VerificationRecord
	if err := cbor.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("config: unmarshalling verification data: %w", err)
	}
	vd := &shoup.VerificationData{
		V:  new(big.Int).SetBytes(record.V),
		Vi: make(map[int]*big.Int, len(record.Entries)),
	}
	for _, entry := range record.Entries {
		vd.Vi[int(entry.Index)] = new(big.Int).SetBytes(entry.Vi)
	}
	return vd, nil
}
