// Package codec encrypts workflow payloads before they reach Temporal history.
package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	commonpb "go.temporal.io/api/common/v1"
	"go.temporal.io/sdk/converter"
	"google.golang.org/protobuf/proto"
)

const (
	// MetadataEncodingEncrypted marks payloads produced by this codec
	MetadataEncodingEncrypted = "binary/encrypted"
	// MetadataEncryptionKeyID names the key a payload was sealed with
	MetadataEncryptionKeyID = "encryption-key-id"
)

var ErrInvalidKey = errors.New("encryption key must be 32 bytes")

// EncryptionCodec is an AES-256-GCM converter.PayloadCodec
type EncryptionCodec struct {
	KeyID string
	aead  cipher.AEAD
}

var _ converter.PayloadCodec = (*EncryptionCodec)(nil)

// NewEncryptionCodec creates a codec for a 32-byte key
func NewEncryptionCodec(keyID string, key []byte) (*EncryptionCodec, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &EncryptionCodec{KeyID: keyID, aead: aead}, nil
}

// NewEncryptionDataConverter wraps the default data converter with payload encryption
func NewEncryptionDataConverter(key []byte) (converter.DataConverter, error) {
	c, err := NewEncryptionCodec("default", key)
	if err != nil {
		return nil, err
	}
	return converter.NewCodecDataConverter(converter.GetDefaultDataConverter(), c), nil
}

// Encode seals each payload, proto-marshalled, into a new payload
func (e *EncryptionCodec) Encode(payloads []*commonpb.Payload) ([]*commonpb.Payload, error) {
	result := make([]*commonpb.Payload, len(payloads))
	for i, p := range payloads {
		plain, err := proto.Marshal(p)
		if err != nil {
			return payloads, fmt.Errorf("failed to marshal payload: %w", err)
		}

		nonce := make([]byte, e.aead.NonceSize())
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return payloads, fmt.Errorf("failed to generate nonce: %w", err)
		}

		result[i] = &commonpb.Payload{
			Metadata: map[string][]byte{
				converter.MetadataEncoding: []byte(MetadataEncodingEncrypted),
				MetadataEncryptionKeyID:    []byte(e.KeyID),
			},
			Data: e.aead.Seal(nonce, nonce, plain, nil),
		}
	}
	return result, nil
}

// Decode opens encrypted payloads; payloads in any other encoding pass through.
func (e *EncryptionCodec) Decode(payloads []*commonpb.Payload) ([]*commonpb.Payload, error) {
	result := make([]*commonpb.Payload, len(payloads))
	for i, p := range payloads {
		if string(p.GetMetadata()[converter.MetadataEncoding]) != MetadataEncodingEncrypted {
			result[i] = p
			continue
		}

		data := p.GetData()
		nonceSize := e.aead.NonceSize()
		if len(data) < nonceSize {
			return payloads, errors.New("encrypted payload too short")
		}
		plain, err := e.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
		if err != nil {
			return payloads, fmt.Errorf("failed to decrypt payload (key %q): %w", p.GetMetadata()[MetadataEncryptionKeyID], err)
		}

		result[i] = &commonpb.Payload{}
		if err := proto.Unmarshal(plain, result[i]); err != nil {
			return payloads, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}
	return result, nil
}
