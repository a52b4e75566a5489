package store

import (
	"encoding/json"
	"fmt"

	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/klauspost/compress/zstd"
)

// record is the on-disk envelope around a session
type record struct {
	Version int             `json:"version"`
	Session json.RawMessage `json:"session"`
}

// encodeSession serializes a session as a versioned JSON record compressed with zstd
func encodeSession(s *session.Session) ([]byte, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	data, err := json.Marshal(record{Version: currentRecordVersion, Session: body})
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return compressZstd(data)
}

// decodeSession reverses encodeSession, upgrading records written by older versions
func decodeSession(data []byte) (*session.Session, error) {
	raw, err := decompressZstd(data)
	if err != nil {
		return nil, fmt.Errorf("decompress session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}

	body := rec.Session
	if rec.Version < currentRecordVersion {
		if body, err = migrateRecord(rec.Version, body); err != nil {
			return nil, err
		}
	}

	var s session.Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if s.Repo != nil {
		s.Repo.Normalize()
	}
	return &s, nil
}

func compressZstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
