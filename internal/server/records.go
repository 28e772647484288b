package server

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// readRecord loads and decodes one record. found is false when the key does
// not exist.
func readRecord[T any](ctx context.Context, s Store, collection, key string) (v T, found bool, err error) {
	raw, err := s.Read(ctx, collection, key)
	if err != nil || raw == "" {
		return v, false, err
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, false, errors.Wrapf(err, "decode %s/%s", collection, key)
	}
	return v, true, nil
}

func createRecord(ctx context.Context, s Store, collection, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Create(ctx, collection, key, string(b))
}

func updateRecord(ctx context.Context, s Store, collection, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Update(ctx, collection, key, string(b))
}
