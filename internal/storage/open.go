package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Options struct {
	Driver      string
	SQLitePath  string
	RedisURL    string
	RedisPrefix string
}

// Open returns the KV selected by opts.Driver and a function that releases it.
func Open(ctx context.Context, opts Options) (KV, func() error, error) {
	switch opts.Driver {
	case DriverSQLite:
		if dir := filepath.Dir(opts.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db, err := OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case DriverRedis:
		r, err := OpenRedis(ctx, opts.RedisURL, opts.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	case DriverMemory:
		return NewMemory(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
