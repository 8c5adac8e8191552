// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/katalvlaran/lvcorr/source"
)

// schemesOf returns the location schemes used by locs (empty entries skipped).
func schemesOf(locs ...string) (map[string]bool, error) {
	need := make(map[string]bool)
	for _, loc := range locs {
		if loc == "" {
			continue
		}
		at, err := source.ParseLocation(loc)
		if err != nil {
			return nil, err
		}
		need[at.Scheme] = true
	}
	return need, nil
}

// newLoader registers only the stores in need, so a plain CSV run never touches AWS,
// MinIO or Postgres configuration. The returned close releases the database handle
// when one was opened.
func (a *app) newLoader(ctx context.Context, need map[string]bool) (*source.Loader, func(), error) {
	l := &source.Loader{}
	var db *sql.DB
	closeFn := func() {
		if db != nil {
			_ = db.Close()
		}
	}

	if need[source.SchemeS3] {
		s3, err := source.DialS3(ctx, a.cfg.S3Region, a.cfg.S3Endpoint)
		if err != nil {
			return nil, closeFn, err
		}
		l.Register(source.SchemeS3, s3)
	}
	if need[source.SchemeMinio] {
		if a.cfg.MinioEndpoint == "" {
			return nil, closeFn, fmt.Errorf("minio location without minio_endpoint: %w", source.ErrUnknownScheme)
		}
		m, err := source.DialMinio(a.cfg.MinioEndpoint, a.cfg.MinioAccessKey, a.cfg.MinioSecretKey, a.cfg.MinioSecure)
		if err != nil {
			return nil, closeFn, err
		}
		l.Register(source.SchemeMinio, m)
	}
	if need[source.SchemeSQL] {
		if a.cfg.PostgresDSN == "" {
			return nil, closeFn, fmt.Errorf("sql location without postgres_dsn: %w", source.ErrUnknownScheme)
		}
		var err error
		if db, err = source.OpenPostgres(ctx, a.cfg.PostgresDSN); err != nil {
			return nil, closeFn, err
		}
		l.DB = db
	}
	return l, closeFn, nil
}
