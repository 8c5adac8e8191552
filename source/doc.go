// SPDX-License-Identifier: MIT

// Package source loads datasets into table.Table from files, object stores, Arrow and Postgres.
//
// What & Why:
//
//	The correlation pipeline only ever sees a table.Table. This package is the single place
//	where external representations are turned into one, so missing-value tokens, type
//	inference and key handling behave the same whatever the origin.
//
// Formats:
//
//	CSV / TSV   header row, NA tokens "", "NA", "NaN", "null" (case-sensitive), ".tsv" → tab.
//	Compressed  ".zst" (zstd), ".gz" (gzip), ".lz4" (lz4 frame) suffixes are stripped and decoded.
//	Arrow       float/int columns numeric, string columns categorical, nulls missing.
//	Postgres    one query result; numeric driver values numeric, everything else inferred.
//
// Type inference:
//
//	A column is numeric iff every observed cell parses as a float64. A column with no
//	observed cell is numeric (all NaN).
//
// Locations (Load):
//
//	plain path or file://…     local file
//	s3://bucket/key            S3Store (aws-sdk-go-v2)
//	minio://bucket/key         MinioStore (minio-go)
//	sql:<query>                Loader.DB (lib/pq via OpenPostgres)
package source
