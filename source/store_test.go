// SPDX-License-Identifier: MIT

package source_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcorr/source"
)

type memStore map[string][]byte

func (m memStore) Fetch(_ context.Context, bucket, key string) ([]byte, error) {
	data, ok := m[bucket+"/"+key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return data, nil
}

func TestParseLocation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    source.Location
		wantErr bool
	}{
		{in: "data/cars.csv", want: source.Location{Scheme: source.SchemeFile, Key: "data/cars.csv"}},
		{in: "file:///tmp/cars.csv", want: source.Location{Scheme: source.SchemeFile, Key: "/tmp/cars.csv"}},
		{in: "s3://lab/runs/cars.csv.zst", want: source.Location{Scheme: source.SchemeS3, Bucket: "lab", Key: "runs/cars.csv.zst"}},
		{in: "minio://lab/cars.tsv", want: source.Location{Scheme: source.SchemeMinio, Bucket: "lab", Key: "cars.tsv"}},
		{in: "sql: SELECT * FROM runs", want: source.Location{Scheme: source.SchemeSQL, Key: "SELECT * FROM runs"}},
		{in: "sql:  ", wantErr: true},
		{in: "", wantErr: true},
		{in: "s3://lab", wantErr: true},
		{in: "s3:///key", wantErr: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := source.ParseLocation(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, source.ErrInvalidLocation)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLoader_ObjectStores(t *testing.T) {
	t.Parallel()

	var zbuf bytes.Buffer
	zw, err := zstd.NewWriter(&zbuf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(carsCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var l source.Loader
	l.Register(source.SchemeS3, memStore{"lab/cars.csv.zst": zbuf.Bytes()})
	l.Register(source.SchemeMinio, memStore{"lab/cars.csv": []byte(carsCSV)})

	for _, loc := range []string{"s3://lab/cars.csv.zst", "minio://lab/cars.csv"} {
		tb, err := l.Load(context.Background(), loc, source.WithKey("model"))
		require.NoError(t, err, loc)
		requireCars(t, tb)
	}

	_, err = l.Load(context.Background(), "gs://lab/cars.csv")
	require.ErrorIs(t, err, source.ErrUnknownScheme)

	_, err = l.Load(context.Background(), "s3://lab/missing.csv")
	require.Error(t, err)
}

func TestDialMinio_NoRequest(t *testing.T) {
	t.Parallel()

	store, err := source.DialMinio("localhost:9000", "access", "secret", false)
	require.NoError(t, err)
	require.NotNil(t, store)
}
