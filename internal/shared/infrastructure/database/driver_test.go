package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDriver(t *testing.T) {
	tests := []struct {
		name    string
		want    Driver
		wantErr bool
	}{
		{name: "postgres", want: DriverPostgres},
		{name: "PostgreSQL", want: DriverPostgres},
		{name: " pg ", want: DriverPostgres},
		{name: "sqlite", want: DriverSQLite},
		{name: "sqlite3", want: DriverSQLite},
		{name: "redis", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDriver(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownDriver)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectDriver(t *testing.T) {
	tests := []struct {
		url  string
		want Driver
	}{
		{url: "", want: DriverSQLite},
		{url: "postgres://app@db:5432/lifecycles", want: DriverPostgres},
		{url: "POSTGRESQL://app@db/lifecycles", want: DriverPostgres},
		{url: "/var/lib/lifecycles/lifecycles.db", want: DriverSQLite},
		{url: ":memory:", want: DriverSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDriver(tt.url))
		})
	}
}

func TestDriver_Rebind(t *testing.T) {
	query := `INSERT INTO lifecycles (name, note) VALUES (?, 'why?') ON CONFLICT (name) DO UPDATE SET position = ?`

	assert.Equal(t, query, DriverSQLite.Rebind(query))
	assert.Equal(t,
		`INSERT INTO lifecycles (name, note) VALUES ($1, 'why?') ON CONFLICT (name) DO UPDATE SET position = $2`,
		DriverPostgres.Rebind(query),
	)
}

func TestOpen_UnregisteredDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: Driver("oracle")})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestOpen_UsesRegisteredOpener(t *testing.T) {
	const fake Driver = "fake"
	var got Config
	Register(fake, func(_ context.Context, cfg Config) (Connection, error) {
		got = cfg
		return nil, nil
	})

	_, err := Open(context.Background(), Config{Driver: fake, MaxConns: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, got.MaxConns)
}
