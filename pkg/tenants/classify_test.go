package tenants

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbridge/pkg/faults"
)

func TestClassifyPgCodes(t *testing.T) {
	cases := []struct {
		code string
		want faults.Type
	}{
		{"3F000", faults.SchemaNotExposed},
		{"42501", faults.PermissionDenied},
		{"28P01", faults.PermissionDenied},
		{"28000", faults.PermissionDenied},
		{"42P01", faults.TableNotFound},
	}
	for _, tc := range cases {
		f := Classify(&pgconn.PgError{Code: tc.code, Message: "secret vendor detail"})
		require.NotNil(t, f, tc.code)
		assert.Equal(t, tc.want, f.Type, tc.code)
		assert.NotEmpty(t, f.Message)
		assert.NotEmpty(t, f.Troubleshooting)
		// Vendor error text must never surface to callers.
		assert.NotContains(t, f.Message, "secret vendor detail")
	}
}

func TestClassifyUnmappedCodeIsUnknown(t *testing.T) {
	f := Classify(&pgconn.PgError{Code: "XX000", Message: "internal panic detail"})
	require.NotNil(t, f)
	assert.Equal(t, faults.Unknown, f.Type)
	assert.NotContains(t, f.Message, "internal panic detail")
}

func TestClassifyNetworkErrors(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	f := Classify(fmt.Errorf("query: %w", opErr))
	require.NotNil(t, f)
	assert.Equal(t, faults.NetworkError, f.Type)
	assert.Equal(t, 503, f.Status)
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassifyOpaqueErrorIsUnknown(t *testing.T) {
	f := Classify(errors.New("something odd"))
	require.NotNil(t, f)
	assert.Equal(t, faults.Unknown, f.Type)
	assert.NotContains(t, f.Message, "something odd")
}
