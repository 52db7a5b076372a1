package tenants

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"shopbridge/pkg/faults"
)

// pgFault maps a Postgres error code to a classified fault. Classification is
// a table lookup on SQLSTATE codes, never substring matching on vendor
// message text; unmapped codes fall through to Unknown.
type pgFault struct {
	typ     faults.Type
	status  int
	message string
	tip     string
}

var pgFaultsByCode = map[string]pgFault{
	// invalid_schema_name: the API schema holding the sync tables is not
	// visible to the service role.
	"3F000": {faults.SchemaNotExposed, http.StatusInternalServerError,
		"the backing store schema is not exposed to the service credential",
		"expose the schema containing shop_tenant_links and sync_settings to the service role"},
	// insufficient_privilege
	"42501": {faults.PermissionDenied, http.StatusInternalServerError,
		"the service credential lacks permission on the sync tables",
		"grant SELECT on shop_tenant_links and SELECT/INSERT/UPDATE on sync_settings to the service role"},
	// invalid_password / invalid_authorization_specification
	"28P01": {faults.PermissionDenied, http.StatusInternalServerError,
		"the backing store rejected the service credential",
		"check DATABASE_URL and rotate the service credential if it expired"},
	"28000": {faults.PermissionDenied, http.StatusInternalServerError,
		"the backing store rejected the service credential",
		"check DATABASE_URL and rotate the service credential if it expired"},
	// undefined_table
	"42P01": {faults.TableNotFound, http.StatusInternalServerError,
		"a required sync table does not exist in the backing store",
		"run the schema migration (EnsureSchema) against the backing store"},
}

// Classify turns a backing-store error into a structured fault. Operational
// failures must stay distinguishable from "shop not linked": the latter never
// reaches this function.
func Classify(err error) *faults.Fault {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if f, ok := pgFaultsByCode[pgErr.Code]; ok {
			return &faults.Fault{Type: f.typ, Status: f.status, Message: f.message, Troubleshooting: f.tip}
		}
		return &faults.Fault{
			Type:            faults.Unknown,
			Status:          http.StatusInternalServerError,
			Message:         "the backing store reported an unexpected error",
			Troubleshooting: "inspect service logs for SQLSTATE " + pgErr.Code,
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &faults.Fault{
			Type:            faults.NetworkError,
			Status:          http.StatusServiceUnavailable,
			Message:         "could not reach the backing store",
			Troubleshooting: "verify the backing store endpoint is up and reachable from this service",
		}
	}
	return &faults.Fault{
		Type:    faults.Unknown,
		Status:  http.StatusInternalServerError,
		Message: "unexpected backing store error",
	}
}
