// internal/bridge/intent.go
package bridge

import (
	"shopbridge/internal/jobs"
	"shopbridge/pkg/tenants"
	"shopbridge/pkg/validate"
)

// jobRoute binds a sync intent to an external job invocation. toggle_auto is
// absent on purpose: it is handled locally and never leaves the service.
type jobRoute struct {
	function string
	payload  map[string]any
	mark     tenants.SyncMark
}

var jobRoutes = map[validate.Intent]jobRoute{
	validate.IntentPull: {
		function: jobs.FnPullProducts,
		mark:     tenants.MarkPull,
	},
	validate.IntentPushChanged: {
		function: jobs.FnPushProducts,
		payload:  map[string]any{"mode": "changed"},
		mark:     tenants.MarkPush,
	},
	validate.IntentPushAll: {
		function: jobs.FnPushProducts,
		payload:  map[string]any{"mode": "all", "force": true},
		mark:     tenants.MarkPush,
	},
}
