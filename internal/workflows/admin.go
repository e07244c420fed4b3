package workflows

import (
	"context"
	"fmt"

	"github.com/desertthunder/trax/internal/shared"
)

// EndpointResult records a single failed endpoint fetch during a dump.
type EndpointResult struct {
	Endpoint string
	Error    error
}

// AdminDump contains the data visible to the admin console.
type AdminDump struct {
	Health any              // gateway health status
	Users  any              // registered users
	Songs  any              // catalog songs
	Jobs   any              // import jobs
	Errors []EndpointResult // failed endpoint fetches
}

type dumpEndpoint struct {
	name   string
	path   string
	target *any
}

// DumpAdmin fetches every admin console endpoint, collecting per-endpoint
// failures instead of aborting on the first one. The gateway rejects the
// admin routes for non-admin accounts; those rejections land in Errors like
// any other failure.
func (c *Coordinator) DumpAdmin(ctx context.Context) (*AdminDump, error) {
	if !c.guard.RequireAuth() {
		return nil, shared.ErrNotAuthenticated
	}

	result := &AdminDump{Errors: []EndpointResult{}}

	endpoints := []dumpEndpoint{
		{name: "health", path: "/health", target: &result.Health},
		{name: "users", path: "/admin/users", target: &result.Users},
		{name: "songs", path: "/admin/songs", target: &result.Songs},
		{name: "jobs", path: "/admin/jobs", target: &result.Jobs},
	}

	for _, endpoint := range endpoints {
		c.logger.Debug("fetching", "endpoint", endpoint.path)

		resp, err := c.client.Get(ctx, endpoint.path)
		if err != nil {
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Error:    fmt.Errorf("%s: %w", endpoint.name, err),
			})
			continue
		}
		*endpoint.target = resp.Value
	}

	return result, nil
}
