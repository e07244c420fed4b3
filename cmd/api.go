package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/trax/internal/gateway"
	"github.com/desertthunder/trax/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet performs a direct GET against the gateway and prints the response.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: request path", shared.ErrMissingArgument)
	}

	r.logger.Infof("GET %v", path)

	resp, err := r.client.Request(ctx, path, gateway.RequestOptions{
		Method:   http.MethodGet,
		SkipAuth: cmd.Bool("no-auth"),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.IsJSON && cmd.Bool("json") {
		return r.writeJSON(resp.Value, true)
	}

	return r.writePlain("%s\n", resp.Raw)
}

// APIPost performs a direct POST with a JSON body against the gateway.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: request path", shared.ErrMissingArgument)
	}

	data := cmd.String("data")
	if !json.Valid([]byte(data)) {
		return fmt.Errorf("%w: body must be valid JSON", shared.ErrInvalidInput)
	}

	r.logger.Infof("POST %v", path)

	resp, err := r.client.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.IsJSON {
		return r.writeJSON(resp.Value, true)
	}

	return r.writePlain("%s\n", resp.Raw)
}
