package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/shared"
)

// APIGet makes a direct GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	return r.apiCall(ctx, cmd, http.MethodGet, nil)
}

// APIPost makes a direct POST request with a JSON body
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	data := cmd.String("data")
	if data == "" {
		data = "{}"
	}

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	return r.apiCall(ctx, cmd, http.MethodPost, []byte(data))
}

// APIDelete makes a direct DELETE request
func (r *Runner) APIDelete(ctx context.Context, cmd *cli.Command) error {
	return r.apiCall(ctx, cmd, http.MethodDelete, nil)
}

// apiCall sends the stored key, if any, and prints the response body.
func (r *Runner) apiCall(ctx context.Context, cmd *cli.Command, method string, body []byte) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var s models.Session
	if !cmd.Bool("anonymous") {
		stored, err := r.store.Get(ctx)
		if err != nil {
			return err
		}
		s = stored
	}

	r.logger.Info(method+" request", "path", path, "authenticated", s.Valid())

	resp, err := r.api.Do(ctx, method, path, s, body)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.IsJSON {
		if err := r.writeJSON(resp.JSONData, !cmd.Bool("raw")); err != nil {
			return err
		}
	} else {
		if err := r.writePlain("%s\n", resp.Body); err != nil {
			return err
		}
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}
