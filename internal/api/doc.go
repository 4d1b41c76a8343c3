// Package api exposes digest runs over a small HTTP JSON surface. POST
// /api/runs launches a pipeline run in the background and returns its id;
// the run store backs the listing and status endpoints.
package api
