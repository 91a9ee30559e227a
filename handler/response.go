package handler

import (
	"encoding/json"
	"net/http"
)

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON renders v with status.
func JSON(status int, v any) Response {
	return jsonResponse{status: status, body: v}
}

// OK renders v with 200.
func OK(v any) Response { return JSON(http.StatusOK, v) }

// Created renders v with 201.
func Created(v any) Response { return JSON(http.StatusCreated, v) }

type emptyResponse struct{ status int }

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty renders 204 with no body.
func Empty() Response { return emptyResponse{status: http.StatusNoContent} }

type errorResponse struct{ err error }

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error { return e.err }

// Error defers err to the error handler configured on Wrap.
func Error(err error) Response { return errorResponse{err: err} }
