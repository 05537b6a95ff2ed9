package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sitebookify/sitebookify/internal/apperr"
)

func TestStartJobRequest_Validate(t *testing.T) {
	t.Run("rejects neither url nor query", func(t *testing.T) {
		req := &StartJobRequest{}
		err := req.Validate()
		require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	})

	t.Run("rejects both url and query", func(t *testing.T) {
		req := &StartJobRequest{URL: "http://example.com/", Query: "docs about foo"}
		err := req.Validate()
		require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	})

	t.Run("accepts url only", func(t *testing.T) {
		req := &StartJobRequest{URL: "http://example.com/"}
		require.NoError(t, req.Validate())
	})

	t.Run("accepts query only", func(t *testing.T) {
		req := &StartJobRequest{Query: "docs about foo"}
		require.NoError(t, req.Validate())
	})

	t.Run("rejects malformed url", func(t *testing.T) {
		req := &StartJobRequest{URL: "not-a-url"}
		err := req.Validate()
		require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	})

	t.Run("rejects negative numeric knobs", func(t *testing.T) {
		req := &StartJobRequest{URL: "http://example.com/", MaxPages: -1}
		err := req.Validate()
		require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	})
}
