package commands

import (
	"testing"

	"github.com/burgrp-go/seqbus/internal/identity"
	"github.com/stretchr/testify/require"
)

func TestResolveInstanceByName(t *testing.T) {
	id, err := resolveInstance(identity.Default(), "PONG")
	require.NoError(t, err)
	require.Equal(t, uint32(81), id)
}

func TestResolveInstanceByNumericID(t *testing.T) {
	id, err := resolveInstance(identity.Default(), "42")
	require.NoError(t, err)
	require.Equal(t, uint32(42), id)
}

func TestResolveInstanceRejectsGarbage(t *testing.T) {
	_, err := resolveInstance(identity.Default(), "not-a-name-or-id")
	require.Error(t, err)
}
