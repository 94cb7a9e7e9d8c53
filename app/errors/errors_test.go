// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package errors_test

import (
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
)

func TestComparable(t *testing.T) {
	require.False(t, reflect.TypeOf(errors.New("x")).Comparable())
}

func TestIs(t *testing.T) {
	errX := errors.New("x")

	err1 := errors.New("1", z.Str("1", "1"))
	err11 := errors.Wrap(err1, "w1")
	err111 := errors.Wrap(err11, "w2")

	require.True(t, errors.Is(err1, err1))
	require.True(t, errors.Is(err11, err1))
	require.True(t, errors.Is(err111, err1))
	require.False(t, errors.Is(err1, err11))
	require.True(t, errors.Is(err111, err11))
	require.False(t, errors.Is(err111, errX))

	errIO1 := errors.Wrap(io.EOF, "w1")
	errIO11 := errors.Wrap(errIO1, "w1")

	require.True(t, errors.Is(errIO1, io.EOF))
	require.True(t, errors.Is(errIO11, io.EOF))
	require.False(t, errors.Is(io.EOF, errIO1))
}

func TestSentinel(t *testing.T) {
	sentinel := errors.NewSentinel("not found")
	wrapped := errors.Wrap(sentinel, "lookup failed", z.Str("key", "value"))

	require.True(t, errors.Is(wrapped, sentinel))
	require.ErrorContains(t, wrapped, "lookup failed: not found")
	require.Len(t, z.Fields(wrapped), 1)
}

func TestWrapFieldsMerged(t *testing.T) {
	inner := errors.New("inner", z.Str("a", "1"))
	outer := errors.Wrap(inner, "outer", z.Str("b", "2"))

	require.Len(t, z.Fields(outer), 2)
	require.ErrorContains(t, outer, "outer: inner")
}
